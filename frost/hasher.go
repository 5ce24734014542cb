package frost

import (
	"crypto/sha256"

	"github.com/f3rmion/fy-multisig/group"
	"golang.org/x/crypto/blake2b"
)

// Hasher defines the hash operations required for multisig signing.
// Different implementations provide different hash functions and domain
// separation schemes.
type Hasher interface {
	// H1 computes the binding factor for a signer.
	H1(g group.Group, msg, encCommitList, signerID []byte) group.Scalar

	// H2 computes the Schnorr challenge from R, the verifying key and the
	// message.
	H2(g group.Group, R, Y, msg []byte) group.Scalar

	// H3 derives a nonce or proof scalar from a secret seed, a label and
	// additional data.
	H3(g group.Group, seed, label, msg []byte) group.Scalar

	// H4 hashes a message for signing.
	H4(g group.Group, msg []byte) []byte

	// H5 hashes the commitment list.
	H5(g group.Group, encCommitList []byte) []byte

	// HID maps an encoded identity to its Shamir identifier.
	HID(g group.Group, identity []byte) group.Scalar
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

func (h *SHA256Hasher) hash(data ...[]byte) []byte {
	hasher := sha256.New()
	for _, d := range data {
		hasher.Write(d)
	}
	return hasher.Sum(nil)
}

func (h *SHA256Hasher) hashToScalar(g group.Group, data ...[]byte) group.Scalar {
	return g.NewScalar().SetBytesWide(h.hash(data...))
}

// H1 implements Hasher.H1.
func (h *SHA256Hasher) H1(g group.Group, msg, encCommitList, signerID []byte) group.Scalar {
	return h.hashToScalar(g, []byte("rho"), msg, encCommitList, signerID)
}

// H2 implements Hasher.H2.
func (h *SHA256Hasher) H2(g group.Group, R, Y, msg []byte) group.Scalar {
	return h.hashToScalar(g, []byte("chal"), R, Y, msg)
}

// H3 implements Hasher.H3.
func (h *SHA256Hasher) H3(g group.Group, seed, label, msg []byte) group.Scalar {
	return h.hashToScalar(g, []byte("nonce"), seed, label, msg)
}

// H4 implements Hasher.H4.
func (h *SHA256Hasher) H4(g group.Group, msg []byte) []byte {
	return h.hash([]byte("msg"), msg)
}

// H5 implements Hasher.H5.
func (h *SHA256Hasher) H5(g group.Group, encCommitList []byte) []byte {
	return h.hash([]byte("com"), encCommitList)
}

// HID implements Hasher.HID.
func (h *SHA256Hasher) HID(g group.Group, identity []byte) group.Scalar {
	return h.hashToScalar(g, []byte("id"), identity)
}

// Blake2bHasher implements Hasher using Blake2b-512 with domain separation.
//
// Domain separation format: prefix + tag + input. Output is interpreted as
// little-endian before reducing mod the group order.
type Blake2bHasher struct {
	// Prefix is the domain separation prefix.
	Prefix string
}

// DefaultBlake2bPrefix is the prefix used by [NewBlake2bHasher].
const DefaultBlake2bPrefix = "FY-MULTISIG-BJJ-BLAKE512-v1"

// NewBlake2bHasher creates a Blake2bHasher with the default prefix.
func NewBlake2bHasher() *Blake2bHasher {
	return &Blake2bHasher{
		Prefix: DefaultBlake2bPrefix,
	}
}

func (h *Blake2bHasher) hash(tag string, data ...[]byte) []byte {
	hasher, _ := blake2b.New512(nil)
	hasher.Write([]byte(h.Prefix))
	hasher.Write([]byte(tag))
	for _, d := range data {
		hasher.Write(d)
	}
	return hasher.Sum(nil)
}

func (h *Blake2bHasher) hashToScalar(g group.Group, tag string, data ...[]byte) group.Scalar {
	digest := h.hash(tag, data...)

	reversed := make([]byte, len(digest))
	for i := range digest {
		reversed[i] = digest[len(digest)-1-i]
	}
	return g.NewScalar().SetBytesWide(reversed)
}

// H1 implements Hasher.H1 (binding factor computation).
func (h *Blake2bHasher) H1(g group.Group, msg, encCommitList, signerID []byte) group.Scalar {
	return h.hashToScalar(g, "rho", msg, encCommitList, signerID)
}

// H2 implements Hasher.H2 (Schnorr challenge).
func (h *Blake2bHasher) H2(g group.Group, R, Y, msg []byte) group.Scalar {
	return h.hashToScalar(g, "chal", R, Y, msg)
}

// H3 implements Hasher.H3 (nonce generation).
func (h *Blake2bHasher) H3(g group.Group, seed, label, msg []byte) group.Scalar {
	return h.hashToScalar(g, "nonce", seed, label, msg)
}

// H4 implements Hasher.H4 (message hashing).
func (h *Blake2bHasher) H4(g group.Group, msg []byte) []byte {
	return h.hash("msg", msg)
}

// H5 implements Hasher.H5 (commitment list hashing).
func (h *Blake2bHasher) H5(g group.Group, encCommitList []byte) []byte {
	return h.hash("com", encCommitList)
}

// HID implements Hasher.HID (identity to identifier).
func (h *Blake2bHasher) HID(g group.Group, identity []byte) group.Scalar {
	return h.hashToScalar(g, "id", identity)
}
