package frost

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/f3rmion/fy-multisig/group"
	"github.com/pkg/errors"
)

// IdentityVersion is the first byte of every encoded [Identity].
const IdentityVersion byte = 0x72

// Secret is a participant's long-lived multisig secret. The wallet stores
// it; only its [Identity] is ever shared.
type Secret struct {
	key group.Scalar
}

// Identity is the public ceremony identity of a participant:
//
//	version (1) || verifying key (point) || proof R (point) || proof z (scalar)
//
// The proof is a Schnorr signature by the secret over the verifying key,
// binding the identity to someone who holds the secret.
type Identity []byte

// Equal reports whether id and other encode the same identity.
func (id Identity) Equal(other Identity) bool {
	return bytes.Equal(id, other)
}

// Hex returns the hex encoding of the identity.
func (id Identity) Hex() string {
	return hex.EncodeToString(id)
}

// NewSecret generates a fresh multisig secret.
func (f *FROST) NewSecret(r io.Reader) (*Secret, error) {
	k, err := f.group.RandomScalar(r)
	if err != nil {
		return nil, errors.Wrap(err, "generating secret")
	}
	return &Secret{key: k}, nil
}

// DecodeSecret decodes a secret produced by [Secret.Bytes].
func (f *FROST) DecodeSecret(b []byte) (*Secret, error) {
	k, err := f.group.NewScalar().SetBytes(b)
	if err != nil {
		return nil, errors.Wrap(err, "decoding secret")
	}
	if k.IsZero() {
		return nil, errors.Wrap(ErrMalformed, "zero secret")
	}
	return &Secret{key: k}, nil
}

// Bytes encodes the secret.
func (s *Secret) Bytes() []byte {
	return s.key.Bytes()
}

// Identity derives the public identity of s. The proof nonce is derived
// from the secret, so the result is the same on every call.
func (f *FROST) Identity(s *Secret) Identity {
	vk := f.group.NewPoint().ScalarMult(s.key, f.group.Generator())
	vkBytes := vk.Bytes()

	k := f.hasher.H3(f.group, s.key.Bytes(), []byte("identity"), vkBytes)
	R := f.group.NewPoint().ScalarMult(k, f.group.Generator())
	c := f.hasher.H2(f.group, R.Bytes(), vkBytes, []byte("identity"))
	z := f.group.NewScalar().Add(k, f.group.NewScalar().Mul(c, s.key))

	var buf bytes.Buffer
	buf.WriteByte(IdentityVersion)
	buf.Write(vkBytes)
	buf.Write(R.Bytes())
	buf.Write(z.Bytes())
	return buf.Bytes()
}

func (f *FROST) identitySize() int {
	return 1 + 2*f.group.PointSize() + f.group.ScalarSize()
}

// ParseIdentity validates an encoded identity, including its proof of
// possession, and returns it.
func (f *FROST) ParseIdentity(b []byte) (Identity, error) {
	if _, err := f.identityKey(b); err != nil {
		return nil, err
	}
	return Identity(append([]byte(nil), b...)), nil
}

// ParseIdentityHex is [FROST.ParseIdentity] for hex input.
func (f *FROST) ParseIdentityHex(s string) (Identity, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidIdentity, "not hex")
	}
	return f.ParseIdentity(b)
}

// identityKey checks the identity and returns its verifying key.
func (f *FROST) identityKey(b []byte) (group.Point, error) {
	if len(b) != f.identitySize() {
		return nil, errors.Wrapf(ErrInvalidIdentity, "length %d", len(b))
	}
	if b[0] != IdentityVersion {
		return nil, errors.Wrapf(ErrInvalidIdentity, "version %#x", b[0])
	}
	ps := f.group.PointSize()
	vkBytes := b[1 : 1+ps]
	vk, err := f.group.NewPoint().SetBytes(vkBytes)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidIdentity, err.Error())
	}
	R, err := f.group.NewPoint().SetBytes(b[1+ps : 1+2*ps])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidIdentity, err.Error())
	}
	z, err := f.group.NewScalar().SetBytes(b[1+2*ps:])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidIdentity, err.Error())
	}

	c := f.hasher.H2(f.group, R.Bytes(), vkBytes, []byte("identity"))
	lhs := f.group.NewPoint().ScalarMult(z, f.group.Generator())
	rhs := f.group.NewPoint().Add(R, f.group.NewPoint().ScalarMult(c, vk))
	if !lhs.Equal(rhs) {
		return nil, errors.Wrap(ErrInvalidIdentity, "bad proof of possession")
	}
	return vk, nil
}

// Identifier returns the Shamir identifier of id.
func (f *FROST) Identifier(id Identity) group.Scalar {
	return f.hasher.HID(f.group, id)
}
