// Package transaction defines the unsigned transaction handed to a signing
// ceremony. The ceremony only needs its hash and its public key randomness;
// the payload is opaque.
package transaction

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/f3rmion/fy-multisig/group"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// Version is the first byte of an encoded unsigned transaction.
const Version byte = 1

// hashPersonalization separates transaction hashes from every other
// BLAKE2b use in the module.
var hashPersonalization = []byte("FY-MULTISIG-TxHash")

// ErrMalformed is returned when decoding an invalid unsigned transaction.
var ErrMalformed = errors.New("transaction: malformed unsigned transaction")

// UnsignedTransaction is a payload plus the public key randomness the
// signature will be randomized with.
//
// Encoding: version (1) || randomness (scalar) || len (u32 BE) || payload.
type UnsignedTransaction struct {
	randomness group.Scalar
	payload    []byte
}

// New creates an unsigned transaction with fresh randomness.
func New(g group.Group, r io.Reader, payload []byte) (*UnsignedTransaction, error) {
	a, err := g.RandomScalar(r)
	if err != nil {
		return nil, errors.Wrap(err, "generating public key randomness")
	}
	return &UnsignedTransaction{
		randomness: a,
		payload:    append([]byte(nil), payload...),
	}, nil
}

// Decode parses an encoded unsigned transaction.
func Decode(g group.Group, b []byte) (*UnsignedTransaction, error) {
	n := g.ScalarSize()
	if len(b) < 1+n+4 {
		return nil, errors.Wrapf(ErrMalformed, "length %d", len(b))
	}
	if b[0] != Version {
		return nil, errors.Wrapf(ErrMalformed, "version %d", b[0])
	}
	a, err := g.NewScalar().SetBytes(b[1 : 1+n])
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	size := binary.BigEndian.Uint32(b[1+n : 1+n+4])
	rest := b[1+n+4:]
	if uint64(size) != uint64(len(rest)) {
		return nil, errors.Wrapf(ErrMalformed, "payload length %d, have %d", size, len(rest))
	}
	return &UnsignedTransaction{
		randomness: a,
		payload:    append([]byte(nil), rest...),
	}, nil
}

// DecodeHex is Decode for hex input, the form used on every external
// surface.
func DecodeHex(g group.Group, s string) (*UnsignedTransaction, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "not hex")
	}
	return Decode(g, b)
}

// Bytes returns the encoding of the transaction.
func (tx *UnsignedTransaction) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteByte(Version)
	buf.Write(tx.randomness.Bytes())
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(tx.payload)))
	buf.Write(tx.payload)
	return buf.Bytes()
}

// Hex returns the hex encoding of Bytes.
func (tx *UnsignedTransaction) Hex() string {
	return hex.EncodeToString(tx.Bytes())
}

// Hash returns the 32-byte transaction hash that gets signed.
func (tx *UnsignedTransaction) Hash() []byte {
	h, _ := blake2b.New256(nil)
	h.Write(hashPersonalization)
	h.Write(tx.Bytes())
	return h.Sum(nil)
}

// PublicKeyRandomness returns the randomizer applied to the group key.
func (tx *UnsignedTransaction) PublicKeyRandomness() group.Scalar {
	return tx.randomness
}

// Payload returns a copy of the opaque payload.
func (tx *UnsignedTransaction) Payload() []byte {
	return append([]byte(nil), tx.payload...)
}
