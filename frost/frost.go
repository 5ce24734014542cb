package frost

import (
	"github.com/f3rmion/fy-multisig/group"
	"github.com/pkg/errors"
)

var (
	// ErrMalformed is returned by the decoders for truncated or
	// otherwise undecodable input.
	ErrMalformed = errors.New("frost: malformed encoding")
	// ErrInvalidIdentity is returned for identities with a bad version,
	// length or proof of possession.
	ErrInvalidIdentity = errors.New("frost: invalid identity")
	// ErrDuplicateSigner is returned when one identity appears twice in a
	// signer list, commitment list or dealer configuration.
	ErrDuplicateSigner = errors.New("frost: duplicate signer")
	// ErrUnknownSigner is returned when a commitment or share belongs to an
	// identity outside the signer list.
	ErrUnknownSigner = errors.New("frost: unknown signer")
	// ErrMissingCommitment is returned when the local commitment is not part
	// of the signing package, or does not match the local nonces.
	ErrMissingCommitment = errors.New("frost: own commitment missing from signing package")
	// ErrMessageMismatch is returned when the signing package was built for
	// a different transaction hash.
	ErrMessageMismatch = errors.New("frost: signing package message mismatch")
	// ErrTooFewSigners is returned when fewer than MinSigners participate.
	ErrTooFewSigners = errors.New("frost: not enough signers")
	// ErrInvalidShare is returned by Aggregate when a signature share does
	// not verify against the signer's verifying share.
	ErrInvalidShare = errors.New("frost: invalid signature share")
)

// FROST holds the group and hash suite. It carries no per-key state and is
// safe for concurrent use.
type FROST struct {
	group  group.Group
	hasher Hasher
}

// Option configures a FROST instance.
type Option func(*FROST)

// WithHasher replaces the default [Blake2bHasher].
func WithHasher(h Hasher) Option {
	return func(f *FROST) {
		f.hasher = h
	}
}

// New creates a FROST instance over g.
func New(g group.Group, opts ...Option) *FROST {
	f := &FROST{
		group:  g,
		hasher: NewBlake2bHasher(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Group returns the group the instance operates on.
func (f *FROST) Group() group.Group {
	return f.group
}

// KeyPackage is one participant's signing material, produced by
// [FROST.SplitSecret]. It never leaves the participant's wallet.
type KeyPackage struct {
	Identity       Identity
	Identifier     group.Scalar // HID(Identity), the Shamir x-coordinate
	SigningShare   group.Scalar // secret share
	VerifyingShare group.Point  // SigningShare * G
	VerifyingKey   group.Point  // group public key
	MinSigners     uint16
}

// PublicKeyPackage is the public half of a dealer split, shared by every
// participant and needed to aggregate.
type PublicKeyPackage struct {
	Identities      []Identity
	VerifyingShares []group.Point // aligned with Identities
	VerifyingKey    group.Point
	MinSigners      uint16
}

// VerifyingShare returns the verifying share registered for id.
func (p *PublicKeyPackage) VerifyingShare(id Identity) (group.Point, bool) {
	for i, known := range p.Identities {
		if known.Equal(id) {
			return p.VerifyingShares[i], true
		}
	}
	return nil, false
}

// Signature is a Schnorr signature.
type Signature struct {
	R group.Point
	Z group.Scalar
}

// RandomizedVerifyingKey returns vk + randomizer*G, the key a signature
// produced with that randomizer verifies under.
func (f *FROST) RandomizedVerifyingKey(vk group.Point, randomizer group.Scalar) group.Point {
	offset := f.group.NewPoint().ScalarMult(randomizer, f.group.Generator())
	return f.group.NewPoint().Add(vk, offset)
}

// Verify checks a Schnorr signature: z*G == R + c*Y.
func (f *FROST) Verify(message []byte, sig *Signature, verifyingKey group.Point) bool {
	c := f.hasher.H2(f.group, sig.R.Bytes(), verifyingKey.Bytes(), message)

	lhs := f.group.NewPoint().ScalarMult(sig.Z, f.group.Generator())
	cY := f.group.NewPoint().ScalarMult(c, verifyingKey)
	rhs := f.group.NewPoint().Add(sig.R, cY)

	return lhs.Equal(rhs)
}

func (f *FROST) evalPolynomial(coeffs []group.Scalar, x group.Scalar) group.Scalar {
	result := f.group.NewScalar().Set(coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		result = f.group.NewScalar().Mul(result, x)
		result = f.group.NewScalar().Add(result, coeffs[i])
	}
	return result
}

// lagrangeCoefficient evaluates the Lagrange basis polynomial of id over
// the given identifiers at zero.
func (f *FROST) lagrangeCoefficient(id group.Scalar, identifiers []group.Scalar) (group.Scalar, error) {
	one := f.group.NewScalar().SetBytesWide([]byte{1})
	num := f.group.NewScalar().Set(one)
	den := f.group.NewScalar().Set(one)

	for _, x := range identifiers {
		if x.Equal(id) {
			continue
		}
		num = f.group.NewScalar().Mul(num, x)
		den = f.group.NewScalar().Mul(den, f.group.NewScalar().Sub(x, id))
	}

	denInv, err := f.group.NewScalar().Invert(den)
	if err != nil {
		return nil, errors.Wrap(ErrDuplicateSigner, "identifiers collide")
	}
	return f.group.NewScalar().Mul(num, denInv), nil
}
