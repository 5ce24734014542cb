package group

import (
	"io"
)

// Scalar represents an element of the scalar field associated with a
// cryptographic group. Scalars are integers modulo the group order.
//
// Arithmetic methods use a mutable receiver pattern: they store the result
// in the receiver and return it.
type Scalar interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Scalar) Scalar
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Scalar) Scalar
	// Mul sets the receiver to a*b and returns it.
	Mul(a, b Scalar) Scalar
	// Negate sets the receiver to -a and returns it.
	Negate(a Scalar) Scalar
	// Invert sets the receiver to a^{-1} and returns it.
	// Returns an error if a is zero.
	Invert(a Scalar) (Scalar, error)
	// Set sets the receiver to a and returns it.
	Set(a Scalar) Scalar
	// Bytes returns the canonical fixed-size encoding of the scalar.
	Bytes() []byte
	// SetBytes decodes a canonical encoding produced by Bytes.
	// Encodings of the wrong length or not below the group order are
	// rejected, so it is safe to call on bytes received from peers.
	SetBytes(data []byte) (Scalar, error)
	// SetBytesWide sets the receiver to data (big-endian, any length)
	// reduced modulo the group order. It is meant for hash outputs.
	SetBytesWide(data []byte) Scalar
	// Equal reports whether the receiver equals b.
	Equal(b Scalar) bool
	// IsZero reports whether the receiver is zero.
	IsZero() bool
}

// Point represents an element of the prime-order group.
//
// Like [Scalar], all arithmetic methods use a mutable receiver pattern.
type Point interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Point) Point
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Point) Point
	// Negate sets the receiver to -a and returns it.
	Negate(a Point) Point
	// ScalarMult sets the receiver to s*p and returns it.
	ScalarMult(s Scalar, p Point) Point
	// Set sets the receiver to a and returns it.
	Set(a Point) Point
	// Bytes returns the canonical fixed-size encoding of the point.
	Bytes() []byte
	// SetBytes decodes an encoding produced by Bytes. Points that are not
	// on the curve or not in the prime-order subgroup are rejected.
	SetBytes(data []byte) (Point, error)
	// Equal reports whether the receiver equals b.
	Equal(b Point) bool
	// IsIdentity reports whether the receiver is the identity element.
	IsIdentity() bool
}

// Group is the factory for scalars and points of one curve.
//
// Example usage:
//
//	g := &bjj.BJJ{}
//	s, _ := g.RandomScalar(rand.Reader)
//	p := g.NewPoint().ScalarMult(s, g.Generator())
type Group interface {
	// NewScalar returns a new zero scalar.
	NewScalar() Scalar
	// NewPoint returns a new identity point.
	NewPoint() Point
	// Generator returns the group's base point.
	Generator() Point
	// RandomScalar returns a uniformly random non-zero scalar read from r.
	RandomScalar(r io.Reader) (Scalar, error)
	// ScalarSize is the length of Scalar.Bytes.
	ScalarSize() int
	// PointSize is the length of Point.Bytes.
	PointSize() int
	// Order returns the group order as a big-endian byte slice.
	Order() []byte
}
