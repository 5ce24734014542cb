// Package group defines abstract interfaces for the prime-order groups
// used by the threshold signing code in package frost.
//
//   - [Scalar]: elements of the scalar field
//   - [Point]: elements of the group
//   - [Group]: factory methods and encoding sizes
//
// Operations set the receiver to the result and return it:
//
//	// a + b*c
//	result := g.NewScalar().Mul(b, c)
//	result = g.NewScalar().Add(a, result)
//
// # Decoding
//
// Every value exchanged during a ceremony crosses a trust boundary, so the
// decoding methods are strict: [Scalar.SetBytes] rejects non-canonical
// encodings and [Point.SetBytes] rejects points outside the prime-order
// subgroup. Hash outputs are turned into scalars with [Scalar.SetBytesWide],
// which reduces instead of rejecting.
//
// See the bjj package for the Baby Jubjub implementation.
package group
