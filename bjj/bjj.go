package bjj

import (
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"github.com/f3rmion/fy-multisig/group"
	"github.com/pkg/errors"
)

const (
	// ScalarSize is the length of an encoded scalar.
	ScalarSize = 32
	// PointSize is the length of a compressed point.
	PointSize = 32
)

var (
	// ErrInvalidScalar is returned when decoding a non-canonical scalar.
	ErrInvalidScalar = errors.New("bjj: invalid scalar encoding")
	// ErrInvalidPoint is returned when decoding bytes that are not a point
	// of the prime-order subgroup.
	ErrInvalidPoint = errors.New("bjj: invalid point encoding")
)

// curveOrder is the Baby Jubjub subgroup order.
// This is distinct from the BN254 scalar field order (Fr).
var curveOrder *big.Int

func init() {
	curve := twistededwards.GetEdwardsCurve()
	curveOrder = new(big.Int).Set(&curve.Order)
}

// Scalar is an element of the Baby Jubjub scalar field, kept reduced
// modulo the subgroup order.
type Scalar struct {
	inner *big.Int
}

func newScalar() *Scalar {
	return &Scalar{inner: new(big.Int)}
}

func (s *Scalar) reduce() {
	s.inner.Mod(s.inner, curveOrder)
}

// Add sets s to a + b (mod curveOrder) and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Sub sets s to a - b (mod curveOrder) and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Sub(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Mul sets s to a * b (mod curveOrder) and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Negate sets s to -a (mod curveOrder) and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Neg(a.(*Scalar).inner)
	s.reduce()
	return s
}

// Invert sets s to a^(-1) (mod curveOrder) and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.IsZero() {
		return nil, errors.New("bjj: cannot invert zero scalar")
	}
	s.inner.ModInverse(aScalar.inner, curveOrder)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(a.(*Scalar).inner)
	return s
}

// Bytes returns the scalar as a 32-byte big-endian value.
func (s *Scalar) Bytes() []byte {
	out := make([]byte, ScalarSize)
	s.inner.FillBytes(out)
	return out
}

// SetBytes decodes a 32-byte big-endian scalar. Values not below the
// subgroup order are rejected rather than reduced.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != ScalarSize {
		return nil, errors.Wrapf(ErrInvalidScalar, "length %d", len(data))
	}
	v := new(big.Int).SetBytes(data)
	if v.Cmp(curveOrder) >= 0 {
		return nil, errors.Wrap(ErrInvalidScalar, "not reduced")
	}
	s.inner.Set(v)
	return s, nil
}

// SetBytesWide sets s to the big-endian value of data modulo the order.
func (s *Scalar) SetBytesWide(data []byte) group.Scalar {
	s.inner.SetBytes(data)
	s.reduce()
	return s
}

// Equal reports whether s and b represent the same scalar value.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Cmp(b.(*Scalar).inner) == 0
}

// IsZero reports whether s is the zero scalar.
func (s *Scalar) IsZero() bool {
	return s.inner.Sign() == 0
}

// Point is an affine point on the Baby Jubjub curve. The identity
// element is (0, 1).
type Point struct {
	inner twistededwards.PointAffine
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var negB twistededwards.PointAffine
	negB.Neg(&b.(*Point).inner)
	p.inner.Add(&a.(*Point).inner, &negB)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Neg(&a.(*Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMultiplication(&q.(*Point).inner, s.(*Scalar).inner)
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*Point).inner)
	return p
}

// Bytes returns the 32-byte compressed encoding.
func (p *Point) Bytes() []byte {
	b := p.inner.Bytes()
	return b[:]
}

// SetBytes decodes a compressed point. The point must lie on the curve
// and in the prime-order subgroup; small-order components would let a
// peer bias the group commitment.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != PointSize {
		return nil, errors.Wrapf(ErrInvalidPoint, "length %d", len(data))
	}
	var q twistededwards.PointAffine
	if _, err := q.SetBytes(data); err != nil {
		return nil, errors.Wrap(ErrInvalidPoint, err.Error())
	}
	if !q.IsOnCurve() {
		return nil, errors.Wrap(ErrInvalidPoint, "not on curve")
	}
	var check twistededwards.PointAffine
	check.ScalarMultiplication(&q, curveOrder)
	if !check.IsZero() {
		return nil, errors.Wrap(ErrInvalidPoint, "not in prime-order subgroup")
	}
	p.inner.Set(&q)
	return p, nil
}

// Equal reports whether p and b represent the same curve point.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(&b.(*Point).inner)
}

// IsIdentity reports whether p is the identity element (0, 1).
func (p *Point) IsIdentity() bool {
	return p.inner.IsZero()
}

// BJJ implements [group.Group] for the Baby Jubjub curve.
type BJJ struct{}

var _ group.Group = (*BJJ)(nil)

// NewScalar returns a new zero scalar.
func (g *BJJ) NewScalar() group.Scalar {
	return newScalar()
}

// NewPoint returns the identity element (0, 1).
func (g *BJJ) NewPoint() group.Point {
	var p Point
	p.inner.X.SetZero()
	p.inner.Y.SetOne()
	return &p
}

// Generator returns the standard base point for the Baby Jubjub curve.
func (g *BJJ) Generator() group.Point {
	var p Point
	p.inner = twistededwards.GetEdwardsCurve().Base
	return &p
}

// RandomScalar reads 64 bytes from r and reduces them, which keeps the
// modulo bias negligible. Zero is never returned.
func (g *BJJ) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [64]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, errors.Wrap(err, "bjj: reading randomness")
		}
		s := newScalar()
		s.SetBytesWide(buf[:])
		if !s.IsZero() {
			return s, nil
		}
	}
}

// ScalarSize returns the encoded scalar length.
func (g *BJJ) ScalarSize() int { return ScalarSize }

// PointSize returns the encoded point length.
func (g *BJJ) PointSize() int { return PointSize }

// Order returns the order of the prime-order subgroup, big-endian.
func (g *BJJ) Order() []byte {
	return curveOrder.Bytes()
}
