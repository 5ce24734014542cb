package bjj

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func TestScalar(t *testing.T) {
	g := &BJJ{}

	t.Run("AddSub", func(t *testing.T) {
		a, _ := g.RandomScalar(rand.Reader)
		b, _ := g.RandomScalar(rand.Reader)

		sum := g.NewScalar().Add(a, b)
		diff := g.NewScalar().Sub(sum, b)

		if !diff.Equal(a) {
			t.Error("(a+b)-b != a")
		}
	})

	t.Run("MulInvert", func(t *testing.T) {
		a, _ := g.RandomScalar(rand.Reader)
		aInv, err := g.NewScalar().Invert(a)
		if err != nil {
			t.Fatal(err)
		}

		// a * a^-1 * b == b
		b, _ := g.RandomScalar(rand.Reader)
		result := g.NewScalar().Mul(g.NewScalar().Mul(a, aInv), b)
		if !result.Equal(b) {
			t.Error("a*a^-1 != 1")
		}
	})

	t.Run("InvertZeroFails", func(t *testing.T) {
		if _, err := g.NewScalar().Invert(g.NewScalar()); err == nil {
			t.Error("expected error inverting zero")
		}
	})

	t.Run("Negate", func(t *testing.T) {
		a, _ := g.RandomScalar(rand.Reader)
		result := g.NewScalar().Add(a, g.NewScalar().Negate(a))
		if !result.IsZero() {
			t.Error("a + (-a) != 0")
		}
	})

	t.Run("BytesRoundtrip", func(t *testing.T) {
		a, _ := g.RandomScalar(rand.Reader)

		enc := a.Bytes()
		if len(enc) != ScalarSize {
			t.Fatalf("encoded length %d", len(enc))
		}
		restored, err := g.NewScalar().SetBytes(enc)
		if err != nil {
			t.Fatal(err)
		}
		if !restored.Equal(a) {
			t.Error("scalar bytes roundtrip failed")
		}
	})

	t.Run("SmallValueIsPadded", func(t *testing.T) {
		one := g.NewScalar().SetBytesWide([]byte{1})
		enc := one.Bytes()
		if len(enc) != ScalarSize || enc[ScalarSize-1] != 1 {
			t.Errorf("unexpected encoding %x", enc)
		}
	})

	t.Run("RejectsUnreduced", func(t *testing.T) {
		order := make([]byte, ScalarSize)
		copy(order[ScalarSize-len(g.Order()):], g.Order())
		_, err := g.NewScalar().SetBytes(order)
		if !errors.Is(err, ErrInvalidScalar) {
			t.Errorf("expected ErrInvalidScalar, got %v", err)
		}
	})

	t.Run("RejectsWrongLength", func(t *testing.T) {
		if _, err := g.NewScalar().SetBytes([]byte{1, 2, 3}); !errors.Is(err, ErrInvalidScalar) {
			t.Errorf("expected ErrInvalidScalar, got %v", err)
		}
	})

	t.Run("WideReduces", func(t *testing.T) {
		wide := bytes.Repeat([]byte{0xff}, 64)
		s := g.NewScalar().SetBytesWide(wide)
		if _, err := g.NewScalar().SetBytes(s.Bytes()); err != nil {
			t.Errorf("reduced scalar should decode: %v", err)
		}
	})

	t.Run("RandomIsNonZero", func(t *testing.T) {
		for i := 0; i < 16; i++ {
			s, err := g.RandomScalar(rand.Reader)
			if err != nil {
				t.Fatal(err)
			}
			if s.IsZero() {
				t.Fatal("random scalar is zero")
			}
		}
	})

	t.Run("Equal", func(t *testing.T) {
		a, _ := g.RandomScalar(rand.Reader)
		if !a.Equal(g.NewScalar().Set(a)) {
			t.Error("copied scalar should equal original")
		}
		if a.Equal(g.NewScalar().Negate(a)) {
			t.Error("a should not equal -a")
		}
	})
}

func TestPoint(t *testing.T) {
	g := &BJJ{}

	t.Run("AddSub", func(t *testing.T) {
		s1, _ := g.RandomScalar(rand.Reader)
		s2, _ := g.RandomScalar(rand.Reader)
		P := g.NewPoint().ScalarMult(s1, g.Generator())
		Q := g.NewPoint().ScalarMult(s2, g.Generator())

		diff := g.NewPoint().Sub(g.NewPoint().Add(P, Q), Q)
		if !diff.Equal(P) {
			t.Error("(P+Q)-Q != P")
		}
	})

	t.Run("Negate", func(t *testing.T) {
		s, _ := g.RandomScalar(rand.Reader)
		P := g.NewPoint().ScalarMult(s, g.Generator())

		if !g.NewPoint().Add(P, g.NewPoint().Negate(P)).IsIdentity() {
			t.Error("P + (-P) != identity")
		}
	})

	t.Run("BytesRoundtrip", func(t *testing.T) {
		s, _ := g.RandomScalar(rand.Reader)
		P := g.NewPoint().ScalarMult(s, g.Generator())

		enc := P.Bytes()
		if len(enc) != PointSize {
			t.Fatalf("encoded length %d", len(enc))
		}
		restored, err := g.NewPoint().SetBytes(enc)
		if err != nil {
			t.Fatal(err)
		}
		if !restored.Equal(P) {
			t.Error("point bytes roundtrip failed")
		}
	})

	t.Run("RejectsWrongLength", func(t *testing.T) {
		if _, err := g.NewPoint().SetBytes(make([]byte, 31)); !errors.Is(err, ErrInvalidPoint) {
			t.Errorf("expected ErrInvalidPoint, got %v", err)
		}
	})

	t.Run("IsIdentity", func(t *testing.T) {
		if !g.NewPoint().IsIdentity() {
			t.Error("new point should be identity")
		}
		if g.Generator().IsIdentity() {
			t.Error("generator should not be identity")
		}
	})
}
