package transaction

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/f3rmion/fy-multisig/bjj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsignedTransaction(t *testing.T) {
	g := &bjj.BJJ{}

	tx, err := New(g, rand.Reader, []byte("send 10 to bob"))
	require.NoError(t, err)

	decoded, err := DecodeHex(g, tx.Hex())
	require.NoError(t, err)

	assert.Equal(t, tx.Hash(), decoded.Hash(), "hash must survive encoding")
	assert.True(t, tx.PublicKeyRandomness().Equal(decoded.PublicKeyRandomness()))
	assert.Equal(t, []byte("send 10 to bob"), decoded.Payload())
	assert.Len(t, tx.Hash(), 32)
}

func TestHashDependsOnRandomness(t *testing.T) {
	g := &bjj.BJJ{}
	a, err := New(g, rand.Reader, []byte("same payload"))
	require.NoError(t, err)
	b, err := New(g, rand.Reader, []byte("same payload"))
	require.NoError(t, err)

	assert.False(t, bytes.Equal(a.Hash(), b.Hash()))
}

func TestDecodeRejectsMalformed(t *testing.T) {
	g := &bjj.BJJ{}
	tx, err := New(g, rand.Reader, []byte("payload"))
	require.NoError(t, err)
	enc := tx.Bytes()

	cases := map[string][]byte{
		"Empty":          nil,
		"Truncated":      enc[:len(enc)-1],
		"TrailingBytes":  append(append([]byte(nil), enc...), 0),
		"WrongVersion":   append([]byte{9}, enc[1:]...),
		"HeaderOnlyHalf": enc[:10],
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(g, b)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}

	t.Run("NotHex", func(t *testing.T) {
		_, err := DecodeHex(g, "xyz")
		assert.ErrorIs(t, err, ErrMalformed)
	})
}
