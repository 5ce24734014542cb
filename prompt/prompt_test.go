package prompt

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInput(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("  alice \nbob"), &out)

	v, err := term.Input(ctx, "Name")
	require.NoError(t, err)
	require.Equal(t, "alice", v)

	v, err = term.Input(ctx, "Peer #1")
	require.NoError(t, err)
	require.Equal(t, "bob", v)

	_, err = term.Input(ctx, "Peer #2")
	require.ErrorIs(t, err, io.EOF)

	require.Equal(t, "Name: Peer #1: Peer #2: ", out.String())
}

func TestInputCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	term := NewTerminal(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := term.Input(ctx, "Name")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDisplay(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(""), &out)
	require.NoError(t, term.Display("Identity", "abcd"))
	require.Contains(t, out.String(), "Identity\n====================\nabcd\n====================\n")
}
