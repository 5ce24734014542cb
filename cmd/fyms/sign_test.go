package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/f3rmion/fy-multisig/session"
	"github.com/stretchr/testify/require"
)

func TestSignRejectsSignerCountBeforeWallet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet", "wallet.json")

	app := newApp()
	app.Writer = io.Discard
	app.ErrWriter = io.Discard
	err := app.RunContext(context.Background(), []string{"fyms", "--wallet", path, "sign", "--num-signers", "1"})
	require.ErrorIs(t, err, session.ErrInvalidSignerCount)

	_, statErr := os.Stat(filepath.Dir(path))
	require.True(t, os.IsNotExist(statErr), "wallet directory created")
}
