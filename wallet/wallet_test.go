package wallet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/f3rmion/fy-multisig/bjj"
	"github.com/f3rmion/fy-multisig/frost"
	"github.com/stretchr/testify/require"
)

func newWallet(t *testing.T, store Store) *Wallet {
	t.Helper()
	w, err := Open(context.Background(), store, frost.New(&bjj.BJJ{}))
	require.NoError(t, err)
	return w
}

// dealTo creates a secret in each wallet, splits a fresh key
// among them and returns the hex key packages aligned with wallets.
func dealTo(t *testing.T, f *frost.FROST, wallets []*Wallet, minSigners int) ([]string, string) {
	t.Helper()
	ctx := context.Background()

	identities := make([]frost.Identity, len(wallets))
	for i, w := range wallets {
		id, err := w.CreateMultisigSecret(ctx, "secret")
		require.NoError(t, err)
		identities[i] = id
	}

	key, err := f.Group().RandomScalar(rand.Reader)
	require.NoError(t, err)
	kps, pub, err := f.SplitSecret(rand.Reader, key, minSigners, identities)
	require.NoError(t, err)

	out := make([]string, len(wallets))
	for i, id := range identities {
		out[i] = hex.EncodeToString(kps[id.Hex()].Bytes())
	}
	return out, hex.EncodeToString(pub.Bytes())
}

func TestCreateMultisigSecret(t *testing.T) {
	ctx := context.Background()
	w := newWallet(t, NewMemoryStore())

	id, err := w.CreateMultisigSecret(ctx, "alice")
	require.NoError(t, err)

	secret, err := w.MultisigSecret(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, id, frost.New(&bjj.BJJ{}).Identity(secret))

	_, err = w.CreateMultisigSecret(ctx, "alice")
	require.ErrorIs(t, err, ErrDuplicateName)

	_, err = w.MultisigSecret(ctx, "bob")
	require.ErrorIs(t, err, ErrSecretNotFound)

	list := w.MultisigSecrets(ctx)
	require.Len(t, list, 1)
	require.Equal(t, "alice", list[0].Name)
	require.Empty(t, list[0].Secret)
}

func TestImportAccount(t *testing.T) {
	ctx := context.Background()
	f := frost.New(&bjj.BJJ{})
	wallets := []*Wallet{
		newWallet(t, NewMemoryStore()),
		newWallet(t, NewMemoryStore()),
		newWallet(t, NewMemoryStore()),
	}
	kps, pub := dealTo(t, f, wallets, 2)

	w := wallets[0]
	_, err := w.Account(ctx, "")
	require.ErrorIs(t, err, ErrAccountNotFound)

	acc, err := w.ImportAccount(ctx, "shared", kps[0], pub)
	require.NoError(t, err)
	require.True(t, acc.IsMultisigSigner())
	require.NoError(t, w.AssertMultisigSigner(acc))

	def, err := w.Account(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "shared", def.Name)

	kp, err := w.KeyPackage(def)
	require.NoError(t, err)
	require.Equal(t, uint16(2), kp.MinSigners)
	pkp, err := w.PublicKeyPackage(def)
	require.NoError(t, err)
	require.Len(t, pkp.Identities, 3)

	_, err = w.ImportAccount(ctx, "shared", kps[0], pub)
	require.ErrorIs(t, err, ErrDuplicateName)

	_, err = w.ImportAccount(ctx, "bad", "zz", pub)
	require.Error(t, err)
}

func TestImportAccountRejectsForeignKeyPackage(t *testing.T) {
	ctx := context.Background()
	f := frost.New(&bjj.BJJ{})
	a := []*Wallet{newWallet(t, NewMemoryStore()), newWallet(t, NewMemoryStore())}
	b := []*Wallet{newWallet(t, NewMemoryStore()), newWallet(t, NewMemoryStore())}
	kpsA, _ := dealTo(t, f, a, 2)
	_, pubB := dealTo(t, f, b, 2)

	_, err := a[0].ImportAccount(ctx, "mixed", kpsA[0], pubB)
	require.Error(t, err)
}

func TestNotMultisigSigner(t *testing.T) {
	w := newWallet(t, NewMemoryStore())
	err := w.AssertMultisigSigner(&Account{Name: "plain"})
	require.ErrorIs(t, err, ErrNotMultisigSigner)

	_, err = w.KeyPackage(&Account{Name: "plain"})
	require.ErrorIs(t, err, ErrNotMultisigSigner)
}

func TestSetDefaultAccount(t *testing.T) {
	ctx := context.Background()
	f := frost.New(&bjj.BJJ{})
	wallets := []*Wallet{newWallet(t, NewMemoryStore()), newWallet(t, NewMemoryStore())}
	kps, pub := dealTo(t, f, wallets, 2)

	w := wallets[0]
	_, err := w.ImportAccount(ctx, "one", kps[0], pub)
	require.NoError(t, err)
	_, err = w.ImportAccount(ctx, "two", kps[0], pub)
	require.NoError(t, err)

	def, err := w.Account(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "one", def.Name)

	require.NoError(t, w.SetDefaultAccount(ctx, "two"))
	def, err = w.Account(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "two", def.Name)

	require.ErrorIs(t, w.SetDefaultAccount(ctx, "three"), ErrAccountNotFound)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wallet", "wallet.json")
	store := NewFileStore(path, "hunter2", WithScryptCost(1<<4))

	w := newWallet(t, store)
	id, err := w.CreateMultisigSecret(ctx, "alice")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), id.Hex())

	reopened := newWallet(t, NewFileStore(path, "hunter2"))
	secret, err := reopened.MultisigSecret(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, id, frost.New(&bjj.BJJ{}).Identity(secret))

	_, err = Open(ctx, NewFileStore(path, "wrong"), frost.New(&bjj.BJJ{}))
	require.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "none.json"), "pw")
	data, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, data.Secrets)
	require.Empty(t, data.Accounts)
}
