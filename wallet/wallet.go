package wallet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/f3rmion/fy-multisig/frost"
	"github.com/f3rmion/fy-multisig/logutil"
	"github.com/pkg/errors"
)

var (
	// ErrDuplicateName is returned when a secret or account already uses
	// the requested name.
	ErrDuplicateName = errors.New("wallet: name already in use")
	// ErrAccountNotFound is returned when no account matches a name, or no
	// default account is set.
	ErrAccountNotFound = errors.New("wallet: account not found")
	// ErrSecretNotFound is returned when no multisig secret has the name.
	ErrSecretNotFound = errors.New("wallet: multisig secret not found")
	// ErrNotMultisigSigner is returned for accounts without a key package.
	ErrNotMultisigSigner = errors.New("wallet: account is not a multisig signer")
)

// MultisigSecret is a named participant secret and its public identity.
type MultisigSecret struct {
	Name      string    `json:"name"`
	Secret    string    `json:"secret"`
	Identity  string    `json:"identity"`
	CreatedAt time.Time `json:"createdAt"`
}

// Account is a spending account. Accounts imported with a key package are
// multisig signers.
type Account struct {
	Name             string    `json:"name"`
	Identity         string    `json:"identity,omitempty"`
	KeyPackage       string    `json:"keyPackage,omitempty"`
	PublicKeyPackage string    `json:"publicKeyPackage,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// IsMultisigSigner reports whether the account can sign in a ceremony.
func (a *Account) IsMultisigSigner() bool {
	return a.KeyPackage != "" && a.PublicKeyPackage != ""
}

// Data is everything a Store persists.
type Data struct {
	Secrets        map[string]*MultisigSecret `json:"secrets"`
	Accounts       map[string]*Account        `json:"accounts"`
	DefaultAccount string                     `json:"defaultAccount,omitempty"`
}

func newData() *Data {
	return &Data{
		Secrets:  make(map[string]*MultisigSecret),
		Accounts: make(map[string]*Account),
	}
}

// Store persists wallet data.
type Store interface {
	Load(ctx context.Context) (*Data, error)
	Save(ctx context.Context, data *Data) error
}

// Wallet holds multisig secrets and accounts. It is safe for concurrent use.
type Wallet struct {
	mu    sync.Mutex
	store Store
	frost *frost.FROST
	rng   io.Reader
	log   *slog.Logger
	data  *Data
}

// Option configures a Wallet.
type Option func(*Wallet)

// WithLogger sets the wallet logger.
func WithLogger(log *slog.Logger) Option {
	return func(w *Wallet) { w.log = log }
}

// WithRand replaces crypto/rand as the source of new secrets.
func WithRand(r io.Reader) Option {
	return func(w *Wallet) { w.rng = r }
}

// Open loads the wallet from store.
func Open(ctx context.Context, store Store, f *frost.FROST, opts ...Option) (*Wallet, error) {
	w := &Wallet{
		store: store,
		frost: f,
		rng:   rand.Reader,
		log:   logutil.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}

	data, err := store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading wallet")
	}
	if data == nil {
		data = newData()
	}
	if data.Secrets == nil {
		data.Secrets = make(map[string]*MultisigSecret)
	}
	if data.Accounts == nil {
		data.Accounts = make(map[string]*Account)
	}
	w.data = data
	return w, nil
}

func (w *Wallet) nameTaken(name string) bool {
	_, secret := w.data.Secrets[name]
	_, account := w.data.Accounts[name]
	return secret || account
}

// CreateMultisigSecret generates a new participant secret stored under
// name and returns its identity.
func (w *Wallet) CreateMultisigSecret(ctx context.Context, name string) (frost.Identity, error) {
	if name == "" {
		return nil, errors.New("wallet: name must not be empty")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.nameTaken(name) {
		return nil, errors.Wrapf(ErrDuplicateName, "%q", name)
	}

	secret, err := w.frost.NewSecret(w.rng)
	if err != nil {
		return nil, err
	}
	identity := w.frost.Identity(secret)

	w.data.Secrets[name] = &MultisigSecret{
		Name:      name,
		Secret:    hex.EncodeToString(secret.Bytes()),
		Identity:  identity.Hex(),
		CreatedAt: time.Now().UTC(),
	}
	if err := w.store.Save(ctx, w.data); err != nil {
		delete(w.data.Secrets, name)
		return nil, errors.Wrap(err, "saving wallet")
	}

	w.log.Info("Created multisig secret", "name", name)
	return identity, nil
}

// MultisigSecret returns the secret stored under name.
func (w *Wallet) MultisigSecret(_ context.Context, name string) (*frost.Secret, error) {
	w.mu.Lock()
	rec, ok := w.data.Secrets[name]
	w.mu.Unlock()
	if !ok {
		return nil, errors.Wrapf(ErrSecretNotFound, "%q", name)
	}

	b, err := hex.DecodeString(rec.Secret)
	if err != nil {
		return nil, errors.Wrap(err, "decoding stored secret")
	}
	return w.frost.DecodeSecret(b)
}

// MultisigSecrets lists stored secrets sorted by name, without the secret
// material.
func (w *Wallet) MultisigSecrets(_ context.Context) []MultisigSecret {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]MultisigSecret, 0, len(w.data.Secrets))
	for _, s := range w.data.Secrets {
		out = append(out, MultisigSecret{Name: s.Name, Identity: s.Identity, CreatedAt: s.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ImportAccount stores a multisig signer account from a dealer's key
// package and public key package, both hex. The first account imported
// becomes the default.
func (w *Wallet) ImportAccount(ctx context.Context, name, keyPackageHex, publicKeyPackageHex string) (*Account, error) {
	if name == "" {
		return nil, errors.New("wallet: name must not be empty")
	}
	kpBytes, err := hex.DecodeString(keyPackageHex)
	if err != nil {
		return nil, errors.Wrap(err, "key package is not hex")
	}
	kp, err := w.frost.DecodeKeyPackage(kpBytes)
	if err != nil {
		return nil, errors.Wrap(err, "decoding key package")
	}
	pubBytes, err := hex.DecodeString(publicKeyPackageHex)
	if err != nil {
		return nil, errors.Wrap(err, "public key package is not hex")
	}
	pub, err := w.frost.DecodePublicKeyPackage(pubBytes)
	if err != nil {
		return nil, errors.Wrap(err, "decoding public key package")
	}
	if !pub.VerifyingKey.Equal(kp.VerifyingKey) {
		return nil, errors.New("wallet: key package does not belong to public key package")
	}
	if share, ok := pub.VerifyingShare(kp.Identity); !ok || !share.Equal(kp.VerifyingShare) {
		return nil, errors.New("wallet: key package identity not in public key package")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.data.Accounts[name]; ok {
		return nil, errors.Wrapf(ErrDuplicateName, "%q", name)
	}

	account := &Account{
		Name:             name,
		Identity:         kp.Identity.Hex(),
		KeyPackage:       keyPackageHex,
		PublicKeyPackage: publicKeyPackageHex,
		CreatedAt:        time.Now().UTC(),
	}
	prevDefault := w.data.DefaultAccount
	w.data.Accounts[name] = account
	if w.data.DefaultAccount == "" {
		w.data.DefaultAccount = name
	}
	if err := w.store.Save(ctx, w.data); err != nil {
		delete(w.data.Accounts, name)
		w.data.DefaultAccount = prevDefault
		return nil, errors.Wrap(err, "saving wallet")
	}

	w.log.Info("Imported multisig account", "name", name, "minSigners", kp.MinSigners)
	copied := *account
	return &copied, nil
}

// Account returns the named account, or the default account when name is
// empty.
func (w *Wallet) Account(_ context.Context, name string) (*Account, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if name == "" {
		name = w.data.DefaultAccount
		if name == "" {
			return nil, errors.Wrap(ErrAccountNotFound, "no default account")
		}
	}
	a, ok := w.data.Accounts[name]
	if !ok {
		return nil, errors.Wrapf(ErrAccountNotFound, "%q", name)
	}
	copied := *a
	return &copied, nil
}

// SetDefaultAccount makes name the account used when none is given.
func (w *Wallet) SetDefaultAccount(ctx context.Context, name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.data.Accounts[name]; !ok {
		return errors.Wrapf(ErrAccountNotFound, "%q", name)
	}
	w.data.DefaultAccount = name
	return w.store.Save(ctx, w.data)
}

// AssertMultisigSigner fails unless a can take part in a ceremony.
func (w *Wallet) AssertMultisigSigner(a *Account) error {
	if !a.IsMultisigSigner() {
		return errors.Wrapf(ErrNotMultisigSigner, "%q", a.Name)
	}
	return nil
}

// KeyPackage decodes the account's key package.
func (w *Wallet) KeyPackage(a *Account) (*frost.KeyPackage, error) {
	if err := w.AssertMultisigSigner(a); err != nil {
		return nil, err
	}
	b, err := hex.DecodeString(a.KeyPackage)
	if err != nil {
		return nil, errors.Wrap(err, "decoding stored key package")
	}
	return w.frost.DecodeKeyPackage(b)
}

// PublicKeyPackage decodes the account's public key package.
func (w *Wallet) PublicKeyPackage(a *Account) (*frost.PublicKeyPackage, error) {
	if err := w.AssertMultisigSigner(a); err != nil {
		return nil, err
	}
	b, err := hex.DecodeString(a.PublicKeyPackage)
	if err != nil {
		return nil, errors.Wrap(err, "decoding stored public key package")
	}
	return w.frost.DecodePublicKeyPackage(b)
}
