package wallet

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// ErrWrongPassphrase is returned when a wallet file cannot be opened with
// the given passphrase, or has been modified.
var ErrWrongPassphrase = errors.New("wallet: wrong passphrase or corrupted wallet file")

// MemoryStore keeps wallet data in memory.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (*Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return newData(), nil
	}
	data := newData()
	if err := json.Unmarshal(s.data, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *MemoryStore) Save(_ context.Context, data *Data) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = b
	s.mu.Unlock()
	return nil
}

const walletFormatVersion = 1

// envelope is the on-disk wallet format: the wallet JSON sealed under a
// passphrase-derived key.
type envelope struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// FileStore keeps the wallet in a single passphrase-encrypted file.
type FileStore struct {
	path       string
	passphrase string
	n, r, p    int
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithScryptCost overrides the scrypt N parameter. Lower values are only
// suitable for tests.
func WithScryptCost(n int) FileStoreOption {
	return func(s *FileStore) { s.n = n }
}

// NewFileStore returns a store backed by path, sealed with passphrase.
func NewFileStore(path, passphrase string, opts ...FileStoreOption) *FileStore {
	s := &FileStore{path: path, passphrase: passphrase, n: 1 << 15, r: 8, p: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads and decrypts the wallet. A missing file is an empty wallet.
func (s *FileStore) Load(_ context.Context) (*Data, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return newData(), nil
	}
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, errors.Wrap(err, "parsing wallet file")
	}
	if env.V > walletFormatVersion {
		return nil, errors.Errorf("unsupported wallet version %d", env.V)
	}
	key, err := scrypt.Key([]byte(s.passphrase), env.Salt, env.N, env.R, env.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	raw, err := aead.Open(nil, nonce[:], env.Cipher, env.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}

	data := newData()
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, errors.Wrap(err, "parsing wallet contents")
	}
	return data, nil
}

// Save encrypts the wallet under a fresh salt and replaces the file
// atomically.
func (s *FileStore) Save(_ context.Context, data *Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return err
	}
	key, err := scrypt.Key([]byte(s.passphrase), salt[:], s.n, s.r, s.p, chacha20poly1305.KeySize)
	if err != nil {
		return err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return err
	}
	// zero nonce: every save derives a new key from a new salt
	var nonce [chacha20poly1305.NonceSize]byte
	b, err := json.MarshalIndent(envelope{
		V:      walletFormatVersion,
		Salt:   salt[:],
		N:      s.n,
		R:      s.r,
		P:      s.p,
		Cipher: aead.Seal(nil, nonce[:], raw, salt[:]),
	}, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
