package multisig

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"log/slog"

	"github.com/f3rmion/fy-multisig/frost"
	"github.com/f3rmion/fy-multisig/logutil"
	"github.com/f3rmion/fy-multisig/transaction"
	"github.com/f3rmion/fy-multisig/wallet"
	"github.com/pkg/errors"
)

// Service exposes the ceremony operations over a wallet. Every value
// crossing it is hex.
type Service struct {
	wallet *wallet.Wallet
	frost  *frost.FROST
	rng    io.Reader
	log    *slog.Logger
}

// NewService returns a Service. A nil logger discards.
func NewService(w *wallet.Wallet, f *frost.FROST, log *slog.Logger) *Service {
	if log == nil {
		log = logutil.Discard()
	}
	return &Service{wallet: w, frost: f, rng: rand.Reader, log: log}
}

// CreateParticipant creates a multisig secret named name and returns its
// identity.
func (s *Service) CreateParticipant(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", newError(CodeValidation, errors.New("name is required"))
	}
	id, err := s.wallet.CreateMultisigSecret(ctx, name)
	if errors.Is(err, wallet.ErrDuplicateName) {
		return "", newError(CodeDuplicateAccountName, err)
	}
	if err != nil {
		return "", newError(CodeInternal, err)
	}
	s.log.Debug("created participant", "name", name)
	return id.Hex(), nil
}

// signingAccount resolves account and checks it can sign. It runs before
// anything else so a bad account never reaches the cryptography.
func (s *Service) signingAccount(ctx context.Context, account string) (*frost.KeyPackage, *frost.PublicKeyPackage, error) {
	acc, err := s.wallet.Account(ctx, account)
	if errors.Is(err, wallet.ErrAccountNotFound) {
		return nil, nil, newError(CodeAccountNotFound, err)
	}
	if err != nil {
		return nil, nil, newError(CodeInternal, err)
	}
	if err := s.wallet.AssertMultisigSigner(acc); err != nil {
		return nil, nil, newError(CodeNotMultisigSigner, err)
	}

	kp, err := s.wallet.KeyPackage(acc)
	if err != nil {
		return nil, nil, newError(CodeInternal, err)
	}
	pub, err := s.wallet.PublicKeyPackage(acc)
	if err != nil {
		return nil, nil, newError(CodeInternal, err)
	}
	return kp, pub, nil
}

// AccountIdentity returns the ceremony identity of a signing account.
func (s *Service) AccountIdentity(ctx context.Context, account string) (string, error) {
	kp, _, err := s.signingAccount(ctx, account)
	if err != nil {
		return "", err
	}
	return kp.Identity.Hex(), nil
}

func (s *Service) decodeTransaction(txHex string) (*transaction.UnsignedTransaction, error) {
	tx, err := transaction.DecodeHex(s.frost.Group(), txHex)
	if err != nil {
		return nil, validation(err, "unsignedTransaction")
	}
	return tx, nil
}

func (s *Service) decodeIdentities(list []string) ([]frost.Identity, error) {
	if len(list) == 0 {
		return nil, newError(CodeValidation, errors.New("signers must not be empty"))
	}
	out := make([]frost.Identity, len(list))
	for i, h := range list {
		id, err := s.frost.ParseIdentityHex(h)
		if err != nil {
			return nil, validation(err, "signer identity")
		}
		out[i] = id
	}
	return out, nil
}

func (s *Service) decodeSigningPackage(pkgHex string) (*frost.SigningPackage, error) {
	b, err := hex.DecodeString(pkgHex)
	if err != nil {
		return nil, validation(err, "signingPackage")
	}
	pkg, err := s.frost.DecodeSigningPackage(b)
	if err != nil {
		return nil, validation(err, "signingPackage")
	}
	return pkg, nil
}

// CreateSigningCommitment returns the account's commitment for signing tx
// with signers.
func (s *Service) CreateSigningCommitment(ctx context.Context, account, txHex string, signers []string) (string, error) {
	kp, _, err := s.signingAccount(ctx, account)
	if err != nil {
		return "", err
	}
	tx, err := s.decodeTransaction(txHex)
	if err != nil {
		return "", err
	}
	ids, err := s.decodeIdentities(signers)
	if err != nil {
		return "", err
	}

	c, err := s.frost.CreateSigningCommitment(kp, tx.Hash(), ids)
	if err != nil {
		return "", validation(err, "creating signing commitment")
	}
	return hex.EncodeToString(c.Bytes()), nil
}

// CreateSigningPackage combines the commitments of every signer with the
// transaction hash.
func (s *Service) CreateSigningPackage(_ context.Context, txHex string, commitments []string) (string, error) {
	tx, err := s.decodeTransaction(txHex)
	if err != nil {
		return "", err
	}
	if len(commitments) == 0 {
		return "", newError(CodeValidation, errors.New("commitments must not be empty"))
	}
	decoded := make([]*frost.SigningCommitment, len(commitments))
	for i, h := range commitments {
		b, err := hex.DecodeString(h)
		if err != nil {
			return "", validation(err, "commitment")
		}
		c, err := s.frost.DecodeSigningCommitment(b)
		if err != nil {
			return "", validation(err, "commitment")
		}
		decoded[i] = c
	}

	pkg, err := s.frost.NewSigningPackage(tx.Hash(), decoded)
	if err != nil {
		return "", validation(err, "creating signing package")
	}
	return hex.EncodeToString(pkg.Bytes()), nil
}

// CreateSignatureShare computes the account's signature share. The account
// must exist and be a multisig signer; both are checked before any input
// reaches the cryptography. The share is returned as produced.
//
// Nonces are fixed per transaction and signer set, so shares for one
// transaction under different peer commitments expose the signing share.
// Callers must sign a given transaction and signer set in one signing
// package only.
func (s *Service) CreateSignatureShare(ctx context.Context, account, signingPackage, txHex string, signers []string) (string, error) {
	kp, _, err := s.signingAccount(ctx, account)
	if err != nil {
		return "", err
	}
	tx, err := s.decodeTransaction(txHex)
	if err != nil {
		return "", err
	}
	ids, err := s.decodeIdentities(signers)
	if err != nil {
		return "", err
	}
	pkg, err := s.decodeSigningPackage(signingPackage)
	if err != nil {
		return "", err
	}

	share, err := s.frost.CreateSignatureShare(kp, pkg, tx.Hash(), tx.PublicKeyRandomness(), ids)
	if err != nil {
		return "", validation(err, "creating signature share")
	}
	return hex.EncodeToString(share.Bytes()), nil
}

// AggregateSignatureShares verifies the shares and combines them into a
// signature over the transaction hash, valid under the account's verifying
// key randomized by the transaction.
func (s *Service) AggregateSignatureShares(ctx context.Context, account, signingPackage, txHex string, shares []string) (string, error) {
	_, pub, err := s.signingAccount(ctx, account)
	if err != nil {
		return "", err
	}
	tx, err := s.decodeTransaction(txHex)
	if err != nil {
		return "", err
	}
	pkg, err := s.decodeSigningPackage(signingPackage)
	if err != nil {
		return "", err
	}
	if !bytes.Equal(pkg.Message, tx.Hash()) {
		return "", newError(CodeValidation, frost.ErrMessageMismatch)
	}
	if len(shares) == 0 {
		return "", newError(CodeValidation, errors.New("signature shares must not be empty"))
	}
	decoded := make([]*frost.SignatureShare, len(shares))
	for i, h := range shares {
		b, err := hex.DecodeString(h)
		if err != nil {
			return "", validation(err, "signature share")
		}
		share, err := s.frost.DecodeSignatureShare(b)
		if err != nil {
			return "", validation(err, "signature share")
		}
		decoded[i] = share
	}

	sig, err := s.frost.Aggregate(pub, pkg, decoded, tx.PublicKeyRandomness())
	if err != nil {
		return "", validation(err, "aggregating signature shares")
	}
	s.log.Info("aggregated signature", "signers", len(decoded))
	return hex.EncodeToString(sig.Bytes()), nil
}

// SplitResult is the output of a trusted-dealer split.
type SplitResult struct {
	// KeyPackages maps identity hex to that participant's key package hex.
	KeyPackages      map[string]string `json:"keyPackages"`
	PublicKeyPackage string            `json:"publicKeyPackage"`
}

// SplitSecret generates a fresh spending key and shares it among
// identities, any minSigners of which can sign.
func (s *Service) SplitSecret(_ context.Context, minSigners int, identities []string) (*SplitResult, error) {
	ids, err := s.decodeIdentities(identities)
	if err != nil {
		return nil, err
	}
	key, err := s.frost.Group().RandomScalar(s.rng)
	if err != nil {
		return nil, newError(CodeInternal, err)
	}
	kps, pub, err := s.frost.SplitSecret(s.rng, key, minSigners, ids)
	if err != nil {
		return nil, validation(err, "splitting secret")
	}

	res := &SplitResult{
		KeyPackages:      make(map[string]string, len(kps)),
		PublicKeyPackage: hex.EncodeToString(pub.Bytes()),
	}
	for id, kp := range kps {
		res.KeyPackages[id] = hex.EncodeToString(kp.Bytes())
	}
	s.log.Info("split secret", "minSigners", minSigners, "participants", len(ids))
	return res, nil
}

// ImportAccount stores a dealt key package under name.
func (s *Service) ImportAccount(ctx context.Context, name, keyPackage, publicKeyPackage string) error {
	if name == "" {
		return newError(CodeValidation, errors.New("name is required"))
	}
	_, err := s.wallet.ImportAccount(ctx, name, keyPackage, publicKeyPackage)
	if errors.Is(err, wallet.ErrDuplicateName) {
		return newError(CodeDuplicateAccountName, err)
	}
	if err != nil {
		return newError(CodeValidation, err)
	}
	return nil
}
