package session

import (
	"context"

	"github.com/f3rmion/fy-multisig/multisig"
	"github.com/pkg/errors"
)

// Signer performs the local participant's cryptographic steps. Values are
// the hex strings exchanged in each round; tx is the unsigned transaction.
type Signer interface {
	Identity(ctx context.Context) (string, error)
	SigningCommitment(ctx context.Context, tx string, identities []string) (string, error)
	SigningPackage(ctx context.Context, tx string, commitments []string) (string, error)
	SignatureShare(ctx context.Context, tx, signingPackage string, identities []string) (string, error)
	Aggregate(ctx context.Context, tx, signingPackage string, shares []string) (string, error)
}

// Result is everything a completed ceremony produced.
type Result struct {
	Config          Config
	Identities      []string
	Commitments     []string
	SigningPackage  string
	SignatureShares []string
	Signature       string
}

// Run takes the local participant through a whole ceremony and returns the
// aggregated signature.
//
// Each round's output feeds the next: the identity set fixes the signers
// of the commitment and the share, and the commitment set becomes the
// signing package. The transport is released only on success, so a failed
// relayed ceremony can be rejoined.
func Run(ctx context.Context, m *Manager, signer Signer, opts StartOptions) (*Result, error) {
	cfg, err := m.Start(ctx, opts)
	if err != nil {
		return nil, err
	}
	res := &Result{Config: cfg}
	tx := cfg.UnsignedTransaction

	identity, err := signer.Identity(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "resolving identity")
	}
	if res.Identities, err = m.Identities(ctx, identity); err != nil {
		return nil, err
	}

	commitment, err := signer.SigningCommitment(ctx, tx, res.Identities)
	if err != nil {
		return nil, errors.Wrap(err, "creating signing commitment")
	}
	if res.Commitments, err = m.SigningCommitments(ctx, commitment); err != nil {
		return nil, err
	}

	if res.SigningPackage, err = signer.SigningPackage(ctx, tx, res.Commitments); err != nil {
		return nil, errors.Wrap(err, "creating signing package")
	}
	share, err := signer.SignatureShare(ctx, tx, res.SigningPackage, res.Identities)
	if err != nil {
		return nil, errors.Wrap(err, "creating signature share")
	}
	if res.SignatureShares, err = m.SignatureShares(ctx, share); err != nil {
		return nil, err
	}

	if res.Signature, err = signer.Aggregate(ctx, tx, res.SigningPackage, res.SignatureShares); err != nil {
		return nil, errors.Wrap(err, "aggregating signature shares")
	}
	if err := m.End(ctx); err != nil {
		m.log.Warn("Ending session failed", "err", err)
	}
	return res, nil
}

// IdentityCreator creates a participant identity under a name.
type IdentityCreator interface {
	CreateParticipant(ctx context.Context, name string) (string, error)
}

// CreateIdentity creates a participant identity, asking for a name when
// none is given and for another one whenever the name is taken. It
// returns the name used and the identity.
func CreateIdentity(ctx context.Context, p Prompter, creator IdentityCreator, name string) (string, string, error) {
	label := "Enter a name for the identity"
	for {
		if name == "" {
			var err error
			if name, err = p.Input(ctx, label); err != nil {
				return "", "", err
			}
			if name == "" {
				continue
			}
		}

		identity, err := creator.CreateParticipant(ctx, name)
		if multisig.IsDuplicateName(err) {
			label = "Name " + name + " is taken, enter another name"
			name = ""
			continue
		}
		if err != nil {
			return "", "", err
		}
		return name, identity, nil
	}
}
