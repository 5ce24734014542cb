package multisig

import "context"

// AccountSigner performs one account's side of a ceremony through a
// Service.
type AccountSigner struct {
	Service *Service
	Account string
}

// Identity returns the account's ceremony identity.
func (a *AccountSigner) Identity(ctx context.Context) (string, error) {
	return a.Service.AccountIdentity(ctx, a.Account)
}

// SigningCommitment returns the account's commitment.
func (a *AccountSigner) SigningCommitment(ctx context.Context, tx string, identities []string) (string, error) {
	return a.Service.CreateSigningCommitment(ctx, a.Account, tx, identities)
}

// SigningPackage builds the signing package from every commitment.
func (a *AccountSigner) SigningPackage(ctx context.Context, tx string, commitments []string) (string, error) {
	return a.Service.CreateSigningPackage(ctx, tx, commitments)
}

// SignatureShare returns the account's signature share.
func (a *AccountSigner) SignatureShare(ctx context.Context, tx, signingPackage string, identities []string) (string, error) {
	return a.Service.CreateSignatureShare(ctx, a.Account, signingPackage, tx, identities)
}

// Aggregate combines every share into the final signature.
func (a *AccountSigner) Aggregate(ctx context.Context, tx, signingPackage string, shares []string) (string, error) {
	return a.Service.AggregateSignatureShares(ctx, a.Account, signingPackage, tx, shares)
}
