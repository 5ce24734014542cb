package frost

import (
	"io"

	"github.com/f3rmion/fy-multisig/group"
	"github.com/pkg/errors"
)

// SplitSecret shares secret among identities with a trusted dealer: a
// random polynomial of degree minSigners-1 with secret as its constant term
// is evaluated at each identity's identifier.
//
// The returned key packages are keyed by identity hex and must be handed
// to their owners privately. The public key package goes to everyone.
func (f *FROST) SplitSecret(
	r io.Reader,
	secret group.Scalar,
	minSigners int,
	identities []Identity,
) (map[string]*KeyPackage, *PublicKeyPackage, error) {
	if minSigners < 2 {
		return nil, nil, errors.Errorf("min signers must be at least 2, got %d", minSigners)
	}
	if len(identities) < minSigners {
		return nil, nil, errors.Errorf("need at least %d identities, got %d", minSigners, len(identities))
	}
	if len(identities) > 0xffff {
		return nil, nil, errors.Errorf("too many identities: %d", len(identities))
	}
	if secret.IsZero() {
		return nil, nil, errors.New("secret must be non-zero")
	}

	identifiers := make([]group.Scalar, len(identities))
	seen := make(map[string]struct{}, len(identities))
	for i, id := range identities {
		if _, err := f.identityKey(id); err != nil {
			return nil, nil, err
		}
		x := f.Identifier(id)
		key := string(x.Bytes())
		if _, dup := seen[key]; dup || x.IsZero() {
			return nil, nil, errors.Wrapf(ErrDuplicateSigner, "identity %d", i)
		}
		seen[key] = struct{}{}
		identifiers[i] = x
	}

	coeffs := make([]group.Scalar, minSigners)
	coeffs[0] = f.group.NewScalar().Set(secret)
	for i := 1; i < minSigners; i++ {
		c, err := f.group.RandomScalar(r)
		if err != nil {
			return nil, nil, errors.Wrap(err, "generating polynomial")
		}
		coeffs[i] = c
	}

	verifyingKey := f.group.NewPoint().ScalarMult(secret, f.group.Generator())
	keyPackages := make(map[string]*KeyPackage, len(identities))
	pub := &PublicKeyPackage{
		Identities:      make([]Identity, len(identities)),
		VerifyingShares: make([]group.Point, len(identities)),
		VerifyingKey:    verifyingKey,
		MinSigners:      uint16(minSigners),
	}

	for i, id := range identities {
		share := f.evalPolynomial(coeffs, identifiers[i])
		verifyingShare := f.group.NewPoint().ScalarMult(share, f.group.Generator())

		keyPackages[id.Hex()] = &KeyPackage{
			Identity:       append(Identity(nil), id...),
			Identifier:     identifiers[i],
			SigningShare:   share,
			VerifyingShare: verifyingShare,
			VerifyingKey:   verifyingKey,
			MinSigners:     uint16(minSigners),
		}
		pub.Identities[i] = append(Identity(nil), id...)
		pub.VerifyingShares[i] = verifyingShare
	}

	return keyPackages, pub, nil
}
