package frost

import (
	"bytes"
	"sort"

	"github.com/f3rmion/fy-multisig/group"
	"github.com/pkg/errors"
)

// SigningNonce holds a participant's nonce pair for one message and
// signer set.
type SigningNonce struct {
	D group.Scalar // hiding nonce
	E group.Scalar // binding nonce
}

// SigningCommitment is published in the commitment round.
type SigningCommitment struct {
	Identity     Identity
	HidingPoint  group.Point // D * G
	BindingPoint group.Point // E * G
}

// SigningPackage combines the message (the transaction hash) with the
// commitments of every signer. Commitments are kept sorted by identity so
// that every participant derives the same package from its own ordering of
// the commitment round.
type SigningPackage struct {
	Message     []byte
	Commitments []*SigningCommitment
}

// SignatureShare is a participant's share of the signature.
type SignatureShare struct {
	Identity Identity
	Z        group.Scalar
}

// nonces derives the nonce pair deterministically from the signing share,
// the message and the signer set. The commitment and the signature share
// rounds recompute the same pair, so nothing has to be kept in between.
func (f *FROST) nonces(kp *KeyPackage, message []byte, signers []Identity) *SigningNonce {
	ctx := append(append([]byte(nil), f.hasher.H4(f.group, message)...), signersDigest(f, signers)...)
	seed := kp.SigningShare.Bytes()
	return &SigningNonce{
		D: f.hasher.H3(f.group, seed, []byte("hiding"), ctx),
		E: f.hasher.H3(f.group, seed, []byte("binding"), ctx),
	}
}

// signersDigest hashes the signer set independently of its order.
func signersDigest(f *FROST, signers []Identity) []byte {
	sorted := make([]Identity, len(signers))
	copy(sorted, signers)
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i], sorted[j]) < 0 })

	var enc []byte
	for _, s := range sorted {
		enc = append(enc, s...)
	}
	return f.hasher.H5(f.group, enc)
}

func checkSigners(signers []Identity) error {
	seen := make(map[string]struct{}, len(signers))
	for _, s := range signers {
		if _, dup := seen[string(s)]; dup {
			return errors.Wrapf(ErrDuplicateSigner, "%s", s.Hex())
		}
		seen[string(s)] = struct{}{}
	}
	return nil
}

func containsIdentity(list []Identity, id Identity) bool {
	for _, s := range list {
		if s.Equal(id) {
			return true
		}
	}
	return false
}

// CreateSigningCommitment returns kp's commitment for signing message
// together with signers.
func (f *FROST) CreateSigningCommitment(kp *KeyPackage, message []byte, signers []Identity) (*SigningCommitment, error) {
	if err := checkSigners(signers); err != nil {
		return nil, err
	}
	if !containsIdentity(signers, kp.Identity) {
		return nil, errors.Wrap(ErrUnknownSigner, "own identity not in signer list")
	}
	if len(signers) < int(kp.MinSigners) {
		return nil, errors.Wrapf(ErrTooFewSigners, "%d < %d", len(signers), kp.MinSigners)
	}

	nonce := f.nonces(kp, message, signers)
	return &SigningCommitment{
		Identity:     kp.Identity,
		HidingPoint:  f.group.NewPoint().ScalarMult(nonce.D, f.group.Generator()),
		BindingPoint: f.group.NewPoint().ScalarMult(nonce.E, f.group.Generator()),
	}, nil
}

// NewSigningPackage builds the signing package for message.
func (f *FROST) NewSigningPackage(message []byte, commitments []*SigningCommitment) (*SigningPackage, error) {
	if len(commitments) == 0 {
		return nil, errors.Wrap(ErrTooFewSigners, "no commitments")
	}
	ids := make([]Identity, len(commitments))
	for i, c := range commitments {
		ids[i] = c.Identity
	}
	if err := checkSigners(ids); err != nil {
		return nil, err
	}

	sorted := make([]*SigningCommitment, len(commitments))
	copy(sorted, commitments)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Identity, sorted[j].Identity) < 0
	})

	return &SigningPackage{
		Message:     append([]byte(nil), message...),
		Commitments: sorted,
	}, nil
}

// signingContext holds the values shared by share creation, share
// verification and aggregation.
type signingContext struct {
	bindingFactors map[string]group.Scalar // keyed by identity bytes
	identifiers    []group.Scalar
	R              group.Point
	challenge      group.Scalar
}

func (f *FROST) newSigningContext(pkg *SigningPackage, verifyingKey group.Point) *signingContext {
	var commitList []byte
	identifiers := make([]group.Scalar, len(pkg.Commitments))
	for i, c := range pkg.Commitments {
		identifiers[i] = f.Identifier(c.Identity)
		commitList = append(commitList, identifiers[i].Bytes()...)
		commitList = append(commitList, c.HidingPoint.Bytes()...)
		commitList = append(commitList, c.BindingPoint.Bytes()...)
	}

	msgHash := f.hasher.H4(f.group, pkg.Message)
	listHash := f.hasher.H5(f.group, commitList)

	factors := make(map[string]group.Scalar, len(pkg.Commitments))
	R := f.group.NewPoint()
	for i, c := range pkg.Commitments {
		rho := f.hasher.H1(f.group, msgHash, listHash, identifiers[i].Bytes())
		factors[string(c.Identity)] = rho

		rhoE := f.group.NewPoint().ScalarMult(rho, c.BindingPoint)
		R = f.group.NewPoint().Add(R, f.group.NewPoint().Add(c.HidingPoint, rhoE))
	}

	return &signingContext{
		bindingFactors: factors,
		identifiers:    identifiers,
		R:              R,
		challenge:      f.hasher.H2(f.group, R.Bytes(), verifyingKey.Bytes(), pkg.Message),
	}
}

// CreateSignatureShare computes kp's signature share over the signing
// package. message is the transaction hash and randomizer its public key
// randomness; signers is the full identity set of the ceremony.
//
// The result depends only on the inputs. The nonces do not depend on the
// other signers' commitments: three shares for the same message and signer
// set under different signing packages determine the signing share. Sign a
// message and signer set under one signing package only.
func (f *FROST) CreateSignatureShare(
	kp *KeyPackage,
	pkg *SigningPackage,
	message []byte,
	randomizer group.Scalar,
	signers []Identity,
) (*SignatureShare, error) {
	if !bytes.Equal(pkg.Message, message) {
		return nil, ErrMessageMismatch
	}
	if err := checkSigners(signers); err != nil {
		return nil, err
	}
	if len(pkg.Commitments) < int(kp.MinSigners) {
		return nil, errors.Wrapf(ErrTooFewSigners, "%d < %d", len(pkg.Commitments), kp.MinSigners)
	}

	var own *SigningCommitment
	for _, c := range pkg.Commitments {
		if !containsIdentity(signers, c.Identity) {
			return nil, errors.Wrapf(ErrUnknownSigner, "%s", c.Identity.Hex())
		}
		if c.Identity.Equal(kp.Identity) {
			own = c
		}
	}
	if own == nil {
		return nil, ErrMissingCommitment
	}

	nonce := f.nonces(kp, message, signers)
	if !own.HidingPoint.Equal(f.group.NewPoint().ScalarMult(nonce.D, f.group.Generator())) ||
		!own.BindingPoint.Equal(f.group.NewPoint().ScalarMult(nonce.E, f.group.Generator())) {
		return nil, errors.Wrap(ErrMissingCommitment, "commitment does not match signer set")
	}

	sc := f.newSigningContext(pkg, f.RandomizedVerifyingKey(kp.VerifyingKey, randomizer))
	lambda, err := f.lagrangeCoefficient(kp.Identifier, sc.identifiers)
	if err != nil {
		return nil, err
	}
	rho := sc.bindingFactors[string(kp.Identity)]

	// z_i = d + rho*e + lambda*s*c
	z := f.group.NewScalar().Mul(rho, nonce.E)
	z = f.group.NewScalar().Add(nonce.D, z)
	lambdaS := f.group.NewScalar().Mul(lambda, kp.SigningShare)
	z = f.group.NewScalar().Add(z, f.group.NewScalar().Mul(lambdaS, sc.challenge))

	return &SignatureShare{
		Identity: kp.Identity,
		Z:        z,
	}, nil
}

// Aggregate verifies every share against its signer's verifying share and
// combines them into a signature valid under the randomized verifying key.
func (f *FROST) Aggregate(
	pub *PublicKeyPackage,
	pkg *SigningPackage,
	shares []*SignatureShare,
	randomizer group.Scalar,
) (*Signature, error) {
	if len(shares) != len(pkg.Commitments) {
		return nil, errors.Wrapf(ErrTooFewSigners, "%d shares for %d commitments", len(shares), len(pkg.Commitments))
	}
	if len(shares) < int(pub.MinSigners) {
		return nil, errors.Wrapf(ErrTooFewSigners, "%d < %d", len(shares), pub.MinSigners)
	}

	randomizedKey := f.RandomizedVerifyingKey(pub.VerifyingKey, randomizer)
	sc := f.newSigningContext(pkg, randomizedKey)

	byIdentity := make(map[string]*SigningCommitment, len(pkg.Commitments))
	for _, c := range pkg.Commitments {
		byIdentity[string(c.Identity)] = c
	}

	z := f.group.NewScalar()
	seen := make(map[string]struct{}, len(shares))
	for _, share := range shares {
		key := string(share.Identity)
		if _, dup := seen[key]; dup {
			return nil, errors.Wrapf(ErrDuplicateSigner, "%s", share.Identity.Hex())
		}
		seen[key] = struct{}{}

		comm, ok := byIdentity[key]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownSigner, "%s", share.Identity.Hex())
		}
		verifyingShare, ok := pub.VerifyingShare(share.Identity)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownSigner, "%s not in public key package", share.Identity.Hex())
		}
		lambda, err := f.lagrangeCoefficient(f.Identifier(share.Identity), sc.identifiers)
		if err != nil {
			return nil, err
		}

		// z_i*G == D_i + rho_i*E_i + lambda_i*c*Y_i
		rhoE := f.group.NewPoint().ScalarMult(sc.bindingFactors[key], comm.BindingPoint)
		expected := f.group.NewPoint().Add(comm.HidingPoint, rhoE)
		lc := f.group.NewScalar().Mul(lambda, sc.challenge)
		expected = f.group.NewPoint().Add(expected, f.group.NewPoint().ScalarMult(lc, verifyingShare))
		if !f.group.NewPoint().ScalarMult(share.Z, f.group.Generator()).Equal(expected) {
			return nil, errors.Wrapf(ErrInvalidShare, "%s", share.Identity.Hex())
		}

		z = f.group.NewScalar().Add(z, share.Z)
	}

	// The randomizer is public, so the aggregator adds its contribution.
	z = f.group.NewScalar().Add(z, f.group.NewScalar().Mul(sc.challenge, randomizer))

	sig := &Signature{R: sc.R, Z: z}
	if !f.Verify(pkg.Message, sig, randomizedKey) {
		return nil, errors.New("frost: aggregated signature does not verify")
	}
	return sig, nil
}
