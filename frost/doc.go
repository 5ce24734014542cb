// Package frost implements rerandomized FROST (Flexible Round-Optimized
// Schnorr Threshold) signing for multisig accounts over an arbitrary
// prime-order group.
//
// It is the cryptographic collaborator of the ceremony orchestrator in
// package session: every function here is pure, and every value exchanged
// between participants has a strict binary encoding.
//
// # Identities
//
// Each participant holds a [Secret] and publishes the derived [Identity]:
// a verifying key plus a Schnorr proof of possession. Identities map to
// Shamir identifiers through [Hasher.HID].
//
// # Key distribution
//
// Keys come from a trusted dealer. [FROST.SplitSecret] shares a spending
// key among a list of identities, producing one [KeyPackage] per identity
// and a [PublicKeyPackage] for everyone.
//
// # Signing
//
//  1. Each signer publishes [FROST.CreateSigningCommitment] for the
//     transaction hash and the full signer set.
//  2. Any signer builds the [SigningPackage] from all commitments with
//     [FROST.NewSigningPackage].
//  3. Each signer computes [FROST.CreateSignatureShare], passing the
//     transaction's public key randomness.
//  4. [FROST.Aggregate] checks every share and produces a [Signature] valid
//     under [FROST.RandomizedVerifyingKey].
//
// Nonces are derived from the signing share, the message and the signer
// set, so rounds 1 and 3 need no shared state and share creation is
// deterministic. A signer set is fixed per message: signing the same
// message with two different sets yields unrelated nonces.
//
// # Example
//
//	f := frost.New(&bjj.BJJ{})
//	kps, pub, _ := f.SplitSecret(rand.Reader, key, 2, identities)
//
//	c1, _ := f.CreateSigningCommitment(kp1, txHash, identities)
//	c2, _ := f.CreateSigningCommitment(kp2, txHash, identities)
//	pkg, _ := f.NewSigningPackage(txHash, []*frost.SigningCommitment{c1, c2})
//
//	s1, _ := f.CreateSignatureShare(kp1, pkg, txHash, randomizer, identities)
//	s2, _ := f.CreateSignatureShare(kp2, pkg, txHash, randomizer, identities)
//	sig, _ := f.Aggregate(pub, pkg, []*frost.SignatureShare{s1, s2}, randomizer)
package frost
