// Package bjj provides the Baby Jubjub implementation of [group.Group]
// used for multisig identities and signing.
//
// Baby Jubjub is a twisted Edwards curve defined over the scalar field of
// BN254:
//
//	a*x^2 + y^2 = 1 + d*x^2*y^2
//
// with a = 168700 and d = 168696. Arithmetic is delegated to gnark-crypto.
//
// Scalars encode as 32 big-endian bytes and points as 32-byte compressed
// encodings. Decoding is strict: scalars must be reduced and points must be
// in the prime-order subgroup of size
//
//	2736030358979909402780800718157159386076813972158567259200215660948447373041
package bjj
