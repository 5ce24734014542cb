// Package wallet stores multisig participant secrets and the multisig
// accounts imported from a trusted dealer.
//
// A [Wallet] is backed by a [Store]. [MemoryStore] is used by tests and
// short-lived servers; [FileStore] keeps everything in one file encrypted
// with a passphrase (scrypt and ChaCha20-Poly1305).
package wallet
