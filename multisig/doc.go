// Package multisig implements the externally callable ceremony operations:
// creating a participant identity, the three signing steps, aggregation,
// and the trusted-dealer split.
//
// Operations take and return hex strings and fail with [*Error], whose
// [Code] lets callers tell a name collision or a missing account apart
// from malformed input.
package multisig
