// Package relay implements the session relay: an HTTP service that stores
// the values each participant submits in the three rounds of a signing
// ceremony and returns the accumulated sets on request.
//
// The relay never interprets the values. It enforces only that a round
// holds at most NumSigners distinct values; resubmitting a value already
// present succeeds without effect.
//
// Sessions live in a [Store]: [MemoryStore] for a single instance or
// [RedisStore] when several relay instances share state.
package relay
