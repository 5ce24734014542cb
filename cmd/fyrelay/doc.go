// Command fyrelay serves the session relay used by relayed signing
// ceremonies.
//
// Sessions are kept in memory, or in Redis when --redis-addr is set so
// that several relay instances can serve the same sessions.
//
//	fyrelay --listen-addr 0.0.0.0:8080 --redis-addr localhost:6379
package main
