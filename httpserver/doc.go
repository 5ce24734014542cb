// Package httpserver is the HTTP scaffolding shared by the relay and the
// wallet RPC server: access logging, panic recovery, liveness and
// readiness probes, drain/undrain, optional pprof and graceful shutdown.
package httpserver
