// Package rpc exposes the multisig ceremony operations over HTTP under
// /wallet/multisig. Requests are validated strictly: unknown or missing
// fields, non-hex values and empty lists are rejected before the service
// is called. Failures carry a {code, message} body.
package rpc
