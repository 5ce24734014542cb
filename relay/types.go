package relay

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("relay: session not found")
	// ErrSessionFull is returned when a round already holds NumSigners
	// distinct values.
	ErrSessionFull = errors.New("relay: round already complete")
	// ErrInvalidRequest is returned for malformed requests.
	ErrInvalidRequest = errors.New("relay: invalid request")
)

// Kind names one of the three rounds of a ceremony.
type Kind string

const (
	KindIdentities      Kind = "identities"
	KindCommitments     Kind = "commitments"
	KindSignatureShares Kind = "shares"
)

// Valid reports whether k is a known round.
func (k Kind) Valid() bool {
	switch k {
	case KindIdentities, KindCommitments, KindSignatureShares:
		return true
	}
	return false
}

// Status is the relay's view of a session: its configuration and
// everything submitted so far, in arrival order.
type Status struct {
	ID                  string    `json:"id"`
	NumSigners          int       `json:"numSigners"`
	UnsignedTransaction string    `json:"unsignedTransaction"`
	Identities          []string  `json:"identities"`
	Commitments         []string  `json:"commitments"`
	SignatureShares     []string  `json:"signatureShares"`
	FinishedBy          []string  `json:"finishedBy"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Values returns the submissions of round k.
func (s *Status) Values(k Kind) []string {
	switch k {
	case KindIdentities:
		return s.Identities
	case KindCommitments:
		return s.Commitments
	case KindSignatureShares:
		return s.SignatureShares
	}
	return nil
}

// add appends value to round k. Resubmitting a value already present is a
// no-op, so a participant that rejoins can submit again safely.
func (s *Status) add(k Kind, value string) error {
	if !k.Valid() {
		return errors.Wrapf(ErrInvalidRequest, "unknown round %q", k)
	}
	values := s.Values(k)
	if contains(values, value) {
		return nil
	}
	if len(values) >= s.NumSigners {
		return errors.Wrapf(ErrSessionFull, "%s has %d of %d", k, len(values), s.NumSigners)
	}

	values = append(values, value)
	switch k {
	case KindIdentities:
		s.Identities = values
	case KindCommitments:
		s.Commitments = values
	case KindSignatureShares:
		s.SignatureShares = values
	}
	return nil
}

// finish records that the participant with identity is done and reports
// whether every participant is. Finishing twice counts once, so a retried
// or repeated end never removes the session early.
func (s *Status) finish(identity string) (bool, error) {
	if identity == "" {
		return false, errors.Wrap(ErrInvalidRequest, "identity is required")
	}
	if !contains(s.Identities, identity) {
		return false, errors.Wrap(ErrInvalidRequest, "identity is not part of the session")
	}
	if !contains(s.FinishedBy, identity) {
		s.FinishedBy = append(s.FinishedBy, identity)
	}
	return len(s.FinishedBy) >= s.NumSigners, nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// StartRequest is the body of POST /sessions.
type StartRequest struct {
	NumSigners          int    `json:"numSigners"`
	UnsignedTransaction string `json:"unsignedTransaction"`
}

func (r *StartRequest) validate() error {
	if r.NumSigners < 2 {
		return errors.Wrapf(ErrInvalidRequest, "numSigners must be at least 2, got %d", r.NumSigners)
	}
	if r.UnsignedTransaction == "" {
		return errors.Wrap(ErrInvalidRequest, "unsignedTransaction is required")
	}
	return nil
}

// FinishRequest is the body of DELETE /sessions/{id}.
type FinishRequest struct {
	Identity string `json:"identity"`
}

// SubmitRequest is the body of the per-round submit endpoints.
type SubmitRequest struct {
	Value string `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}
