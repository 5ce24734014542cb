package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/f3rmion/fy-multisig/logutil"
	"github.com/f3rmion/fy-multisig/relay"
	"github.com/pkg/errors"
)

// DefaultRelayPollInterval is the wait between two relay status requests.
const DefaultRelayPollInterval = 3 * time.Second

// RelayClient is the part of [relay.Client] a relayed ceremony uses.
type RelayClient interface {
	StartSession(ctx context.Context, numSigners int, unsignedTransaction string) (*relay.Status, error)
	Join(ctx context.Context, id string) (*relay.Status, error)
	Status(ctx context.Context, id string) (*relay.Status, error)
	SubmitIdentity(ctx context.Context, id, identity string) error
	SubmitCommitment(ctx context.Context, id, commitment string) error
	SubmitSignatureShare(ctx context.Context, id, share string) error
	EndSession(ctx context.Context, id, identity string) error
	ConnectionString(id string) string
}

// Relayed exchanges round values through a session relay.
type Relayed struct {
	client    RelayClient
	sessionID string
	identity  string
	interval  time.Duration
	log       *slog.Logger
}

// RelayedOption configures a Relayed transport.
type RelayedOption func(*Relayed)

// WithPollInterval overrides [DefaultRelayPollInterval].
func WithPollInterval(d time.Duration) RelayedOption {
	return func(t *Relayed) { t.interval = d }
}

// WithRelayLogger sets the transport logger.
func WithRelayLogger(log *slog.Logger) RelayedOption {
	return func(t *Relayed) { t.log = log }
}

// NewRelayed returns a relayed transport. A non-empty sessionID rejoins
// that session instead of starting a new one.
func NewRelayed(client RelayClient, sessionID string, opts ...RelayedOption) *Relayed {
	t := &Relayed{
		client:    client,
		sessionID: sessionID,
		interval:  DefaultRelayPollInterval,
		log:       logutil.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SessionID returns the relay session id, empty before Open or rejoin.
func (t *Relayed) SessionID() string {
	return t.sessionID
}

// ConnectionString returns the value other participants need to join.
func (t *Relayed) ConnectionString() string {
	if t.sessionID == "" {
		return ""
	}
	return t.client.ConnectionString(t.sessionID)
}

// Existing joins the known session and returns the relay's configuration.
func (t *Relayed) Existing(ctx context.Context) (Config, bool, error) {
	if t.sessionID == "" {
		return Config{}, false, nil
	}
	st, err := t.client.Join(ctx, t.sessionID)
	if err != nil {
		return Config{}, false, errors.Wrapf(err, "joining session %s", t.sessionID)
	}
	t.log.Info("Joined signing session", "session", t.sessionID, "numSigners", st.NumSigners)
	return Config{NumSigners: st.NumSigners, UnsignedTransaction: st.UnsignedTransaction}, true, nil
}

// Open starts a new relay session.
func (t *Relayed) Open(ctx context.Context, cfg Config) error {
	st, err := t.client.StartSession(ctx, cfg.NumSigners, cfg.UnsignedTransaction)
	if err != nil {
		return errors.Wrap(err, "starting signing session")
	}
	t.sessionID = st.ID
	t.log.Info("Started signing session", "session", st.ID, "connection", t.ConnectionString())
	return nil
}

func (t *Relayed) Submit(ctx context.Context, round Round, local string) error {
	switch round {
	case RoundIdentities:
		t.identity = local
		return t.client.SubmitIdentity(ctx, t.sessionID, local)
	case RoundCommitments:
		return t.client.SubmitCommitment(ctx, t.sessionID, local)
	case RoundSignatureShares:
		return t.client.SubmitSignatureShare(ctx, t.sessionID, local)
	}
	return errors.Errorf("unknown round %d", round)
}

func (t *Relayed) Poll(ctx context.Context, round Round) ([]string, error) {
	st, err := t.client.Status(ctx, t.sessionID)
	if errors.Is(err, relay.ErrSessionNotFound) {
		// expired or ended: no amount of polling brings it back
		return nil, backoff.Permanent(err)
	}
	if err != nil {
		return nil, err
	}
	switch round {
	case RoundIdentities:
		return st.Identities, nil
	case RoundCommitments:
		return st.Commitments, nil
	case RoundSignatureShares:
		return st.SignatureShares, nil
	}
	return nil, backoff.Permanent(errors.Errorf("unknown round %d", round))
}

func (t *Relayed) PollInterval() time.Duration {
	return t.interval
}

// Close tells the relay this participant is done. Nothing is sent before
// the participant has submitted its identity.
func (t *Relayed) Close(ctx context.Context) error {
	if t.sessionID == "" || t.identity == "" {
		return nil
	}
	return t.client.EndSession(ctx, t.sessionID, t.identity)
}
