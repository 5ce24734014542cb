package session

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// StartOptions are the configuration values known before the ceremony
// starts. Zero values are asked for interactively, unless the transport
// rejoins a session, in which case they are ignored.
type StartOptions struct {
	NumSigners          int
	UnsignedTransaction string
}

// Validate checks the supplied values. It needs no I/O, so callers can run
// it before opening anything.
func (o StartOptions) Validate() error {
	if o.NumSigners != 0 && o.NumSigners < 2 {
		return errors.Wrapf(ErrInvalidSignerCount, "got %d", o.NumSigners)
	}
	return nil
}

// Manager drives one participant through a ceremony: configuration, then
// identities, commitments and signature shares, in that order.
//
// A Manager is used by a single flow and is not safe for concurrent use.
type Manager struct {
	transport Transport
	prompter  Prompter
	collector *Collector
	log       *slog.Logger

	state       State
	config      Config
	identities  []string
	commitments []string
	shares      []string
}

// NewManager returns a manager on transport. prompter may be nil when
// every start option is supplied or the session is rejoined.
func NewManager(transport Transport, prompter Prompter, opts ...CollectorOption) *Manager {
	m := &Manager{
		transport: transport,
		prompter:  prompter,
		collector: NewCollector(transport, opts...),
	}
	m.log = m.collector.log
	return m
}

// State returns the current state.
func (m *Manager) State() State {
	return m.state
}

// Config returns the resolved configuration.
func (m *Manager) Config() Config {
	return m.config
}

func (m *Manager) expect(s State) error {
	if m.state != s {
		return errors.Wrapf(ErrOutOfOrder, "in state %s, need %s", m.state, s)
	}
	return nil
}

// Start resolves the ceremony configuration.
//
// A supplied NumSigners below two fails before any I/O. If the transport
// is attached to an existing session its configuration wins. Otherwise
// missing values are prompted for, validated, and a new session is opened.
func (m *Manager) Start(ctx context.Context, opts StartOptions) (Config, error) {
	if err := m.expect(StateUninitialized); err != nil {
		return Config{}, err
	}
	if err := opts.Validate(); err != nil {
		return Config{}, err
	}

	cfg, ok, err := m.transport.Existing(ctx)
	if err != nil {
		return Config{}, err
	}
	if ok {
		if err := cfg.validate(); err != nil {
			return Config{}, errors.Wrap(err, "relay session")
		}
		m.resolve(cfg)
		return cfg, nil
	}

	cfg = Config{NumSigners: opts.NumSigners, UnsignedTransaction: opts.UnsignedTransaction}
	if cfg.NumSigners == 0 {
		n, err := m.input(ctx, "Enter the number of participants")
		if err != nil {
			return Config{}, err
		}
		cfg.NumSigners, err = strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return Config{}, errors.Wrapf(ErrInvalidSignerCount, "%q is not a number", n)
		}
		if cfg.NumSigners < 2 {
			return Config{}, errors.Wrapf(ErrInvalidSignerCount, "got %d", cfg.NumSigners)
		}
	}
	if cfg.UnsignedTransaction == "" {
		if cfg.UnsignedTransaction, err = m.input(ctx, "Enter the unsigned transaction"); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	if err := m.transport.Open(ctx, cfg); err != nil {
		return Config{}, err
	}
	m.resolve(cfg)
	return cfg, nil
}

func (m *Manager) input(ctx context.Context, label string) (string, error) {
	if m.prompter == nil {
		return "", errors.Errorf("session: no prompter to ask %q", label)
	}
	return m.prompter.Input(ctx, label)
}

func (m *Manager) resolve(cfg Config) {
	m.config = cfg
	m.state = StateConfigResolved
	m.log.Info("Session configured", "numSigners", cfg.NumSigners)
}

func (m *Manager) round(ctx context.Context, from State, round Round, local string) ([]string, error) {
	if err := m.expect(from); err != nil {
		return nil, err
	}
	set, err := m.collector.Collect(ctx, round, local, m.config.NumSigners)
	if err != nil {
		return nil, err
	}
	m.state = from + 1
	return set, nil
}

// Identities runs the identity round with the local identity.
func (m *Manager) Identities(ctx context.Context, identity string) ([]string, error) {
	set, err := m.round(ctx, StateConfigResolved, RoundIdentities, identity)
	if err != nil {
		return nil, err
	}
	m.identities = set
	return set, nil
}

// SigningCommitments runs the commitment round with the local commitment.
func (m *Manager) SigningCommitments(ctx context.Context, commitment string) ([]string, error) {
	set, err := m.round(ctx, StateIdentitiesComplete, RoundCommitments, commitment)
	if err != nil {
		return nil, err
	}
	m.commitments = set
	return set, nil
}

// SignatureShares runs the signature share round with the local share.
func (m *Manager) SignatureShares(ctx context.Context, share string) ([]string, error) {
	set, err := m.round(ctx, StateCommitmentsComplete, RoundSignatureShares, share)
	if err != nil {
		return nil, err
	}
	m.shares = set
	return set, nil
}

// End releases the transport session.
func (m *Manager) End(ctx context.Context) error {
	return m.transport.Close(ctx)
}
