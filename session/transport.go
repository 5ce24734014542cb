package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Transport moves round values between participants.
//
// A transport only submits and fetches. Completion, ordering and the wait
// between polls belong to the [Collector].
type Transport interface {
	// Existing returns the configuration of a session this transport is
	// already attached to, if any.
	Existing(ctx context.Context) (Config, bool, error)
	// Open starts a new session with cfg.
	Open(ctx context.Context, cfg Config) error
	// Submit publishes the local value for round.
	Submit(ctx context.Context, round Round, local string) error
	// Poll returns every value of round seen so far.
	Poll(ctx context.Context, round Round) ([]string, error)
	// PollInterval is the wait between two polls.
	PollInterval() time.Duration
	// Close releases the session.
	Close(ctx context.Context) error
}

// Prompter asks the local operator for input.
type Prompter interface {
	Input(ctx context.Context, label string) (string, error)
	Display(label, value string) error
}

// Interactive collects peer values by asking the operator to paste what
// the other participants sent them. Values are taken as typed; checking
// them is left to whoever consumes them.
type Interactive struct {
	prompter Prompter

	mu        sync.Mutex
	collected map[Round][]string
}

// NewInteractive returns an interactive transport on p.
func NewInteractive(p Prompter) *Interactive {
	return &Interactive{prompter: p, collected: make(map[Round][]string)}
}

func (t *Interactive) Existing(context.Context) (Config, bool, error) {
	return Config{}, false, nil
}

func (t *Interactive) Open(context.Context, Config) error {
	return nil
}

// Submit shows the local value for the operator to share.
func (t *Interactive) Submit(_ context.Context, round Round, local string) error {
	t.mu.Lock()
	t.collected[round] = []string{local}
	t.mu.Unlock()
	return t.prompter.Display("Your "+round.Label(), local)
}

// Poll asks for one more peer value and returns everything so far.
func (t *Interactive) Poll(ctx context.Context, round Round) ([]string, error) {
	t.mu.Lock()
	k := len(t.collected[round])
	t.mu.Unlock()

	v, err := t.prompter.Input(ctx, fmt.Sprintf("%s #%d", round.Label(), k))
	if err != nil {
		// a closed or failed terminal will not recover
		return nil, backoff.Permanent(err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.collected[round] = append(t.collected[round], v)
	return append([]string(nil), t.collected[round]...), nil
}

// PollInterval is zero: the prompt itself is the wait.
func (t *Interactive) PollInterval() time.Duration {
	return 0
}

func (t *Interactive) Close(context.Context) error {
	return nil
}
