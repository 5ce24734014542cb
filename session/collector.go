package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/f3rmion/fy-multisig/logutil"
	"github.com/pkg/errors"
)

// ProgressFunc observes a round growing towards its target.
type ProgressFunc func(round Round, have, want int)

var errIncomplete = errors.New("round incomplete")

// Collector runs one round: it submits the local value once, then polls
// the transport until the round holds target values.
//
// The returned set always has the local value first and exactly target
// entries. Values are not deduplicated.
type Collector struct {
	transport  Transport
	log        *slog.Logger
	progress   ProgressFunc
	newBackOff func() backoff.BackOff
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) CollectorOption {
	return func(c *Collector) { c.log = log }
}

// WithProgress sets the progress observer.
func WithProgress(fn ProgressFunc) CollectorOption {
	return func(c *Collector) { c.progress = fn }
}

// WithBackOff replaces the constant wait at the transport's poll interval.
func WithBackOff(fn func() backoff.BackOff) CollectorOption {
	return func(c *Collector) { c.newBackOff = fn }
}

// NewCollector returns a collector on t.
func NewCollector(t Transport, opts ...CollectorOption) *Collector {
	c := &Collector{
		transport: t,
		log:       logutil.Discard(),
		progress:  func(Round, int, int) {},
	}
	c.newBackOff = func() backoff.BackOff {
		return backoff.NewConstantBackOff(c.transport.PollInterval())
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// normalize moves the first occurrence of local to the front, or prepends
// it when the transport has not reported it yet.
func normalize(polled []string, local string) []string {
	out := make([]string, 0, len(polled)+1)
	out = append(out, local)
	found := false
	for _, v := range polled {
		if !found && v == local {
			found = true
			continue
		}
		out = append(out, v)
	}
	return out
}

// Collect returns the complete set of target values for round.
//
// Poll errors are logged and retried. Errors marked with
// [backoff.Permanent] and context cancellation end the round.
func (c *Collector) Collect(ctx context.Context, round Round, local string, target int) ([]string, error) {
	if target < 2 {
		return nil, errors.Wrapf(ErrInvalidSignerCount, "got %d", target)
	}
	if err := c.transport.Submit(ctx, round, local); err != nil {
		return nil, errors.Wrapf(err, "submitting %s", round)
	}

	set := []string{local}
	c.report(round, len(set), target)

	op := func() error {
		polled, err := c.transport.Poll(ctx, round)
		if err != nil {
			return err
		}
		next := normalize(polled, local)
		if len(next) > target {
			return backoff.Permanent(errors.Wrapf(ErrQuorumOverflow, "%s: %d of %d", round, len(next), target))
		}
		if len(next) > len(set) {
			set = next
			c.report(round, len(set), target)
		}
		if len(set) < target {
			return errIncomplete
		}
		return nil
	}
	notify := func(err error, _ time.Duration) {
		if !errors.Is(err, errIncomplete) {
			c.log.Warn("Polling failed, retrying", "round", round.String(), "err", err)
		}
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(c.newBackOff(), ctx), notify); err != nil {
		return nil, errors.Wrapf(err, "collecting %s", round)
	}
	return set, nil
}

func (c *Collector) report(round Round, have, want int) {
	c.log.Debug("Round progress", "round", round.String(), "progress", fmt.Sprintf("%d/%d", have, want))
	c.progress(round, have, want)
}
