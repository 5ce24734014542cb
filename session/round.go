package session

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidSignerCount is returned when a ceremony is configured for
	// fewer than two signers.
	ErrInvalidSignerCount = errors.New("session: number of signers must be at least 2")
	// ErrQuorumOverflow is returned when a round reports more values than
	// there are signers.
	ErrQuorumOverflow = errors.New("session: more values than signers")
	// ErrOutOfOrder is returned when a step is called in the wrong state.
	ErrOutOfOrder = errors.New("session: step called out of order")
)

// Round is one of the three exchanges of a signing ceremony.
type Round int

const (
	RoundIdentities Round = iota
	RoundCommitments
	RoundSignatureShares
)

func (r Round) String() string {
	switch r {
	case RoundIdentities:
		return "identities"
	case RoundCommitments:
		return "commitments"
	case RoundSignatureShares:
		return "signature shares"
	}
	return "unknown"
}

// Label names a single value of the round for operators.
func (r Round) Label() string {
	switch r {
	case RoundIdentities:
		return "Identity"
	case RoundCommitments:
		return "Commitment"
	case RoundSignatureShares:
		return "Signature Share"
	}
	return "Value"
}

// State is the position of a Manager in the ceremony.
type State int

const (
	StateUninitialized State = iota
	StateConfigResolved
	StateIdentitiesComplete
	StateCommitmentsComplete
	StateSharesComplete
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConfigResolved:
		return "config resolved"
	case StateIdentitiesComplete:
		return "identities complete"
	case StateCommitmentsComplete:
		return "commitments complete"
	case StateSharesComplete:
		return "shares complete"
	}
	return "unknown"
}

// Config is what every participant of a ceremony agrees on.
type Config struct {
	NumSigners          int
	UnsignedTransaction string
}

func (c Config) validate() error {
	if c.NumSigners < 2 {
		return errors.Wrapf(ErrInvalidSignerCount, "got %d", c.NumSigners)
	}
	if c.UnsignedTransaction == "" {
		return errors.New("session: unsigned transaction is required")
	}
	return nil
}
