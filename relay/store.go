package relay

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Store holds relay sessions. Implementations must be safe for concurrent
// use; Append and Finish are atomic per session.
type Store interface {
	Create(ctx context.Context, s *Status) error
	Get(ctx context.Context, id string) (*Status, error)
	Append(ctx context.Context, id string, kind Kind, value string) (*Status, error)
	// Finish records that the participant with identity has ended the
	// session. The session is removed once NumSigners distinct
	// participants have.
	Finish(ctx context.Context, id, identity string) error
}

type memoryEntry struct {
	status    *Status
	expiresAt time.Time
}

// MemoryStore keeps sessions in memory. Sessions expire ttl after their
// last write.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*memoryEntry
	now      func() time.Time
}

// NewMemoryStore returns an empty store. A zero ttl never expires.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]*memoryEntry),
		now:      time.Now,
	}
}

func (m *MemoryStore) expiry() time.Time {
	if m.ttl == 0 {
		return time.Time{}
	}
	return m.now().Add(m.ttl)
}

func (m *MemoryStore) live(e *memoryEntry) bool {
	return e.expiresAt.IsZero() || m.now().Before(e.expiresAt)
}

func (m *MemoryStore) Create(_ context.Context, s *Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[s.ID]; ok && m.live(e) {
		return errors.Errorf("relay: session %s exists", s.ID)
	}
	m.sessions[s.ID] = &memoryEntry{status: cloneStatus(s), expiresAt: m.expiry()}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok || !m.live(e) {
		return nil, errors.Wrap(ErrSessionNotFound, id)
	}
	return cloneStatus(e.status), nil
}

func (m *MemoryStore) Append(_ context.Context, id string, kind Kind, value string) (*Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok || !m.live(e) {
		return nil, errors.Wrap(ErrSessionNotFound, id)
	}
	if err := e.status.add(kind, value); err != nil {
		return nil, err
	}
	e.expiresAt = m.expiry()
	return cloneStatus(e.status), nil
}

func (m *MemoryStore) Finish(_ context.Context, id, identity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok || !m.live(e) {
		return errors.Wrap(ErrSessionNotFound, id)
	}
	done, err := e.status.finish(identity)
	if err != nil {
		return err
	}
	if done {
		delete(m.sessions, id)
	}
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if !m.live(e) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func cloneStatus(s *Status) *Status {
	c := *s
	c.Identities = append([]string(nil), s.Identities...)
	c.Commitments = append([]string(nil), s.Commitments...)
	c.SignatureShares = append([]string(nil), s.SignatureShares...)
	c.FinishedBy = append([]string(nil), s.FinishedBy...)
	return &c
}
