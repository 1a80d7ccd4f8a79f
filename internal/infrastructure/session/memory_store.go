package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

// MemoryStore keeps claim sessions in process memory.
// Sessions are lost on restart; nothing about a claim is persisted until
// the exported document is archived.
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]*entity.ClaimSession
	maxSessions int
	now         func() time.Time
	logger      *zap.Logger
}

var _ port.SessionStore = (*MemoryStore)(nil)

// Option configures a MemoryStore
type Option func(*MemoryStore)

// WithMaxSessions caps the number of live sessions. Zero means no cap.
func WithMaxSessions(n int) Option {
	return func(s *MemoryStore) {
		s.maxSessions = n
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates an empty store
func NewMemoryStore(logger *zap.Logger, opts ...Option) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MemoryStore{
		sessions: make(map[string]*entity.ClaimSession),
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new session around record
func (s *MemoryStore) Create(ctx context.Context, record *entity.ClaimRecord) (*entity.ClaimSession, error) {
	if record == nil {
		return nil, fmt.Errorf("claim record is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		return nil, fmt.Errorf("session limit reached (%d)", s.maxSessions)
	}

	id := uuid.NewString()
	session := entity.NewClaimSession(id, record, s.now())
	s.sessions[id] = session

	s.logger.Debug("Session created", zap.String("session_id", id), zap.Int("live", len(s.sessions)))
	return session, nil
}

// Get returns the session and marks it as recently used
func (s *MemoryStore) Get(ctx context.Context, id string) (*entity.ClaimSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}
	session.Touch(s.now())
	return session, nil
}

// Delete removes a session
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}

// Sweep removes sessions idle since before cutoff and returns their ids in order
func (s *MemoryStore) Sweep(ctx context.Context, cutoff time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []string
	for id, session := range s.sessions {
		if session.IdleSince(cutoff) {
			expired = append(expired, id)
			delete(s.sessions, id)
		}
	}
	sort.Strings(expired)

	if len(expired) > 0 {
		s.logger.Debug("Swept idle sessions", zap.Int("expired", len(expired)), zap.Int("live", len(s.sessions)))
	}
	return expired
}

// Count returns the number of live sessions
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
