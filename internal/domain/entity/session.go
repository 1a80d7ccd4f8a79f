package entity

import (
	"sync"
	"sync/atomic"
	"time"
)

// ClaimSession owns one ClaimRecord for the lifetime of a user session.
// Mutations go through Update which serialises them; the resolution
// sequence lets late distance results detect that they were superseded.
type ClaimSession struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	record   *ClaimRecord
	revision uint64

	resolutionSeq atomic.Uint64
	lastAccess    atomic.Int64
}

// NewClaimSession wraps a record in a session
func NewClaimSession(id string, record *ClaimRecord, now time.Time) *ClaimSession {
	s := &ClaimSession{
		ID:        id,
		CreatedAt: now,
		record:    record,
	}
	s.lastAccess.Store(now.UnixNano())
	return s
}

// Update runs fn with exclusive access to the record. A successful fn
// advances the record revision.
func (s *ClaimSession) Update(fn func(r *ClaimRecord) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(fn)
}

// UpdateIfRevision runs fn only if no update happened since revision was
// read, otherwise it returns ErrClaimChanged.
func (s *ClaimSession) UpdateIfRevision(revision uint64, fn func(r *ClaimRecord) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revision != revision {
		return ErrClaimChanged
	}
	return s.apply(fn)
}

func (s *ClaimSession) apply(fn func(r *ClaimRecord) error) error {
	s.Touch(time.Now())
	if err := fn(s.record); err != nil {
		return err
	}
	s.revision++
	return nil
}

// Snapshot returns a deep copy of the current record
func (s *ClaimSession) Snapshot() *ClaimRecord {
	rec, _ := s.SnapshotRevision()
	return rec
}

// SnapshotRevision returns a deep copy of the current record and the
// revision it was taken at
func (s *ClaimSession) SnapshotRevision() (*ClaimRecord, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone(), s.revision
}

// BeginResolution starts a new resolution generation and returns its number.
// Call it inside Update together with the point change it belongs to.
func (s *ClaimSession) BeginResolution() uint64 {
	return s.resolutionSeq.Add(1)
}

// IsCurrentResolution reports whether seq is still the newest generation
func (s *ClaimSession) IsCurrentResolution(seq uint64) bool {
	return s.resolutionSeq.Load() == seq
}

// CurrentResolution returns the newest generation number
func (s *ClaimSession) CurrentResolution() uint64 {
	return s.resolutionSeq.Load()
}

// Touch records activity for idle expiry
func (s *ClaimSession) Touch(now time.Time) {
	s.lastAccess.Store(now.UnixNano())
}

// LastAccess returns the time of the last activity
func (s *ClaimSession) LastAccess() time.Time {
	return time.Unix(0, s.lastAccess.Load())
}

// IdleSince reports whether the session saw no activity after cutoff
func (s *ClaimSession) IdleSince(cutoff time.Time) bool {
	return s.LastAccess().Before(cutoff)
}
