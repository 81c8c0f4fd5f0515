package importer

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/hora-obra/internal/model"
)

// Snapshot is one committed record set. It is never modified after it has
// been installed in a Session.
type Snapshot struct {
	ImportID    uuid.UUID
	Source      string
	CommittedAt time.Time
	Records     []model.TimeRecord
}

// Session holds the committed record set. Readers always see a whole
// snapshot: commits install a new one instead of changing the current one.
type Session struct {
	current atomic.Pointer[Snapshot]
}

// NewSession returns a session with an empty record set.
func NewSession() *Session {
	return &Session{}
}

// Replace installs snap as the committed record set, discarding the previous
// one entirely.
func (s *Session) Replace(snap Snapshot) {
	records := make([]model.TimeRecord, len(snap.Records))
	copy(records, snap.Records)
	snap.Records = records
	s.current.Store(&snap)
}

// Snapshot returns the committed snapshot, or nil before the first commit.
func (s *Session) Snapshot() *Snapshot {
	return s.current.Load()
}

// Records returns the committed records. The slice must not be modified.
func (s *Session) Records() []model.TimeRecord {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	return snap.Records
}
