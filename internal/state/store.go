package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/apodview/internal/apod"
)

// Status is the gallery region's current phase.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusEmpty
	StatusFailed
)

// String returns a lowercase label for logs.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Snapshot represents the latest gallery data available to the UI.
type Snapshot struct {
	Generation          uint64
	Range               apod.DateRange
	Status              Status
	Records             []apod.Record
	Skipped             int // records dropped for unparseable dates
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// Store coordinates gallery updates. Every submission begins a new generation;
// only the current generation may commit, so a slow response can never
// overwrite a newer one.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Begin starts a new generation for r, clears the gallery and marks it loading.
func (s *Store) Begin(r apod.DateRange) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Generation++
	s.snapshot.Range = r
	s.snapshot.Status = StatusLoading
	s.snapshot.Records = nil
	s.snapshot.Skipped = 0
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	return s.snapshot.Generation
}

// Current returns the newest generation handed out by Begin.
func (s *Store) Current() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Generation
}

// Commit records the outcome of generation gen. It returns false, leaving the
// store untouched, when gen is no longer current. A non-nil err marks the
// gallery failed and drops any records.
func (s *Store) Commit(gen uint64, records []apod.Record, skipped int, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen == 0 || gen != s.snapshot.Generation {
		return false
	}

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.Status = StatusFailed
		s.snapshot.Records = nil
		s.snapshot.Skipped = 0
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return true
	}

	s.snapshot.Records = cloneRecords(records)
	s.snapshot.Skipped = skipped
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	if len(records) == 0 {
		s.snapshot.Status = StatusEmpty
	} else {
		s.snapshot.Status = StatusLoaded
	}
	return true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Records = cloneRecords(s.snapshot.Records)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneRecords(items []apod.Record) []apod.Record {
	if len(items) == 0 {
		return nil
	}
	dup := make([]apod.Record, len(items))
	copy(dup, items)
	return dup
}
