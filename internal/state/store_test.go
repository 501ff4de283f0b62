package state

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/five82/apodview/internal/apod"
)

func mustRange(t *testing.T, start, end string) apod.DateRange {
	t.Helper()
	r, err := apod.ParseDateRange(start, end)
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	return r
}

func TestStore_ZeroValue(t *testing.T) {
	var s Store
	snap := s.Snapshot()
	if snap.Status != StatusIdle || snap.Generation != 0 || snap.Records != nil {
		t.Fatalf("zero snapshot = %#v", snap)
	}
	if s.Commit(0, []apod.Record{{Title: "x"}}, 0, nil) {
		t.Fatalf("Commit(0) accepted on fresh store")
	}
}

func TestStore_BeginCommitAndSnapshotClone(t *testing.T) {
	var s Store
	r := mustRange(t, "2024-01-01", "2024-01-02")

	gen := s.Begin(r)
	if gen != 1 {
		t.Fatalf("Begin generation = %d, want 1", gen)
	}
	if snap := s.Snapshot(); snap.Status != StatusLoading || snap.Range != r {
		t.Fatalf("after Begin snapshot = %#v, want loading", snap)
	}

	before := time.Now()
	if !s.Commit(gen, []apod.Record{{Title: "a"}, {Title: "b"}}, 1, nil) {
		t.Fatalf("Commit rejected current generation")
	}
	snap := s.Snapshot()
	if snap.Status != StatusLoaded || len(snap.Records) != 2 || snap.Skipped != 1 {
		t.Fatalf("snapshot = %#v, want 2 loaded records", snap)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	snap.Records[0].Title = "mutated"
	if s.Snapshot().Records[0].Title != "a" {
		t.Fatalf("Snapshot should clone records")
	}
}

func TestStore_EmptyResultIsDistinctFromFailure(t *testing.T) {
	var s Store
	gen := s.Begin(mustRange(t, "2024-01-01", "2024-01-02"))
	s.Commit(gen, []apod.Record{}, 0, nil)
	snap := s.Snapshot()
	if snap.Status != StatusEmpty || snap.LastError != nil {
		t.Fatalf("snapshot = %#v, want empty without error", snap)
	}
}

func TestStore_FailureDropsRecordsAndClonesError(t *testing.T) {
	var s Store
	gen := s.Begin(mustRange(t, "2024-01-01", "2024-01-02"))
	s.Commit(gen, []apod.Record{{Title: "a"}}, 0, nil)

	gen = s.Begin(mustRange(t, "2024-01-01", "2024-01-02"))
	origErr := errors.New("boom")
	s.Commit(gen, nil, 0, origErr)

	snap := s.Snapshot()
	if snap.Status != StatusFailed || snap.Records != nil {
		t.Fatalf("snapshot = %#v, want failed with no records", snap)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" || !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_StaleCommitIsRejected(t *testing.T) {
	var s Store
	first := s.Begin(mustRange(t, "2024-01-01", "2024-01-31"))
	second := s.Begin(mustRange(t, "2024-02-01", "2024-02-02"))

	if !s.Commit(second, []apod.Record{{Title: "new"}}, 0, nil) {
		t.Fatalf("Commit rejected newest generation")
	}
	if s.Commit(first, []apod.Record{{Title: "old"}}, 0, nil) {
		t.Fatalf("Commit accepted stale generation")
	}
	if s.Commit(first, nil, 0, errors.New("late failure")) {
		t.Fatalf("Commit accepted stale failure")
	}
	snap := s.Snapshot()
	if snap.Status != StatusLoaded || len(snap.Records) != 1 || snap.Records[0].Title != "new" {
		t.Fatalf("snapshot = %#v, want newest records", snap)
	}
	if s.Current() != second {
		t.Fatalf("Current() = %d, want %d", s.Current(), second)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store
	r := mustRange(t, "2024-01-01", "2024-01-01")
	for i := 1; i <= 3; i++ {
		s.Commit(s.Begin(r), nil, 0, errors.New("fail"))
		if got := s.Snapshot().ConsecutiveFailures; got != i {
			t.Fatalf("ConsecutiveFailures = %d, want %d", got, i)
		}
	}
	s.Commit(s.Begin(r), nil, 0, nil)
	if got := s.Snapshot().ConsecutiveFailures; got != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", got)
	}
}

func TestStore_ConcurrentBeginCommit(t *testing.T) {
	var s Store
	r := mustRange(t, "2024-01-01", "2024-01-01")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gen := s.Begin(r)
			s.Commit(gen, []apod.Record{{Title: "x"}}, 0, nil)
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	if s.Current() != 50 {
		t.Fatalf("Current() = %d, want 50", s.Current())
	}
}

func TestStatus_String(t *testing.T) {
	want := map[Status]string{
		StatusIdle: "idle", StatusLoading: "loading", StatusLoaded: "loaded",
		StatusEmpty: "empty", StatusFailed: "failed",
	}
	for st, label := range want {
		if st.String() != label {
			t.Fatalf("%d.String() = %q, want %q", st, st.String(), label)
		}
	}
}
