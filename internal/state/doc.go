// Package state holds the gallery's shared state between the fetcher and the UI.
//
// # Overview
//
// A search runs on a tea.Cmd goroutine while the UI keeps drawing. Store is the
// one place both sides meet: the fetcher writes outcomes into it, the UI reads
// snapshots out of it.
//
// # Generations
//
// Each submission calls Begin, which bumps a generation counter, clears the
// gallery and sets StatusLoading. The fetch later calls Commit with the
// generation it was started with:
//
//	gen := store.Begin(r)              // generation 7, loading
//	...                                // user submits again: generation 8
//	store.Commit(gen, records, 0, nil) // false: 7 is stale, nothing changes
//
// Only the newest submission can change what the gallery shows, which is the
// last-writer-wins rule with the race removed.
//
// # Commit Semantics
//
//	store.Commit(gen, records, skipped, nil) // len > 0  → StatusLoaded
//	store.Commit(gen, nil, 0, nil)           // empty    → StatusEmpty
//	store.Commit(gen, nil, 0, err)           // failure  → StatusFailed, records dropped
//
// Unlike a poller cache, a failed search does not keep older records around: the
// gallery shows the failure message and no cards.
//
// # Defensive Copying
//
// Commit and Snapshot clone the record slice and the error value so the UI can
// never mutate what the fetcher stored.
//
// # Testing Considerations
//
// The zero Store is ready to use. Snapshot on a fresh store reports StatusIdle
// with generation 0, and Commit(0, ...) is always rejected.
package state
