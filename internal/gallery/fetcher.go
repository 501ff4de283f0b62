// Package gallery runs date-range searches against the archive feed.
package gallery

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/five82/apodview/internal/apod"
	"github.com/five82/apodview/internal/state"
)

// User-facing messages for each gallery outcome.
const (
	MsgLoading      = "🔃 Loading space photos..."
	MsgEmpty        = "⚠️ No results found for this date range."
	MsgFailed       = "⚠️ Unable to load data. Please try again."
	MsgMissingDates = "Please select both start and end dates."
	MsgInvalidDate  = "Dates must use the YYYY-MM-DD format."
	MsgInverted     = "The start date must be on or before the end date."
)

// Source supplies the full archive.
type Source interface {
	FetchArchive(ctx context.Context) ([]apod.Record, error)
}

var _ Source = (*apod.Client)(nil)

// Request is an accepted submission waiting to be run.
type Request struct {
	ID         string
	Generation uint64
	Range      apod.DateRange
}

// Result is the outcome of running a Request.
type Result struct {
	Request  Request
	Status   state.Status
	Records  []apod.Record
	Skipped  int
	Err      error
	Stale    bool // a newer submission started before this one finished
	Duration time.Duration
}

// Fetcher validates submissions and runs them against a Source, publishing
// outcomes into a Store.
type Fetcher struct {
	source Source
	store  *state.Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewFetcher builds a Fetcher. A nil store gets a private one.
func NewFetcher(source Source, store *state.Store, logger zerolog.Logger) *Fetcher {
	if store == nil {
		store = &state.Store{}
	}
	return &Fetcher{
		source: source,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Store returns the store results are published to.
func (f *Fetcher) Store() *state.Store {
	return f.store
}

// Submit validates the raw form values. On success the store switches to
// loading under a new generation; on failure nothing changes and no fetch
// should be made.
func (f *Fetcher) Submit(start, end string) (Request, error) {
	r, err := apod.ParseDateRange(start, end)
	if err != nil {
		f.logger.Debug().Str("start", start).Str("end", end).Err(err).Msg("range rejected")
		return Request{}, err
	}
	req := Request{
		ID:         uuid.NewString(),
		Generation: f.store.Begin(r),
		Range:      r,
	}
	f.logger.Info().
		Str("request_id", req.ID).
		Uint64("generation", req.Generation).
		Str("range", r.String()).
		Msg("search submitted")
	return req, nil
}

// Run fetches the archive once, filters it to req.Range and commits the
// outcome. There is no retry; a failure is final for this request.
func (f *Fetcher) Run(ctx context.Context, req Request) Result {
	started := f.now()
	log := f.logger.With().Str("request_id", req.ID).Uint64("generation", req.Generation).Logger()

	res := Result{Request: req}
	records, err := f.fetch(ctx)
	res.Duration = f.now().Sub(started)

	if err != nil {
		res.Status = state.StatusFailed
		res.Err = err
		log.Error().Err(err).Str("range", req.Range.String()).Dur("took", res.Duration).Msg("feed fetch failed")
	} else {
		res.Records, res.Skipped = apod.Filter(records, req.Range)
		res.Status = state.StatusLoaded
		if len(res.Records) == 0 {
			res.Status = state.StatusEmpty
		}
		if res.Skipped > 0 {
			log.Warn().Int("skipped", res.Skipped).Msg("records with unparseable dates ignored")
		}
		log.Info().
			Int("total", len(records)).
			Int("matched", len(res.Records)).
			Dur("took", res.Duration).
			Msg("search finished")
	}

	if !f.store.Commit(req.Generation, res.Records, res.Skipped, res.Err) {
		res.Stale = true
		log.Debug().Uint64("current", f.store.Current()).Msg("discarding stale result")
	}
	return res
}

func (f *Fetcher) fetch(ctx context.Context) ([]apod.Record, error) {
	if f.source == nil {
		return nil, errors.New("no feed source configured")
	}
	return f.source.FetchArchive(ctx)
}

// Message returns the text the gallery region shows for status.
func Message(status state.Status) string {
	switch status {
	case state.StatusLoading:
		return MsgLoading
	case state.StatusEmpty:
		return MsgEmpty
	case state.StatusFailed:
		return MsgFailed
	default:
		return ""
	}
}

// Notice returns the blocking notice for a Submit error.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, apod.ErrMissingDate):
		return MsgMissingDates
	case errors.Is(err, apod.ErrInvalidDate):
		return MsgInvalidDate
	case errors.Is(err, apod.ErrInvertedRange):
		return MsgInverted
	default:
		return err.Error()
	}
}
