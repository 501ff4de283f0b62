// Package apod provides the archive feed client and the record model.
//
// # Overview
//
// The archive is published as one JSON array of records, one per day, each with a
// date, title, media type, URL(s) and an explanation. apodview downloads the whole
// array on every search and filters it locally, so the client has a single call.
//
// # Architecture
//
//   - client.go: HTTP client for the feed endpoint
//   - types.go: Record and MediaType mirroring the feed schema
//   - daterange.go: user input validation, DateRange and Filter
//
// # Client Usage
//
//	client, err := apod.NewClient(apod.DefaultFeedURL, apod.WithTimeout(30*time.Second))
//	if err != nil {
//		return err
//	}
//	records, err := client.FetchArchive(ctx)
//	if err != nil {
//		log.Printf("feed fetch failed: %v", err)
//	}
//
// # Date Ranges
//
// ParseDateRange accepts the two raw form values. It returns ErrMissingDate when
// either is blank, ErrInvalidDate when either is not YYYY-MM-DD, and
// ErrInvertedRange when the start is after the end. Callers match these with
// errors.Is; the wrapped message carries the offending value.
//
// Filter compares parsed calendar days rather than strings, keeps feed order, and
// reports how many records had a date it could not parse.
//
// # Error Handling
//
// FetchArchive wraps transport failures ("execute request"), HTTP status >= 400
// ("returned status N") and JSON failures ("decode response"). None are retried.
package apod
