package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/apodview/internal/apod"
	"github.com/five82/apodview/internal/config"
	"github.com/five82/apodview/internal/gallery"
	"github.com/five82/apodview/internal/logging"
	"github.com/five82/apodview/internal/state"
)

// ErrFetchFailed is returned by List when the feed could not be loaded.
var ErrFetchFailed = errors.New(gallery.MsgFailed)

// ListOptions configure a headless search.
type ListOptions struct {
	ConfigPath string
	Start      string
	End        string
	JSON       bool
	Version    string
}

// List fetches the feed once, filters it to the requested range and writes
// the matches to out. Logs and the empty notice go to errOut.
func List(ctx context.Context, opts ListOptions, out, errOut io.Writer) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, _, err := logging.New(logging.Options{
		Level:     cfg.LogLevel,
		Format:    "console",
		Writer:    errOut,
		Component: "list",
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	fetcher, err := newFetcher(cfg, opts.Version, logger)
	if err != nil {
		return err
	}

	req, err := fetcher.Submit(opts.Start, opts.End)
	if err != nil {
		return fmt.Errorf("invalid range: %w", err)
	}

	res := fetcher.Run(ctx, req)
	switch res.Status {
	case state.StatusFailed:
		return fmt.Errorf("%w: %w", ErrFetchFailed, res.Err)
	case state.StatusEmpty:
		if !opts.JSON {
			_, _ = fmt.Fprintln(errOut, gallery.MsgEmpty)
			return nil
		}
	}

	if opts.JSON {
		return writeJSON(out, res.Records)
	}
	return writeTable(out, res.Records)
}

func writeJSON(w io.Writer, records []apod.Record) error {
	if records == nil {
		records = []apod.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return nil
}

func writeTable(w io.Writer, records []apod.Record) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		media := string(rec.MediaType)
		if !rec.MediaType.Known() {
			media = "unsupported"
		}
		rows = append(rows, []string{rec.Date, media, rec.Title, rec.DisplayURL()})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("DATE", "MEDIA", "TITLE", "URL").
		Rows(rows...)

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
