package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/five82/apodview/internal/apod"
	"github.com/five82/apodview/internal/browser"
	"github.com/five82/apodview/internal/config"
	"github.com/five82/apodview/internal/gallery"
	"github.com/five82/apodview/internal/logging"
	"github.com/five82/apodview/internal/prefs"
	"github.com/five82/apodview/internal/state"
	"github.com/five82/apodview/internal/ui"
	"github.com/five82/apodview/internal/video"
)

// Options configure the apodview application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/apodview/prefs.toml
	Start      string // prefills the form; with End set the search runs at startup
	End        string
	Version    string
}

// Run boots the TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logPath := cfg.LogFile
	if loggingDisabled(cfg.LogLevel) {
		logPath = ""
	}
	logger, closer, err := logging.New(logging.Options{
		Level:     cfg.LogLevel,
		Path:      logPath,
		Component: "apodview",
	})
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = closer.Close() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		logger.Warn().Err(err).Msg("preferences unavailable, using defaults")
	}

	fetcher, err := newFetcher(cfg, opts.Version, logger)
	if err != nil {
		return err
	}

	start, end := userPrefs.LastStart, userPrefs.LastEnd
	if opts.Start != "" || opts.End != "" {
		start, end = opts.Start, opts.End
	}

	var prober video.Checker
	if cfg.EmbedCheck {
		prober = video.NewProber(cfg.OEmbedURL, nil)
	}

	logger.Info().
		Str("config", cfg.Path).
		Str("feed", cfg.FeedURL).
		Bool("embed_check", cfg.EmbedCheck).
		Msg("starting")

	return ui.Run(ui.Options{
		Context:    ctx,
		Fetcher:    fetcher,
		Prober:     prober,
		Opener:     browser.NewSystem(),
		Logger:     logging.Named(logger, "ui"),
		LogPath:    logPath,
		ThemeName:  userPrefs.Theme,
		PrefsPath:  prefsPath,
		StartDate:  start,
		EndDate:    end,
		AutoSubmit: opts.Start != "" && opts.End != "",
	})
}

// newFetcher builds the feed client and the fetcher around a fresh store.
func newFetcher(cfg config.Config, version string, logger zerolog.Logger) (*gallery.Fetcher, error) {
	clientOpts := []apod.ClientOption{apod.WithTimeout(cfg.RequestTimeout)}
	if v := strings.TrimSpace(version); v != "" {
		clientOpts = append(clientOpts, apod.WithUserAgent("apodview/"+v))
	}
	client, err := apod.NewClient(cfg.FeedURL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("init feed client: %w", err)
	}
	return gallery.NewFetcher(client, &state.Store{}, logging.Named(logger, "gallery")), nil
}

func loggingDisabled(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "off", "disabled":
		return true
	}
	return false
}
