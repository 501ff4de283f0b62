package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/apodview/internal/apod"
	"github.com/five82/apodview/internal/video"
)

// EnvPrefix is prepended to every environment override, e.g. APODVIEW_FEED_URL.
const EnvPrefix = "APODVIEW"

// Config captures everything apodview reads at startup.
type Config struct {
	FeedURL        string        `validate:"required,url"`
	RequestTimeout time.Duration `validate:"gt=0"`
	LogFile        string        `validate:"required"`
	LogLevel       string        `validate:"oneof=trace debug info warn error off disabled"`
	EmbedCheck     bool
	OEmbedURL      string `validate:"required,url"`

	// Path is the config file that was consulted, whether or not it existed.
	Path string `validate:"-"`
}

const (
	defaultConfigPath     = "~/.config/apodview/config.toml"
	defaultLogFile        = "~/.local/state/apodview/apodview.log"
	defaultLogLevel       = "info"
	defaultRequestTimeout = 30 * time.Second
)

// Default returns the configuration used when no file or overrides exist.
func Default() Config {
	return Config{
		FeedURL:        apod.DefaultFeedURL,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		EmbedCheck:     true,
		OEmbedURL:      video.DefaultOEmbedURL,
	}
}

// Load reads the TOML config at path (or the default location), applies
// APODVIEW_* environment overrides and validates the result. A missing file
// is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	cfg.Path = resolved

	if err := cfg.readFile(resolved); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		FeedURL        string `toml:"feed_url"`
		RequestTimeout string `toml:"request_timeout"`
		LogFile        string `toml:"log_file"`
		LogLevel       string `toml:"log_level"`
		EmbedCheck     *bool  `toml:"embed_check"`
		OEmbedURL      string `toml:"oembed_url"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.FeedURL); v != "" {
		c.FeedURL = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: request_timeout: %w", err)
		}
		c.RequestTimeout = d
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = v
	}
	if raw.EmbedCheck != nil {
		c.EmbedCheck = *raw.EmbedCheck
	}
	if v := strings.TrimSpace(raw.OEmbedURL); v != "" {
		c.OEmbedURL = v
	}
	return nil
}

// envOverrides carries no defaults so that only variables actually set in the
// environment replace file values.
type envOverrides struct {
	FeedURL        string        `envconfig:"FEED_URL"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT"`
	LogFile        string        `envconfig:"LOG_FILE"`
	LogLevel       string        `envconfig:"LOG_LEVEL"`
	EmbedCheck     *bool         `envconfig:"EMBED_CHECK"`
	OEmbedURL      string        `envconfig:"OEMBED_URL"`
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("process environment: %w", err)
	}
	if v := strings.TrimSpace(env.FeedURL); v != "" {
		c.FeedURL = v
	}
	if env.RequestTimeout != 0 {
		c.RequestTimeout = env.RequestTimeout
	}
	if v := strings.TrimSpace(env.LogFile); v != "" {
		c.LogFile = v
	}
	if v := strings.TrimSpace(env.LogLevel); v != "" {
		c.LogLevel = v
	}
	if env.EmbedCheck != nil {
		c.EmbedCheck = *env.EmbedCheck
	}
	if v := strings.TrimSpace(env.OEmbedURL); v != "" {
		c.OEmbedURL = v
	}
	return nil
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFile = mustExpand(c.LogFile)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate reports the first invalid field.
func (c Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: failed %q check (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return err
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
