// Package config loads apodview's startup configuration.
//
// # Resolution Order
//
//  1. Built-in defaults (Default)
//  2. The TOML file at the given path, or ~/.config/apodview/config.toml
//  3. APODVIEW_* environment variables
//
// A missing file is not an error. Blank values in the file keep the default.
// The result is validated before it is returned, so a config that parses but
// names an unusable URL or log level fails at startup instead of mid-search.
//
// # TOML Format
//
//	feed_url = "https://cdn.jsdelivr.net/gh/GCA-Classroom/apod/data.json"
//	request_timeout = "30s"
//	log_file = "~/.local/state/apodview/apodview.log"
//	log_level = "info"
//	embed_check = true
//	oembed_url = "https://www.youtube.com/oembed"
//
// Every key is optional. Tilde expansion is applied to log_file.
//
// # Environment
//
// Each key has an upper-case override: APODVIEW_FEED_URL,
// APODVIEW_REQUEST_TIMEOUT, APODVIEW_LOG_FILE, APODVIEW_LOG_LEVEL,
// APODVIEW_EMBED_CHECK and APODVIEW_OEMBED_URL. The CLI loads a .env file from
// the working directory first, so those variables may live there too.
package config
