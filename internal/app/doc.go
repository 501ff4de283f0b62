// Package app wires configuration, logging, the feed client and the UI
// together. It is the composition root for both the TUI and the headless
// list command.
//
// Run loads the TOML config (with APODVIEW_* overrides), opens the JSON log
// file, restores preferences and hands a gallery.Fetcher, an oEmbed prober
// and the system browser opener to ui.Run. Only a config that fails to parse
// or validate, or a log file that cannot be opened, stops startup; everything
// else degrades inside the UI.
//
// List performs one fetch without a terminal UI and prints the matches as a
// table or as JSON. Logs go to stderr in console format.
package app
