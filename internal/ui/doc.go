// Package ui provides the Bubble Tea terminal interface for apodview.
//
// # Screen Layout
//
// From top to bottom:
//
//   - Header: logo and a one-line search status
//   - Fact banner: one random space fact, picked when the model is created
//   - Date form: start and end inputs plus a submit button
//   - Body: the card gallery, or the diagnostics log when toggled with L
//   - Command bar: key hints for whatever currently has focus
//
// # Package Structure
//
//   - app.go: Model, Options, Update/View and Run
//   - form.go: date inputs, submission and the frame geometry
//   - gallery.go: card grid rendering and navigation
//   - overlay.go: detail and notice overlays, embed checks
//   - layout.go: grid and overlay geometry shared by rendering and mouse hit-testing
//   - diagnostics.go: zerolog tail viewer
//   - header.go, help.go, theme.go, keys.go, style_helpers.go: chrome
//
// # Searches
//
// Submitting the form calls gallery.Fetcher.Submit. A validation error opens a
// notice overlay and nothing is fetched. Otherwise the gallery shows the
// loading message and the fetch runs as a tea.Cmd. Its result is applied only
// if it belongs to the newest submission; superseded results are dropped.
//
// # Overlays
//
// At most one overlay exists. Opening a card while another overlay is up
// replaces it, and every opening gets a fresh token. Video embed checks carry
// that token back, so a check that finishes after its overlay was closed or
// replaced changes nothing.
//
// A detail overlay closes on esc, x or q, on a press of the [x] control, or on
// a press anywhere outside the box. A notice closes on any key or press.
//
// # Mouse
//
// The program runs with mouse cell motion enabled. Card and form positions are
// computed from the same functions that render them, so a press maps to what
// is drawn under it.
package ui
