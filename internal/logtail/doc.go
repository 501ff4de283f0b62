// Package logtail reads the tail of apodview's diagnostics log.
//
// # Overview
//
// apodview writes zerolog JSON lines to a file because the terminal belongs to
// the TUI. The diagnostics pane shows the newest of those lines; this package
// reads them without loading the whole file and decodes them for display.
//
// # Reading Log Files
//
// Read keeps a ring buffer of maxLines entries and scans the file once:
//
//	1. Allocate ring buffer of size maxLines
//	2. For each line, store it at the current index and advance (wrapping)
//	3. If fewer than maxLines were seen, return them as is
//	4. Otherwise return the buffer starting at the current index (oldest line)
//
// Memory stays O(maxLines) regardless of file size. A non-positive maxLines
// returns the whole file, and a missing file returns no lines and no error so
// the pane can render before anything was logged.
//
// # Decoding
//
// Parse understands the fields zerolog writes (time, level, component, message,
// error) and keeps everything else in Fields as strings. Anything that is not a
// JSON object is kept verbatim as the message.
//
//	entries, err := logtail.ReadEntries(cfg.LogFile, 200)
//	for _, e := range entries {
//		fmt.Println(e.Time.Format(time.Kitchen), e.Level, e.Message)
//	}
package logtail
