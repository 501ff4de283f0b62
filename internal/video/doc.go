// Package video resolves embed identifiers from video URLs and checks whether
// they can be played.
//
// Resolution walks Rules in order. Each rule matches one URL shape (watch page,
// short link, embed page) and extracts the identifier; identifiers must look like
// a platform id or the URL is reported as ErrUnrecognized. Nothing else is an
// error: callers fall back to linking out to the original URL.
//
// Prober stands in for a browser's embed error event. It asks the oEmbed
// endpoint about the id and returns ErrEmbedUnavailable for removed, private or
// embed-disabled videos.
package video
