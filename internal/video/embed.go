package video

import "net/url"

const (
	embedBase     = "https://www.youtube.com/embed/"
	thumbnailBase = "https://img.youtube.com/vi/"
	watchBase     = "https://www.youtube.com/watch"
)

// EmbedURL returns the playable embed address for id.
func (id ID) EmbedURL() string {
	return embedBase + url.PathEscape(string(id))
}

// ThumbnailURL returns the high quality still for id.
func (id ID) ThumbnailURL() string {
	return thumbnailBase + url.PathEscape(string(id)) + "/hqdefault.jpg"
}

// WatchURL returns the canonical watch page for id.
func (id ID) WatchURL() string {
	return watchBase + "?" + url.Values{"v": {string(id)}}.Encode()
}
