package apod

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used by the feed and by user input.
const DateLayout = "2006-01-02"

// MediaType classifies what a record's URL points at.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Known reports whether the media type is one apodview knows how to present.
func (t MediaType) Known() bool {
	return t == MediaImage || t == MediaVideo
}

// Record mirrors one entry of the archive feed.
type Record struct {
	Date           string    `json:"date"`
	Title          string    `json:"title"`
	MediaType      MediaType `json:"media_type"`
	URL            string    `json:"url"`
	HDURL          string    `json:"hdurl,omitempty"`
	Explanation    string    `json:"explanation"`
	Copyright      string    `json:"copyright,omitempty"`
	ServiceVersion string    `json:"service_version,omitempty"`
}

// Day parses the record date as a calendar day in UTC.
func (r Record) Day() (time.Time, error) {
	return ParseDay(r.Date)
}

// DisplayURL returns the highest resolution URL available for the record.
func (r Record) DisplayURL() string {
	if hd := strings.TrimSpace(r.HDURL); hd != "" {
		return hd
	}
	return strings.TrimSpace(r.URL)
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}
