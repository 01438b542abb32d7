package feed

import (
	"time"
)

// Parsed feed shapes consumed by the analysis engine. Every field is
// optional; absence is meaningful and drives field discovery and
// missing-field detection downstream.

type Parsed struct {
	Title       string
	Link        string
	Description string
	Categories  []string
	Items       []Item
}

type Enclosure struct {
	URL      string
	MimeType string
}

type Item struct {
	Title          string
	Link           string
	Content        string
	ContentSnippet string
	Description    string
	Categories     []string
	PubDate        string     // feed-native timestamp string, possibly unparsable
	PublishedAt    *time.Time // parsed timestamp, nil when unparsable or absent
	Creator        string
	Author         string
	GUID           string
	Enclosure      *Enclosure

	// Namespaced extensions surfaced as distinct fields even though none
	// is part of core RSS.
	MediaContent      bool
	MediaContentURL   string
	MediaThumbnail    bool
	MediaThumbnailURL string
	ContentEncoded    string

	ImageURL string
}
