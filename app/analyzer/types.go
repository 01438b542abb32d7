package analyzer

import (
	"github.com/feedscope/feedscope/app/feed"
)

// RawDocument is the engine input: fetched feed text plus its source URL
// for context. The engine never fetches; it only inspects.
type RawDocument struct {
	Text      string
	SourceURL string
}

type Violation struct {
	Message string
}

// ValidationOutcome accumulates every rule failure, not just the first,
// so a caller sees the complete picture. IsValid holds iff the violation
// list is empty.
type ValidationOutcome struct {
	IsValid    bool
	Violations []Violation
}

func (o ValidationOutcome) Messages() []string {
	messages := make([]string, 0, len(o.Violations))
	for _, v := range o.Violations {
		messages = append(messages, v.Message)
	}
	return messages
}

// Content classification labels. The 500-character threshold in
// ClassifyContent is a heuristic, not a standard.
const (
	ContentTypeFull    = "full"
	ContentTypeExcerpt = "excerpt"
	ContentTypeUnknown = "unknown"
)

// ImageSourceBreakdown counts items contributing each image signal. The
// signals are not mutually exclusive; one item may contribute to several
// counters.
type ImageSourceBreakdown struct {
	MediaContent   int `json:"mediaContent"`
	MediaThumbnail int `json:"mediaThumbnail"`
	Enclosure      int `json:"enclosure"`
	ImgTag         int `json:"imgTag"`
	OpenGraph      int `json:"openGraph"`
}

type ImageRef struct {
	URL string `json:"url"`
}

// Report is the terminal analysis record.
type Report struct {
	IsValid          bool                 `json:"isValid"`
	Title            string               `json:"title,omitempty"`
	AvailableFields  []string             `json:"availableFields"`
	HasFeaturedImage bool                 `json:"hasFeaturedImage"`
	ContentType      string               `json:"contentType"`
	LastUpdate       *string              `json:"lastUpdate"`
	ItemCount        int                  `json:"itemCount"`
	FeedType         string               `json:"feedType"`
	PostFrequency    *string              `json:"postFrequency"`
	DuplicateGUIDs   []string             `json:"duplicateGuids,omitempty"`
	MissingFields    []string             `json:"missingFields,omitempty"`
	ImageSources     ImageSourceBreakdown `json:"imageSources"`
	ImageResolutions []ImageRef           `json:"imageResolutions,omitempty"`
	Error            string               `json:"error,omitempty"`
	ValidationErrors []string             `json:"validationErrors,omitempty"`
}

// FeedParser is the external parsing capability the engine calls. The
// engine defines the shape it expects back but never parses feeds itself.
type FeedParser interface {
	Run(text string) (*feed.Parsed, error)
}
