package analyzer

import (
	"regexp"
	"strings"

	"github.com/feedscope/feedscope/app/feed"
)

const maxSampleURLs = 2

var (
	mediaContentPattern   = regexp.MustCompile(`(?i)<media:content[^>]*\burl="([^"]+)"`)
	mediaThumbnailPattern = regexp.MustCompile(`(?i)<media:thumbnail[^>]*\burl="([^"]+)"`)
	imgSrcPattern         = regexp.MustCompile(`(?i)<img[^>]*\bsrc="([^"]+)"`)
)

// urlSet is an ordered-insertion set: first-seen order, no repeats.
type urlSet struct {
	seen map[string]struct{}
	urls []string
}

func newURLSet() *urlSet {
	return &urlSet{seen: make(map[string]struct{})}
}

func (s *urlSet) add(url string) {
	if url == "" {
		return
	}
	if _, ok := s.seen[url]; ok {
		return
	}
	s.seen[url] = struct{}{}
	s.urls = append(s.urls, url)
}

func (s *urlSet) capped(n int) []string {
	if len(s.urls) > n {
		return s.urls[:n]
	}
	return s.urls
}

// AnalyzeImages determines whether the feed carries featured images, with
// a per-signal breakdown and a short deduplicated list of sample URLs.
//
// The breakdown and the boolean flag are computed in separate passes: the
// breakdown counts every signal on every item, while the flag
// short-circuits on the first qualifying item.
func AnalyzeImages(doc RawDocument, parsed *feed.Parsed) (bool, ImageSourceBreakdown, []string) {
	var breakdown ImageSourceBreakdown
	samples := newURLSet()

	// media:thumbnail is seeded from the raw text before the per-item
	// scan; per-item detection only counts when this pre-pass found
	// nothing, so the same element is never counted twice.
	rawThumbnails := mediaThumbnailPattern.FindAllStringSubmatch(doc.Text, -1)
	breakdown.MediaThumbnail = len(rawThumbnails)
	for _, m := range rawThumbnails {
		samples.add(m[1])
	}

	for _, item := range parsed.Items {
		if item.MediaContent {
			breakdown.MediaContent++
			if item.MediaContentURL != "" {
				samples.add(item.MediaContentURL)
			} else if m := mediaContentPattern.FindStringSubmatch(doc.Text); m != nil {
				// Structured extraction failed; fall back to the raw text.
				samples.add(m[1])
			}
		}

		if len(rawThumbnails) == 0 && item.MediaThumbnail {
			breakdown.MediaThumbnail++
			samples.add(item.MediaThumbnailURL)
		}

		if hasImageEnclosure(item) {
			breakdown.Enclosure++
			samples.add(item.Enclosure.URL)
		}

		body := bestContentField(item)
		if m := imgSrcPattern.FindStringSubmatch(body); m != nil {
			breakdown.ImgTag++
			samples.add(m[1])
		}
		if strings.Contains(body, "og:image") {
			breakdown.OpenGraph++
		}
	}

	return hasFeaturedImage(parsed), breakdown, samples.capped(maxSampleURLs)
}

func hasFeaturedImage(parsed *feed.Parsed) bool {
	for _, item := range parsed.Items {
		if item.MediaContent || item.MediaThumbnail || hasImageEnclosure(item) {
			return true
		}
		if imgSrcPattern.MatchString(bestContentField(item)) {
			return true
		}
		if strings.Contains(item.Description, "<img") || strings.Contains(item.ContentEncoded, "<img") {
			return true
		}
	}
	return false
}

func hasImageEnclosure(item feed.Item) bool {
	return item.Enclosure != nil && strings.HasPrefix(item.Enclosure.MimeType, "image/")
}

// bestContentField picks the richest body available for inline image
// scanning: the full-content extension first, then content, then the
// plain description.
func bestContentField(item feed.Item) string {
	if item.ContentEncoded != "" {
		return item.ContentEncoded
	}
	if item.Content != "" {
		return item.Content
	}
	return item.Description
}
