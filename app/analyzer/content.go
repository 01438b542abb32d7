package analyzer

import (
	"unicode/utf8"

	"github.com/feedscope/feedscope/app/feed"
)

// excerptThreshold is the stripped-text length above which an item is
// assumed to carry the full article rather than an excerpt.
const excerptThreshold = 500

// ClassifyContent estimates whether item content is a full article or an
// excerpt, from the stripped text length of the first item. The threshold
// is exact: 500 characters still classifies as an excerpt.
func ClassifyContent(parsed *feed.Parsed) string {
	if len(parsed.Items) == 0 {
		return ContentTypeUnknown
	}

	source := bestContentField(parsed.Items[0])
	length := utf8.RuneCountInString(feed.StripTags(source))

	switch {
	case length > excerptThreshold:
		return ContentTypeFull
	case length > 0:
		return ContentTypeExcerpt
	default:
		return ContentTypeUnknown
	}
}
