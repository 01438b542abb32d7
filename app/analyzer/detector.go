package analyzer

import (
	"regexp"
	"strings"
)

var rssVersionPattern = regexp.MustCompile(`<rss[^>]*\bversion="([^"]*)"`)

// DetectType classifies the raw document from structural markers alone.
// It is pure string inspection and may be called on invalid documents for
// diagnostics.
func DetectType(doc RawDocument) string {
	text := doc.Text

	if strings.Contains(text, "<rss") {
		if m := rssVersionPattern.FindStringSubmatch(text); m != nil && m[1] != "" {
			return "RSS " + m[1]
		}
		// RSS marker without a version attribute: assume the canonical one.
		return "RSS 2.0"
	}

	if strings.Contains(text, "<feed") && strings.Contains(text, atomNamespace) {
		return "Atom"
	}

	if strings.Contains(text, "<rdf:RDF") {
		return "RDF"
	}

	return "Unknown"
}
