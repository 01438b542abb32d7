package feed

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags removes all markup from an HTML fragment and returns the
// remaining text with entities decoded. Tokenizing is more robust than
// pattern matching here: angle brackets inside attribute values do not
// split the text.
func StripTags(fragment string) string {
	if fragment == "" {
		return ""
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
		}
	}
}
