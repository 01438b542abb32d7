package feed

import (
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Parser adapts gofeed output to the shapes the analysis engine consumes.
// Namespaced extensions (media:content, media:thumbnail, content:encoded)
// are surfaced as distinct item fields so the engine never has to touch
// gofeed types directly.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(text string) (*Parsed, error) {
	parsed, err := p.gofeedParser.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	result := &Parsed{
		Title:       parsed.Title,
		Link:        parsed.Link,
		Description: parsed.Description,
		Categories:  parsed.Categories,
	}

	result.Items = make([]Item, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		result.Items = append(result.Items, p.normalizeItem(item))
	}

	return result, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Item {
	normalized := Item{
		Title:       item.Title,
		Link:        item.Link,
		Content:     item.Content,
		Description: item.Description,
		Categories:  item.Categories,
		GUID:        item.GUID,
	}

	// Prefer the RSS pubDate; Atom entries carry updated instead.
	if item.Published != "" {
		normalized.PubDate = item.Published
	} else {
		normalized.PubDate = item.Updated
	}
	if item.PublishedParsed != nil {
		normalized.PublishedAt = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		normalized.PublishedAt = item.UpdatedParsed
	}

	if item.Author != nil {
		normalized.Author = p.formatAuthor(item.Author.Name, item.Author.Email)
	}
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 {
		normalized.Creator = item.DublinCoreExt.Creator[0]
	}

	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		normalized.Enclosure = &Enclosure{
			URL:      item.Enclosures[0].URL,
			MimeType: item.Enclosures[0].Type,
		}
	}

	if item.Image != nil {
		normalized.ImageURL = item.Image.URL
	}

	if media, ok := item.Extensions["media"]; ok {
		if contents := media["content"]; len(contents) > 0 {
			normalized.MediaContent = true
			normalized.MediaContentURL = contents[0].Attrs["url"]
		}
		if thumbs := media["thumbnail"]; len(thumbs) > 0 {
			normalized.MediaThumbnail = true
			normalized.MediaThumbnailURL = thumbs[0].Attrs["url"]
		}
	}

	// gofeed folds content:encoded into Content; keep the raw extension
	// value as its own field as well.
	if content, ok := item.Extensions["content"]; ok {
		if encoded := content["encoded"]; len(encoded) > 0 {
			normalized.ContentEncoded = encoded[0].Value
		}
	}

	if source := coalesce(normalized.Content, normalized.Description); source != "" {
		normalized.ContentSnippet = strings.TrimSpace(StripTags(source))
	}

	return normalized
}

func (p *Parser) formatAuthor(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name != "" && email != "" {
		return fmt.Sprintf("%s (%s)", email, name)
	} else if name != "" {
		return name
	}
	return email
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
