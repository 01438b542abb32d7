package analyzer

import (
	"maps"
	"slices"

	"github.com/feedscope/feedscope/app/feed"
)

// DiscoverFields reports which fields the source actually carries, sorted
// alphabetically for determinism. Only the first item is sampled: field
// availability is assumed uniform across items.
func DiscoverFields(parsed *feed.Parsed) []string {
	found := make(map[string]struct{})
	add := func(name string, present bool) {
		if present {
			found[name] = struct{}{}
		}
	}

	add("title", parsed.Title != "")
	add("link", parsed.Link != "")
	add("description", parsed.Description != "")
	add("categories", len(parsed.Categories) > 0)

	if len(parsed.Items) > 0 {
		item := parsed.Items[0]
		add("title", item.Title != "")
		add("link", item.Link != "")
		add("content", item.Content != "")
		add("contentSnippet", item.ContentSnippet != "")
		add("description", item.Description != "")
		add("categories", len(item.Categories) > 0)
		add("pubDate", item.PubDate != "")
		add("creator", item.Creator != "")
		add("author", item.Author != "")
		add("guid", item.GUID != "")
		add("content:encoded", item.ContentEncoded != "")
		add("media:content", item.MediaContent)
		add("media:thumbnail", item.MediaThumbnail)
		add("enclosure", item.Enclosure != nil)
		add("image", item.ImageURL != "")
	}

	return slices.Sorted(maps.Keys(found))
}
