package analyzer

import (
	"cmp"

	"github.com/feedscope/feedscope/app/feed"
)

// FindDuplicates reports identity keys shared by more than one item, each
// key once regardless of how often it repeats, in first-seen order. The
// key is the GUID, falling back to the link; items with neither are
// skipped.
func FindDuplicates(parsed *feed.Parsed) []string {
	counts := make(map[string]int)
	var order []string

	for _, item := range parsed.Items {
		key := cmp.Or(item.GUID, item.Link)
		if key == "" {
			continue
		}
		counts[key]++
		if counts[key] == 1 {
			order = append(order, key)
		}
	}

	var duplicates []string
	for _, key := range order {
		if counts[key] > 1 {
			duplicates = append(duplicates, key)
		}
	}
	return duplicates
}
