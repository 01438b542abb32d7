package analyzer

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/feedscope/feedscope/app/feed"
)

const lastUpdateFormat = "January 2, 2006 at 3:04 PM"

// AnalyzeTiming determines the most recent publication timestamp and
// estimates posting frequency from the timestamp distribution. Item order
// is never assumed: feeds are not reliably newest-first.
func AnalyzeTiming(parsed *feed.Parsed) (lastUpdate *string, postFrequency *string) {
	times := parsedTimes(parsed)

	if len(times) > 0 {
		latest := slices.MaxFunc(times, time.Time.Compare)
		formatted := latest.Format(lastUpdateFormat)
		lastUpdate = &formatted
	} else if len(parsed.Items) > 0 && parsed.Items[0].PubDate != "" {
		// Nothing parsed, but the feed does carry a timestamp string;
		// surface it verbatim rather than dropping it.
		raw := parsed.Items[0].PubDate
		lastUpdate = &raw
	}

	if label := frequencyLabel(times); label != "" {
		postFrequency = &label
	}

	return lastUpdate, postFrequency
}

func parsedTimes(parsed *feed.Parsed) []time.Time {
	var times []time.Time
	for _, item := range parsed.Items {
		if item.PublishedAt != nil {
			times = append(times, *item.PublishedAt)
		}
	}
	return times
}

// frequencyLabel maps the average inter-post interval to a human label.
// It needs at least two parsable timestamps; anything less returns "".
func frequencyLabel(times []time.Time) string {
	if len(times) < 2 {
		return ""
	}

	sorted := slices.Clone(times)
	slices.SortFunc(sorted, time.Time.Compare)

	span := sorted[len(sorted)-1].Sub(sorted[0])
	avgDays := span.Hours() / 24 / float64(len(sorted)-1)

	switch {
	case avgDays < 0.1:
		return "Multiple posts per day"
	case avgDays <= 1:
		return pluralize(int(math.Round(1/avgDays)), "day")
	case avgDays <= 7:
		return pluralize(int(math.Round(7/avgDays)), "week")
	case avgDays < 30:
		return pluralize(int(math.Round(30/avgDays)), "month")
	default:
		return "Less than 1 post per month"
	}
}

func pluralize(count int, unit string) string {
	if count == 1 {
		return fmt.Sprintf("1 post per %s", unit)
	}
	return fmt.Sprintf("%d posts per %s", count, unit)
}
