package analyzer

import (
	"testing"
	"time"

	"github.com/feedscope/feedscope/app/feed"
)

func itemsWithDates(dates ...time.Time) []feed.Item {
	items := make([]feed.Item, 0, len(dates))
	for _, d := range dates {
		t := d
		items = append(items, feed.Item{PublishedAt: &t, PubDate: d.Format(time.RFC1123)})
	}
	return items
}

func TestAnalyzeTimingLastUpdate(t *testing.T) {
	base := time.Date(2023, 7, 1, 10, 0, 0, 0, time.UTC)
	parsed := &feed.Parsed{
		Items: itemsWithDates(base, base.AddDate(0, 0, 3), base.AddDate(0, 0, 1)),
	}

	lastUpdate, _ := AnalyzeTiming(parsed)

	if lastUpdate == nil {
		t.Fatal("Expected a last update")
	}
	if *lastUpdate != "July 4, 2023 at 10:00 AM" {
		t.Errorf("Expected 'July 4, 2023 at 10:00 AM', got '%s'", *lastUpdate)
	}
}

func TestAnalyzeTimingOrderIndependent(t *testing.T) {
	base := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	dates := []time.Time{
		base.AddDate(0, 0, 2),
		base,
		base.AddDate(0, 0, 4),
		base.AddDate(0, 0, 1),
		base.AddDate(0, 0, 3),
	}

	forward := &feed.Parsed{Items: itemsWithDates(dates...)}
	reversed := &feed.Parsed{Items: itemsWithDates(dates[4], dates[3], dates[2], dates[1], dates[0])}

	fwdUpdate, fwdFreq := AnalyzeTiming(forward)
	revUpdate, revFreq := AnalyzeTiming(reversed)

	if *fwdUpdate != *revUpdate {
		t.Errorf("lastUpdate depends on item order: '%s' vs '%s'", *fwdUpdate, *revUpdate)
	}
	if *fwdFreq != *revFreq {
		t.Errorf("postFrequency depends on item order: '%s' vs '%s'", *fwdFreq, *revFreq)
	}
}

func TestAnalyzeTimingRawFallback(t *testing.T) {
	parsed := &feed.Parsed{
		Items: []feed.Item{
			{PubDate: "sometime last Tuesday"},
			{PubDate: "yesterday-ish"},
		},
	}

	lastUpdate, postFrequency := AnalyzeTiming(parsed)

	if lastUpdate == nil || *lastUpdate != "sometime last Tuesday" {
		t.Errorf("Expected the first item's raw timestamp verbatim, got %v", lastUpdate)
	}
	if postFrequency != nil {
		t.Errorf("Expected nil frequency without parsable dates, got '%s'", *postFrequency)
	}
}

func TestAnalyzeTimingNoTimestamps(t *testing.T) {
	parsed := &feed.Parsed{Items: []feed.Item{{Title: "No date"}}}

	lastUpdate, postFrequency := AnalyzeTiming(parsed)

	if lastUpdate != nil {
		t.Errorf("Expected nil last update, got '%s'", *lastUpdate)
	}
	if postFrequency != nil {
		t.Errorf("Expected nil frequency, got '%s'", *postFrequency)
	}
}

func TestAnalyzeTimingDailyPosts(t *testing.T) {
	base := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	parsed := &feed.Parsed{
		Items: itemsWithDates(
			base,
			base.AddDate(0, 0, 1),
			base.AddDate(0, 0, 2),
			base.AddDate(0, 0, 3),
			base.AddDate(0, 0, 4),
		),
	}

	_, postFrequency := AnalyzeTiming(parsed)

	if postFrequency == nil {
		t.Fatal("Expected a post frequency")
	}
	if *postFrequency != "1 post per day" {
		t.Errorf("Expected '1 post per day', got '%s'", *postFrequency)
	}
}

func TestAnalyzeTimingFrequencyLabels(t *testing.T) {
	base := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		gap      time.Duration
		expected string
	}{
		{name: "hourly posts", gap: time.Hour, expected: "Multiple posts per day"},
		{name: "twice a day", gap: 12 * time.Hour, expected: "2 posts per day"},
		{name: "every two days", gap: 48 * time.Hour, expected: "4 posts per week"},
		{name: "weekly", gap: 7 * 24 * time.Hour, expected: "1 post per week"},
		{name: "every ten days", gap: 10 * 24 * time.Hour, expected: "3 posts per month"},
		{name: "sparse", gap: 45 * 24 * time.Hour, expected: "Less than 1 post per month"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := &feed.Parsed{
				Items: itemsWithDates(base, base.Add(tt.gap), base.Add(2*tt.gap)),
			}
			_, postFrequency := AnalyzeTiming(parsed)
			if postFrequency == nil {
				t.Fatal("Expected a post frequency")
			}
			if *postFrequency != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, *postFrequency)
			}
		})
	}
}

func TestAnalyzeTimingSingleParsableDate(t *testing.T) {
	base := time.Date(2023, 7, 1, 15, 30, 0, 0, time.UTC)
	parsed := &feed.Parsed{Items: itemsWithDates(base)}

	lastUpdate, postFrequency := AnalyzeTiming(parsed)

	if lastUpdate == nil {
		t.Fatal("Expected a last update from a single date")
	}
	if postFrequency != nil {
		t.Errorf("Frequency needs at least two dates, got '%s'", *postFrequency)
	}
}
