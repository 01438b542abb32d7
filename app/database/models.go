package database

import (
	"time"
)

// Analysis is one stored analysis run: enough summary columns to
// aggregate over, plus the full report as JSON.
type Analysis struct {
	ID         int64
	URL        string
	FeedType   string
	IsValid    bool
	Title      string
	ItemCount  int
	ReportJSON string
	CreatedAt  time.Time
}

// Stats aggregates the analysis history for the stats endpoint.
type Stats struct {
	TotalAnalyses int
	ValidFeeds    int
	InvalidFeeds  int
	DistinctURLs  int
	ByFeedType    map[string]int
}
