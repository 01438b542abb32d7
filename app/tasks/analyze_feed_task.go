package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/feedscope/feedscope/app/analyzer"
	"github.com/feedscope/feedscope/app/database"
	"github.com/feedscope/feedscope/app/fetcher"
	"github.com/feedscope/feedscope/app/watchlist"
)

type AnalyzeFeedTask struct {
	Task
	Entry        watchlist.Entry
	fetcher      *fetcher.Fetcher
	feedAnalyzer *analyzer.Analyzer
	analysisRepo database.AnalysisRepository
}

func NewAnalyzeFeedTask(entry watchlist.Entry, fetch *fetcher.Fetcher,
	feedAnalyzer *analyzer.Analyzer, analysisRepo database.AnalysisRepository) *AnalyzeFeedTask {
	return &AnalyzeFeedTask{
		Task:         NewTask(TaskTypeAnalyzeFeed, entry.Name),
		Entry:        entry,
		fetcher:      fetch,
		feedAnalyzer: feedAnalyzer,
		analysisRepo: analysisRepo,
	}
}

func (t *AnalyzeFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	text, err := t.fetcher.Run(ctx, t.Entry.URL)

	var report *analyzer.Report
	if err != nil {
		// Fetch failures still produce a stored record: the history
		// should show a feed going dark, not skip it.
		report = &analyzer.Report{
			IsValid:         false,
			AvailableFields: []string{},
			ContentType:     analyzer.ContentTypeUnknown,
			FeedType:        "Unknown",
			Error:           err.Error(),
		}
	} else {
		report = t.feedAnalyzer.Run(analyzer.RawDocument{Text: text, SourceURL: t.Entry.URL})
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = t.analysisRepo.SaveAnalysis(database.Analysis{
		URL:        t.Entry.URL,
		FeedType:   report.FeedType,
		IsValid:    report.IsValid,
		Title:      report.Title,
		ItemCount:  report.ItemCount,
		ReportJSON: string(reportJSON),
	})
	if err != nil {
		return fmt.Errorf("failed to store analysis: %w", err)
	}

	slog.Info("Task completed",
		"type", "AnalyzeFeed",
		"feed", t.FeedName,
		"duration", t.GetDuration(),
		"valid", report.IsValid,
		"feed_type", report.FeedType,
		"items", report.ItemCount)

	return nil
}
