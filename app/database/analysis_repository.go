package database

import (
	"fmt"
	"time"
)

var _ AnalysisRepository = (*SQLAnalysisRepository)(nil)

// SQLAnalysisRepository persists analysis runs in SQLite.
type SQLAnalysisRepository struct {
	db *DB
}

func NewAnalysisRepository(db *DB) *SQLAnalysisRepository {
	return &SQLAnalysisRepository{db: db}
}

func (r *SQLAnalysisRepository) SaveAnalysis(analysis Analysis) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO analyses (url, feed_type, is_valid, title, item_count, report_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, analysis.URL, analysis.FeedType, analysis.IsValid, analysis.Title,
		analysis.ItemCount, analysis.ReportJSON, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get analysis id: %w", err)
	}
	return id, nil
}

func (r *SQLAnalysisRepository) GetRecentAnalyses(limit int) ([]Analysis, error) {
	rows, err := r.db.Query(`
		SELECT id, url, feed_type, is_valid, title, item_count, report_json, created_at
		FROM analyses
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		var a Analysis
		if err := rows.Scan(&a.ID, &a.URL, &a.FeedType, &a.IsValid, &a.Title,
			&a.ItemCount, &a.ReportJSON, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, a)
	}

	return analyses, rows.Err()
}

func (r *SQLAnalysisRepository) GetAnalysisCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return count, nil
}

func (r *SQLAnalysisRepository) GetStats() (*Stats, error) {
	stats := &Stats{ByFeedType: make(map[string]int)}

	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN is_valid THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN is_valid THEN 0 ELSE 1 END), 0),
		       COUNT(DISTINCT url)
		FROM analyses
	`).Scan(&stats.TotalAnalyses, &stats.ValidFeeds, &stats.InvalidFeeds, &stats.DistinctURLs)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	rows, err := r.db.Query(`SELECT feed_type, COUNT(*) FROM analyses GROUP BY feed_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed type stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var feedType string
		var count int
		if err := rows.Scan(&feedType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan feed type stat: %w", err)
		}
		stats.ByFeedType[feedType] = count
	}

	return stats, rows.Err()
}
