package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feedscope/feedscope/app/analyzer"
	"github.com/feedscope/feedscope/app/database"
	"github.com/feedscope/feedscope/app/fetcher"
	"github.com/feedscope/feedscope/app/watchlist"
)

func NewHandler(fetch *fetcher.Fetcher, feedAnalyzer *analyzer.Analyzer,
	analysisRepo database.AnalysisRepository, watch *watchlist.Watchlist) *Handler {
	return &Handler{
		fetcher:      fetch,
		feedAnalyzer: feedAnalyzer,
		analysisRepo: analysisRepo,
		watch:        watch,
	}
}

// AnalyzeFeed is the main endpoint: fetch the document at the requested
// URL, run the analysis engine, store the result, return the report.
// Only a malformed request is a transport-level error; every failure
// past this point comes back as a 200 with isValid=false.
func (h *Handler) AnalyzeFeed(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be JSON with a string 'url' field"})
		return
	}

	if req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'url' field"})
		return
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL: must be an absolute URL"})
		return
	}

	text, err := h.fetcher.Run(c.Request.Context(), req.URL)

	var report *analyzer.Report
	if err != nil {
		slog.Debug("Feed fetch failed", "url", req.URL, "error", err)
		report = &analyzer.Report{
			IsValid:         false,
			AvailableFields: []string{},
			ContentType:     analyzer.ContentTypeUnknown,
			FeedType:        "Unknown",
			Error:           err.Error(),
		}
	} else {
		report = h.feedAnalyzer.Run(analyzer.RawDocument{Text: text, SourceURL: req.URL})
	}

	h.storeReport(req.URL, report)

	c.JSON(http.StatusOK, report)
}

func (h *Handler) storeReport(feedURL string, report *analyzer.Report) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		slog.Error("Failed to marshal report", "url", feedURL, "error", err)
		return
	}

	_, err = h.analysisRepo.SaveAnalysis(database.Analysis{
		URL:        feedURL,
		FeedType:   report.FeedType,
		IsValid:    report.IsValid,
		Title:      report.Title,
		ItemCount:  report.ItemCount,
		ReportJSON: string(reportJSON),
	})
	if err != nil {
		// History is best-effort; the caller still gets their report.
		slog.Error("Failed to store analysis", "url", feedURL, "error", err)
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.analysisRepo.GetAnalysisCount(); err == nil {
		health["analyses"] = count
	}

	health["watchlist_feeds"] = h.watch.Count()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.analysisRepo.GetStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"total_analyses": stats.TotalAnalyses,
		"valid_feeds":    stats.ValidFeeds,
		"invalid_feeds":  stats.InvalidFeeds,
		"distinct_urls":  stats.DistinctURLs,
		"by_feed_type":   stats.ByFeedType,
	})
}

func (h *Handler) APIListAnalyses(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit: must be between 1 and 200"})
			return
		}
		limit = parsed
	}

	analyses, err := h.analysisRepo.GetRecentAnalyses(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_analyses", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	results := make([]map[string]interface{}, 0, len(analyses))
	for _, a := range analyses {
		results = append(results, map[string]interface{}{
			"id":         a.ID,
			"url":        a.URL,
			"feed_type":  a.FeedType,
			"is_valid":   a.IsValid,
			"title":      a.Title,
			"item_count": a.ItemCount,
			"created_at": a.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"analyses": results,
		"total":    len(results),
	})
}

func (h *Handler) APIListWatchlist(c *gin.Context) {
	entries := h.watch.GetEntries()

	feeds := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		feeds = append(feeds, map[string]interface{}{
			"name":     entry.Name,
			"url":      entry.URL,
			"interval": (time.Duration(entry.Interval) * time.Second).String(),
			"enabled":  entry.IsEnabled(),
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"feeds": feeds,
		"total": len(feeds),
	})
}
