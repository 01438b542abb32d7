package api

import (
	"github.com/feedscope/feedscope/app/analyzer"
	"github.com/feedscope/feedscope/app/database"
	"github.com/feedscope/feedscope/app/fetcher"
	"github.com/feedscope/feedscope/app/watchlist"
)

type Handler struct {
	fetcher      *fetcher.Fetcher
	feedAnalyzer *analyzer.Analyzer
	analysisRepo database.AnalysisRepository
	watch        *watchlist.Watchlist
}

// AnalyzeRequest is the transport contract: the boundary rejects
// malformed requests before the engine is ever invoked.
type AnalyzeRequest struct {
	URL string `json:"url"`
}
