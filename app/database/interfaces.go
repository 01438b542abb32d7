package database

type AnalysisRepository interface {
	SaveAnalysis(analysis Analysis) (int64, error)
	GetRecentAnalyses(limit int) ([]Analysis, error)
	GetAnalysisCount() (int, error)
	GetStats() (*Stats, error)
}
