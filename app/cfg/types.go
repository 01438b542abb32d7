package cfg

type Cfg struct {
	// Application configuration
	Port              string
	DBPath            string
	WatchlistFile     string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Fetcher configuration
	FetchTimeout int
	UserAgent    string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
