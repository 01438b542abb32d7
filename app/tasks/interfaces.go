package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background watchlist processing.
// Example usage:
//
//	scheduler := NewScheduler(watch, fetch, analyze, repo)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewAnalyzeFeedTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
