package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/feedscope/feedscope/app/analyzer"
	"github.com/feedscope/feedscope/app/cfg"
	"github.com/feedscope/feedscope/app/database"
	"github.com/feedscope/feedscope/app/fetcher"
	"github.com/feedscope/feedscope/app/watchlist"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler runs a worker pool over a buffered task queue and keeps
// watchlist feeds analyzed on their configured intervals. Next-run times
// live in memory; a restart simply re-analyzes everything once.
type Scheduler struct {
	watch        *watchlist.Watchlist
	fetcher      *fetcher.Fetcher
	feedAnalyzer *analyzer.Analyzer
	analysisRepo database.AnalysisRepository
	interval     time.Duration
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	taskQueue    chan TaskInterface

	mu      sync.Mutex
	nextRun map[string]time.Time
}

func NewScheduler(watch *watchlist.Watchlist, fetch *fetcher.Fetcher,
	feedAnalyzer *analyzer.Analyzer, analysisRepo database.AnalysisRepository) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	c := cfg.Get()

	return &Scheduler{
		watch:        watch,
		fetcher:      fetch,
		feedAnalyzer: feedAnalyzer,
		analysisRepo: analysisRepo,
		interval:     time.Duration(c.SchedulerInterval) * time.Second,
		workerCount:  c.WorkerCount,
		ctx:          ctx,
		cancel:       cancel,
		taskQueue:    make(chan TaskInterface, 300),
		nextRun:      make(map[string]time.Time),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueDueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueDueTasks() {
	entries := s.watch.GetEnabledEntries()
	if len(entries) == 0 {
		slog.Debug("No enabled watchlist entries found")
		return
	}

	now := time.Now().UTC()

	for _, entry := range entries {
		s.mu.Lock()
		next, seen := s.nextRun[entry.Name]
		if seen && next.After(now) {
			s.mu.Unlock()
			slog.Debug("Feed not due for analysis yet", "feed", entry.Name, "next_run", next)
			continue
		}
		s.nextRun[entry.Name] = now.Add(time.Duration(entry.Interval) * time.Second)
		s.mu.Unlock()

		task := NewAnalyzeFeedTask(entry, s.fetcher, s.feedAnalyzer, s.analysisRepo)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue AnalyzeFeedTask", "feed", entry.Name, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "feed", task.GetFeedName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
