package background

import (
	"context"
	"log"
	"sync"
	"time"

	"beadstock/internal/caching"
	"beadstock/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the periodic background jobs
type JobScheduler struct {
	scheduler   gocron.Scheduler
	lowStockSvc *jobs.LowStockAlertService
	cacheSvc    caching.CacheService
	jobJobs     map[string]gocron.Job
	mu          sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(lowStockSvc *jobs.LowStockAlertService, cacheSvc caching.CacheService) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:   scheduler,
		lowStockSvc: lowStockSvc,
		cacheSvc:    cacheSvc,
		jobJobs:     make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Low stock scan - every 30 minutes
	lowStockJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.lowStockSvc.ScheduledLowStockCheck, context.Background()),
		gocron.WithName("low-stock-scan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create low stock job: %v", err)
	} else {
		js.jobJobs["low-stock-scan"] = lowStockJob
	}

	// Batch list cache refresh - every hour. Redis handles TTL on its own;
	// this just drops the list so the next tree build repopulates it.
	cacheJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.refreshBatchListCache),
		gocron.WithName("batch-list-refresh"),
	)
	if err != nil {
		log.Printf("Failed to create cache refresh job: %v", err)
	} else {
		js.jobJobs["batch-list-refresh"] = cacheJob
	}

	log.Printf("Registered %d background jobs", len(js.jobJobs))
}

func (js *JobScheduler) refreshBatchListCache() error {
	log.Printf("Refreshing batch list cache")

	if err := js.cacheSvc.InvalidateBatchList(context.Background()); err != nil {
		log.Printf("Failed to invalidate batch list cache: %v", err)
		return err
	}

	log.Printf("Batch list cache refresh completed")
	return nil
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make(map[string]interface{})
	status["total_jobs"] = len(js.jobJobs)
	jobs := make([]string, 0, len(js.jobJobs))

	for name := range js.jobJobs {
		jobs = append(jobs, name)
	}

	status["jobs"] = jobs

	return status
}
