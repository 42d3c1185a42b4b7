// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the order pipeline.
//
// # Available Jobs
//
// 1. StalePendingSweepJob - Runs every minute to re-request assignment for
// orders that have sat in PENDING longer than the configured age.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(uowFactory, retryHandler, staleAge, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The sweep job ignores expected business outcomes (an order assigned or
// cancelled between the read and the retry) and logs everything else. Retries
// themselves travel through the event bus, so consumers dedup any overlap
// with manual operator retries.
package jobs
