package workers

import (
	"context"
	"time"

	"artbook_backend/internal/logger"
	"artbook_backend/internal/repositories"

	"gorm.io/gorm"
)

// JobWorker sweeps open jobs past their event date into the expired
// status. Reads also guard against stale rows, so the sweep interval
// only bounds how long the stored status lags behind the effective
// one.
type JobWorker struct {
	db       *gorm.DB
	jobRepo  repositories.JobRepository
	interval time.Duration
}

func NewJobWorker(db *gorm.DB, jobRepo repositories.JobRepository, interval time.Duration) *JobWorker {
	return &JobWorker{
		db:       db,
		jobRepo:  jobRepo,
		interval: interval,
	}
}

func (w *JobWorker) Start(ctx context.Context) {
	go w.expireOverdueJobs(ctx)
}

func (w *JobWorker) expireOverdueJobs(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("job expiry worker stopped")
			return
		case <-ticker.C:
			expired, err := w.jobRepo.ExpireOverdue(w.db, time.Now().UTC())
			if err != nil {
				logger.WorkerLog("job-expiry", "expire overdue jobs", err)
				continue
			}
			if expired > 0 {
				logger.Info("expired overdue jobs", "worker", "job-expiry", "count", expired)
			}
		}
	}
}
