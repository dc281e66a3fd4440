package workers

import (
	"context"
	"time"

	"artbook_backend/internal/logger"
	"artbook_backend/internal/services"

	"gorm.io/gorm"
)

// RatingWorker periodically reconciles every artist's cached rating
// pair against a fresh aggregate over published reviews. It repairs
// drift left behind by failed post-write recomputes.
type RatingWorker struct {
	db            *gorm.DB
	ratingService services.RatingService
	interval      time.Duration
}

func NewRatingWorker(db *gorm.DB, ratingService services.RatingService, interval time.Duration) *RatingWorker {
	return &RatingWorker{
		db:            db,
		ratingService: ratingService,
		interval:      interval,
	}
}

func (w *RatingWorker) Start(ctx context.Context) {
	go w.reconcileRatings(ctx)
}

func (w *RatingWorker) reconcileRatings(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("rating reconciliation worker stopped")
			return
		case <-ticker.C:
			repaired, err := w.ratingService.Reconcile(w.db)
			if err != nil {
				logger.WorkerLog("rating-reconcile", "reconcile artist ratings", err)
				continue
			}
			if repaired > 0 {
				logger.Info("repaired stale artist ratings", "worker", "rating-reconcile", "count", repaired)
			}
		}
	}
}
