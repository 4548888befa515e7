package scheduler

import (
	"errors"

	"github.com/prideatlas/prideatlas-backend/internal/app/repository"
	"github.com/prideatlas/prideatlas-backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// RatingReconciler periodically rebuilds every business rating
// aggregate from the reviews table. The write path updates aggregates
// best effort, so a failed or skipped update only persists until the
// next reconcile run.
type RatingReconciler struct {
	cron         *cron.Cron
	schedule     string
	reviewRepo   repository.ReviewRepository
	businessRepo repository.BusinessRepository
}

func NewRatingReconciler(
	schedule string,
	reviewRepo repository.ReviewRepository,
	businessRepo repository.BusinessRepository,
) *RatingReconciler {
	return &RatingReconciler{
		cron:         cron.New(),
		schedule:     schedule,
		reviewRepo:   reviewRepo,
		businessRepo: businessRepo,
	}
}

// Start registers the cron entry and begins running on the configured schedule
func (r *RatingReconciler) Start() error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		r.ReconcileAll()
	})
	if err != nil {
		logger.Error("Failed to add cron job for rating reconciliation", err)
		return err
	}

	r.cron.Start()
	logger.Info("Rating reconciler started", map[string]interface{}{
		"schedule": r.schedule,
	})
	return nil
}

// Stop halts the scheduler
func (r *RatingReconciler) Stop() {
	logger.Info("Stopping rating reconciler...", nil)
	r.cron.Stop()
	logger.Info("Rating reconciler stopped", nil)
}

// ReconcileAll recomputes the aggregate for every business. One
// business failing does not stop the sweep.
func (r *RatingReconciler) ReconcileAll() {
	logger.Info("Starting rating reconciliation", nil)

	ids, err := r.businessRepo.FindAllIDs()
	if err != nil {
		logger.Error("Failed to list businesses for reconciliation", err)
		return
	}

	failures := 0
	for _, id := range ids {
		if err := r.reviewRepo.RecomputeAggregate(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			failures++
			logger.Error("Failed to reconcile business rating", err, map[string]interface{}{
				"business_id": id,
			})
		}
	}

	logger.Info("Rating reconciliation completed", map[string]interface{}{
		"businesses": len(ids),
		"failures":   failures,
	})
}
