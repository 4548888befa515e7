package repository

import (
	"math"

	"github.com/prideatlas/prideatlas-backend/internal/app/model"
	"github.com/prideatlas/prideatlas-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	FindByBusinessID(businessID uint, offset, limit int) ([]model.Review, int64, error)
	FindByUserID(userID uint, offset, limit int) ([]model.Review, int64, error)
	ApplyRatingAggregate(businessID uint, rating int) error
	RecomputeAggregate(businessID uint) error
	DeleteWithRecompute(review *model.Review) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// round2 rounds to two decimal places, the precision of the stored aggregate
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"business_id": review.BusinessID,
		"user_id":     review.UserID,
		"rating":      review.Rating,
	})

	if err := r.db.Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"business_id": review.BusinessID,
			"user_id":     review.UserID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.Preload("User").First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByBusinessID(businessID uint, offset, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	query := r.db.Model(&model.Review{}).Where("business_id = ?", businessID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *reviewRepository) FindByUserID(userID uint, offset, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	query := r.db.Model(&model.Review{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// ApplyRatingAggregate folds one new rating into the business aggregate.
// The read-modify-write runs inside a transaction with a row lock so
// concurrent submissions for the same business serialize instead of
// losing updates. Returns gorm.ErrRecordNotFound when the business row
// is missing; the caller decides whether that is fatal.
func (r *reviewRepository) ApplyRatingAggregate(businessID uint, rating int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var business model.Business
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&business, businessID).Error; err != nil {
			return err
		}

		oldCount := business.TotalReviews
		newAvg := round2((business.AverageRating*float64(oldCount) + float64(rating)) / float64(oldCount+1))

		return tx.Model(&model.Business{}).
			Where("id = ?", businessID).
			Updates(map[string]interface{}{
				"average_rating": newAvg,
				"total_reviews":  oldCount + 1,
			}).Error
	})
}

// RecomputeAggregate rebuilds the aggregate from the reviews table.
// Used by the reconciliation job and after moderation deletes.
func (r *reviewRepository) RecomputeAggregate(businessID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return recomputeAggregateTx(tx, businessID)
	})
}

func recomputeAggregateTx(tx *gorm.DB, businessID uint) error {
	var business model.Business
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&business, businessID).Error; err != nil {
		return err
	}

	var count int64
	if err := tx.Model(&model.Review{}).
		Where("business_id = ?", businessID).
		Count(&count).Error; err != nil {
		return err
	}

	var avg float64
	if count > 0 {
		if err := tx.Model(&model.Review{}).
			Where("business_id = ?", businessID).
			Select("AVG(rating)").
			Scan(&avg).Error; err != nil {
			return err
		}
	}

	return tx.Model(&model.Business{}).
		Where("id = ?", businessID).
		Updates(map[string]interface{}{
			"average_rating": round2(avg),
			"total_reviews":  count,
		}).Error
}

// DeleteWithRecompute removes a review and rebuilds the business
// aggregate in the same transaction. A missing business row only skips
// the recompute, matching the create path.
func (r *reviewRepository) DeleteWithRecompute(review *model.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Review{}, review.ID).Error; err != nil {
			return err
		}

		err := recomputeAggregateTx(tx, review.BusinessID)
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	})
}
