package service

import (
	"errors"
	"strings"

	"github.com/prideatlas/prideatlas-backend/internal/app/model"
	"github.com/prideatlas/prideatlas-backend/internal/app/repository"
	"github.com/prideatlas/prideatlas-backend/pkg/logger"
	"github.com/prideatlas/prideatlas-backend/pkg/validate"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound = errors.New("review not found")
)

const maxReviewCommentLength = 2000

// EventBroadcaster pushes review activity to connected clients. A nil
// broadcaster disables publishing without changing write behavior.
type EventBroadcaster interface {
	BroadcastReviewCreated(businessID uint, review *model.Review)
	BroadcastRatingUpdated(businessID uint, averageRating float64, totalReviews int)
}

type SubmitReviewInput struct {
	BusinessID uint
	UserID     uint
	Rating     int
	Comment    string
	PhotoURLs  []string
}

type ReviewService interface {
	SubmitReview(input SubmitReviewInput) (*model.Review, error)
	GetBusinessReviews(businessID uint, page, pageSize int) ([]model.Review, int64, error)
	GetUserReviews(userID uint, page, pageSize int) ([]model.Review, int64, error)
	DeleteReview(reviewID uint) error
}

type reviewService struct {
	reviewRepo   repository.ReviewRepository
	businessRepo repository.BusinessRepository
	broadcaster  EventBroadcaster
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	businessRepo repository.BusinessRepository,
	broadcaster EventBroadcaster,
) ReviewService {
	return &reviewService{
		reviewRepo:   reviewRepo,
		businessRepo: businessRepo,
		broadcaster:  broadcaster,
	}
}

// validateReview rejects bad input before anything is written.
func validateReview(input SubmitReviewInput) error {
	if input.BusinessID == 0 {
		return &ValidationError{Field: "business_id", Message: "business id is required"}
	}
	if input.UserID == 0 {
		return &ValidationError{Field: "user_id", Message: "user id is required"}
	}
	if input.Rating < 1 || input.Rating > 5 {
		return &ValidationError{Field: "rating", Message: "rating must be between 1 and 5"}
	}
	if strings.TrimSpace(input.Comment) == "" {
		return &ValidationError{Field: "comment", Message: "comment must not be empty"}
	}
	if len(input.Comment) > maxReviewCommentLength {
		return &ValidationError{Field: "comment", Message: "comment is too long"}
	}
	for _, photoURL := range input.PhotoURLs {
		if result := validate.URL(photoURL); !result.IsValid {
			return &ValidationError{Field: "photo_urls", Message: result.Message}
		}
	}
	return nil
}

// SubmitReview stores the review, then folds its rating into the
// business aggregate. The aggregate step is best effort: a missing
// business row or a transient failure never undoes an already-accepted
// review, and the hourly reconciler repairs any drift.
func (s *reviewService) SubmitReview(input SubmitReviewInput) (*model.Review, error) {
	logger.Info("Submitting review", map[string]interface{}{
		"business_id": input.BusinessID,
		"user_id":     input.UserID,
		"rating":      input.Rating,
	})

	if err := validateReview(input); err != nil {
		logger.Warn("Review failed validation", map[string]interface{}{
			"business_id": input.BusinessID,
			"user_id":     input.UserID,
			"error":       err.Error(),
		})
		return nil, err
	}

	review := &model.Review{
		BusinessID: input.BusinessID,
		UserID:     input.UserID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
		PhotoURLs:  input.PhotoURLs,
	}

	if err := s.reviewRepo.Create(review); err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"business_id": input.BusinessID,
			"user_id":     input.UserID,
		})
		return nil, err
	}

	if err := s.reviewRepo.ApplyRatingAggregate(input.BusinessID, input.Rating); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug("Skipping rating aggregate: business not found", map[string]interface{}{
				"business_id": input.BusinessID,
				"review_id":   review.ID,
			})
		} else {
			logger.Error("Failed to update rating aggregate", err, map[string]interface{}{
				"business_id": input.BusinessID,
				"review_id":   review.ID,
			})
		}
		// The review stands either way
		return review, nil
	}

	s.publishReviewEvents(input.BusinessID, review)

	logger.Info("Review submitted successfully", map[string]interface{}{
		"review_id":   review.ID,
		"business_id": input.BusinessID,
		"user_id":     input.UserID,
	})

	return review, nil
}

func (s *reviewService) publishReviewEvents(businessID uint, review *model.Review) {
	if s.broadcaster == nil {
		return
	}

	s.broadcaster.BroadcastReviewCreated(businessID, review)

	business, err := s.businessRepo.FindByID(businessID)
	if err != nil {
		logger.Debug("Skipping rating broadcast: business fetch failed", map[string]interface{}{
			"business_id": businessID,
		})
		return
	}
	s.broadcaster.BroadcastRatingUpdated(businessID, business.AverageRating, business.TotalReviews)
}

func (s *reviewService) GetBusinessReviews(businessID uint, page, pageSize int) ([]model.Review, int64, error) {
	offset, limit := normalizePagination(page, pageSize)

	reviews, total, err := s.reviewRepo.FindByBusinessID(businessID, offset, limit)
	if err != nil {
		logger.Error("Failed to fetch business reviews", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *reviewService) GetUserReviews(userID uint, page, pageSize int) ([]model.Review, int64, error) {
	offset, limit := normalizePagination(page, pageSize)

	reviews, total, err := s.reviewRepo.FindByUserID(userID, offset, limit)
	if err != nil {
		logger.Error("Failed to fetch user reviews", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}
	return reviews, total, nil
}

// DeleteReview removes a review for moderation and rebuilds the
// business aggregate from the remaining reviews.
func (s *reviewService) DeleteReview(reviewID uint) error {
	logger.Info("Deleting review", map[string]interface{}{
		"review_id": reviewID,
	})

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		logger.Error("Failed to fetch review for deletion", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}

	if err := s.reviewRepo.DeleteWithRecompute(review); err != nil {
		logger.Error("Failed to delete review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}

	logger.Info("Review deleted successfully", map[string]interface{}{
		"review_id":   reviewID,
		"business_id": review.BusinessID,
	})
	return nil
}

func normalizePagination(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return (page - 1) * pageSize, pageSize
}
