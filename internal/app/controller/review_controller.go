package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prideatlas/prideatlas-backend/internal/app/service"
	apperrors "github.com/prideatlas/prideatlas-backend/internal/errors"
	"github.com/prideatlas/prideatlas-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type SubmitReviewRequest struct {
	Rating    int      `json:"rating" binding:"required"`
	Comment   string   `json:"comment"`
	PhotoURLs []string `json:"photo_urls"`
}

// SubmitReview creates a review for a business
// POST /api/v1/businesses/:id/reviews
func (ctrl *ReviewController) SubmitReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid review request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "input is not valid")
		return
	}

	review, err := ctrl.reviewService.SubmitReview(service.SubmitReviewInput{
		BusinessID: businessID,
		UserID:     userID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		PhotoURLs:  req.PhotoURLs,
	})
	if err != nil {
		if respondValidationError(c, err) {
			return
		}
		log.Error("Failed to submit review", err, map[string]interface{}{
			"business_id": businessID,
			"user_id":     userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "submit review")
		return
	}

	log.Info("Review submitted", map[string]interface{}{
		"review_id":   review.ID,
		"business_id": businessID,
		"user_id":     userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review submitted successfully",
		"review":  review,
	})
}

// ListBusinessReviews returns reviews for a business, newest first
// GET /api/v1/businesses/:id/reviews
func (ctrl *ReviewController) ListBusinessReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	page, pageSize := parsePagination(c)
	reviews, total, err := ctrl.reviewService.GetBusinessReviews(businessID, page, pageSize)
	if err != nil {
		log.Error("Failed to list business reviews", err, map[string]interface{}{
			"business_id": businessID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":   reviews,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// ListMyReviews returns the caller's reviews
// GET /api/v1/reviews/mine
func (ctrl *ReviewController) ListMyReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	page, pageSize := parsePagination(c)
	reviews, total, err := ctrl.reviewService.GetUserReviews(userID, page, pageSize)
	if err != nil {
		log.Error("Failed to list user reviews", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":   reviews,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// DeleteReview removes a review for moderation
// DELETE /api/v1/admin/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteReview(reviewID); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "review not found")
			return
		}
		log.Error("Failed to delete review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete review")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted",
	})
}
