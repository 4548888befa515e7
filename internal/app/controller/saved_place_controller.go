package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prideatlas/prideatlas-backend/internal/app/service"
	apperrors "github.com/prideatlas/prideatlas-backend/internal/errors"
	"github.com/prideatlas/prideatlas-backend/internal/middleware"
)

type SavedPlaceController struct {
	savedPlaceService service.SavedPlaceService
}

func NewSavedPlaceController(savedPlaceService service.SavedPlaceService) *SavedPlaceController {
	return &SavedPlaceController{
		savedPlaceService: savedPlaceService,
	}
}

// ListSaved returns the caller's saved places with business details
// GET /api/v1/saved
func (ctrl *SavedPlaceController) ListSaved(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	entries, err := ctrl.savedPlaceService.ListSaved(userID)
	if err != nil {
		log.Error("Failed to list saved places", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list saved")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"saved_places": entries,
	})
}

// SavePlace adds a business to the caller's saved set
// PUT /api/v1/saved/:business_id
func (ctrl *SavedPlaceController) SavePlace(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	businessID, ok := parseIDParam(c, "business_id")
	if !ok {
		return
	}

	if err := ctrl.savedPlaceService.SavePlace(userID, businessID); err != nil {
		if errors.Is(err, service.ErrInvalidSavedPlace) {
			apperrors.BadRequest(c, apperrors.SavedInvalidArgument, "user id and business id are required")
			return
		}
		log.Error("Failed to save place", err, map[string]interface{}{
			"user_id":     userID,
			"business_id": businessID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "save place")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Place saved",
		"is_saved": true,
	})
}

// UnsavePlace removes a business from the caller's saved set
// DELETE /api/v1/saved/:business_id
func (ctrl *SavedPlaceController) UnsavePlace(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	businessID, ok := parseIDParam(c, "business_id")
	if !ok {
		return
	}

	if err := ctrl.savedPlaceService.UnsavePlace(userID, businessID); err != nil {
		if errors.Is(err, service.ErrInvalidSavedPlace) {
			apperrors.BadRequest(c, apperrors.SavedInvalidArgument, "user id and business id are required")
			return
		}
		log.Error("Failed to unsave place", err, map[string]interface{}{
			"user_id":     userID,
			"business_id": businessID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "unsave place")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Place removed from saved",
		"is_saved": false,
	})
}

// CheckSaved reports whether the caller saved a business
// GET /api/v1/saved/:business_id
func (ctrl *SavedPlaceController) CheckSaved(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	businessID, ok := parseIDParam(c, "business_id")
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_saved": ctrl.savedPlaceService.IsSaved(userID, businessID),
	})
}
