package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prideatlas/prideatlas-backend/internal/app/model"
	"github.com/prideatlas/prideatlas-backend/internal/app/repository"
	"github.com/prideatlas/prideatlas-backend/internal/app/service"
	apperrors "github.com/prideatlas/prideatlas-backend/internal/errors"
	"github.com/prideatlas/prideatlas-backend/internal/middleware"
)

type BusinessController struct {
	businessService   service.BusinessService
	savedPlaceService service.SavedPlaceService
}

func NewBusinessController(
	businessService service.BusinessService,
	savedPlaceService service.SavedPlaceService,
) *BusinessController {
	return &BusinessController{
		businessService:   businessService,
		savedPlaceService: savedPlaceService,
	}
}

type BusinessRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Category      string   `json:"category" binding:"required"`
	Address       string   `json:"address"`
	City          string   `json:"city" binding:"required"`
	Region        string   `json:"region"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Website       string   `json:"website"`
	ImageURL      string   `json:"image_url"`
	Accessibility []string `json:"accessibility"`
}

type SetFeaturedRequest struct {
	Featured *bool `json:"featured" binding:"required"`
}

func (req BusinessRequest) toInput() service.BusinessInput {
	return service.BusinessInput{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Address:       req.Address,
		City:          req.City,
		Region:        req.Region,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Phone:         req.Phone,
		Email:         req.Email,
		Website:       req.Website,
		ImageURL:      req.ImageURL,
		Accessibility: req.Accessibility,
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func parsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}

// ListBusinesses returns approved listings with optional filters
// GET /api/v1/businesses
func (ctrl *BusinessController) ListBusinesses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, pageSize := parsePagination(c)
	filter := repository.BusinessFilter{
		City:          c.Query("city"),
		Category:      c.Query("category"),
		Accessibility: c.Query("accessibility"),
		Status:        model.StatusApproved,
	}

	businesses, total, err := ctrl.businessService.ListBusinesses(filter, page, pageSize)
	if err != nil {
		log.Error("Failed to list businesses", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list businesses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": businesses,
		"total":      total,
		"page":       page,
		"page_size":  pageSize,
	})
}

// GetBusiness returns one listing, with saved state for signed-in users
// GET /api/v1/businesses/:id
func (ctrl *BusinessController) GetBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	business, err := ctrl.businessService.GetBusinessByID(id)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "business not found")
			return
		}
		log.Error("Failed to get business", err, map[string]interface{}{
			"business_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get business")
		return
	}

	response := gin.H{
		"business": business,
	}
	if userID, exists := middleware.GetUserID(c); exists {
		response["is_saved"] = ctrl.savedPlaceService.IsSaved(userID, id)
	}

	c.JSON(http.StatusOK, response)
}

// SubmitBusiness creates a pending listing owned by the caller
// POST /api/v1/businesses
func (ctrl *BusinessController) SubmitBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid business submission", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "input is not valid")
		return
	}

	business, err := ctrl.businessService.SubmitBusiness(userID, req.toInput())
	if err != nil {
		if respondValidationError(c, err) {
			return
		}
		log.Error("Failed to submit business", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "submit business")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Business submitted for review",
		"business": business,
	})
}

// ListMyBusinesses returns the caller's own listings, any status
// GET /api/v1/businesses/mine
func (ctrl *BusinessController) ListMyBusinesses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	businesses, err := ctrl.businessService.ListOwnBusinesses(userID)
	if err != nil {
		log.Error("Failed to list own businesses", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list businesses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": businesses,
	})
}

// UpdateBusiness edits a listing the caller owns
// PUT /api/v1/businesses/:id
func (ctrl *BusinessController) UpdateBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "input is not valid")
		return
	}

	business, err := ctrl.businessService.UpdateBusiness(id, userID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "business not found")
			return
		}
		if errors.Is(err, service.ErrNotBusinessOwner) {
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "only the owner can edit this listing")
			return
		}
		if respondValidationError(c, err) {
			return
		}
		log.Error("Failed to update business", err, map[string]interface{}{
			"business_id": id,
			"user_id":     userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Business updated successfully",
		"business": business,
	})
}

// ListPendingBusinesses returns listings awaiting moderation
// GET /api/v1/admin/businesses/pending
func (ctrl *BusinessController) ListPendingBusinesses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, pageSize := parsePagination(c)
	businesses, total, err := ctrl.businessService.ListBusinesses(repository.BusinessFilter{
		Status: model.StatusPending,
	}, page, pageSize)
	if err != nil {
		log.Error("Failed to list pending businesses", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list businesses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": businesses,
		"total":      total,
		"page":       page,
		"page_size":  pageSize,
	})
}

func (ctrl *BusinessController) respondTransition(c *gin.Context, id uint, err error, successMsg string) {
	log := middleware.GetLoggerFromContext(c)

	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "business not found")
			return
		}
		if errors.Is(err, service.ErrInvalidTransition) {
			apperrors.Conflict(c, apperrors.BusinessInvalidStatus, "the listing cannot move to that status")
			return
		}
		log.Error("Failed to change business status", err, map[string]interface{}{
			"business_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": successMsg,
	})
}

// ApproveBusiness makes a listing publicly visible
// PUT /api/v1/admin/businesses/:id/approve
func (ctrl *BusinessController) ApproveBusiness(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ctrl.respondTransition(c, id, ctrl.businessService.ApproveBusiness(id), "Business approved")
}

// RejectBusiness declines a pending listing
// PUT /api/v1/admin/businesses/:id/reject
func (ctrl *BusinessController) RejectBusiness(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ctrl.respondTransition(c, id, ctrl.businessService.RejectBusiness(id), "Business rejected")
}

// SuspendBusiness hides an approved listing
// PUT /api/v1/admin/businesses/:id/suspend
func (ctrl *BusinessController) SuspendBusiness(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ctrl.respondTransition(c, id, ctrl.businessService.SuspendBusiness(id), "Business suspended")
}

// SetFeatured toggles the featured flag on a listing
// PUT /api/v1/admin/businesses/:id/featured
func (ctrl *BusinessController) SetFeatured(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetFeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "input is not valid")
		return
	}

	if err := ctrl.businessService.SetFeatured(id, *req.Featured); err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "business not found")
			return
		}
		log.Error("Failed to set featured flag", err, map[string]interface{}{
			"business_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Featured flag updated",
	})
}

// DeleteBusiness removes a listing
// DELETE /api/v1/admin/businesses/:id
func (ctrl *BusinessController) DeleteBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.businessService.DeleteBusiness(id); err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "business not found")
			return
		}
		log.Error("Failed to delete business", err, map[string]interface{}{
			"business_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Business deleted",
	})
}
