package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/prideatlas/prideatlas-backend/internal/errors"
	"github.com/prideatlas/prideatlas-backend/internal/middleware"
	"github.com/prideatlas/prideatlas-backend/internal/storage"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

var allowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

var allowedUploadFolders = map[string]bool{
	"businesses": true,
	"reviews":    true,
	"profiles":   true,
}

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size"`
	Folder      string `json:"folder"`
}

type DeleteFileRequest struct {
	FileURL string `json:"file_url" binding:"required"`
}

// GeneratePresignedURL issues a presigned S3 PUT URL for an image upload
// POST /api/v1/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "input is not valid")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	if req.FileSize > 0 {
		if err := ctrl.storage.ValidateFileSize(req.FileSize, maxUploadSize); err != nil {
			log.Warn("File too large", map[string]interface{}{
				"file_size": req.FileSize,
			})
			apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "file exceeds the 10MB limit")
			return
		}
	}

	folder := req.Folder
	if folder == "" {
		folder = "businesses"
	}
	if !allowedUploadFolders[folder] {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "unknown upload folder")
		return
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       folder,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "failed to prepare the upload")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"filename": req.Filename,
		"folder":   folder,
		"key":      response.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"upload_url": response.UploadURL,
		"file_url":   response.FileURL,
		"key":        response.Key,
	})
}

// DeleteFile removes an uploaded object by its public URL
// DELETE /api/v1/upload
func (ctrl *UploadController) DeleteFile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req DeleteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "input is not valid")
		return
	}

	if err := ctrl.storage.DeleteByURL(c.Request.Context(), req.FileURL); err != nil {
		log.Error("Failed to delete uploaded file", err, map[string]interface{}{
			"file_url": req.FileURL,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "failed to delete the file")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File deleted",
	})
}
