package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/rsharma/bazario-backend/internal/errors"
	"github.com/rsharma/bazario-backend/internal/middleware"
	"github.com/rsharma/bazario-backend/internal/storage"
)

// maxUploadSize caps declared upload sizes at 5 MiB.
const maxUploadSize = 5 << 20

var allowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{storage: storage}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"min=0"`
	Folder      string `json:"folder"`
}

// GeneratePresignedURL issues a pre-signed S3 upload URL for an image
// POST /api/v1/uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Filename and content type are required")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		log.Warn("Rejected upload content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	if req.Size > 0 {
		if err := ctrl.storage.ValidateFileSize(req.Size, maxUploadSize); err != nil {
			apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Images must be 5MB or smaller")
			return
		}
	}

	folder := req.Folder
	if folder == "" {
		folder = "uploads"
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
			"folder":   folder,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to prepare upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"upload_url": response.UploadURL,
		"file_url":   response.FileURL,
		"key":        response.Key,
	})
}

type DeleteUploadRequest struct {
	Key     string `json:"key"`
	FileURL string `json:"file_url"`
}

// DeleteUpload removes an uploaded file by key or public URL. Used to clean
// up images that were uploaded and then dropped from a listing.
// DELETE /api/v1/uploads
func (ctrl *UploadController) DeleteUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req DeleteUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	key := req.Key
	if key == "" {
		key = ctrl.storage.KeyFromURL(req.FileURL)
	}
	if key == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Provide an object key or a file URL from this bucket")
		return
	}

	if err := ctrl.storage.DeleteObject(key); err != nil {
		log.Error("Failed to delete uploaded file", err, map[string]interface{}{
			"key": key,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to delete the file")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File deleted",
	})
}
