package api

import (
	"alcyxob/coachplan/internal/service"
	"alcyxob/coachplan/internal/storage"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes the shared exercise catalog and the demo
// video upload flow.
type CatalogHandler struct {
	catalogService service.CatalogService
	blobStore      storage.BlobStore
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService service.CatalogService, blobStore storage.BlobStore) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, blobStore: blobStore}
}

// --- Request/Response Structs ---

type UpdateExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type UploadURLResponse struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type DownloadURLResponse struct {
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary List the shared exercise catalog
// @Tags Exercises
// @Security BearerAuth
// @Success 200 {array} domain.Exercise
// @Router /exercises [get]
func (h *CatalogHandler) ListExercises(c *gin.Context) {
	exercises, err := h.catalogService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// GetExercise godoc
// @Summary Get one catalog entry
// @Tags Exercises
// @Security BearerAuth
// @Router /exercises/{exerciseId} [get]
func (h *CatalogHandler) GetExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}
	exercise, err := h.catalogService.GetByID(c.Request.Context(), exerciseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// UpdateExercise godoc
// @Summary Update a catalog entry
// @Description The catalog is shared: a rename is visible from every
// @Description assignment referencing the entry.
// @Tags Exercises
// @Security BearerAuth
// @Router /exercises/{exerciseId} [put]
func (h *CatalogHandler) UpdateExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}
	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.catalogService.Update(c.Request.Context(), exerciseID, req.Name, req.Description, req.VideoURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// RequestUploadURL godoc
// @Summary Get a presigned URL for uploading a demo video
// @Description The client PUTs the file straight to object storage and
// @Description then stores the returned objectKey on the exercise.
// @Tags Exercises
// @Security BearerAuth
// @Param request body UploadURLRequest true "Upload details"
// @Success 200 {object} UploadURLResponse
// @Router /exercises/upload-url [post]
func (h *CatalogHandler) RequestUploadURL(c *gin.Context) {
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if !strings.HasPrefix(req.ContentType, "video/") {
		abortWithError(c, http.StatusBadRequest, "Content type must be a video format")
		return
	}

	objectKey := storage.VideoObjectKey("exercise-videos")
	uploadURL, err := h.blobStore.GeneratePresignedUploadURL(c.Request.Context(), objectKey, req.ContentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not generate upload URL")
		return
	}

	c.JSON(http.StatusOK, UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
		ExpiresAt: time.Now().Add(storage.DefaultPresignedURLExpiry),
	})
}

// GetVideoDownloadURL godoc
// @Summary Get a presigned URL for viewing an exercise demo video
// @Tags Exercises
// @Security BearerAuth
// @Success 200 {object} DownloadURLResponse
// @Router /exercises/{exerciseId}/video-url [get]
func (h *CatalogHandler) GetVideoDownloadURL(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}
	exercise, err := h.catalogService.GetByID(c.Request.Context(), exerciseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if exercise.VideoURL == "" {
		abortWithError(c, http.StatusNotFound, "Exercise has no video")
		return
	}
	// External links are passed through untouched; object keys are
	// presigned.
	if strings.HasPrefix(exercise.VideoURL, "http://") || strings.HasPrefix(exercise.VideoURL, "https://") {
		c.JSON(http.StatusOK, DownloadURLResponse{DownloadURL: exercise.VideoURL})
		return
	}

	downloadURL, err := h.blobStore.GeneratePresignedDownloadURL(c.Request.Context(), exercise.VideoURL, storage.DefaultPresignedURLExpiry)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not generate download URL")
		return
	}
	c.JSON(http.StatusOK, DownloadURLResponse{
		DownloadURL: downloadURL,
		ExpiresAt:   time.Now().Add(storage.DefaultPresignedURLExpiry),
	})
}
