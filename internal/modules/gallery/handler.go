package gallery

import (
	"errors"
	"net/http"
	"strconv"

	"dogsalon/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/gallery", h.List)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/gallery", h.Upload)
	admin.DELETE("/gallery/:name", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		WriteError(c, err, "Failed to load gallery")
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Multipart field \"image\" is required")
		return
	}

	img, err := h.service.Upload(c.Request.Context(), fh)
	if err != nil {
		WriteError(c, err, "Failed to upload image")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"image": img})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("name")); err != nil {
		WriteError(c, err, "Failed to delete image")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Image deleted"})
}

// WriteError maps store errors to responses. The catalog photo upload
// reuses it.
func WriteError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrEmptyFile):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "File is empty")
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File is too large")
	case errors.Is(err, ErrInvalidMimeType):
		response.Error(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only JPEG, PNG, WebP and GIF images are allowed")
	case errors.Is(err, ErrInvalidName):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid file name")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Image not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
