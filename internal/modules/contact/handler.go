package contact

import (
	"errors"
	"net/http"

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
	v1.GET("/contact", h.Get)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/contact/callback", h.RequestCallback)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/contact", h.Create)
	admin.PATCH("/contact", h.Update)
	admin.DELETE("/contact", h.Delete)
}

func (h *Handler) Get(c *gin.Context) {
	contact, err := h.service.Get(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to load contact details")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"contact": contact})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	contact, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to save contact details")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"contact": contact})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	contact, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to save contact details")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"contact": contact})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context()); err != nil {
		writeError(c, err, "Failed to delete contact details")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Contact details deleted"})
}

func (h *Handler) RequestCallback(c *gin.Context) {
	if err := h.service.RequestCallback(c.Request.Context(), c.GetInt64("user_id")); err != nil {
		writeError(c, err, "Failed to request a callback")
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"message": "Callback requested"})
}

func writeError(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationError(c, "Invalid contact details", verr.Fields)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Contact details are not configured")
	case errors.Is(err, ErrAlreadyExists):
		response.Error(c, http.StatusConflict, "ALREADY_EXISTS", "Contact details already exist")
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
