package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"dogsalon/internal/modules/gallery"
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
	v1.GET("/services", h.ListServices)
	v1.GET("/services/slug/:slug", h.GetServiceBySlug)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	g := admin.Group("/services")
	{
		g.GET("", h.AdminListServices)
		g.POST("", h.CreateService)
		g.GET("/:id", h.AdminGetService)
		g.PATCH("/:id", h.UpdateService)
		g.DELETE("/:id", h.DeleteService)
		g.POST("/:id/photo", h.UploadPhoto)
	}
}

// ListServices godoc
// @Summary Active services, ordered by name
// @Tags Services
// @Param page query int false "Page (12 per page)"
// @Router /services [get]
func (h *Handler) ListServices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.service.ListPublic(c.Request.Context(), page)
	if err != nil {
		writeError(c, err, "Failed to load services")
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) GetServiceBySlug(c *gin.Context) {
	svc, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err, "Failed to load service")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service": svc})
}

func (h *Handler) AdminListServices(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	f := AdminFilter{Search: c.Query("search"), Limit: limit, Offset: offset}
	if v := c.Query("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "active must be true or false")
			return
		}
		f.Active = &active
	}

	items, total, err := h.service.ListAdmin(c.Request.Context(), f)
	if err != nil {
		writeError(c, err, "Failed to load services")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *Handler) AdminGetService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	svc, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to load service")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service": svc})
}

func (h *Handler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	svc, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to create service")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"service": svc})
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	svc, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err, "Failed to update service")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service": svc})
}

func (h *Handler) DeleteService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "Failed to delete service")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Service deleted"})
}

func (h *Handler) UploadPhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Multipart field \"photo\" is required")
		return
	}

	svc, err := h.service.SetPhoto(c.Request.Context(), id, fh)
	if err != nil {
		writeError(c, err, "Failed to upload photo")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service": svc})
}

func writeError(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationError(c, "Invalid service data", verr.Fields)
	case errors.Is(err, ErrServiceNotFound):
		response.Error(c, http.StatusNotFound, "SERVICE_NOT_FOUND", "Service not found")
	case errors.Is(err, ErrSlugTaken):
		response.Error(c, http.StatusConflict, "SLUG_EXISTS", "A service with this slug already exists")
	case errors.Is(err, ErrServiceHasBookings):
		response.Error(c, http.StatusConflict, "SERVICE_HAS_BOOKINGS", "Service has upcoming bookings; deactivate it instead")
	default:
		gallery.WriteError(c, err, fallback)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}
