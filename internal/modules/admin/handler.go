package admin

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

// RegisterRoutes expects a group already restricted to admins.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/bookings", h.ListBookings)
	admin.GET("/stats", h.GetStats)

	users := admin.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.POST("/:id/deactivate", h.DeactivateUser)
		users.POST("/:id/activate", h.ActivateUser)
	}
}

// ListBookings godoc
// @Summary Search bookings
// @Tags Admin
// @Security BearerAuth
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param active query bool false "Today onward"
// @Param cancelled query bool false "Only cancelled or only live"
// @Param include_cancelled query bool false "Live and cancelled"
// @Param user query string false "User id or name fragment"
// @Router /admin/bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	var q BookingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	result, err := h.service.ListBookings(c.Request.Context(), q)
	if err != nil {
		writeError(c, err, "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) ListUsers(c *gin.Context) {
	var q UserQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	result, err := h.service.ListUsers(c.Request.Context(), q)
	if err != nil {
		writeError(c, err, "Failed to load users")
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) DeactivateUser(c *gin.Context) {
	userID, ok := parseID(c)
	if !ok {
		return
	}
	u, err := h.service.Deactivate(c.Request.Context(), c.GetInt64("user_id"), userID)
	if err != nil {
		writeError(c, err, "Failed to deactivate user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *Handler) ActivateUser(c *gin.Context) {
	userID, ok := parseID(c)
	if !ok {
		return
	}
	u, err := h.service.Activate(c.Request.Context(), c.GetInt64("user_id"), userID)
	if err != nil {
		writeError(c, err, "Failed to activate user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to load statistics")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, ErrSelfDeactivate):
		response.Error(c, http.StatusBadRequest, "SELF_DEACTIVATION", "You cannot deactivate your own account")
	case errors.Is(err, ErrInvalidFrom):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return 0, false
	}
	return id, true
}
