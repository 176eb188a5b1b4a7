package booking

import (
	"errors"
	"net/http"
	"strconv"

	"dogsalon/internal/domain"
	"dogsalon/internal/pkg/i18n"
	"dogsalon/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	msgClosed  = "slots.closed"
	msgNoSlots = "slots.none"
)

type Handler struct {
	service *Service
	tr      *i18n.Translator
}

func NewHandler(service *Service, tr *i18n.Translator) *Handler {
	return &Handler{service: service, tr: tr}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/services/:id/slots", h.GetServiceSlots)
	rg.GET("/slots", h.GetSlots)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/my", h.ListMyBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.DELETE("/bookings/:id", h.CancelOwnBooking)
}

// RegisterAdminRoutes expects a group already restricted to admins.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/bookings/:id/cancel", h.CancelAsAdmin)
}

// GetServiceSlots godoc
// @Summary Free start times of a service on a day
// @Tags Bookings
// @Produce json
// @Param id path int true "Service ID"
// @Param day query string true "Day (YYYY-MM-DD)"
// @Router /services/{id}/slots [get]
func (h *Handler) GetServiceSlots(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid service id")
		return
	}
	h.respondSlots(c, serviceID, c.Query("day"))
}

// GetSlots is the query-string form: /slots?service_id=1&day=2030-01-02.
func (h *Handler) GetSlots(c *gin.Context) {
	rawID, day := c.Query("service_id"), c.Query("day")
	if rawID == "" || day == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required parameters: day and service_id")
		return
	}
	serviceID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid service id")
		return
	}
	h.respondSlots(c, serviceID, day)
}

func (h *Handler) respondSlots(c *gin.Context, serviceID int64, day string) {
	if day == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required parameter: day")
		return
	}

	avail, err := h.service.GetAvailability(c.Request.Context(), serviceID, day)
	if err != nil {
		h.writeError(c, err, "Failed to load available slots")
		return
	}

	lang := c.GetString("lang")
	switch {
	case avail.Closed:
		avail.Message = h.tr.T(lang, msgClosed)
	case len(avail.Slots) == 0:
		avail.Message = h.tr.T(lang, msgNoSlots)
	}

	response.Success(c, http.StatusOK, avail)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err, "Failed to create booking")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.service.ListMyBookings(c.Request.Context(), c.GetInt64("user_id"), page)
	if err != nil {
		h.writeError(c, err, "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), id, c.GetInt64("user_id"), isAdmin(c))
	if err != nil {
		h.writeError(c, err, "Failed to load booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelOwnBooking(c *gin.Context) {
	h.cancel(c, false)
}

func (h *Handler) CancelAsAdmin(c *gin.Context) {
	h.cancel(c, true)
}

func (h *Handler) cancel(c *gin.Context, byAdmin bool) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), id, c.GetInt64("user_id"), byAdmin)
	if err != nil {
		h.writeError(c, err, "Failed to cancel booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
	case errors.Is(err, ErrInvalidDate):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrDateOutOfRange):
		response.Error(c, http.StatusBadRequest, "DATE_OUT_OF_RANGE", err.Error())
	case errors.Is(err, ErrServiceNotFound):
		response.Error(c, http.StatusNotFound, "SERVICE_NOT_FOUND", "Service not found")
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrSlotUnavailable):
		response.Error(c, http.StatusConflict, "SLOT_UNAVAILABLE", "The selected time is not available")
	case errors.Is(err, ErrOverbooking):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "The selected time has just been booked")
	case errors.Is(err, ErrAlreadyCancelled):
		response.Error(c, http.StatusConflict, "ALREADY_CANCELLED", "Booking is already cancelled")
	case errors.Is(err, ErrBookingStarted):
		response.Error(c, http.StatusBadRequest, "BOOKING_STARTED", "Booking has already started")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
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

func isAdmin(c *gin.Context) bool {
	return c.GetString("role") == string(domain.RoleAdmin)
}
