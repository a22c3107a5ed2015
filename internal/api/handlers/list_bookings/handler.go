package list_bookings

import (
	"net/http"

	"github.com/m04kA/LogiFlow-BookingService/internal/api/handlers"
	"github.com/m04kA/LogiFlow-BookingService/internal/api/middleware"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidRole   = "неизвестная роль пользователя"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings
// Клиент видит свои бронирования, водитель назначенные ему, администратор все
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	role, _ := middleware.GetRole(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	resp, err := h.service.ListBookings(r.Context(), userID, role)
	if err != nil {
		h.logger.Error("GET /bookings - Failed to list bookings: user_id=%d, role=%s, error=%v", userID, role, err)
		handlers.RespondServiceError(w, err, msgInvalidRole)
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved successfully: user_id=%d, count=%d", userID, len(resp.Bookings))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
