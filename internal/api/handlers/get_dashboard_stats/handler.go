package get_dashboard_stats

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
	service StatsService
	logger  Logger
}

func NewHandler(service StatsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	role, _ := middleware.GetRole(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/stats - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	stats, err := h.service.GetDashboardStats(r.Context(), userID, role)
	if err != nil {
		h.logger.Error("GET /bookings/stats - Failed to get stats: user_id=%d, role=%s, error=%v", userID, role, err)
		handlers.RespondServiceError(w, err, msgInvalidRole)
		return
	}

	h.logger.Info("GET /bookings/stats - Stats retrieved successfully: user_id=%d, role=%s", userID, role)
	handlers.RespondJSON(w, http.StatusOK, stats)
}
