package track_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/LogiFlow-BookingService/internal/api/handlers"
	"github.com/m04kA/LogiFlow-BookingService/internal/service/bookings"
)

const (
	msgInvalidTracking = "некорректный трек-номер"
	msgNotFound        = "бронирование не найдено"
)

type Handler struct {
	service TrackingService
	logger  Logger
}

func NewHandler(service TrackingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/track/{trackingNumber}
// Публичный маршрут: внутренние записи журнала не отдаются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	trackingNumber := mux.Vars(r)["trackingNumber"]

	booking, err := h.service.GetByTrackingNumber(r.Context(), trackingNumber)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /track/{trackingNumber} - Booking not found: tracking=%s", trackingNumber)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /track/{trackingNumber} - Invalid tracking number: %q", trackingNumber)
			handlers.RespondBadRequest(w, msgInvalidTracking)

		default:
			h.logger.Error("GET /track/{trackingNumber} - Failed to track booking: tracking=%s, error=%v", trackingNumber, err)
			handlers.RespondServiceError(w, err, msgNotFound)
		}
		return
	}

	h.logger.Info("GET /track/{trackingNumber} - Booking tracked: tracking=%s", trackingNumber)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
