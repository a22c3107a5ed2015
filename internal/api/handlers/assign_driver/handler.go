package assign_driver

import (
	"errors"
	"net/http"

	"github.com/m04kA/LogiFlow-BookingService/internal/api/handlers"
	"github.com/m04kA/LogiFlow-BookingService/internal/api/middleware"
	assignDriver "github.com/m04kA/LogiFlow-BookingService/internal/usecase/assign_driver"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgDriverNotFound     = "водитель не найден"
	msgDriverUnavailable  = "водитель недоступен"
	msgNotEligible        = "бронирование недоступно для назначения водителя"
)

type Handler struct {
	useCase AssignDriverUseCase
	logger  Logger
}

func NewHandler(useCase AssignDriverUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}/assign-driver
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/assign-driver - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/assign-driver - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AssignDriverRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id}/assign-driver - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, actorID))
	if err != nil {
		switch {
		case errors.Is(err, assignDriver.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id}/assign-driver - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, assignDriver.ErrDriverNotFound):
			h.logger.Warn("PUT /bookings/{id}/assign-driver - Driver not found: driver_id=%d", req.DriverID)
			handlers.RespondNotFound(w, msgDriverNotFound)

		case errors.Is(err, assignDriver.ErrDriverUnavailable):
			h.logger.Warn("PUT /bookings/{id}/assign-driver - Driver unavailable: driver_id=%d", req.DriverID)
			handlers.RespondConflict(w, msgDriverUnavailable)

		case errors.Is(err, assignDriver.ErrBookingNotEligible):
			h.logger.Warn("PUT /bookings/{id}/assign-driver - Booking not eligible: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotEligible)

		default:
			h.logger.Error("PUT /bookings/{id}/assign-driver - Failed to assign driver: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondServiceError(w, err, msgInvalidRequestBody)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/assign-driver - Driver assigned: booking_id=%d, driver_id=%d",
		bookingID, resp.DriverID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
