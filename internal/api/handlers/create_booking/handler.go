package create_booking

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/LogiFlow-BookingService/internal/api/handlers"
	"github.com/m04kA/LogiFlow-BookingService/internal/api/middleware"
	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	createBooking "github.com/m04kA/LogiFlow-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgMissingCustomerID  = "для администратора обязателен customerId"
	msgInvalidInput       = "некорректные данные бронирования"
	msgTrackingExhausted  = "не удалось выделить трек-номер, повторите запрос"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	role, _ := middleware.GetRole(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Клиент бронирует только на себя, администратор указывает клиента явно
	customerID := userID
	if role == domain.RoleAdmin {
		if req.CustomerID == nil {
			h.logger.Warn("POST /bookings - Admin request without customerId: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgMissingCustomerID)
			return
		}
		customerID = *req.CustomerID
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(customerID))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, fmt.Sprintf("%s: %v", msgInvalidInput, err))

		case errors.Is(err, createBooking.ErrTrackingNumberExhausted):
			h.logger.Error("POST /bookings - Tracking numbers exhausted: customer_id=%d", customerID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgTrackingExhausted)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, error=%v", customerID, err)
			handlers.RespondServiceError(w, err, msgInvalidInput)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, tracking=%s, customer_id=%d",
		result.BookingID, result.TrackingNumber, customerID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
