package update_booking_status

import (
	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	updateStatus "github.com/m04kA/LogiFlow-BookingService/internal/usecase/update_booking_status"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *UpdateStatusRequest) ToUseCaseRequest(bookingID, actorID int64, role domain.Role) *updateStatus.Request {
	return &updateStatus.Request{
		BookingID: bookingID,
		Status:    r.Status,
		ActorID:   actorID,
		ActorRole: role,
		Notes:     r.Notes,
	}
}

// StatusResponse HTTP response model
type StatusResponse struct {
	BookingID      int64  `json:"bookingId"`
	TrackingNumber string `json:"trackingNumber"`
	PreviousStatus string `json:"previousStatus"`
	Status         string `json:"status"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP response
func FromUseCaseResponse(resp *updateStatus.Response) StatusResponse {
	return StatusResponse{
		BookingID:      resp.BookingID,
		TrackingNumber: resp.TrackingNumber,
		PreviousStatus: resp.PreviousStatus,
		Status:         resp.Status,
	}
}
