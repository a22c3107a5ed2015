package cancel_booking

import (
	updateStatus "github.com/m04kA/LogiFlow-BookingService/internal/usecase/update_booking_status"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *CancelBookingRequest) ToUseCaseRequest(bookingID, customerID int64) *updateStatus.CancelRequest {
	return &updateStatus.CancelRequest{
		BookingID:  bookingID,
		CustomerID: customerID,
		Reason:     r.CancellationReason,
	}
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	BookingID      int64  `json:"bookingId"`
	TrackingNumber string `json:"trackingNumber"`
	Status         string `json:"status"`
}
