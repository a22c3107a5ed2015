package assign_driver

import (
	assignDriver "github.com/m04kA/LogiFlow-BookingService/internal/usecase/assign_driver"
)

// AssignDriverRequest HTTP request model, driverId это ID пользователя-водителя
type AssignDriverRequest struct {
	DriverID int64 `json:"driverId"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *AssignDriverRequest) ToUseCaseRequest(bookingID, actorID int64) *assignDriver.Request {
	return &assignDriver.Request{
		BookingID: bookingID,
		DriverID:  r.DriverID,
		ActorID:   actorID,
	}
}

// AssignDriverResponse HTTP response model
type AssignDriverResponse struct {
	BookingID      int64  `json:"bookingId"`
	TrackingNumber string `json:"trackingNumber"`
	DriverID       int64  `json:"driverId"`
	Status         string `json:"status"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP response
func FromUseCaseResponse(resp *assignDriver.Response) AssignDriverResponse {
	return AssignDriverResponse{
		BookingID:      resp.BookingID,
		TrackingNumber: resp.TrackingNumber,
		DriverID:       resp.DriverID,
		Status:         resp.Status,
	}
}
