package track_booking

import (
	"context"

	"github.com/m04kA/LogiFlow-BookingService/internal/service/bookings/models"
)

type TrackingService interface {
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
