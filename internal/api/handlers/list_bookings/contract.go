package list_bookings

import (
	"context"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	ListBookings(ctx context.Context, userID int64, role domain.Role) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
