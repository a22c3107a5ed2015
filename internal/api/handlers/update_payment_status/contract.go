package update_payment_status

import (
	"context"

	"github.com/m04kA/LogiFlow-BookingService/internal/service/bookings/models"
)

type PaymentService interface {
	UpdatePaymentStatus(ctx context.Context, req *models.UpdatePaymentStatusRequest) (*models.PaymentStatusResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
