package cancel_booking

import (
	"context"

	updateStatus "github.com/m04kA/LogiFlow-BookingService/internal/usecase/update_booking_status"
)

type CancelUseCase interface {
	Cancel(ctx context.Context, req *updateStatus.CancelRequest) (*updateStatus.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
