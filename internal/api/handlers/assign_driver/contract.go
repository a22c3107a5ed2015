package assign_driver

import (
	"context"

	assignDriver "github.com/m04kA/LogiFlow-BookingService/internal/usecase/assign_driver"
)

type AssignDriverUseCase interface {
	Execute(ctx context.Context, req *assignDriver.Request) (*assignDriver.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
