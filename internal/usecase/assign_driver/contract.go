package assign_driver

import (
	"context"
	"time"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/internal/integrations/eventbus"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	AssignDriver(ctx context.Context, id, driverID int64, at time.Time) error
}

// DriverRepository интерфейс репозитория водителей
type DriverRepository interface {
	GetByUserIDForUpdate(ctx context.Context, userID int64) (*domain.Driver, error)
	SetStatusIf(ctx context.Context, userID int64, from, to domain.DriverStatus) error
}

// TrackingRepository интерфейс журнала трекинга
type TrackingRepository interface {
	Create(ctx context.Context, update *domain.TrackingUpdate) (*domain.TrackingUpdate, error)
}

// EventPublisher интерфейс публикации событий бронирования
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event) error
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	IncDriverAssignment(result string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
