package create_booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/internal/integrations/eventbus"
	"github.com/m04kA/LogiFlow-BookingService/internal/service/pricing"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// LocationRepository интерфейс репозитория адресов
type LocationRepository interface {
	Create(ctx context.Context, location *domain.Location) (*domain.Location, error)
}

// ItemRepository интерфейс репозитория позиций груза
type ItemRepository interface {
	CreateBatch(ctx context.Context, bookingID int64, items []domain.BookingItem) error
}

// TrackingRepository интерфейс журнала трекинга
type TrackingRepository interface {
	Create(ctx context.Context, update *domain.TrackingUpdate) (*domain.TrackingUpdate, error)
}

// PriceCalculator интерфейс расчета стоимости
type PriceCalculator interface {
	Calculate(q pricing.Quote) (domain.Breakdown, error)
}

// DistanceRater интерфейс расчета платы за расстояние
type DistanceRater interface {
	Charge(pickup, delivery domain.Coordinates) decimal.Decimal
}

// TrackingNumberGenerator интерфейс генератора трек-номеров
type TrackingNumberGenerator interface {
	Next() string
}

// EventPublisher интерфейс публикации событий бронирования
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event) error
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	IncBookingCreated(serviceType string)
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
