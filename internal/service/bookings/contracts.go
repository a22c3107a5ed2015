package bookings

import (
	"context"
	"time"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/internal/integrations/eventbus"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, at time.Time) error
	GetViewByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.BookingView, error)
	GetViewByID(ctx context.Context, id int64) (*domain.BookingView, error)
	ListViews(ctx context.Context, filter domain.BookingListFilter) ([]*domain.BookingView, error)
	GetAdminStats(ctx context.Context, since time.Time) (domain.AdminStats, error)
	GetCustomerStats(ctx context.Context, customerID int64) (domain.CustomerStats, error)
	GetDriverStats(ctx context.Context, driverID int64, dayStart time.Time) (domain.DriverStats, error)
}

// ItemRepository интерфейс репозитория позиций груза
type ItemRepository interface {
	GetByBookingIDs(ctx context.Context, bookingIDs []int64) (map[int64][]domain.BookingItem, error)
}

// TrackingRepository интерфейс журнала трекинга
type TrackingRepository interface {
	Create(ctx context.Context, update *domain.TrackingUpdate) (*domain.TrackingUpdate, error)
	GetByBookingIDs(ctx context.Context, bookingIDs []int64, publicOnly bool) (map[int64][]domain.TrackingUpdate, error)
}

// DriverRepository интерфейс репозитория водителей
type DriverRepository interface {
	CountByStatus(ctx context.Context, status domain.DriverStatus) (int, error)
}

// EventPublisher интерфейс публикации событий бронирования
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}
