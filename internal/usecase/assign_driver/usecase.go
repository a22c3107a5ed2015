package assign_driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/LogiFlow-BookingService/internal/infra/storage/booking"
	driverRepo "github.com/m04kA/LogiFlow-BookingService/internal/infra/storage/driver"
	"github.com/m04kA/LogiFlow-BookingService/internal/integrations/eventbus"
	"github.com/m04kA/LogiFlow-BookingService/pkg/ptr"
)

// Результаты назначения для метрик
const (
	resultAssigned       = "assigned"
	resultDriverNotFound = "driver_not_found"
	resultUnavailable    = "driver_unavailable"
	resultNotEligible    = "booking_not_eligible"
	resultError          = "error"
)

// UseCase use case назначения водителя на бронирование
type UseCase struct {
	bookingRepo  BookingRepository
	driverRepo   DriverRepository
	trackingRepo TrackingRepository
	publisher    EventPublisher
	metrics      Metrics
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	driverRepo DriverRepository,
	trackingRepo TrackingRepository,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		driverRepo:   driverRepo,
		trackingRepo: trackingRepo,
		publisher:    publisher,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute назначает водителя на бронирование.
// Строки бронирования и водителя блокируются в порядке booking -> driver,
// а обе записи меняются условными UPDATE, поэтому два параллельных назначения
// одного водителя не могут пройти одновременно.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AssignDriver: booking=%d, driver=%d, actor=%d", req.BookingID, req.DriverID, req.ActorID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AssignDriver: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	var booking *domain.Booking

	// 2. Проверки и изменения в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		b, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return fmt.Errorf("%w: get booking: %w", ErrInternal, err)
		}

		d, err := uc.driverRepo.GetByUserIDForUpdate(txCtx, req.DriverID)
		if err != nil {
			if errors.Is(err, driverRepo.ErrDriverNotFound) {
				return ErrDriverNotFound
			}
			return fmt.Errorf("%w: get driver: %w", ErrInternal, err)
		}

		if !d.IsAvailable() {
			return fmt.Errorf("%w: driver %d is %s", ErrDriverUnavailable, d.UserID, d.Status)
		}

		if b == nil {
			return fmt.Errorf("%w: booking %d not found", ErrBookingNotEligible, req.BookingID)
		}
		if !b.CanAssignDriver() {
			return fmt.Errorf("%w: booking %d is %s", ErrBookingNotEligible, b.ID, b.Status)
		}
		booking = b

		// 3. Водитель available -> busy
		if err := uc.driverRepo.SetStatusIf(txCtx, d.UserID, domain.DriverAvailable, domain.DriverBusy); err != nil {
			if errors.Is(err, driverRepo.ErrConditionNotMet) {
				return ErrDriverUnavailable
			}
			return fmt.Errorf("%w: reserve driver: %w", ErrInternal, err)
		}

		// 4. Бронирование pending -> assigned
		if err := uc.bookingRepo.AssignDriver(txCtx, b.ID, d.UserID, now); err != nil {
			if errors.Is(err, bookingRepo.ErrConditionNotMet) {
				return ErrBookingNotEligible
			}
			return fmt.Errorf("%w: assign driver: %w", ErrInternal, err)
		}

		// 5. Публичная запись в журнале трекинга
		_, err = uc.trackingRepo.Create(txCtx, &domain.TrackingUpdate{
			BookingID:  b.ID,
			Status:     domain.TrackingLabelDriverAssigned,
			Notes:      ptr.Ptr(domain.TrackingNotesDriverAssigned),
			UpdatedBy:  ptr.Ptr(req.ActorID),
			UpdateType: domain.UpdateTypeStatus,
			IsPublic:   true,
		})
		if err != nil {
			return fmt.Errorf("%w: create tracking update: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		uc.metrics.IncDriverAssignment(resultFor(err))
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("AssignDriver: failed to assign driver=%d to booking=%d: %v", req.DriverID, req.BookingID, err)
		} else {
			uc.logger.Warn("AssignDriver: booking=%d, driver=%d: %v", req.BookingID, req.DriverID, err)
		}
		return nil, err
	}

	uc.metrics.IncDriverAssignment(resultAssigned)
	uc.logger.Info("AssignDriver: driver id=%d assigned to booking id=%d", req.DriverID, booking.ID)

	if perr := uc.publisher.Publish(ctx, eventbus.Event{
		Type:           eventbus.EventDriverAssigned,
		BookingID:      booking.ID,
		TrackingNumber: booking.TrackingNumber,
		Status:         string(domain.StatusAssigned),
		DriverID:       ptr.Ptr(req.DriverID),
		ActorID:        ptr.Ptr(req.ActorID),
		OccurredAt:     now,
	}); perr != nil {
		uc.logger.Warn("AssignDriver: failed to publish event for booking id=%d: %v", booking.ID, perr)
	}

	return &Response{
		BookingID:      booking.ID,
		TrackingNumber: booking.TrackingNumber,
		DriverID:       req.DriverID,
		Status:         string(domain.StatusAssigned),
	}, nil
}

func resultFor(err error) string {
	switch {
	case errors.Is(err, ErrDriverNotFound):
		return resultDriverNotFound
	case errors.Is(err, ErrDriverUnavailable):
		return resultUnavailable
	case errors.Is(err, ErrBookingNotEligible):
		return resultNotEligible
	default:
		return resultError
	}
}
