package update_booking_status

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

const cancelledByCustomerNotes = "Booking cancelled by customer"

// UseCase use case смены статуса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	trackingRepo TrackingRepository
	driverRepo   DriverRepository
	publisher    EventPublisher
	metrics      Metrics
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger

	strictTransitions bool
}

// NewUseCase создает новый экземпляр use case.
// strictTransitions включает проверку переходов по таблице допустимых переходов,
// без него допускается любой статус из жизненного цикла.
func NewUseCase(
	bookingRepo BookingRepository,
	trackingRepo TrackingRepository,
	driverRepo DriverRepository,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
	strictTransitions bool,
) *UseCase {
	return &UseCase{
		bookingRepo:       bookingRepo,
		trackingRepo:      trackingRepo,
		driverRepo:        driverRepo,
		publisher:         publisher,
		metrics:           metrics,
		txManager:         txManager,
		timeProvider:      &RealTimeProvider{},
		logger:            logger,
		strictTransitions: strictTransitions,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute меняет статус бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBookingStatus: booking=%d, status=%s, actor=%d", req.BookingID, req.Status, req.ActorID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBookingStatus: validation failed: %v", err)
		return nil, err
	}

	status, err := parseStatus(req.Status)
	if err != nil {
		uc.logger.Warn("UpdateBookingStatus: %v", err)
		return nil, err
	}

	var guard func(b *domain.Booking) error
	if req.ActorRole == domain.RoleDriver {
		guard = func(b *domain.Booking) error {
			if b.DriverID == nil || *b.DriverID != req.ActorID {
				return ErrNotAssignedDriver
			}
			return nil
		}
	}

	return uc.transition(ctx, "UpdateBookingStatus", req.BookingID, status, req.ActorID, req.Notes, guard)
}

// Cancel отменяет бронирование по запросу клиента.
// Клиент может отменить только свое бронирование и только до забора груза.
func (uc *UseCase) Cancel(ctx context.Context, req *CancelRequest) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, customer=%d", req.BookingID, req.CustomerID)

	if err := validateCancelRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	notes := req.Reason
	if notes == nil || *notes == "" {
		notes = ptr.Ptr(cancelledByCustomerNotes)
	}

	guard := func(b *domain.Booking) error {
		if b.CustomerID != req.CustomerID {
			return ErrAccessDenied
		}
		if !b.CanBeCancelledByCustomer() {
			return fmt.Errorf("%w: status %s", ErrCannotCancel, b.Status)
		}
		return nil
	}

	return uc.transition(ctx, "CancelBooking", req.BookingID, domain.StatusCancelled, req.CustomerID, notes, guard)
}

// transition выполняет смену статуса в одной транзакции:
// блокировка бронирования, обновление статуса, запись трекинга и учет водителя.
func (uc *UseCase) transition(
	ctx context.Context,
	op string,
	bookingID int64,
	status domain.BookingStatus,
	actorID int64,
	notes *string,
	guard func(b *domain.Booking) error,
) (*Response, error) {
	now := uc.timeProvider.Now()

	if notes == nil || *notes == "" {
		notes = ptr.Ptr(fmt.Sprintf("Status updated to %s", status))
	}

	var booking *domain.Booking

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем бронирование до конца транзакции
		b, err := uc.bookingRepo.GetByIDForUpdate(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: get booking: %w", ErrInternal, err)
		}
		booking = b

		// 2. Проверки вызывающего и переходов
		if guard != nil {
			if err := guard(b); err != nil {
				return err
			}
		}

		if uc.strictTransitions && !domain.CanTransition(b.Status, status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, status)
		}

		// 3. Статус и фактическое время забора/доставки
		if err := uc.bookingRepo.UpdateStatus(txCtx, bookingID, status, now); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: update status: %w", ErrInternal, err)
		}

		// 4. Запись в журнал трекинга
		_, err = uc.trackingRepo.Create(txCtx, &domain.TrackingUpdate{
			BookingID:  bookingID,
			Status:     string(status),
			Notes:      notes,
			UpdatedBy:  ptr.Ptr(actorID),
			UpdateType: domain.UpdateTypeStatus,
			IsPublic:   true,
		})
		if err != nil {
			return fmt.Errorf("%w: create tracking update: %w", ErrInternal, err)
		}

		// 5. Учет водителя
		if !b.HasDriver() {
			return nil
		}

		if status == domain.StatusDelivered && b.Status != domain.StatusDelivered {
			if err := uc.creditDriver(txCtx, op, b); err != nil {
				return err
			}
		}

		if status.IsTerminal() && !b.Status.IsTerminal() {
			if err := uc.releaseDriver(txCtx, op, b); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		uc.logFailure(op, bookingID, err)
		return nil, err
	}

	uc.logger.Info("%s: booking id=%d moved %s -> %s", op, bookingID, booking.Status, status)

	uc.metrics.IncStatusTransition(string(status))
	if perr := uc.publisher.Publish(ctx, eventbus.Event{
		Type:           eventbus.EventStatusChanged,
		BookingID:      bookingID,
		TrackingNumber: booking.TrackingNumber,
		Status:         string(status),
		DriverID:       booking.DriverID,
		ActorID:        ptr.Ptr(actorID),
		OccurredAt:     now,
	}); perr != nil {
		uc.logger.Warn("%s: failed to publish event for booking id=%d: %v", op, bookingID, perr)
	}

	return &Response{
		BookingID:      bookingID,
		TrackingNumber: booking.TrackingNumber,
		PreviousStatus: string(booking.Status),
		Status:         string(status),
	}, nil
}

// creditDriver начисляет водителю комиссию с суммы бронирования и увеличивает счетчик доставок
func (uc *UseCase) creditDriver(ctx context.Context, op string, b *domain.Booking) error {
	d, err := uc.driverRepo.GetByUserIDForUpdate(ctx, *b.DriverID)
	if err != nil {
		if errors.Is(err, driverRepo.ErrDriverNotFound) {
			uc.logger.Warn("%s: driver profile id=%d not found, delivery of booking id=%d not credited",
				op, *b.DriverID, b.ID)
			return nil
		}
		return fmt.Errorf("%w: get driver: %w", ErrInternal, err)
	}

	earnings := d.Commission(b.TotalAmount)
	if err := uc.driverRepo.CreditDelivery(ctx, d.UserID, earnings); err != nil {
		return fmt.Errorf("%w: credit driver: %w", ErrInternal, err)
	}

	uc.logger.Info("%s: credited driver id=%d with %s for booking id=%d",
		op, d.UserID, earnings.StringFixed(2), b.ID)

	return nil
}

// releaseDriver возвращает водителя в статус available после завершения бронирования,
// если у него не осталось других активных бронирований
func (uc *UseCase) releaseDriver(ctx context.Context, op string, b *domain.Booking) error {
	active, err := uc.bookingRepo.CountActiveByDriver(ctx, *b.DriverID, b.ID)
	if err != nil {
		return fmt.Errorf("%w: count driver bookings: %w", ErrInternal, err)
	}
	if active > 0 {
		uc.logger.Info("%s: driver id=%d keeps %d active bookings, status not changed", op, *b.DriverID, active)
		return nil
	}

	err = uc.driverRepo.SetStatusIf(ctx, *b.DriverID, domain.DriverBusy, domain.DriverAvailable)
	if err == nil || errors.Is(err, driverRepo.ErrConditionNotMet) || errors.Is(err, driverRepo.ErrDriverNotFound) {
		return nil
	}
	return fmt.Errorf("%w: release driver: %w", ErrInternal, err)
}

func (uc *UseCase) logFailure(op string, bookingID int64, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAccessDenied):
		uc.logger.Warn("%s: booking id=%d: %v", op, bookingID, err)
	default:
		uc.logger.Error("%s: failed to update booking id=%d: %v", op, bookingID, err)
	}
}
