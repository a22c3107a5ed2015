package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/LogiFlow-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/LogiFlow-BookingService/internal/integrations/eventbus"
	"github.com/m04kA/LogiFlow-BookingService/internal/service/bookings/models"
	"github.com/m04kA/LogiFlow-BookingService/pkg/ptr"
)

// DefaultListLimit сколько последних бронирований возвращает список
const DefaultListLimit = 100

// Service сервис чтения бронирований и статистики
type Service struct {
	bookingRepo  BookingRepository
	itemRepo     ItemRepository
	trackingRepo TrackingRepository
	driverRepo   DriverRepository
	publisher    EventPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
	listLimit    int
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	itemRepo ItemRepository,
	trackingRepo TrackingRepository,
	driverRepo DriverRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		itemRepo:     itemRepo,
		trackingRepo: trackingRepo,
		driverRepo:   driverRepo,
		publisher:    publisher,
		txManager:    txManager,
		timeProvider: realTimeProvider{},
		logger:       logger,
		listLimit:    DefaultListLimit,
	}
}

// WithListLimit задает максимальный размер списка бронирований
func (s *Service) WithListLimit(limit int) *Service {
	if limit > 0 {
		s.listLimit = limit
	}
	return s
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// ListBookings возвращает последние бронирования, видимые пользователю:
// клиент видит свои, водитель назначенные ему, администратор все.
// Пустая роль обрабатывается как администратор.
func (s *Service) ListBookings(ctx context.Context, userID int64, role domain.Role) (*models.BookingListResponse, error) {
	role = scopeRole(role)
	s.logger.Info("ListBookings: user=%d, role=%s", userID, role)

	if !role.IsValid() {
		s.logger.Warn("ListBookings: unknown role=%s for user=%d", role, userID)
		return nil, ErrInvalidRole
	}

	filter := domain.ListFilterFor(userID, role, s.listLimit)

	var views []*domain.BookingView
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		views, err = s.bookingRepo.ListViews(txCtx, filter)
		if err != nil {
			return fmt.Errorf("list views: %w", err)
		}
		return s.attachDetails(txCtx, views, false)
	})
	if err != nil {
		s.logger.Error("ListBookings: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListBookings - %w", ErrInternal, err)
	}

	s.logger.Info("ListBookings: fetched %d bookings for user=%d", len(views), userID)
	return models.FromDomainViewList(views), nil
}

// GetByTrackingNumber публичное отслеживание по трек-номеру.
// В журнал попадают только публичные записи.
func (s *Service) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.BookingResponse, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	s.logger.Info("GetByTrackingNumber: tracking=%s", trackingNumber)

	if trackingNumber == "" {
		return nil, fmt.Errorf("%w: tracking number is required", ErrInvalidInput)
	}

	view, err := s.loadView(ctx, true, func(txCtx context.Context) (*domain.BookingView, error) {
		return s.bookingRepo.GetViewByTrackingNumber(txCtx, trackingNumber)
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			s.logger.Warn("GetByTrackingNumber: booking tracking=%s not found", trackingNumber)
			return nil, err
		}
		s.logger.Error("GetByTrackingNumber: repository error for tracking=%s: %v", trackingNumber, err)
		return nil, err
	}

	return models.FromDomainView(view), nil
}

// GetByID получает бронирование по ID.
// Проверяет права доступа: клиент-владелец, назначенный водитель или администратор.
func (s *Service) GetByID(ctx context.Context, bookingID, userID int64, role domain.Role) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d, role=%s", bookingID, userID, role)

	view, err := s.loadView(ctx, false, func(txCtx context.Context) (*domain.BookingView, error) {
		return s.bookingRepo.GetViewByID(txCtx, bookingID)
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", bookingID)
			return nil, err
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", bookingID, err)
		return nil, err
	}

	if !view.IsVisibleTo(userID, role) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, bookingID)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", bookingID)
	return models.FromDomainView(view), nil
}

// UpdatePaymentStatus обновляет статус оплаты и пишет внутреннюю запись в журнал трекинга
func (s *Service) UpdatePaymentStatus(ctx context.Context, req *models.UpdatePaymentStatusRequest) (*models.PaymentStatusResponse, error) {
	s.logger.Info("UpdatePaymentStatus: booking=%d, status=%s, actor=%d", req.BookingID, req.Status, req.ActorID)

	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	status := domain.PaymentStatus(req.Status)
	if !status.IsValid() {
		s.logger.Warn("UpdatePaymentStatus: invalid status=%s for booking id=%d", req.Status, req.BookingID)
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, req.Status)
	}

	now := s.timeProvider.Now()
	var booking *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		b, err := s.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: get booking: %w", ErrInternal, err)
		}
		booking = b

		if err := s.bookingRepo.UpdatePaymentStatus(txCtx, b.ID, status, now); err != nil {
			return fmt.Errorf("%w: update payment status: %w", ErrInternal, err)
		}

		_, err = s.trackingRepo.Create(txCtx, &domain.TrackingUpdate{
			BookingID:  b.ID,
			Status:     "payment_" + string(status),
			Notes:      ptr.Ptr(fmt.Sprintf("Payment status updated to %s", status)),
			UpdatedBy:  ptr.Ptr(req.ActorID),
			UpdateType: domain.UpdateTypePayment,
			IsPublic:   false,
		})
		if err != nil {
			return fmt.Errorf("%w: create tracking update: %w", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			s.logger.Warn("UpdatePaymentStatus: booking id=%d not found", req.BookingID)
		} else {
			s.logger.Error("UpdatePaymentStatus: failed for booking id=%d: %v", req.BookingID, err)
		}
		return nil, err
	}

	if perr := s.publisher.Publish(ctx, eventbus.Event{
		Type:           eventbus.EventPaymentUpdated,
		BookingID:      booking.ID,
		TrackingNumber: booking.TrackingNumber,
		Status:         string(status),
		DriverID:       booking.DriverID,
		ActorID:        ptr.Ptr(req.ActorID),
		OccurredAt:     now,
	}); perr != nil {
		s.logger.Warn("UpdatePaymentStatus: failed to publish event for booking id=%d: %v", booking.ID, perr)
	}

	s.logger.Info("UpdatePaymentStatus: booking id=%d payment status=%s", booking.ID, status)
	return &models.PaymentStatusResponse{
		BookingID:     booking.ID,
		PaymentStatus: string(status),
	}, nil
}

// GetDashboardStats возвращает статистику для панели пользователя в зависимости от роли
func (s *Service) GetDashboardStats(ctx context.Context, userID int64, role domain.Role) (*models.DashboardStatsResponse, error) {
	role = scopeRole(role)
	s.logger.Info("GetDashboardStats: user=%d, role=%s", userID, role)

	now := s.timeProvider.Now()
	resp := &models.DashboardStatsResponse{Role: string(role)}

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		switch role {
		case domain.RoleAdmin:
			since := now.AddDate(0, 0, -domain.CustomerStatsWindowDays)
			stats, err := s.bookingRepo.GetAdminStats(txCtx, since)
			if err != nil {
				return fmt.Errorf("admin stats: %w", err)
			}
			available, err := s.driverRepo.CountByStatus(txCtx, domain.DriverAvailable)
			if err != nil {
				return fmt.Errorf("available drivers: %w", err)
			}
			stats.AvailableDrivers = available
			resp.Admin = models.FromAdminStats(stats)

		case domain.RoleCustomer:
			stats, err := s.bookingRepo.GetCustomerStats(txCtx, userID)
			if err != nil {
				return fmt.Errorf("customer stats: %w", err)
			}
			resp.Customer = models.FromCustomerStats(stats)

		case domain.RoleDriver:
			dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			stats, err := s.bookingRepo.GetDriverStats(txCtx, userID, dayStart)
			if err != nil {
				return fmt.Errorf("driver stats: %w", err)
			}
			resp.Driver = models.FromDriverStats(stats)

		default:
			return ErrInvalidRole
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidRole) {
			s.logger.Warn("GetDashboardStats: unknown role=%s for user=%d", role, userID)
			return nil, err
		}
		s.logger.Error("GetDashboardStats: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetDashboardStats - %w", ErrInternal, err)
	}

	return resp, nil
}

// Вспомогательные методы

// scopeRole возвращает роль для выборки, без роли выборка не ограничивается пользователем
func scopeRole(role domain.Role) domain.Role {
	if role == "" {
		return domain.RoleAdmin
	}
	return role
}

// loadView читает одно бронирование вместе с позициями и журналом
func (s *Service) loadView(
	ctx context.Context,
	publicOnly bool,
	get func(ctx context.Context) (*domain.BookingView, error),
) (*domain.BookingView, error) {
	var view *domain.BookingView

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		v, err := get(txCtx)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: get view: %w", ErrInternal, err)
		}
		view = v

		if err := s.attachDetails(txCtx, []*domain.BookingView{v}, publicOnly); err != nil {
			return fmt.Errorf("%w: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// attachDetails загружает позиции и журналы всех бронирований двумя запросами
func (s *Service) attachDetails(ctx context.Context, views []*domain.BookingView, publicOnly bool) error {
	if len(views) == 0 {
		return nil
	}

	ids := make([]int64, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}

	items, err := s.itemRepo.GetByBookingIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("get items: %w", err)
	}

	tracking, err := s.trackingRepo.GetByBookingIDs(ctx, ids, publicOnly)
	if err != nil {
		return fmt.Errorf("get tracking: %w", err)
	}

	for _, v := range views {
		v.Items = items[v.ID]
		v.Tracking = tracking[v.ID]
	}

	return nil
}
