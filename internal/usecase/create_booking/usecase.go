package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/LogiFlow-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/LogiFlow-BookingService/internal/integrations/eventbus"
	"github.com/m04kA/LogiFlow-BookingService/internal/service/pricing"
	"github.com/m04kA/LogiFlow-BookingService/pkg/ptr"
)

// DefaultTrackingNumberAttempts число попыток подобрать уникальный трек-номер
const DefaultTrackingNumberAttempts = 5

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	locationRepo  LocationRepository
	itemRepo      ItemRepository
	trackingRepo  TrackingRepository
	calculator    PriceCalculator
	distanceRater DistanceRater
	numbers       TrackingNumberGenerator
	publisher     EventPublisher
	metrics       Metrics
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger

	maxAttempts int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	locationRepo LocationRepository,
	itemRepo ItemRepository,
	trackingRepo TrackingRepository,
	calculator PriceCalculator,
	distanceRater DistanceRater,
	numbers TrackingNumberGenerator,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		locationRepo:  locationRepo,
		itemRepo:      itemRepo,
		trackingRepo:  trackingRepo,
		calculator:    calculator,
		distanceRater: distanceRater,
		numbers:       numbers,
		publisher:     publisher,
		metrics:       metrics,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
		maxAttempts:   DefaultTrackingNumberAttempts,
	}
}

// WithTrackingNumberAttempts задает число попыток при конфликте трек-номера
func (uc *UseCase) WithTrackingNumberAttempts(n int) *UseCase {
	if n > 0 {
		uc.maxAttempts = n
	}
	return uc
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Адреса, бронирование, позиции груза и первая запись трекинга сохраняются в одной транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, service=%s, items=%d",
		req.CustomerID, req.ServiceType, len(req.Items))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	pickup := buildLocation(req.Pickup, domain.LocationPickup)
	delivery := buildLocation(req.Delivery, domain.LocationDelivery)

	// 2. Расчет стоимости
	breakdown, err := uc.calculator.Calculate(pricing.Quote{
		Items:          pricingItems(req.Items),
		ServiceType:    domain.ServiceType(req.ServiceType),
		DistanceCharge: uc.distanceRater.Charge(pickup.Coordinates, delivery.Coordinates),
	})
	if err != nil {
		uc.logger.Warn("CreateBooking: pricing failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	scheduled := now
	if req.ScheduledPickupTime != nil && !req.ScheduledPickupTime.IsZero() {
		scheduled = *req.ScheduledPickupTime
	}

	booking := &domain.Booking{
		CustomerID:          req.CustomerID,
		ServiceType:         domain.ServiceType(req.ServiceType),
		Status:              domain.StatusPending,
		PaymentMethod:       paymentMethodOrDefault(req.PaymentMethod),
		PaymentStatus:       domain.PaymentPending,
		Breakdown:           breakdown,
		ScheduledPickupTime: scheduled,
		SpecialNotes:        req.Notes,
	}
	items := buildItems(req.Items)

	// 3. Сохранение. При конфликте трек-номера вся транзакция повторяется с новым номером.
	var created *domain.Booking
	for attempt := 1; ; attempt++ {
		booking.TrackingNumber = uc.numbers.Next()

		created, err = uc.persist(ctx, booking, pickup, delivery, items)
		if err == nil {
			break
		}

		if !errors.Is(err, bookingRepo.ErrDuplicateTrackingNumber) {
			uc.logger.Error("CreateBooking: failed to persist booking for customer=%d: %v", req.CustomerID, err)
			return nil, err
		}

		if attempt >= uc.maxAttempts {
			uc.logger.Error("CreateBooking: tracking number collisions exhausted %d attempts", uc.maxAttempts)
			return nil, fmt.Errorf("%w: %d attempts", ErrTrackingNumberExhausted, uc.maxAttempts)
		}

		uc.logger.Warn("CreateBooking: tracking number %s already taken, retrying (%d/%d)",
			booking.TrackingNumber, attempt, uc.maxAttempts)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, tracking=%s, total=%s",
		created.ID, created.TrackingNumber, created.TotalAmount.StringFixed(2))

	uc.metrics.IncBookingCreated(string(created.ServiceType))
	uc.publish(ctx, eventbus.Event{
		Type:           eventbus.EventCreated,
		BookingID:      created.ID,
		TrackingNumber: created.TrackingNumber,
		Status:         string(created.Status),
		ActorID:        ptr.Ptr(created.CustomerID),
		OccurredAt:     now,
	})

	return &Response{
		BookingID:      created.ID,
		TrackingNumber: created.TrackingNumber,
		TotalAmount:    created.TotalAmount,
		Status:         string(created.Status),
		Breakdown:      created.Breakdown,
	}, nil
}

// persist выполняет одну попытку сохранения в транзакции
func (uc *UseCase) persist(
	ctx context.Context,
	booking *domain.Booking,
	pickup, delivery domain.Location,
	items []domain.BookingItem,
) (*domain.Booking, error) {
	var result *domain.Booking

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Адреса забора и доставки
		pickupLoc, err := uc.locationRepo.Create(txCtx, &pickup)
		if err != nil {
			return fmt.Errorf("%w: create pickup location: %w", ErrInternal, err)
		}

		deliveryLoc, err := uc.locationRepo.Create(txCtx, &delivery)
		if err != nil {
			return fmt.Errorf("%w: create delivery location: %w", ErrInternal, err)
		}

		// 3.2. Бронирование
		toCreate := *booking
		toCreate.PickupLocationID = pickupLoc.ID
		toCreate.DeliveryLocationID = deliveryLoc.ID

		created, err := uc.bookingRepo.Create(txCtx, &toCreate)
		if err != nil {
			return fmt.Errorf("%w: create booking: %w", ErrInternal, err)
		}

		// 3.3. Позиции груза
		if err := uc.itemRepo.CreateBatch(txCtx, created.ID, items); err != nil {
			return fmt.Errorf("%w: create items: %w", ErrInternal, err)
		}

		// 3.4. Первая запись трекинга
		_, err = uc.trackingRepo.Create(txCtx, &domain.TrackingUpdate{
			BookingID:  created.ID,
			Status:     domain.TrackingLabelCreated,
			Notes:      ptr.Ptr(domain.TrackingNotesCreated),
			UpdateType: domain.UpdateTypeStatus,
			IsPublic:   true,
		})
		if err != nil {
			return fmt.Errorf("%w: create tracking update: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *UseCase) publish(ctx context.Context, event eventbus.Event) {
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish %s event for booking id=%d: %v",
			event.Type, event.BookingID, err)
	}
}

func buildLocation(in LocationInput, locType domain.LocationType) domain.Location {
	return domain.Location{
		Address:      strings.TrimSpace(in.Address),
		Coordinates:  domain.Coordinates{Latitude: in.Latitude, Longitude: in.Longitude},
		ContactName:  in.ContactName,
		ContactPhone: in.ContactPhone,
		Type:         locType,
	}
}

func buildItems(in []ItemInput) []domain.BookingItem {
	items := make([]domain.BookingItem, len(in))
	for i, item := range in {
		items[i] = domain.BookingItem{
			Description: strings.TrimSpace(item.Description),
			Category:    categoryOrDefault(item.Category),
			Quantity:    item.Quantity,
			Weight:      item.Weight,
			Value:       item.Value,
			Dimensions:  item.Dimensions,
		}
	}
	return items
}

func pricingItems(in []ItemInput) []pricing.Item {
	items := make([]pricing.Item, len(in))
	for i, item := range in {
		items[i] = pricing.Item{Weight: item.Weight, Value: item.Value, Quantity: item.Quantity}
	}
	return items
}
