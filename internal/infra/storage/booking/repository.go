package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/pkg/dbmetrics"
	"github.com/m04kA/LogiFlow-BookingService/pkg/psqlbuilder"
)

const (
	codeUniqueViolation      = "23505"
	trackingNumberConstraint = "bookings_tracking_number_key"
)

// bookingColumns колонки таблицы bookings в порядке сканирования scanBooking
var bookingColumns = []string{
	"id",
	"tracking_number",
	"customer_id",
	"driver_id",
	"pickup_location_id",
	"delivery_location_id",
	"service_type",
	"status",
	"payment_method",
	"payment_status",
	"total_weight",
	"total_value",
	"base_amount",
	"weight_charges",
	"distance_charges",
	"fuel_surcharge",
	"insurance_fee",
	"tax_amount",
	"total_amount",
	"scheduled_pickup_time",
	"actual_pickup_time",
	"actual_delivery_time",
	"special_notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Вызывается внутри транзакции вместе с созданием адресов, позиций груза и первой записи трекинга.
// При конфликте трек-номера возвращает ErrDuplicateTrackingNumber, вызывающий код генерирует новый номер.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"tracking_number",
			"customer_id",
			"pickup_location_id",
			"delivery_location_id",
			"service_type",
			"status",
			"payment_method",
			"payment_status",
			"total_weight",
			"total_value",
			"base_amount",
			"weight_charges",
			"distance_charges",
			"fuel_surcharge",
			"insurance_fee",
			"tax_amount",
			"total_amount",
			"scheduled_pickup_time",
			"special_notes",
		).
		Values(
			booking.TrackingNumber,
			booking.CustomerID,
			booking.PickupLocationID,
			booking.DeliveryLocationID,
			booking.ServiceType,
			booking.Status,
			booking.PaymentMethod,
			booking.PaymentStatus,
			booking.TotalWeight,
			booking.TotalValue,
			booking.BaseAmount,
			booking.WeightCharge,
			booking.DistanceCharge,
			booking.FuelSurcharge,
			booking.InsuranceFee,
			booking.TaxAmount,
			booking.TotalAmount,
			booking.ScheduledPickupTime,
			booking.SpecialNotes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if isTrackingNumberConflict(err) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTrackingNumber, booking.TrackingNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает бронирование и блокирует строку до конца транзакции.
// Без транзакции в контексте работает как GetByID.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var booking domain.Booking
	err = scanBooking(executor.QueryRowContext(ctx, query, args...), &booking)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return &booking, nil
}

// UpdateStatus обновляет статус бронирования.
// Для picked_up и delivered дополнительно проставляет фактическое время забора/доставки.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, at time.Time) error {
	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", at)

	switch status {
	case domain.StatusPickedUp:
		updateBuilder = updateBuilder.Set("actual_pickup_time", at)
	case domain.StatusDelivered:
		updateBuilder = updateBuilder.Set("actual_delivery_time", at)
	}

	return r.execUpdate(ctx, "UpdateStatus", updateBuilder.Where(squirrel.Eq{"id": id}), ErrBookingNotFound)
}

// AssignDriver назначает водителя одним условным UPDATE.
// Обновление проходит только для бронирования в статусе pending без водителя,
// иначе возвращается ErrConditionNotMet.
func (r *Repository) AssignDriver(ctx context.Context, id, driverID int64, at time.Time) error {
	updateBuilder := psqlbuilder.Update("bookings").
		Set("driver_id", driverID).
		Set("status", domain.StatusAssigned).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPending, "driver_id": nil})

	return r.execUpdate(ctx, "AssignDriver", updateBuilder, ErrConditionNotMet)
}

// UpdatePaymentStatus обновляет статус оплаты
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, at time.Time) error {
	updateBuilder := psqlbuilder.Update("bookings").
		Set("payment_status", status).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id})

	return r.execUpdate(ctx, "UpdatePaymentStatus", updateBuilder, ErrBookingNotFound)
}

// execUpdate выполняет UPDATE и возвращает errNoRows, если ни одна строка не изменилась
func (r *Repository) execUpdate(ctx context.Context, op string, updateBuilder squirrel.UpdateBuilder, errNoRows error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return errNoRows
	}

	return nil
}

// scanBooking сканирует колонки bookingColumns
func scanBooking(row scanner, booking *domain.Booking) error {
	var (
		driverID           sql.NullInt64
		actualPickupTime   sql.NullTime
		actualDeliveryTime sql.NullTime
		specialNotes       sql.NullString
	)

	err := row.Scan(
		&booking.ID,
		&booking.TrackingNumber,
		&booking.CustomerID,
		&driverID,
		&booking.PickupLocationID,
		&booking.DeliveryLocationID,
		&booking.ServiceType,
		&booking.Status,
		&booking.PaymentMethod,
		&booking.PaymentStatus,
		&booking.TotalWeight,
		&booking.TotalValue,
		&booking.BaseAmount,
		&booking.WeightCharge,
		&booking.DistanceCharge,
		&booking.FuelSurcharge,
		&booking.InsuranceFee,
		&booking.TaxAmount,
		&booking.TotalAmount,
		&booking.ScheduledPickupTime,
		&actualPickupTime,
		&actualDeliveryTime,
		&specialNotes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if driverID.Valid {
		booking.DriverID = &driverID.Int64
	}
	if actualPickupTime.Valid {
		booking.ActualPickupTime = &actualPickupTime.Time
	}
	if actualDeliveryTime.Valid {
		booking.ActualDeliveryTime = &actualDeliveryTime.Time
	}
	if specialNotes.Valid {
		booking.SpecialNotes = &specialNotes.String
	}

	return nil
}

func isTrackingNumberConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == codeUniqueViolation && pqErr.Constraint == trackingNumberConstraint
}
