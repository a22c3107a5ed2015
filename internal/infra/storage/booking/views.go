package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/pkg/dbmetrics"
	"github.com/m04kA/LogiFlow-BookingService/pkg/psqlbuilder"
)

// viewSelect запрос денормализованного представления: бронирование, клиент, водитель и оба адреса.
// Позиции груза и журнал трекинга загружаются отдельно пакетными запросами.
func viewSelect() squirrel.SelectBuilder {
	columns := make([]string, 0, len(bookingColumns)+22)
	for _, c := range bookingColumns {
		columns = append(columns, "b."+c)
	}
	columns = append(columns,
		"u.name",
		"u.email",
		"u.phone",
		"d.name",
		"d.email",
		"d.phone",
		"dr.vehicle_number",
		"dr.vehicle_type",
		"dr.rating",
		"pl.address",
		"pl.latitude",
		"pl.longitude",
		"pl.contact_name",
		"pl.contact_phone",
		"dl.address",
		"dl.latitude",
		"dl.longitude",
		"dl.contact_name",
		"dl.contact_phone",
	)

	return psqlbuilder.Select(columns...).
		From("bookings b").
		Join("users u ON u.id = b.customer_id").
		LeftJoin("users d ON d.id = b.driver_id").
		LeftJoin("drivers dr ON dr.user_id = b.driver_id").
		Join("locations pl ON pl.id = b.pickup_location_id").
		Join("locations dl ON dl.id = b.delivery_location_id")
}

// GetViewByTrackingNumber получает представление бронирования по трек-номеру
func (r *Repository) GetViewByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.BookingView, error) {
	return r.getView(ctx, "GetViewByTrackingNumber", squirrel.Eq{"b.tracking_number": trackingNumber})
}

// GetViewByID получает представление бронирования по ID
func (r *Repository) GetViewByID(ctx context.Context, id int64) (*domain.BookingView, error) {
	return r.getView(ctx, "GetViewByID", squirrel.Eq{"b.id": id})
}

func (r *Repository) getView(ctx context.Context, op string, where squirrel.Eq) (*domain.BookingView, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := viewSelect().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var view domain.BookingView
	err = scanView(executor.QueryRowContext(ctx, query, args...), &view)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan view: %w", ErrScanRow, op, err)
	}

	return &view, nil
}

// ListViews получает представления бронирований в области видимости filter, сначала новые.
// filter.Limit ограничивает размер выборки.
func (r *Repository) ListViews(ctx context.Context, filter domain.BookingListFilter) ([]*domain.BookingView, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := viewSelect()

	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.customer_id": *filter.CustomerID})
	}
	if filter.DriverID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.driver_id": *filter.DriverID})
	}

	selectBuilder = selectBuilder.OrderBy("b.created_at DESC", "b.id DESC")

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListViews - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListViews - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	views := make([]*domain.BookingView, 0)
	for rows.Next() {
		var view domain.BookingView
		if err := scanView(rows, &view); err != nil {
			return nil, fmt.Errorf("%w: ListViews - scan row: %v", ErrScanRow, err)
		}
		views = append(views, &view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListViews - rows error: %v", ErrScanRow, err)
	}

	return views, nil
}

// scanView сканирует колонки viewSelect
func scanView(row scanner, view *domain.BookingView) error {
	var (
		b                  = &view.Booking
		driverID           sql.NullInt64
		actualPickupTime   sql.NullTime
		actualDeliveryTime sql.NullTime
		specialNotes       sql.NullString
		customerPhone      sql.NullString
		driverName         sql.NullString
		driverEmail        sql.NullString
		driverPhone        sql.NullString
		vehicleNumber      sql.NullString
		vehicleType        sql.NullString
		pickupName         sql.NullString
		pickupPhone        sql.NullString
		deliveryName       sql.NullString
		deliveryPhone      sql.NullString
	)

	err := row.Scan(
		&b.ID,
		&b.TrackingNumber,
		&b.CustomerID,
		&driverID,
		&b.PickupLocationID,
		&b.DeliveryLocationID,
		&b.ServiceType,
		&b.Status,
		&b.PaymentMethod,
		&b.PaymentStatus,
		&b.TotalWeight,
		&b.TotalValue,
		&b.BaseAmount,
		&b.WeightCharge,
		&b.DistanceCharge,
		&b.FuelSurcharge,
		&b.InsuranceFee,
		&b.TaxAmount,
		&b.TotalAmount,
		&b.ScheduledPickupTime,
		&actualPickupTime,
		&actualDeliveryTime,
		&specialNotes,
		&b.CreatedAt,
		&b.UpdatedAt,
		&view.Customer.Name,
		&view.Customer.Email,
		&customerPhone,
		&driverName,
		&driverEmail,
		&driverPhone,
		&vehicleNumber,
		&vehicleType,
		&view.DriverRating,
		&view.Pickup.Address,
		&view.Pickup.Coordinates.Latitude,
		&view.Pickup.Coordinates.Longitude,
		&pickupName,
		&pickupPhone,
		&view.Delivery.Address,
		&view.Delivery.Coordinates.Latitude,
		&view.Delivery.Coordinates.Longitude,
		&deliveryName,
		&deliveryPhone,
	)
	if err != nil {
		return err
	}

	view.Customer.ID = b.CustomerID
	view.Customer.Phone = nullString(customerPhone)

	if driverID.Valid {
		b.DriverID = &driverID.Int64
		view.Driver = &domain.UserRef{
			ID:    driverID.Int64,
			Name:  driverName.String,
			Email: driverEmail.String,
			Phone: nullString(driverPhone),
		}
	}
	if actualPickupTime.Valid {
		b.ActualPickupTime = &actualPickupTime.Time
	}
	if actualDeliveryTime.Valid {
		b.ActualDeliveryTime = &actualDeliveryTime.Time
	}
	b.SpecialNotes = nullString(specialNotes)

	view.VehicleNumber = nullString(vehicleNumber)
	view.VehicleType = nullString(vehicleType)

	view.Pickup.ID = b.PickupLocationID
	view.Pickup.Type = domain.LocationPickup
	view.Pickup.ContactName = nullString(pickupName)
	view.Pickup.ContactPhone = nullString(pickupPhone)

	view.Delivery.ID = b.DeliveryLocationID
	view.Delivery.Type = domain.LocationDelivery
	view.Delivery.ContactName = nullString(deliveryName)
	view.Delivery.ContactPhone = nullString(deliveryPhone)

	return nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
