package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/pkg/dbmetrics"
	"github.com/m04kA/LogiFlow-BookingService/pkg/psqlbuilder"
)

// GetAdminStats считает сводную статистику по всем бронированиям.
// UniqueCustomers учитывает бронирования, созданные начиная с since.
// AvailableDrivers не заполняется, его считает репозиторий водителей.
func (r *Repository) GetAdminStats(ctx context.Context, since time.Time) (domain.AdminStats, error) {
	var stats domain.AdminStats

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ANY(?))", statusArray(domain.InWorkStatuses))).
		Column(squirrel.Expr("COALESCE(SUM(total_amount) FILTER (WHERE payment_status = ?), 0)", domain.PaymentPaid)).
		Column(squirrel.Expr("COALESCE(SUM(total_amount) FILTER (WHERE payment_status = ?), 0)", domain.PaymentPending)).
		Column(squirrel.Expr("COUNT(DISTINCT customer_id) FILTER (WHERE created_at >= ?)", since)).
		From("bookings")

	err := r.queryStats(ctx, "GetAdminStats", selectBuilder,
		&stats.TotalBookings,
		&stats.ActiveBookings,
		&stats.Revenue,
		&stats.PendingPayments,
		&stats.UniqueCustomers,
	)

	return stats, err
}

// GetCustomerStats считает статистику бронирований клиента
func (r *Repository) GetCustomerStats(ctx context.Context, customerID int64) (domain.CustomerStats, error) {
	var stats domain.CustomerStats

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?)", domain.StatusPending)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ANY(?))", statusArray(domain.InWorkStatuses))).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?)", domain.StatusDelivered)).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID})

	err := r.queryStats(ctx, "GetCustomerStats", selectBuilder,
		&stats.TotalBookings,
		&stats.Pending,
		&stats.InTransit,
		&stats.Delivered,
	)

	return stats, err
}

// GetDriverStats считает статистику водителя.
// CompletedToday учитывает доставки начиная с dayStart, Earnings берется из начислений в профиле водителя.
func (r *Repository) GetDriverStats(ctx context.Context, driverID int64, dayStart time.Time) (domain.DriverStats, error) {
	var stats domain.DriverStats

	selectBuilder := psqlbuilder.Select().
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ANY(?))", statusArray(domain.InWorkStatuses))).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ? AND actual_delivery_time >= ?)", domain.StatusDelivered, dayStart)).
		Column(squirrel.Expr("COALESCE((SELECT total_earnings FROM drivers WHERE user_id = ?), 0)", driverID)).
		From("bookings").
		Where(squirrel.Eq{"driver_id": driverID})

	err := r.queryStats(ctx, "GetDriverStats", selectBuilder,
		&stats.ActiveBookings,
		&stats.CompletedToday,
		&stats.Earnings,
	)

	return stats, err
}

// CountActiveByDriver считает активные бронирования водителя, кроме excludeID
func (r *Repository) CountActiveByDriver(ctx context.Context, driverID, excludeID int64) (int, error) {
	var count int

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"driver_id": driverID}).
		Where(squirrel.NotEq{"id": excludeID}).
		Where(squirrel.Expr("status = ANY(?)", statusArray(domain.ActiveStatuses)))

	err := r.queryStats(ctx, "CountActiveByDriver", selectBuilder, &count)

	return count, err
}

func (r *Repository) queryStats(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder, dest ...interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(dest...); err != nil {
		return fmt.Errorf("%w: %s - scan stats: %w", ErrScanRow, op, err)
	}

	return nil
}

func statusArray(statuses []domain.BookingStatus) interface{} {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return pq.Array(values)
}
