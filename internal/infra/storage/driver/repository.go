package driver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/pkg/dbmetrics"
	"github.com/m04kA/LogiFlow-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий профилей водителей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория водителей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByUserID получает профиль водителя
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*domain.Driver, error) {
	return r.get(ctx, userID, false)
}

// GetByUserIDForUpdate получает профиль водителя и блокирует строку до конца транзакции.
// Без транзакции в контексте работает как GetByUserID.
func (r *Repository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*domain.Driver, error) {
	return r.get(ctx, userID, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) get(ctx context.Context, userID int64, forUpdate bool) (*domain.Driver, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"user_id",
		"status",
		"commission_rate",
		"total_earnings",
		"completed_deliveries",
	).
		From("drivers").
		Where(squirrel.Eq{"user_id": userID})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: get - build select query: %v", ErrBuildQuery, err)
	}

	var d domain.Driver
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&d.UserID,
		&d.Status,
		&d.CommissionRate,
		&d.TotalEarnings,
		&d.CompletedDeliveries,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDriverNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get - scan driver: %w", ErrScanRow, err)
	}

	return &d, nil
}

// SetStatusIf переводит водителя из статуса from в статус to одним условным UPDATE.
// Если водитель уже не в статусе from, возвращает ErrConditionNotMet.
func (r *Repository) SetStatusIf(ctx context.Context, userID int64, from, to domain.DriverStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("drivers").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetStatusIf - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetStatusIf - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetStatusIf - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrConditionNotMet
	}

	return nil
}

// CreditDelivery начисляет водителю вознаграждение за доставку и увеличивает счетчик доставок
func (r *Repository) CreditDelivery(ctx context.Context, userID int64, earnings decimal.Decimal) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("drivers").
		Set("total_earnings", squirrel.Expr("total_earnings + ?", earnings)).
		Set("completed_deliveries", squirrel.Expr("completed_deliveries + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreditDelivery - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CreditDelivery - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: CreditDelivery - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrDriverNotFound
	}

	return nil
}

// CountByStatus возвращает количество водителей в статусе status
func (r *Repository) CountByStatus(ctx context.Context, status domain.DriverStatus) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("drivers").
		Where(squirrel.Eq{"status": status}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByStatus - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByStatus - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}
