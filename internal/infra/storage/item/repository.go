package item

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/pkg/dbmetrics"
	"github.com/m04kA/LogiFlow-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий позиций груза
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория позиций груза
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBatch сохраняет все позиции бронирования одним INSERT
func (r *Repository) CreateBatch(ctx context.Context, bookingID int64, items []domain.BookingItem) error {
	if len(items) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert("booking_items").
		Columns(
			"booking_id",
			"description",
			"category",
			"quantity",
			"weight",
			"value",
			"dimensions_length",
			"dimensions_width",
			"dimensions_height",
		)

	for _, item := range items {
		var length, width, height decimal.NullDecimal
		if item.Dimensions != nil {
			length = decimal.NewNullDecimal(item.Dimensions.Length)
			width = decimal.NewNullDecimal(item.Dimensions.Width)
			height = decimal.NewNullDecimal(item.Dimensions.Height)
		}
		insert = insert.Values(
			bookingID,
			item.Description,
			item.Category,
			item.Quantity,
			item.Weight,
			item.Value,
			length,
			width,
			height,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateBatch - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetByBookingIDs возвращает позиции груза сгруппированные по бронированию.
// Один запрос на весь список бронирований.
func (r *Repository) GetByBookingIDs(ctx context.Context, bookingIDs []int64) (map[int64][]domain.BookingItem, error) {
	result := make(map[int64][]domain.BookingItem, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"description",
		"category",
		"quantity",
		"weight",
		"value",
		"dimensions_length",
		"dimensions_width",
		"dimensions_height",
	).
		From("booking_items").
		Where(squirrel.Eq{"booking_id": bookingIDs}).
		OrderBy("booking_id", "id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item                  domain.BookingItem
			length, width, height decimal.NullDecimal
		)

		err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.Description,
			&item.Category,
			&item.Quantity,
			&item.Weight,
			&item.Value,
			&length,
			&width,
			&height,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByBookingIDs - scan row: %v", ErrScanRow, err)
		}

		if length.Valid || width.Valid || height.Valid {
			item.Dimensions = &domain.Dimensions{
				Length: length.Decimal,
				Width:  width.Decimal,
				Height: height.Decimal,
			}
		}

		result[item.BookingID] = append(result[item.BookingID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBookingIDs - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
