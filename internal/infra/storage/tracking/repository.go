package tracking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/pkg/dbmetrics"
	"github.com/m04kA/LogiFlow-BookingService/pkg/psqlbuilder"
)

// Repository журнал трекинга бронирований. Записи только добавляются.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория трекинга
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет запись в журнал
func (r *Repository) Create(ctx context.Context, update *domain.TrackingUpdate) (*domain.TrackingUpdate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var lat, lng sql.NullFloat64
	if update.Coordinates != nil {
		lat = sql.NullFloat64{Float64: update.Coordinates.Latitude, Valid: true}
		lng = sql.NullFloat64{Float64: update.Coordinates.Longitude, Valid: true}
	}

	query, args, err := psqlbuilder.Insert("tracking_updates").
		Columns(
			"booking_id",
			"status",
			"location",
			"latitude",
			"longitude",
			"notes",
			"updated_by",
			"update_type",
			"is_public",
		).
		Values(
			update.BookingID,
			update.Status,
			update.Location,
			lat,
			lng,
			update.Notes,
			update.UpdatedBy,
			update.UpdateType,
			update.IsPublic,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&update.ID, &update.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return update, nil
}

// GetByBookingIDs возвращает журналы бронирований, сначала новые записи.
// publicOnly оставляет только записи, видимые клиенту.
func (r *Repository) GetByBookingIDs(ctx context.Context, bookingIDs []int64, publicOnly bool) (map[int64][]domain.TrackingUpdate, error) {
	result := make(map[int64][]domain.TrackingUpdate, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"tu.id",
		"tu.booking_id",
		"tu.status",
		"tu.location",
		"tu.latitude",
		"tu.longitude",
		"tu.notes",
		"tu.updated_by",
		"u.name",
		"tu.update_type",
		"tu.is_public",
		"tu.created_at",
	).
		From("tracking_updates tu").
		LeftJoin("users u ON u.id = tu.updated_by").
		Where(squirrel.Eq{"tu.booking_id": bookingIDs})

	if publicOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"tu.is_public": true})
	}

	query, args, err := selectBuilder.
		OrderBy("tu.created_at DESC", "tu.id DESC").
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
			update        domain.TrackingUpdate
			location      sql.NullString
			lat, lng      sql.NullFloat64
			notes         sql.NullString
			updatedBy     sql.NullInt64
			updatedByName sql.NullString
		)

		err := rows.Scan(
			&update.ID,
			&update.BookingID,
			&update.Status,
			&location,
			&lat,
			&lng,
			&notes,
			&updatedBy,
			&updatedByName,
			&update.UpdateType,
			&update.IsPublic,
			&update.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByBookingIDs - scan row: %v", ErrScanRow, err)
		}

		if location.Valid {
			update.Location = &location.String
		}
		if lat.Valid && lng.Valid {
			update.Coordinates = &domain.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
		}
		if notes.Valid {
			update.Notes = &notes.String
		}
		if updatedBy.Valid {
			update.UpdatedBy = &updatedBy.Int64
		}
		if updatedByName.Valid {
			update.UpdatedByName = &updatedByName.String
		}

		result[update.BookingID] = append(result[update.BookingID], update)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBookingIDs - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
