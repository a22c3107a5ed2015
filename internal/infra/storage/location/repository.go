package location

import (
	"context"
	"fmt"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/pkg/dbmetrics"
	"github.com/m04kA/LogiFlow-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий адресов забора и доставки
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория адресов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет адрес и заполняет location.ID.
// Вызывается только внутри транзакции создания бронирования.
func (r *Repository) Create(ctx context.Context, location *domain.Location) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("locations").
		Columns(
			"address",
			"latitude",
			"longitude",
			"contact_name",
			"contact_phone",
			"location_type",
		).
		Values(
			location.Address,
			location.Coordinates.Latitude,
			location.Coordinates.Longitude,
			location.ContactName,
			location.ContactPhone,
			location.Type,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&location.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return location, nil
}
