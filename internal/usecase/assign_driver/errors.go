package assign_driver

import "github.com/m04kA/LogiFlow-BookingService/internal/domain"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "assign_driver: invalid input data")

	// ErrDriverNotFound возвращается, когда у пользователя нет профиля водителя
	ErrDriverNotFound = domain.NewError(domain.ErrNotFound, "assign_driver: driver not found")

	// ErrDriverUnavailable возвращается, когда водитель занят или не на линии
	ErrDriverUnavailable = domain.NewError(domain.ErrConflict, "assign_driver: driver is not available")

	// ErrBookingNotEligible возвращается, когда бронирование не найдено или уже не в статусе pending
	ErrBookingNotEligible = domain.NewError(domain.ErrConflict, "assign_driver: booking is not eligible for assignment")

	// ErrInternal возвращается при внутренних ошибках usecase, транзакция при этом откатывается
	ErrInternal = domain.NewError(domain.ErrPersistence, "assign_driver: internal error")
)
