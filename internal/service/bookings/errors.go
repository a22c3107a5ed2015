package bookings

import "github.com/m04kA/LogiFlow-BookingService/internal/domain"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = domain.NewError(domain.ErrNotFound, "bookings: booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = domain.NewError(domain.ErrAccessDenied, "bookings: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "bookings: invalid input data")

	// ErrInvalidRole возвращается для роли вне customer/driver/admin
	ErrInvalidRole = domain.NewError(domain.ErrValidation, "bookings: unknown role")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = domain.NewError(domain.ErrPersistence, "bookings: internal error")
)
