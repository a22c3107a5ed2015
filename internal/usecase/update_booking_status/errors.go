package update_booking_status

import "github.com/m04kA/LogiFlow-BookingService/internal/domain"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "update_booking_status: invalid input data")

	// ErrInvalidStatus возвращается для статуса вне жизненного цикла
	ErrInvalidStatus = domain.NewError(domain.ErrInvalidStatus, "update_booking_status: invalid status")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = domain.NewError(domain.ErrNotFound, "update_booking_status: booking not found")

	// ErrInvalidTransition возвращается при запрещенном переходе (только в строгом режиме)
	ErrInvalidTransition = domain.NewError(domain.ErrConflict, "update_booking_status: transition is not allowed")

	// ErrAccessDenied возвращается, когда клиент отменяет чужое бронирование
	ErrAccessDenied = domain.NewError(domain.ErrAccessDenied, "update_booking_status: booking belongs to another customer")

	// ErrNotAssignedDriver возвращается, когда водитель меняет статус чужого бронирования
	ErrNotAssignedDriver = domain.NewError(domain.ErrAccessDenied, "update_booking_status: booking is assigned to another driver")

	// ErrCannotCancel возвращается, когда груз уже забран или бронирование завершено
	ErrCannotCancel = domain.NewError(domain.ErrConflict, "update_booking_status: booking cannot be cancelled in current status")

	// ErrInternal возвращается при внутренних ошибках usecase, транзакция при этом откатывается
	ErrInternal = domain.NewError(domain.ErrPersistence, "update_booking_status: internal error")
)
