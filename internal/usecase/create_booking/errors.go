package create_booking

import "github.com/m04kA/LogiFlow-BookingService/internal/domain"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "create_booking: invalid input data")

	// ErrTrackingNumberExhausted возвращается, когда все попытки подобрать уникальный трек-номер исчерпаны
	ErrTrackingNumberExhausted = domain.NewError(domain.ErrPersistence, "create_booking: could not allocate unique tracking number")

	// ErrInternal возвращается при внутренних ошибках usecase, транзакция при этом откатывается
	ErrInternal = domain.NewError(domain.ErrPersistence, "create_booking: internal error")
)
