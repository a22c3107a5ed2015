package pricing

import "github.com/m04kA/LogiFlow-BookingService/internal/domain"

var (
	// ErrNoItems возвращается, если в расчете нет ни одной позиции груза
	ErrNoItems = domain.NewError(domain.ErrValidation, "pricing: at least one item is required")

	// ErrUnknownServiceType возвращается для тарифа вне таблицы ставок
	ErrUnknownServiceType = domain.NewError(domain.ErrValidation, "pricing: unknown service type")

	// ErrNegativeInput возвращается при отрицательном весе, стоимости, количестве или плате за расстояние
	ErrNegativeInput = domain.NewError(domain.ErrValidation, "pricing: negative weight, value, quantity or distance charge")
)
