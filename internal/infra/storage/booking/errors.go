package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrDuplicateTrackingNumber возвращается при нарушении уникальности трек-номера
	ErrDuplicateTrackingNumber = errors.New("booking.repository: duplicate tracking number")

	// ErrConditionNotMet возвращается, когда условное обновление не затронуло ни одной строки
	ErrConditionNotMet = errors.New("booking.repository: booking state condition not met")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
