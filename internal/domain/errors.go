package domain

import "errors"

// Категории ошибок. Ошибки пакетов строятся поверх них через NewError,
// поэтому вызывающий код может проверять как конкретную ошибку, так и категорию.
var (
	// ErrValidation некорректные или отсутствующие входные данные
	ErrValidation = errors.New("validation error")

	// ErrNotFound сущность не найдена
	ErrNotFound = errors.New("not found")

	// ErrConflict состояние сущности не допускает операцию
	ErrConflict = errors.New("conflict")

	// ErrPersistence ошибка хранилища, операция откатывается целиком
	ErrPersistence = errors.New("persistence error")

	// ErrInvalidStatus статус вне допустимого набора
	ErrInvalidStatus = errors.New("invalid status")

	// ErrAccessDenied у пользователя нет доступа к бронированию
	ErrAccessDenied = errors.New("access denied")
)

type categorizedError struct {
	category error
	msg      string
}

func (e *categorizedError) Error() string {
	return e.msg
}

func (e *categorizedError) Unwrap() error {
	return e.category
}

// NewError создает ошибку с текстом msg, принадлежащую категории category
func NewError(category error, msg string) error {
	return &categorizedError{category: category, msg: msg}
}
