package txmanager

import "errors"

var (
	// ErrBeginTx возвращается, когда не удалось начать транзакцию
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommit возвращается, когда не удалось зафиксировать транзакцию
	ErrCommit = errors.New("txmanager: failed to commit transaction")

	// ErrRollback возвращается, когда не удалось откатить транзакцию
	ErrRollback = errors.New("txmanager: failed to rollback transaction")

	// ErrTimeout возвращается, когда истек таймаут транзакции или получения соединения
	ErrTimeout = errors.New("txmanager: transaction timeout")
)
