package update_booking_status

import "github.com/m04kA/LogiFlow-BookingService/internal/domain"

// Request модель запроса на смену статуса
type Request struct {
	BookingID int64       // ID бронирования
	Status    string      // Новый статус
	ActorID   int64       // Кто меняет статус (водитель или администратор)
	ActorRole domain.Role // Роль из токена; водитель меняет статус только своих бронирований
	Notes     *string     // Комментарий для журнала трекинга (опционально)
}

// CancelRequest модель запроса на отмену бронирования клиентом
type CancelRequest struct {
	BookingID  int64
	CustomerID int64
	Reason     *string
}

// Response результат смены статуса
type Response struct {
	BookingID      int64
	TrackingNumber string
	PreviousStatus string
	Status         string
}
