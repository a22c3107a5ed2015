package assign_driver

// Request модель запроса на назначение водителя
type Request struct {
	BookingID int64 // ID бронирования
	DriverID  int64 // ID пользователя-водителя
	ActorID   int64 // Администратор, выполняющий назначение
}

// Response результат назначения
type Response struct {
	BookingID      int64
	TrackingNumber string
	DriverID       int64
	Status         string
}
