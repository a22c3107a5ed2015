package eventbus

import "time"

// EventType тип события бронирования
type EventType string

const (
	EventCreated        EventType = "created"
	EventStatusChanged  EventType = "status_changed"
	EventDriverAssigned EventType = "driver_assigned"
	EventPaymentUpdated EventType = "payment_updated"
)

// Event событие жизненного цикла бронирования, публикуется после коммита транзакции
type Event struct {
	Type           EventType `json:"type"`
	BookingID      int64     `json:"bookingId"`
	TrackingNumber string    `json:"trackingNumber,omitempty"`
	Status         string    `json:"status"`
	DriverID       *int64    `json:"driverId,omitempty"`
	ActorID        *int64    `json:"actorId,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// RoutingKey ключ маршрутизации события в topic exchange
func (e Event) RoutingKey() string {
	return "booking." + string(e.Type)
}
