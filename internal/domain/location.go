package domain

// LocationType роль адреса в бронировании
type LocationType string

const (
	LocationPickup   LocationType = "pickup"
	LocationDelivery LocationType = "delivery"
)

// Coordinates географические координаты.
// Нулевые координаты означают, что точка не задана (геокодирование не выполняется).
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// IsZero возвращает true, если координаты не заданы
func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

// Location адрес забора или доставки, принадлежит ровно одному бронированию
type Location struct {
	ID           int64
	Address      string
	Coordinates  Coordinates
	ContactName  *string
	ContactPhone *string
	Type         LocationType
}
