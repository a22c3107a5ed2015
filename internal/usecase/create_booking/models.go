package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID          int64         // ID клиента из токена
	Pickup              LocationInput // Адрес забора
	Delivery            LocationInput // Адрес доставки
	Items               []ItemInput   // Позиции груза, минимум одна
	ServiceType         string        // Тариф
	PaymentMethod       string        // Способ оплаты, по умолчанию online
	ScheduledPickupTime *time.Time    // Желаемое время забора, по умолчанию сейчас
	Notes               *string       // Комментарий (опционально)
}

// LocationInput адрес в запросе
type LocationInput struct {
	Address      string
	Latitude     float64
	Longitude    float64
	ContactName  *string
	ContactPhone *string
}

// ItemInput позиция груза в запросе
type ItemInput struct {
	Description string
	Category    string // по умолчанию other
	Quantity    int
	Weight      decimal.Decimal // вес единицы, кг
	Value       decimal.Decimal // стоимость единицы
	Dimensions  *domain.Dimensions
}

// Response модель ответа с созданным бронированием
type Response struct {
	BookingID      int64
	TrackingNumber string
	TotalAmount    decimal.Decimal
	Status         string
	Breakdown      domain.Breakdown
}
