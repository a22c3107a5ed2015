package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/pkg/geo"
)

// DefaultFlatDistanceCharge фиксированная плата за расстояние
var DefaultFlatDistanceCharge = decimal.RequireFromString("15.50")

// DistanceRater считает плату за расстояние между точками забора и доставки
type DistanceRater interface {
	Charge(pickup, delivery domain.Coordinates) decimal.Decimal
}

// FlatDistanceRate фиксированная плата независимо от координат
type FlatDistanceRate struct {
	Amount decimal.Decimal
}

// NewFlatDistanceRate создает фиксированный тариф за расстояние
func NewFlatDistanceRate(amount decimal.Decimal) *FlatDistanceRate {
	return &FlatDistanceRate{Amount: amount}
}

// Charge возвращает фиксированную плату
func (f *FlatDistanceRate) Charge(_, _ domain.Coordinates) decimal.Decimal {
	return f.Amount
}

// HaversineDistanceRate плата за километр по дуге большого круга.
// Если координаты любой из точек не заданы, используется Fallback.
type HaversineDistanceRate struct {
	PerKm    decimal.Decimal
	Minimum  decimal.Decimal
	Fallback decimal.Decimal
}

// NewHaversineDistanceRate создает тариф за километр
func NewHaversineDistanceRate(perKm, minimum, fallback decimal.Decimal) *HaversineDistanceRate {
	return &HaversineDistanceRate{PerKm: perKm, Minimum: minimum, Fallback: fallback}
}

// Charge возвращает плату за расстояние, не меньше Minimum
func (h *HaversineDistanceRate) Charge(pickup, delivery domain.Coordinates) decimal.Decimal {
	if pickup.IsZero() || delivery.IsZero() {
		return h.Fallback
	}

	km := geo.HaversineKm(pickup.Latitude, pickup.Longitude, delivery.Latitude, delivery.Longitude)
	charge := decimal.NewFromFloat(km).Mul(h.PerKm).Round(outputPrecision)
	if charge.LessThan(h.Minimum) {
		return h.Minimum
	}
	return charge
}
