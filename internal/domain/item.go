package domain

import "github.com/shopspring/decimal"

// ItemCategory категория груза
type ItemCategory string

const (
	CategoryDocument    ItemCategory = "document"
	CategoryPackage     ItemCategory = "package"
	CategoryFragile     ItemCategory = "fragile"
	CategoryElectronics ItemCategory = "electronics"
	CategoryOther       ItemCategory = "other"
)

// IsValid returns true if the category is known
func (c ItemCategory) IsValid() bool {
	switch c {
	case CategoryDocument, CategoryPackage, CategoryFragile, CategoryElectronics, CategoryOther:
		return true
	}
	return false
}

// Dimensions габариты одной единицы груза в сантиметрах
type Dimensions struct {
	Length decimal.Decimal
	Width  decimal.Decimal
	Height decimal.Decimal
}

// BookingItem позиция груза. Создается вместе с бронированием и больше не меняется.
type BookingItem struct {
	ID          int64
	BookingID   int64
	Description string
	Category    ItemCategory
	Quantity    int
	Weight      decimal.Decimal // вес единицы, кг
	Value       decimal.Decimal // объявленная стоимость единицы
	Dimensions  *Dimensions
}
