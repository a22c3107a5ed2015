package domain

import "github.com/shopspring/decimal"

// BookingView денормализованное представление бронирования
type BookingView struct {
	Booking

	Customer UserRef
	Driver   *UserRef

	VehicleNumber *string
	VehicleType   *string
	DriverRating  decimal.NullDecimal

	Pickup   Location
	Delivery Location

	Items    []BookingItem
	Tracking []TrackingUpdate // сначала новые
}

// BookingListFilter область видимости списка бронирований
type BookingListFilter struct {
	CustomerID *int64
	DriverID   *int64
	Limit      int
}

// ListFilterFor строит фильтр списка для пользователя с ролью role
func ListFilterFor(userID int64, role Role, limit int) BookingListFilter {
	filter := BookingListFilter{Limit: limit}
	switch role {
	case RoleCustomer:
		filter.CustomerID = &userID
	case RoleDriver:
		filter.DriverID = &userID
	}
	return filter
}

// AdminStats статистика для администратора
type AdminStats struct {
	TotalBookings    int
	ActiveBookings   int
	Revenue          decimal.Decimal
	PendingPayments  decimal.Decimal // сумма неоплаченных бронирований
	AvailableDrivers int
	UniqueCustomers  int
}

// CustomerStats статистика клиента
type CustomerStats struct {
	TotalBookings int
	Pending       int
	InTransit     int
	Delivered     int
}

// DriverStats статистика водителя
type DriverStats struct {
	ActiveBookings int
	CompletedToday int
	Earnings       decimal.Decimal
}
