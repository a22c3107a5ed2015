package domain

import "github.com/shopspring/decimal"

// DriverStatus доступность водителя
type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverBusy      DriverStatus = "busy"
	DriverOffline   DriverStatus = "offline"
)

// Driver профиль водителя. UserID совпадает с идентификатором пользователя.
type Driver struct {
	UserID              int64
	Status              DriverStatus
	CommissionRate      decimal.Decimal // проценты
	TotalEarnings       decimal.Decimal
	CompletedDeliveries int
}

// IsAvailable returns true if the driver can take a new booking
func (d *Driver) IsAvailable() bool {
	return d.Status == DriverAvailable
}

// Commission возвращает вознаграждение водителя за доставку на сумму amount
func (d *Driver) Commission(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(d.CommissionRate).Div(decimal.NewFromInt(100)).Round(2)
}
