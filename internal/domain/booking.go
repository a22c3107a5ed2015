package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending        BookingStatus = "pending"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusAssigned       BookingStatus = "assigned"
	StatusPickedUp       BookingStatus = "picked_up"
	StatusInTransit      BookingStatus = "in_transit"
	StatusOutForDelivery BookingStatus = "out_for_delivery"
	StatusDelivered      BookingStatus = "delivered"
	StatusCancelled      BookingStatus = "cancelled"
	StatusFailed         BookingStatus = "failed"
)

// IsValid returns true if the status belongs to the lifecycle enum
func (s BookingStatus) IsValid() bool {
	for _, valid := range AllStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

// IsTerminal returns true for delivered, cancelled and failed
func (s BookingStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusFailed
}

// IsActive returns true if the shipment is being worked on
func (s BookingStatus) IsActive() bool {
	for _, active := range ActiveStatuses {
		if s == active {
			return true
		}
	}
	return false
}

// ParseBookingStatus converts a raw value into a BookingStatus
func ParseBookingStatus(raw string) (BookingStatus, error) {
	s := BookingStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// ServiceType is the delivery speed/price class
type ServiceType string

const (
	ServiceExpress   ServiceType = "express"
	ServiceStandard  ServiceType = "standard"
	ServiceEconomy   ServiceType = "economy"
	ServiceOvernight ServiceType = "overnight"
	ServiceSameDay   ServiceType = "same_day"
)

// IsValid returns true if the service type is known
func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceExpress, ServiceStandard, ServiceEconomy, ServiceOvernight, ServiceSameDay:
		return true
	}
	return false
}

// PaymentMethod describes how the customer pays
type PaymentMethod string

const (
	PaymentOnline       PaymentMethod = "online"
	PaymentCashPickup   PaymentMethod = "cash_pickup"
	PaymentCashDelivery PaymentMethod = "cash_delivery"
)

// IsValid returns true if the payment method is known
func (m PaymentMethod) IsValid() bool {
	return m == PaymentOnline || m == PaymentCashPickup || m == PaymentCashDelivery
}

// PaymentStatus is the settlement state of a booking
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// IsValid returns true if the payment status is known
func (s PaymentStatus) IsValid() bool {
	return s == PaymentPending || s == PaymentPaid || s == PaymentRefunded
}

// Breakdown is the monetary breakdown of a shipment.
// TotalAmount always equals the sum of the six charge components.
type Breakdown struct {
	TotalWeight    decimal.Decimal
	TotalValue     decimal.Decimal
	BaseAmount     decimal.Decimal
	WeightCharge   decimal.Decimal
	DistanceCharge decimal.Decimal
	FuelSurcharge  decimal.Decimal
	InsuranceFee   decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
}

// ComponentsSum returns the sum of the six charge components
func (b Breakdown) ComponentsSum() decimal.Decimal {
	return decimal.Sum(b.BaseAmount, b.WeightCharge, b.DistanceCharge, b.FuelSurcharge, b.InsuranceFee, b.TaxAmount)
}

// Booking represents a shipment booking
type Booking struct {
	ID                 int64
	TrackingNumber     string
	CustomerID         int64
	DriverID           *int64
	PickupLocationID   int64
	DeliveryLocationID int64
	ServiceType        ServiceType
	Status             BookingStatus
	PaymentMethod      PaymentMethod
	PaymentStatus      PaymentStatus

	Breakdown

	ScheduledPickupTime time.Time
	ActualPickupTime    *time.Time
	ActualDeliveryTime  *time.Time
	SpecialNotes        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasDriver returns true if a driver is assigned
func (b *Booking) HasDriver() bool {
	return b.DriverID != nil
}

// CanBeCancelledByCustomer returns true while the shipment has not been picked up
func (b *Booking) CanBeCancelledByCustomer() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed || b.Status == StatusAssigned
}

// CanAssignDriver returns true if a driver may be assigned to the booking
func (b *Booking) CanAssignDriver() bool {
	return b.Status == StatusPending && b.DriverID == nil
}

// IsVisibleTo returns true if the user with the given role may see the booking
func (b *Booking) IsVisibleTo(userID int64, role Role) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleCustomer:
		return b.CustomerID == userID
	case RoleDriver:
		return b.DriverID != nil && *b.DriverID == userID
	}
	return false
}
