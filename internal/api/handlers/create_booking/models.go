package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/LogiFlow-BookingService/internal/usecase/create_booking"
)

// LocationRequest адрес забора или доставки
type LocationRequest struct {
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude,omitempty"`
	Longitude    float64 `json:"longitude,omitempty"`
	ContactName  *string `json:"contactName,omitempty"`
	ContactPhone *string `json:"contactPhone,omitempty"`
}

// DimensionsRequest габариты позиции, см
type DimensionsRequest struct {
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
}

// ItemRequest позиция груза
type ItemRequest struct {
	Description string             `json:"description"`
	Category    string             `json:"category,omitempty"`
	Quantity    int                `json:"quantity"`
	Weight      decimal.Decimal    `json:"weight"`
	Value       decimal.Decimal    `json:"value"`
	Dimensions  *DimensionsRequest `json:"dimensions,omitempty"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CustomerID          *int64          `json:"customerId,omitempty"` // только для администратора
	Pickup              LocationRequest `json:"pickupLocation"`
	Delivery            LocationRequest `json:"deliveryLocation"`
	Items               []ItemRequest   `json:"items"`
	ServiceType         string          `json:"serviceType"`
	PaymentMethod       string          `json:"paymentMethod,omitempty"`
	ScheduledPickupTime *time.Time      `json:"scheduledPickupTime,omitempty"` // RFC 3339
	SpecialNotes        *string         `json:"specialNotes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	BookingID      int64                  `json:"bookingId"`
	TrackingNumber string                 `json:"trackingNumber"`
	Status         string                 `json:"status"`
	TotalAmount    float64                `json:"totalAmount"`
	Pricing        models.PricingResponse `json:"pricing"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) *createBooking.Request {
	items := make([]createBooking.ItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = createBooking.ItemInput{
			Description: item.Description,
			Category:    item.Category,
			Quantity:    item.Quantity,
			Weight:      item.Weight,
			Value:       item.Value,
		}
		if item.Dimensions != nil {
			items[i].Dimensions = &domain.Dimensions{
				Length: item.Dimensions.Length,
				Width:  item.Dimensions.Width,
				Height: item.Dimensions.Height,
			}
		}
	}

	return &createBooking.Request{
		CustomerID:          customerID,
		Pickup:              r.Pickup.toInput(),
		Delivery:            r.Delivery.toInput(),
		Items:               items,
		ServiceType:         r.ServiceType,
		PaymentMethod:       r.PaymentMethod,
		ScheduledPickupTime: r.ScheduledPickupTime,
		Notes:               r.SpecialNotes,
	}
}

func (l LocationRequest) toInput() createBooking.LocationInput {
	return createBooking.LocationInput{
		Address:      l.Address,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		ContactName:  l.ContactName,
		ContactPhone: l.ContactPhone,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	pricing := models.FromBreakdown(resp.Breakdown)
	return &BookingResponse{
		BookingID:      resp.BookingID,
		TrackingNumber: resp.TrackingNumber,
		Status:         resp.Status,
		TotalAmount:    pricing.TotalAmount,
		Pricing:        pricing,
	}
}
