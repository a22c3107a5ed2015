package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
)

// Request модели

// UpdatePaymentStatusRequest запрос на обновление статуса оплаты
type UpdatePaymentStatusRequest struct {
	BookingID int64  `json:"-"`
	ActorID   int64  `json:"-"`
	Status    string `json:"paymentStatus"`
}

// Response модели

// UserResponse участник бронирования
type UserResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// DriverResponse назначенный водитель
type DriverResponse struct {
	UserResponse
	VehicleNumber *string  `json:"vehicleNumber,omitempty"`
	VehicleType   *string  `json:"vehicleType,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
}

// LocationResponse адрес забора или доставки
type LocationResponse struct {
	ID           int64    `json:"id"`
	Address      string   `json:"address"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	ContactName  *string  `json:"contactName,omitempty"`
	ContactPhone *string  `json:"contactPhone,omitempty"`
}

// DimensionsResponse габариты позиции
type DimensionsResponse struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ItemResponse позиция груза
type ItemResponse struct {
	ID          int64               `json:"id"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Quantity    int                 `json:"quantity"`
	Weight      float64             `json:"weight"`
	Value       float64             `json:"value"`
	Dimensions  *DimensionsResponse `json:"dimensions,omitempty"`
}

// TrackingResponse запись журнала трекинга
type TrackingResponse struct {
	ID            int64     `json:"id"`
	Status        string    `json:"status"`
	Location      *string   `json:"location,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	UpdatedByName *string   `json:"updatedByName,omitempty"`
	UpdateType    string    `json:"updateType"`
	IsPublic      bool      `json:"isPublic"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PricingResponse расчет стоимости
type PricingResponse struct {
	TotalWeight    float64 `json:"totalWeight"`
	TotalValue     float64 `json:"totalValue"`
	BaseAmount     float64 `json:"baseAmount"`
	WeightCharges  float64 `json:"weightCharges"`
	DistanceCharge float64 `json:"distanceCharges"`
	FuelSurcharge  float64 `json:"fuelSurcharge"`
	InsuranceFee   float64 `json:"insuranceFee"`
	TaxAmount      float64 `json:"taxAmount"`
	TotalAmount    float64 `json:"totalAmount"`
}

// BookingResponse денормализованное бронирование
type BookingResponse struct {
	ID             int64  `json:"id"`
	TrackingNumber string `json:"trackingNumber"`
	Status         string `json:"status"`
	ServiceType    string `json:"serviceType"`
	PaymentMethod  string `json:"paymentMethod"`
	PaymentStatus  string `json:"paymentStatus"`

	Customer UserResponse    `json:"customer"`
	Driver   *DriverResponse `json:"driver,omitempty"`

	Pickup   LocationResponse `json:"pickupLocation"`
	Delivery LocationResponse `json:"deliveryLocation"`

	Pricing  PricingResponse    `json:"pricing"`
	Items    []ItemResponse     `json:"items"`
	Tracking []TrackingResponse `json:"trackingUpdates"`

	ScheduledPickupTime time.Time  `json:"scheduledPickupTime"`
	ActualPickupTime    *time.Time `json:"actualPickupTime,omitempty"`
	ActualDeliveryTime  *time.Time `json:"actualDeliveryTime,omitempty"`
	SpecialNotes        *string    `json:"specialNotes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// PaymentStatusResponse результат обновления статуса оплаты
type PaymentStatusResponse struct {
	BookingID     int64  `json:"bookingId"`
	PaymentStatus string `json:"paymentStatus"`
}

// AdminStatsResponse статистика администратора за последние 30 дней
type AdminStatsResponse struct {
	TotalBookings    int     `json:"totalBookings"`
	ActiveBookings   int     `json:"activeBookings"`
	Revenue          float64 `json:"revenue"`
	PendingPayments  float64 `json:"pendingPayments"`
	AvailableDrivers int     `json:"availableDrivers"`
	UniqueCustomers  int     `json:"uniqueCustomers"`
}

// CustomerStatsResponse статистика клиента
type CustomerStatsResponse struct {
	TotalBookings int `json:"totalBookings"`
	Pending       int `json:"pendingBookings"`
	InTransit     int `json:"inTransit"`
	Delivered     int `json:"delivered"`
}

// DriverStatsResponse статистика водителя
type DriverStatsResponse struct {
	ActiveBookings int     `json:"activeBookings"`
	CompletedToday int     `json:"completedToday"`
	Earnings       float64 `json:"earnings"`
}

// DashboardStatsResponse статистика для панели, заполняется только блок роли пользователя
type DashboardStatsResponse struct {
	Role     string                 `json:"role"`
	Admin    *AdminStatsResponse    `json:"admin,omitempty"`
	Customer *CustomerStatsResponse `json:"customer,omitempty"`
	Driver   *DriverStatsResponse   `json:"driver,omitempty"`
}

// Методы конвертации

// FromDomainView конвертирует денормализованное бронирование в DTO
func FromDomainView(v *domain.BookingView) *BookingResponse {
	if v == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                  v.ID,
		TrackingNumber:      v.TrackingNumber,
		Status:              string(v.Status),
		ServiceType:         string(v.ServiceType),
		PaymentMethod:       string(v.PaymentMethod),
		PaymentStatus:       string(v.PaymentStatus),
		Customer:            fromUserRef(v.Customer),
		Pickup:              fromLocation(v.Pickup),
		Delivery:            fromLocation(v.Delivery),
		Pricing:             FromBreakdown(v.Breakdown),
		Items:               make([]ItemResponse, 0, len(v.Items)),
		Tracking:            make([]TrackingResponse, 0, len(v.Tracking)),
		ScheduledPickupTime: v.ScheduledPickupTime,
		ActualPickupTime:    v.ActualPickupTime,
		ActualDeliveryTime:  v.ActualDeliveryTime,
		SpecialNotes:        v.SpecialNotes,
		CreatedAt:           v.CreatedAt,
		UpdatedAt:           v.UpdatedAt,
	}

	if v.Driver != nil {
		driver := &DriverResponse{
			UserResponse:  fromUserRef(*v.Driver),
			VehicleNumber: v.VehicleNumber,
			VehicleType:   v.VehicleType,
		}
		if v.DriverRating.Valid {
			rating := v.DriverRating.Decimal.InexactFloat64()
			driver.Rating = &rating
		}
		resp.Driver = driver
	}

	for _, item := range v.Items {
		resp.Items = append(resp.Items, fromItem(item))
	}

	for _, update := range v.Tracking {
		resp.Tracking = append(resp.Tracking, fromTracking(update))
	}

	return resp
}

// FromDomainViewList конвертирует список бронирований в DTO
func FromDomainViewList(views []*domain.BookingView) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(views)),
	}

	for _, v := range views {
		if bookingResp := FromDomainView(v); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromBreakdown конвертирует расчет стоимости в DTO
func FromBreakdown(b domain.Breakdown) PricingResponse {
	return PricingResponse{
		TotalWeight:    b.TotalWeight.InexactFloat64(),
		TotalValue:     money(b.TotalValue),
		BaseAmount:     money(b.BaseAmount),
		WeightCharges:  money(b.WeightCharge),
		DistanceCharge: money(b.DistanceCharge),
		FuelSurcharge:  money(b.FuelSurcharge),
		InsuranceFee:   money(b.InsuranceFee),
		TaxAmount:      money(b.TaxAmount),
		TotalAmount:    money(b.TotalAmount),
	}
}

// FromAdminStats конвертирует статистику администратора
func FromAdminStats(s domain.AdminStats) *AdminStatsResponse {
	return &AdminStatsResponse{
		TotalBookings:    s.TotalBookings,
		ActiveBookings:   s.ActiveBookings,
		Revenue:          money(s.Revenue),
		PendingPayments:  money(s.PendingPayments),
		AvailableDrivers: s.AvailableDrivers,
		UniqueCustomers:  s.UniqueCustomers,
	}
}

// FromCustomerStats конвертирует статистику клиента
func FromCustomerStats(s domain.CustomerStats) *CustomerStatsResponse {
	return &CustomerStatsResponse{
		TotalBookings: s.TotalBookings,
		Pending:       s.Pending,
		InTransit:     s.InTransit,
		Delivered:     s.Delivered,
	}
}

// FromDriverStats конвертирует статистику водителя
func FromDriverStats(s domain.DriverStats) *DriverStatsResponse {
	return &DriverStatsResponse{
		ActiveBookings: s.ActiveBookings,
		CompletedToday: s.CompletedToday,
		Earnings:       money(s.Earnings),
	}
}

func fromUserRef(u domain.UserRef) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
	}
}

func fromLocation(l domain.Location) LocationResponse {
	resp := LocationResponse{
		ID:           l.ID,
		Address:      l.Address,
		ContactName:  l.ContactName,
		ContactPhone: l.ContactPhone,
	}
	if !l.Coordinates.IsZero() {
		lat, lng := l.Coordinates.Latitude, l.Coordinates.Longitude
		resp.Latitude = &lat
		resp.Longitude = &lng
	}
	return resp
}

func fromItem(i domain.BookingItem) ItemResponse {
	resp := ItemResponse{
		ID:          i.ID,
		Description: i.Description,
		Category:    string(i.Category),
		Quantity:    i.Quantity,
		Weight:      i.Weight.InexactFloat64(),
		Value:       money(i.Value),
	}
	if i.Dimensions != nil {
		resp.Dimensions = &DimensionsResponse{
			Length: i.Dimensions.Length.InexactFloat64(),
			Width:  i.Dimensions.Width.InexactFloat64(),
			Height: i.Dimensions.Height.InexactFloat64(),
		}
	}
	return resp
}

func fromTracking(u domain.TrackingUpdate) TrackingResponse {
	resp := TrackingResponse{
		ID:            u.ID,
		Status:        u.Status,
		Location:      u.Location,
		Notes:         u.Notes,
		UpdatedByName: u.UpdatedByName,
		UpdateType:    string(u.UpdateType),
		IsPublic:      u.IsPublic,
		CreatedAt:     u.CreatedAt,
	}
	if u.Coordinates != nil {
		lat, lng := u.Coordinates.Latitude, u.Coordinates.Longitude
		resp.Latitude = &lat
		resp.Longitude = &lng
	}
	return resp
}

// money переводит сумму в float64 только на границе JSON, расчеты остаются в decimal
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
