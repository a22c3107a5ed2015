package create_booking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if err := validateLocation("pickup", req.Pickup); err != nil {
		return err
	}

	if err := validateLocation("delivery", req.Delivery); err != nil {
		return err
	}

	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}

	for i, item := range req.Items {
		if err := validateItem(i, item); err != nil {
			return err
		}
	}

	if !domain.ServiceType(req.ServiceType).IsValid() {
		return fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, req.ServiceType)
	}

	if req.PaymentMethod != "" && !domain.PaymentMethod(req.PaymentMethod).IsValid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, req.PaymentMethod)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

func validateLocation(side string, loc LocationInput) error {
	address := strings.TrimSpace(loc.Address)
	if address == "" {
		return fmt.Errorf("%w: %s address is required", ErrInvalidInput, side)
	}

	if utf8.RuneCountInString(address) > domain.MaxAddressLength {
		return fmt.Errorf("%w: %s address must be at most %d characters", ErrInvalidInput, side, domain.MaxAddressLength)
	}

	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		return fmt.Errorf("%w: %s coordinates out of range", ErrInvalidInput, side)
	}

	return nil
}

func validateItem(i int, item ItemInput) error {
	if item.Quantity <= 0 {
		return fmt.Errorf("%w: item %d: quantity must be positive", ErrInvalidInput, i)
	}

	if item.Weight.IsNegative() {
		return fmt.Errorf("%w: item %d: weight must not be negative", ErrInvalidInput, i)
	}

	if item.Value.IsNegative() {
		return fmt.Errorf("%w: item %d: value must not be negative", ErrInvalidInput, i)
	}

	if item.Category != "" && !domain.ItemCategory(item.Category).IsValid() {
		return fmt.Errorf("%w: item %d: unknown category %q", ErrInvalidInput, i, item.Category)
	}

	if utf8.RuneCountInString(item.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: item %d: description must be at most %d characters", ErrInvalidInput, i, domain.MaxDescriptionLength)
	}

	if d := item.Dimensions; d != nil && (d.Length.IsNegative() || d.Width.IsNegative() || d.Height.IsNegative()) {
		return fmt.Errorf("%w: item %d: dimensions must not be negative", ErrInvalidInput, i)
	}

	return nil
}

// paymentMethodOrDefault возвращает способ оплаты, пустой заменяется на online
func paymentMethodOrDefault(raw string) domain.PaymentMethod {
	if raw == "" {
		return domain.PaymentOnline
	}
	return domain.PaymentMethod(raw)
}

// categoryOrDefault возвращает категорию груза, пустая заменяется на other
func categoryOrDefault(raw string) domain.ItemCategory {
	if raw == "" {
		return domain.CategoryOther
	}
	return domain.ItemCategory(raw)
}
