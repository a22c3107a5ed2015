package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
)

// BaseRates базовая ставка по тарифу
var BaseRates = map[domain.ServiceType]decimal.Decimal{
	domain.ServiceExpress:   decimal.NewFromInt(35),
	domain.ServiceStandard:  decimal.NewFromInt(25),
	domain.ServiceEconomy:   decimal.NewFromInt(18),
	domain.ServiceOvernight: decimal.NewFromInt(45),
	domain.ServiceSameDay:   decimal.NewFromInt(55),
}

var (
	ratePerKg     = decimal.RequireFromString("2.75")
	fuelRate      = decimal.RequireFromString("0.15")
	insuranceRate = decimal.RequireFromString("0.02")
	taxRate       = decimal.RequireFromString("0.08")
)

const outputPrecision = 2

// Item позиция груза для расчета
type Item struct {
	Weight   decimal.Decimal
	Value    decimal.Decimal
	Quantity int
}

// Quote входные данные расчета
type Quote struct {
	Items          []Item
	ServiceType    domain.ServiceType
	DistanceCharge decimal.Decimal
}

// Calculator считает стоимость доставки. Не имеет состояния, безопасен для конкурентного использования.
type Calculator struct{}

// NewCalculator создает калькулятор стоимости
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate возвращает разбивку стоимости доставки.
// Промежуточные значения не округляются; каждая компонента округляется до копеек на выходе,
// а итог равен сумме округленных компонент.
func (c *Calculator) Calculate(q Quote) (domain.Breakdown, error) {
	if len(q.Items) == 0 {
		return domain.Breakdown{}, ErrNoItems
	}

	base, ok := BaseRates[q.ServiceType]
	if !ok {
		return domain.Breakdown{}, fmt.Errorf("%w: %q", ErrUnknownServiceType, q.ServiceType)
	}

	if q.DistanceCharge.IsNegative() {
		return domain.Breakdown{}, ErrNegativeInput
	}

	totalWeight := decimal.Zero
	totalValue := decimal.Zero
	for i, item := range q.Items {
		if item.Quantity < 0 || item.Weight.IsNegative() || item.Value.IsNegative() {
			return domain.Breakdown{}, fmt.Errorf("%w: item %d", ErrNegativeInput, i)
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		totalWeight = totalWeight.Add(item.Weight.Mul(qty))
		totalValue = totalValue.Add(item.Value.Mul(qty))
	}

	weightCharge := totalWeight.Mul(ratePerKg)
	distanceCharge := q.DistanceCharge
	fuelSurcharge := decimal.Sum(base, weightCharge, distanceCharge).Mul(fuelRate)
	insuranceFee := totalValue.Mul(insuranceRate)
	taxAmount := decimal.Sum(base, weightCharge, distanceCharge, fuelSurcharge, insuranceFee).Mul(taxRate)

	b := domain.Breakdown{
		TotalWeight:    round(totalWeight),
		TotalValue:     round(totalValue),
		BaseAmount:     round(base),
		WeightCharge:   round(weightCharge),
		DistanceCharge: round(distanceCharge),
		FuelSurcharge:  round(fuelSurcharge),
		InsuranceFee:   round(insuranceFee),
		TaxAmount:      round(taxAmount),
	}
	b.TotalAmount = b.ComponentsSum()

	return b, nil
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(outputPrecision)
}
