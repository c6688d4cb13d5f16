// Package pricing implements the pure cart arithmetic: subtotal, line
// discounts, tax and total. It has no side effects and is recomputed from the
// source lines on every call, so repeated recomputation cannot drift.
package pricing

import "poscore/internal/domain/entity"

// Totals is the monetary breakdown of a cart.
type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	TotalDiscount float64 `json:"total_discount"`
	TotalTax      float64 `json:"total_tax"`
	DeliveryCost  float64 `json:"delivery_cost"`
	Total         float64 `json:"total"`
}

// Calculator applies a fixed, ordered tax schedule to cart lines.
type Calculator struct {
	taxRules []entity.TaxRule
}

// NewCalculator creates a calculator for the given tax schedule.
func NewCalculator(taxRules []entity.TaxRule) *Calculator {
	return &Calculator{taxRules: taxRules}
}

// LineDiscount returns the amount deducted from a single line. Percentage
// discounts reduce the line gross proportionally; fixed discounts deduct a
// flat amount, capped at the line gross so a line can never go negative.
func LineDiscount(line entity.CartLine) float64 {
	if line.Discount == nil {
		return 0
	}

	gross := line.Gross()
	switch line.Discount.Kind {
	case entity.DiscountPercentage:
		return gross * line.Discount.Value / 100
	case entity.DiscountFixed:
		if line.Discount.Value > gross {
			return gross
		}

		return line.Discount.Value
	}

	return 0
}

// Compute derives the full monetary breakdown for the given lines and the
// currently selected delivery quote (nil means no delivery cost).
//
// Every tax rule applies to the same canonical base, the subtotal net of
// discounts: taxBase = subtotal - totalDiscount. Delivery cost is not taxed.
func (c *Calculator) Compute(lines []entity.CartLine, quote *entity.DeliveryQuote) Totals {
	var t Totals
	for _, line := range lines {
		t.Subtotal += line.Gross()
		t.TotalDiscount += LineDiscount(line)
	}

	taxBase := t.Subtotal - t.TotalDiscount
	for _, rule := range c.taxRules {
		t.TotalTax += taxBase * rule.Rate
	}

	if quote != nil {
		t.DeliveryCost = quote.Cost
	}

	t.Total = t.Subtotal - t.TotalDiscount + t.TotalTax + t.DeliveryCost

	return t
}
