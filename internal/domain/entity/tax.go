package entity

// TaxRule is one entry of the fixed, ordered tax schedule. Every rule applies
// to the same base: the subtotal net of line discounts.
type TaxRule struct {
	Name        string  `json:"name"`
	Rate        float64 `json:"rate"` // Fraction, e.g. 0.075 for 7.5%.
	Description string  `json:"description"`
}
