package entity

// DiscountKind distinguishes the two supported line discount shapes.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// Discount is a reduction attached to a single cart line. Absence of a
// discount is modelled as a nil pointer, never as a zero-valued Discount.
type Discount struct {
	Code        string       `json:"code"`        // Catalog code the discount was resolved from.
	Kind        DiscountKind `json:"kind"`        // Percentage of the line gross, or a fixed amount.
	Value       float64      `json:"value"`       // Percent (0-100) or currency amount depending on Kind.
	Description string       `json:"description"` // Human-readable label for receipts.
}

// CartLine is one product entry in the active cart.
type CartLine struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"` // Always >= 1 while the line exists.
	Discount  *Discount `json:"discount,omitempty"`
}

// Gross returns the undiscounted line amount.
func (l CartLine) Gross() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// CartState is the mutable session state: the open lines plus the currently
// selected delivery quote, if any.
type CartState struct {
	Lines         []CartLine     `json:"lines"`
	SelectedQuote *DeliveryQuote `json:"selected_quote,omitempty"`
}

// CloneLines returns a deep copy of the cart lines so a completed transaction
// can never be retroactively changed by later cart mutation.
func CloneLines(lines []CartLine) []CartLine {
	if lines == nil {
		return nil
	}
	out := make([]CartLine, len(lines))
	for i, l := range lines {
		out[i] = l
		if l.Discount != nil {
			d := *l.Discount
			out[i].Discount = &d
		}
	}

	return out
}
