package entity

import "time"

// PaymentMethod is the closed set of tender kinds the engine accepts.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// Valid reports whether m is one of the accepted tender kinds.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentBankTransfer:
		return true
	}

	return false
}

// TransactionStatus is the lifecycle state of a completed transaction.
// The only legal transitions are Completed -> Voided and Completed -> Returned;
// both target states are terminal.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusVoided    TransactionStatus = "voided"
	StatusReturned  TransactionStatus = "returned"
)

// TransactionLine is a by-value snapshot of a cart line at completion time.
type TransactionLine struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int     `json:"quantity"`
	LineDiscount float64 `json:"line_discount"` // Amount actually deducted from this line.
}

// Transaction is the immutable record produced by checkout. Line items and
// monetary totals are frozen forever; only the status and approval fields may
// change afterwards, and only through the approval gate.
type Transaction struct {
	ID            string            `json:"id"` // ULID: globally unique, sorts in completion order.
	Lines         []TransactionLine `json:"lines"`
	Subtotal      float64           `json:"subtotal"`
	TotalDiscount float64           `json:"total_discount"`
	TotalTax      float64           `json:"total_tax"`
	DeliveryCost  float64           `json:"delivery_cost"`
	Total         float64           `json:"total"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	PaymentRef    string            `json:"payment_ref,omitempty"` // Reference returned by the payment device.
	CustomerID    string            `json:"customer_id,omitempty"`
	CashierID     string            `json:"cashier_id"`
	Timestamp     time.Time         `json:"timestamp"`
	Status        TransactionStatus `json:"status"`

	// Approval trail, set only when Status != StatusCompleted.
	Reason     string     `json:"reason,omitempty"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`

	// Synced marks the record as replayed to the accounting collaborator.
	// SaleSynced records that the completed leg of the sale reached
	// accounting, so a later void or return knows remote stock already
	// moved. Reconciliation may touch no other fields.
	Synced     bool `json:"synced"`
	SaleSynced bool `json:"sale_synced,omitempty"`
}

// Receipt is the payload handed to the print collaborator. The engine owns
// the shape; rendering is external.
type Receipt struct {
	Transaction Transaction `json:"transaction"`
	QRCode      []byte      `json:"qr_code,omitempty"` // PNG encoding the transaction reference.
}

// Customer is a read-only identity record from the customer directory.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
