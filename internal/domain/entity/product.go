// Package entity contains the core business objects of the checkout engine.
package entity

// Product is a read-only catalog record. The catalog collaborator owns it;
// the engine only snapshots it for offline operation.
type Product struct {
	ID        string  `json:"id"`         // Catalog identifier (SKU).
	Name      string  `json:"name"`       // Display name.
	UnitPrice float64 `json:"unit_price"` // Selling price per unit.
	UnitCost  float64 `json:"unit_cost"`  // Acquisition cost per unit.
	Stock     int     `json:"stock"`      // Units currently on hand.
}

// InventoryDelta describes a stock movement reported to the accounting collaborator.
type InventoryDelta struct {
	ProductID string `json:"product_id"`
	Change    int    `json:"change"` // Negative for sales, positive for returns.
}
