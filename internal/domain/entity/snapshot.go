package entity

import "time"

// Snapshot is the durable local-storage schema written after every mutating
// operation so no in-flight work is lost on abnormal termination.
type Snapshot struct {
	Cart            CartState     `json:"cart"`
	Transactions    []Transaction `json:"transactions"`
	CatalogSnapshot []Product     `json:"catalog_snapshot"`
	LastSync        time.Time     `json:"last_sync"`
}
