// Package delivery defines the contract every serving surface implements.
package delivery

import "context"

// Delivery is a long-running serving surface (HTTP server, background
// worker). Serve blocks until the surface stops or ctx is cancelled.
type Delivery interface {
	Serve(ctx context.Context) error
}
