// Package lifecycle holds shared shutdown constants.
package lifecycle

import "time"

// DefaultTimeout bounds graceful-shutdown and scoped I/O operations.
const DefaultTimeout = 10 * time.Second
