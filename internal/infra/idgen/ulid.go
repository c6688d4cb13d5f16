// Package idgen issues transaction identifiers.
package idgen

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"poscore/internal/domain/service"
)

// ulidGenerator issues ULIDs from a single monotonic entropy source. Within
// one millisecond the entropy is strictly increasing, so ids assigned by
// rapid successive checkouts still sort in completion order.
type ulidGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewULIDGenerator creates the process-wide transaction id source.
func NewULIDGenerator() service.TransactionIDGenerator {
	return &ulidGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (g *ulidGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}
