package tracker

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrIDCollision is returned when every attempt to draw a fresh id hit an id
// that is already in use.
var ErrIDCollision = errors.New("could not generate a unique id")

// maxIDAttempts bounds the retry loop in GenerateID.
const maxIDAttempts = 8

// IDGenerator produces candidate entity ids.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator generates time-sortable UUIDv7 ids, so the persisted
// collections read in creation order when inspected by hand.
type UUIDGenerator struct{}

// Generate returns a hyphenated UUIDv7 string.
func (UUIDGenerator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined ids in order, for tests and fixtures.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next id. It panics once the list is exhausted so a
// misconfigured test fails loudly.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
