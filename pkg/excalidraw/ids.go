package excalidraw

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator supplies element identifiers and the random seeds Excalidraw
// uses for its hand-drawn strokes. Implementations must be safe for
// concurrent use.
type IDGenerator interface {
	NewID() string
	NewSeed() int64
}

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength   = 12
	maxSeed    = 2147483647
)

// RandomIDs generates 12-character alphanumeric IDs and seeds in
// [1, 2^31-1] from a pseudo-random source.
type RandomIDs struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomIDs returns a generator with an unpredictable seed.
func NewRandomIDs() *RandomIDs {
	return NewSeededIDs(rand.Uint64())
}

// NewSeededIDs returns a generator whose output is fully determined by
// seed. Two generators with the same seed yield the same sequence.
func NewSeededIDs(seed uint64) *RandomIDs {
	return &RandomIDs{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewID returns a fresh 12-character identifier.
func (g *RandomIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := make([]byte, idLength)
	for i := range b {
		b[i] = idAlphabet[g.rng.IntN(len(idAlphabet))]
	}
	return string(b)
}

// NewSeed returns a seed in [1, 2^31-1].
func (g *RandomIDs) NewSeed() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return 1 + g.rng.Int64N(maxSeed)
}

// UUIDs generates random version 4 UUIDs as identifiers.
type UUIDs struct{}

// NewID returns a new random UUID string.
func (UUIDs) NewID() string { return uuid.NewString() }

// NewSeed derives a seed in [1, 2^31-1] from a random UUID.
func (UUIDs) NewSeed() int64 {
	u := uuid.New()
	return 1 + int64(binary.BigEndian.Uint32(u[:4])%maxSeed)
}

// SequentialIDs generates predictable identifiers of the form
// <prefix><n>, starting at 1. Seeds follow the same counter.
type SequentialIDs struct {
	Prefix string
	n      atomic.Int64
}

// NewID returns the next identifier.
func (g *SequentialIDs) NewID() string {
	return fmt.Sprintf("%s%d", g.Prefix, g.n.Add(1))
}

// NewSeed returns the next counter value.
func (g *SequentialIDs) NewSeed() int64 {
	return g.n.Add(1)
}
