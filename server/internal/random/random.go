package random

import (
	"math/rand/v2"
	"sync"
)

// Source produces uniformly distributed integers.
type Source interface {
	// Uint32N returns a value in [0, n). It panics if n is 0.
	Uint32N(n uint32) uint32
}

// Factory returns a new Source that is independent of every other Source it
// has returned. Parallel workers call it once each.
type Factory func() Source

// Rand is a PCG-backed Source. A Rand is not safe for concurrent use; give
// each goroutine its own or wrap it in Locked.
type Rand struct {
	r *rand.Rand
}

// New returns a Rand seeded from the runtime's concurrency-safe generator, so
// concurrent calls yield uncorrelated streams.
func New() *Rand { return NewSeeded(rand.Uint64(), rand.Uint64()) }

// NewSeeded returns a Rand whose stream is fully determined by the seeds.
func NewSeeded(seed1, seed2 uint64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(seed1, seed2))}
}

// NewFactory is the production Factory: each call returns a freshly seeded Rand.
func NewFactory() Factory {
	return func() Source { return New() }
}

// Uint32N implements Source.
func (r *Rand) Uint32N(n uint32) uint32 {
	checkRange(n)
	return r.r.Uint32N(n)
}

// Locked serialises access to an underlying Source, for callers that want
// one generator shared across goroutines instead of one per goroutine. The
// aggregator does not need it: each of its workers owns a Rand.
type Locked struct {
	mu  sync.Mutex
	src Source
}

// NewLocked wraps src so that it may be shared between goroutines.
func NewLocked(src Source) *Locked { return &Locked{src: src} }

// Uint32N implements Source.
func (l *Locked) Uint32N(n uint32) uint32 {
	checkRange(n)
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Uint32N(n)
}

// Fixed returns a Source that cycles through values, reducing each modulo the
// requested range. It is meant for tests and is not safe for concurrent use.
func Fixed(values ...uint32) Source {
	if len(values) == 0 {
		panic("random: Fixed requires at least one value")
	}
	return &fixed{values: values}
}

type fixed struct {
	values []uint32
	next   int
}

func (f *fixed) Uint32N(n uint32) uint32 {
	checkRange(n)
	v := f.values[f.next] % n
	f.next = (f.next + 1) % len(f.values)
	return v
}

func checkRange(n uint32) {
	if n == 0 {
		panic("random: empty range [0, 0)")
	}
}
