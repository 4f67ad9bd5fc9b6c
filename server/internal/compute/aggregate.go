package compute

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/creachadair/taskgroup"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/obsidianstack/computedemo/pkg/types"
	"github.com/obsidianstack/computedemo/server/internal/random"
)

// ValueRange is the exclusive upper bound of every generated value.
const ValueRange = 10_000

// checkEvery is how many elements a worker processes between context checks.
const checkEvery = 1 << 16

const tracerName = "github.com/obsidianstack/computedemo/server/internal/compute"

// span is the half-open index range [lo, hi) owned by one worker.
type span struct{ lo, hi int }

// partition splits [0, n) into at most workers contiguous spans whose
// lengths differ by at most one. It returns nil when n is 0.
func partition(n, workers int) []span {
	if n <= 0 {
		return nil
	}
	workers = max(1, min(workers, n))
	spans := make([]span, workers)
	base, extra := n/workers, n%workers
	lo := 0
	for i := range spans {
		size := base
		if i < extra {
			size++
		}
		spans[i] = span{lo: lo, hi: lo + size}
		lo += size
	}
	return spans
}

// SumEvenSquares is the sequential reference reduction: the sum of x² over
// the even elements of values, accumulated in 64 bits.
func SumEvenSquares(values []uint32) uint64 {
	var sum uint64
	for _, x := range values {
		if x%2 == 0 {
			v := uint64(x)
			sum += v * v
		}
	}
	return sum
}

// Generate returns n values drawn from [0, ValueRange). The array is filled
// by up to workers goroutines, each with its own Source from newSource.
func Generate(ctx context.Context, newSource random.Factory, n, workers int) ([]uint32, error) {
	values := make([]uint32, n)
	g := taskgroup.New(nil)
	for _, s := range partition(n, workers) {
		// Sources are created here, not in the worker, so that newSource
		// itself never runs concurrently.
		src := newSource()
		g.Go(func() error {
			part := values[s.lo:s.hi]
			for i := range part {
				if i%checkEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				part[i] = src.Uint32N(ValueRange)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}

// Reduce computes SumEvenSquares(values) using up to workers goroutines over
// disjoint contiguous partitions. If ctx ends first, Reduce returns its error.
func Reduce(ctx context.Context, values []uint32, workers int) (uint64, error) {
	spans := partition(len(values), workers)
	partials := make([]uint64, len(spans))

	g := taskgroup.New(nil)
	for i, s := range spans {
		g.Go(func() error {
			var sum uint64
			for lo := s.lo; lo < s.hi; lo += checkEvery {
				if err := ctx.Err(); err != nil {
					return err
				}
				sum += SumEvenSquares(values[lo:min(lo+checkEvery, s.hi)])
			}
			partials[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total uint64
	for _, p := range partials {
		total += p
	}
	return total, nil
}

// Aggregator runs generate-then-reduce for one request at a time per call.
// It holds no per-request state; all methods are safe for concurrent use.
type Aggregator struct {
	newSource random.Factory
	workers   atomic.Int64
	now       func() time.Time // injectable for deterministic tests
	tracer    trace.Tracer
}

// An Option configures an Aggregator.
type Option func(*Aggregator)

// WithWorkers sets the partition count. Zero or negative selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(a *Aggregator) { a.workers.Store(int64(n)) }
}

// WithSource replaces the per-worker random source factory.
func WithSource(f random.Factory) Option {
	return func(a *Aggregator) { a.newSource = f }
}

// WithClock replaces time.Now for elapsed-time measurement.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// New returns an Aggregator using freshly seeded PCG sources and GOMAXPROCS
// workers unless overridden by opts.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		newSource: random.NewFactory(),
		now:       time.Now,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetWorkers changes the partition count for subsequent runs.
func (a *Aggregator) SetWorkers(n int) { a.workers.Store(int64(n)) }

// Workers reports the partition count the next run will use.
func (a *Aggregator) Workers() int {
	if n := int(a.workers.Load()); n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// Run generates n values and reduces them. Result.Elapsed covers the
// reduction only; generation time is not included.
func (a *Aggregator) Run(ctx context.Context, n int) (types.Result, error) {
	workers := a.Workers()
	ctx, sp := a.tracer.Start(ctx, "compute.aggregate", trace.WithAttributes(
		attribute.Int("compute.size", n),
		attribute.Int("compute.workers", workers),
	))
	defer sp.End()

	values, err := Generate(ctx, a.newSource, n, workers)
	if err != nil {
		sp.SetStatus(codes.Error, "generate")
		return types.Result{}, fmt.Errorf("compute generate: %w", err)
	}

	start := a.now()
	sum, err := Reduce(ctx, values, workers)
	elapsed := a.now().Sub(start)
	if err != nil {
		sp.SetStatus(codes.Error, "reduce")
		return types.Result{}, fmt.Errorf("compute reduce: %w", err)
	}

	sp.SetAttributes(attribute.Int64("compute.elapsed_ns", elapsed.Nanoseconds()))
	return types.Result{Size: n, Sum: sum, Elapsed: elapsed}, nil
}
