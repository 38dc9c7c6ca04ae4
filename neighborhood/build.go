package neighborhood

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/dbscan/points"
)

// builder encapsulates the mutable state of one Build call.
type builder struct {
	store   *points.Store
	eps     float64
	opts    BuildOptions
	lists   [][]int
	entries atomic.Int64
}

// Build computes the neighbor list of every point in store for radius eps.
// Returns ErrInvalidParameter for a nil store or eps ≤ 0, ErrOptionViolation
// for bad options, ErrResourceExhausted when MaxEntries is exceeded, or the
// context error on cancellation.
//
// Complexity: O(N²) distance evaluations for Exhaustive.
// Memory: O(N + E) where E is the total number of neighbor entries.
func Build(store *points.Store, eps float64, opts ...Option) (*Sets, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is nil", ErrInvalidParameter)
	}
	if math.IsNaN(eps) || eps <= 0 {
		return nil, fmt.Errorf("%w: eps must be > 0, got %v", ErrInvalidParameter, eps)
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	n := store.Len()
	b := &builder{
		store: store,
		eps:   eps,
		opts:  o,
		lists: make([][]int, n+1),
	}

	row := b.exhaustiveRow
	if o.Strategy == Grid {
		// Coordinates too large for exact cell arithmetic fall back to the
		// exhaustive scan.
		if idx := newGridIndex(store, eps); idx != nil {
			row = idx.row
		}
	}

	var err error
	if o.Workers > 1 && n > 1 {
		err = b.runParallel(row)
	} else {
		err = b.runSequential(row)
	}
	if err != nil {
		return nil, err
	}

	return &Sets{lists: b.lists, eps: eps, entries: int(b.entries.Load())}, nil
}

// exhaustiveRow scans every q ≠ p in ascending order.
func (b *builder) exhaustiveRow(p int) []int {
	pp := b.store.At(p)
	n := b.store.Len()
	var out []int
	for q := 1; q <= n; q++ {
		if q == p {
			continue
		}
		if pp.DistanceTo(b.store.At(q)) <= b.eps {
			out = append(out, q)
		}
	}
	return out
}

// commit stores row p and charges its entries against MaxEntries.
func (b *builder) commit(p int, row []int) error {
	total := b.entries.Add(int64(len(row)))
	if b.opts.MaxEntries > 0 && total > int64(b.opts.MaxEntries) {
		return fmt.Errorf("%w: %d neighbor entries exceed limit %d (at point %d)",
			ErrResourceExhausted, total, b.opts.MaxEntries, p)
	}
	b.lists[p] = row
	return nil
}

func (b *builder) runSequential(row func(int) []int) error {
	n := b.store.Len()
	for p := 1; p <= n; p++ {
		select {
		case <-b.opts.Ctx.Done():
			return b.opts.Ctx.Err()
		default:
		}
		if err := b.commit(p, row(p)); err != nil {
			return err
		}
	}
	return nil
}

// runParallel splits [1, N] into contiguous chunks, one per worker.
func (b *builder) runParallel(row func(int) []int) error {
	n := b.store.Len()
	workers := min(b.opts.Workers, n)
	chunk := (n + workers - 1) / workers

	g, ctx := errgroup.WithContext(b.opts.Ctx)
	for lo := 1; lo <= n; lo += chunk {
		hi := min(lo+chunk, n+1)
		g.Go(func() error {
			return b.runRange(ctx, lo, hi, row)
		})
	}
	return g.Wait()
}

func (b *builder) runRange(ctx context.Context, lo, hi int, row func(int) []int) error {
	for p := lo; p < hi; p++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.commit(p, row(p)); err != nil {
			return err
		}
	}
	return nil
}
