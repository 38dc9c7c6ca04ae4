// Package sink writes finished clustering runs to durable outputs: one
// text file per cluster plus a noise file, or a SQLite run store.
package sink

import (
	"context"
	"errors"
	"time"

	"github.com/katalvlaran/dbscan/result"
)

// ErrResultNil is returned when a Run carries no result.
var ErrResultNil = errors.New("sink: result is nil")

// Run is a finished clustering run together with its parameters.
type Run struct {
	ID      string
	Input   string
	Eps     float64
	MinPts  int
	Seed    int64
	Started time.Time
	Elapsed time.Duration
	Result  *result.Result
}

// Sink persists runs.
type Sink interface {
	Write(ctx context.Context, run Run) error
}

// Multi writes a run to every sink in order and stops at the first error.
type Multi []Sink

// Write implements Sink.
func (m Multi) Write(ctx context.Context, run Run) error {
	for _, s := range m {
		if err := s.Write(ctx, run); err != nil {
			return err
		}
	}
	return nil
}
