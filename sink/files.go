package sink

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/katalvlaran/dbscan/points"
)

const (
	clusterFilePattern = "cluster_%d.data"
	clusterFileGlob    = "cluster_*.data"
	noiseFileName      = "noise.data"
)

// Files writes cluster_<id>.data for every cluster and noise.data into
// Dir, one "x<TAB>y" line per point with six decimals. Cluster files
// left over from an earlier run in Dir are removed first.
type Files struct {
	Dir string
}

// Write implements Sink.
func (f Files) Write(ctx context.Context, run Run) error {
	if run.Result == nil {
		return ErrResultNil
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("sink: create %s: %w", f.Dir, err)
	}
	stale, err := filepath.Glob(filepath.Join(f.Dir, clusterFileGlob))
	if err != nil {
		return fmt.Errorf("sink: list %s: %w", f.Dir, err)
	}
	for _, p := range stale {
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("sink: remove %s: %w", p, err)
		}
	}

	for _, c := range run.Result.Clusters() {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := filepath.Join(f.Dir, fmt.Sprintf(clusterFilePattern, c.ID))
		if err := writePoints(name, c.Points); err != nil {
			return err
		}
	}
	return writePoints(filepath.Join(f.Dir, noiseFileName), run.Result.Noise())
}

func writePoints(name string, pts []points.Point) (err error) {
	fh, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("sink: create %s: %w", name, err)
	}
	defer func() {
		if cerr := fh.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("sink: close %s: %w", name, cerr)
		}
	}()

	w := bufio.NewWriter(fh)
	for _, p := range pts {
		if _, err := fmt.Fprintf(w, "%f\t%f\n", p.X, p.Y); err != nil {
			return fmt.Errorf("sink: write %s: %w", name, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("sink: write %s: %w", name, err)
	}
	return nil
}
