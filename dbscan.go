package dbscan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/dbscan/expansion"
	"github.com/katalvlaran/dbscan/neighborhood"
	"github.com/katalvlaran/dbscan/points"
	"github.com/katalvlaran/dbscan/registry"
	"github.com/katalvlaran/dbscan/result"
	"github.com/katalvlaran/dbscan/sink"
)

// AnyCount as Params.Count accepts however many points the input holds.
const AnyCount = points.AnyCount

// Pipeline phase names, used in PhaseError and metric labels.
const (
	PhaseValidate = "validate"
	PhaseLoad     = "load"
	PhaseBuild    = "build"
	PhaseClassify = "classify"
	PhaseExpand   = "expand"
	PhaseFinalize = "finalize"
)

// Params are the clustering parameters of a run.
type Params struct {
	// Eps is the neighborhood radius, > 0.
	Eps float64
	// MinPts is the density threshold including the point itself, ≥ 1.
	MinPts int
	// Count is the declared number of points, or AnyCount.
	Count int
}

// Outcome is a completed run.
type Outcome struct {
	Params    Params
	Seed      int64
	Sets      *neighborhood.Sets
	CoreCount int
	Result    *result.Result
	Started   time.Time
	Elapsed   time.Duration
}

// Record converts o into a sink.Run labelled with input.
func (o *Outcome) Record(input string) sink.Run {
	return sink.Run{
		Input:   input,
		Eps:     o.Params.Eps,
		MinPts:  o.Params.MinPts,
		Seed:    o.Seed,
		Started: o.Started,
		Elapsed: o.Elapsed,
		Result:  o.Result,
	}
}

// RunFile reads "x y" records from path and clusters them.
func RunFile(ctx context.Context, path string, p Params, opts ...Option) (*Outcome, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	start := time.Now()
	store, err := points.ReadFile(path, p.Count)
	if err != nil {
		return nil, o.fail(PhaseLoad, err)
	}
	o.observer.ObservePhase(PhaseLoad, time.Since(start))
	o.log.Debug("Points loaded", zap.String("path", path), zap.Int("points", store.Len()))
	return run(ctx, store, p, o)
}

// RunPoints clusters pts. With Count == AnyCount the length of pts is the
// declared count.
func RunPoints(ctx context.Context, pts []points.Point, p Params, opts ...Option) (*Outcome, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	declared := p.Count
	if declared == AnyCount {
		declared = len(pts)
	}
	store, err := points.Load(pts, declared)
	if err != nil {
		return nil, o.fail(PhaseLoad, err)
	}
	return run(ctx, store, p, o)
}

// Run clusters the points of store. p.Count is ignored.
func Run(ctx context.Context, store *points.Store, p Params, opts ...Option) (*Outcome, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return run(ctx, store, p, o)
}

func run(ctx context.Context, store *points.Store, p Params, o options) (*Outcome, error) {
	if o.err != nil {
		return nil, o.fail(PhaseValidate, o.err)
	}
	if p.MinPts < 1 {
		return nil, o.fail(PhaseValidate, fmt.Errorf("%w: %w: min pts must be ≥ 1, got %d",
			ErrInvalidParameter, ErrEmptyInput, p.MinPts))
	}
	if store == nil {
		return nil, o.fail(PhaseLoad, ErrEmptyInput)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	out := &Outcome{Params: p, Started: time.Now()}
	if o.seed != nil {
		out.Seed = *o.seed
	} else {
		out.Seed = out.Started.UnixNano()
	}

	// Build
	t := time.Now()
	sets, err := neighborhood.Build(store, p.Eps,
		neighborhood.WithContext(ctx),
		neighborhood.WithWorkers(o.workers),
		neighborhood.WithStrategy(o.strategy),
		neighborhood.WithMaxEntries(o.maxEntries),
	)
	if err != nil {
		return nil, o.fail(PhaseBuild, err)
	}
	o.observer.ObservePhase(PhaseBuild, time.Since(t))
	o.log.Info("Neighborhood built",
		zap.Int("points", sets.Len()),
		zap.Float64("eps", p.Eps),
		zap.Int("entries", sets.Entries()),
		zap.Int("isolated", len(sets.Isolated())),
		zap.Stringer("strategy", o.strategy),
		zap.Duration("duration", time.Since(t)),
	)
	out.Sets = sets

	// Classify
	t = time.Now()
	reg, err := registry.Classify(sets, p.MinPts)
	if err != nil {
		if errors.Is(err, registry.ErrEmptyInput) && store.Len() == 0 {
			return o.empty(store, out)
		}
		return nil, o.fail(PhaseClassify, err)
	}
	o.observer.ObservePhase(PhaseClassify, time.Since(t))
	out.CoreCount = reg.CoreCount()
	o.log.Info("Core objects classified",
		zap.Int("min_pts", p.MinPts),
		zap.Int("core_objects", out.CoreCount),
	)

	// Expand
	t = time.Now()
	engine, err := expansion.New(reg,
		expansion.WithContext(ctx),
		expansion.WithSeed(out.Seed),
		expansion.WithOnEnqueue(func(int, int) { o.observer.ObserveEnqueue() }),
		expansion.WithOnCluster(func(c expansion.Cluster) {
			o.observer.ObserveCluster(c)
			o.log.Debug("Cluster formed",
				zap.Int("cluster_id", c.ID),
				zap.Int("seed", c.Seed),
				zap.Int("size", len(c.Members)),
			)
			o.onCluster(c)
		}),
	)
	if err != nil {
		return nil, o.fail(PhaseExpand, err)
	}
	clusters, err := engine.RunToCompletion()
	if err != nil {
		o.log.Warn("Expansion interrupted", zap.Int("clusters_completed", len(clusters)))
		return nil, o.fail(PhaseExpand, err)
	}
	o.observer.ObservePhase(PhaseExpand, time.Since(t))

	// Finalize
	t = time.Now()
	res, err := result.Finalize(store, clusters, engine.Marks())
	if err != nil {
		return nil, o.fail(PhaseFinalize, err)
	}
	o.observer.ObservePhase(PhaseFinalize, time.Since(t))

	out.Result = res
	out.Elapsed = time.Since(out.Started)
	o.observer.ObserveRun(res.Len(), out.CoreCount, res.NumClusters(), len(res.NoiseIDs()))
	o.log.Info("Clustering finished",
		zap.Int64("seed", out.Seed),
		zap.Int("clusters", res.NumClusters()),
		zap.Int("noise", len(res.NoiseIDs())),
		zap.Duration("elapsed", out.Elapsed),
	)
	return out, nil
}

// empty completes a run over zero points: no clusters and no noise.
func (o options) empty(store *points.Store, out *Outcome) (*Outcome, error) {
	res, err := result.Finalize(store, nil, []int{expansion.Unreached})
	if err != nil {
		return nil, o.fail(PhaseFinalize, err)
	}
	out.Result = res
	out.Elapsed = time.Since(out.Started)
	o.observer.ObserveRun(0, 0, 0, 0)
	o.log.Info("Clustering finished",
		zap.Int64("seed", out.Seed),
		zap.Int("clusters", 0),
		zap.Int("noise", 0),
		zap.Duration("elapsed", out.Elapsed),
	)
	return out, nil
}

func (o options) fail(phase string, err error) error {
	o.observer.ObserveFailure(phase)
	o.log.Error("Clustering failed", zap.String("phase", phase), zap.Error(err))
	return newPhaseError(phase, err)
}
