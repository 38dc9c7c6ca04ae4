package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/katalvlaran/dbscan"
	"github.com/katalvlaran/dbscan/config"
	"github.com/katalvlaran/dbscan/metrics"
	"github.com/katalvlaran/dbscan/neighborhood"
	"github.com/katalvlaran/dbscan/sink"
)

var (
	errNoInput    = errors.New("no input file: pass it as an argument, --input or in the config file")
	errInputTwice = errors.New("input given both as an argument and with --input")
)

// inputArg moves a positional input argument into the --input flag.
func inputArg(fs *pflag.FlagSet, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if fs.Changed("input") {
		return errInputTwice
	}
	return fs.Set("input", args[0])
}

// runFlags mirror the clustering fields of config.Config.
type runFlags struct {
	input         string
	count         int
	eps           float64
	minPts        int
	seed          int64
	workers       int
	strategy      string
	maxEntries    int
	outputDir     string
	sqlite        string
	textfile      string
	dumpNeighbors bool
}

func (f *runFlags) register(fs *pflag.FlagSet) {
	d := config.Default()
	fs.StringVarP(&f.input, "input", "i", "", "input file of \"x y\" records")
	fs.IntVarP(&f.count, "count", "n", d.Count, "declared number of records, -1 accepts any")
	fs.Float64VarP(&f.eps, "eps", "e", d.Eps, "neighborhood radius")
	fs.IntVarP(&f.minPts, "min-pts", "m", d.MinPts, "minimum points in a dense neighborhood, including the point")
	fs.Int64Var(&f.seed, "seed", 0, "seed for seed selection (default: clock)")
	fs.IntVar(&f.workers, "workers", d.Workers, "goroutines computing neighbor lists")
	fs.StringVar(&f.strategy, "strategy", d.Strategy, "neighbor search: exhaustive or grid")
	fs.IntVar(&f.maxEntries, "max-entries", d.MaxEntries, "cap on total neighbor entries, 0 for none")
	fs.StringVarP(&f.outputDir, "output-dir", "o", d.Output.Dir, "directory for cluster files, empty to disable")
	fs.StringVar(&f.sqlite, "sqlite", d.Output.SQLite, "SQLite run store path")
	fs.StringVar(&f.textfile, "metrics-textfile", d.Metrics.Textfile, "Prometheus textfile output path")
	fs.BoolVar(&f.dumpNeighbors, "dump-neighbors", false, "print every neighbor list to stdout")
}

func (f *runFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("input") {
		cfg.Input = f.input
	}
	if fs.Changed("count") {
		cfg.Count = f.count
	}
	if fs.Changed("eps") {
		cfg.Eps = f.eps
	}
	if fs.Changed("min-pts") {
		cfg.MinPts = f.minPts
	}
	if fs.Changed("seed") {
		seed := f.seed
		cfg.Seed = &seed
	}
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fs.Changed("strategy") {
		cfg.Strategy = f.strategy
	}
	if fs.Changed("max-entries") {
		cfg.MaxEntries = f.maxEntries
	}
	if fs.Changed("output-dir") {
		cfg.Output.Dir = f.outputDir
	}
	if fs.Changed("sqlite") {
		cfg.Output.SQLite = f.sqlite
	}
	if fs.Changed("metrics-textfile") {
		cfg.Metrics.Textfile = f.textfile
	}
}

func newRunCmd(g *globalFlags) *cobra.Command {
	rf := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [input]",
		Short: "Cluster a point file once",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := inputArg(cmd.Flags(), args); err != nil {
				return err
			}
			cfg, err := g.load(cmd.Flags(), rf)
			if err != nil {
				return err
			}
			if cfg.Input == "" {
				return errNoInput
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			j, err := newJob(cfg, log, cmd.OutOrStdout(), rf.dumpNeighbors)
			if err != nil {
				return err
			}
			defer j.close()
			return j.run(cmd.Context())
		},
	}
	rf.register(cmd.Flags())
	return cmd
}

// job clusters cfg.Input and publishes the outcome to the configured sinks.
// One job serves every run of a watch session.
type job struct {
	cfg     config.Config
	log     *zap.Logger
	out     io.Writer
	dump    bool
	opts    []dbscan.Option
	sinks   sink.Multi
	store   *sink.SQLite
	metrics *metrics.Collector
}

func newJob(cfg config.Config, log *zap.Logger, out io.Writer, dump bool) (*job, error) {
	strategy, err := neighborhood.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	j := &job{cfg: cfg, log: log, out: out, dump: dump, metrics: metrics.NewCollector()}
	j.opts = []dbscan.Option{
		dbscan.WithLogger(log),
		dbscan.WithObserver(j.metrics),
		dbscan.WithWorkers(cfg.Workers),
		dbscan.WithStrategy(strategy),
		dbscan.WithMaxEntries(cfg.MaxEntries),
	}
	if cfg.Seed != nil {
		j.opts = append(j.opts, dbscan.WithSeed(*cfg.Seed))
	}

	if cfg.Output.Dir != "" {
		j.sinks = append(j.sinks, sink.Files{Dir: cfg.Output.Dir})
	}
	if cfg.Output.SQLite != "" {
		j.store, err = sink.OpenSQLite(cfg.Output.SQLite)
		if err != nil {
			return nil, err
		}
		j.sinks = append(j.sinks, j.store)
		log.Debug("Run store opened", zap.String("path", j.store.Path()))
	}
	return j, nil
}

func (j *job) run(ctx context.Context) error {
	params := dbscan.Params{Eps: j.cfg.Eps, MinPts: j.cfg.MinPts, Count: j.cfg.Count}
	out, err := dbscan.RunFile(ctx, j.cfg.Input, params, j.opts...)
	if err == nil {
		err = j.publish(ctx, out)
	}
	if j.cfg.Metrics.Textfile != "" {
		if merr := j.metrics.WriteTextfile(j.cfg.Metrics.Textfile); merr != nil {
			j.log.Warn("Writing metrics textfile failed", zap.Error(merr))
		}
	}
	return err
}

func (j *job) publish(ctx context.Context, out *dbscan.Outcome) error {
	if j.dump {
		if err := out.Sets.Format(j.out); err != nil {
			return err
		}
	}
	if err := j.sinks.Write(ctx, out.Record(j.cfg.Input)); err != nil {
		return err
	}

	res := out.Result
	fmt.Fprintf(j.out, "points: %d\nclusters: %d\nnoise: %d\n",
		res.Len(), res.NumClusters(), len(res.NoiseIDs()))
	for _, c := range res.Centroids() {
		fmt.Fprintf(j.out, "cluster %d: size %d centroid (%f, %f)\n", c.ClusterID, c.Size, c.X, c.Y)
	}
	return nil
}

func (j *job) close() {
	if j.store != nil {
		if err := j.store.Close(); err != nil {
			j.log.Warn("Closing run store failed", zap.Error(err))
		}
	}
}
