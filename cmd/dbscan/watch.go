package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/dbscan/watch"
)

func newWatchCmd(g *globalFlags) *cobra.Command {
	rf := &runFlags{}
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [input]",
		Short: "Cluster a point file and re-cluster whenever it changes",
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

			// A bad first file keeps the watcher alive until it is fixed.
			if err := j.run(cmd.Context()); err != nil {
				log.Error("Initial run failed", zap.Error(err))
			}

			w, err := watch.New(func(ctx context.Context, path string) error {
				log.Info("Input changed, re-clustering", zap.String("path", path))
				return j.run(ctx)
			}, watch.WithDebounce(debounce), watch.WithLogger(log))
			if err != nil {
				return err
			}
			return w.Run(cmd.Context(), cfg.Input)
		},
	}
	rf.register(cmd.Flags())
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-clustering")
	return cmd
}
