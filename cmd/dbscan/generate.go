package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/dbscan/points"
	"github.com/katalvlaran/dbscan/synth"
)

type generateFlags struct {
	kind   string
	n      int
	k      int
	sigma  float64
	radius float64
	width  float64
	height float64
	seed   int64
	out    string
}

func newGenerateCmd() *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic point file",
		Long: `generate writes "x y" records for one of the synthetic layouts:

  blobs    k Gaussian blobs of n points each
  ring     n points on a circle with Gaussian jitter
  uniform  n points uniformly spread over width x height`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := f.generator()
			if err != nil {
				return err
			}
			seed := f.seed
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			pts, err := synth.Generate(gen, synth.WithSeed(seed))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if f.out != "" && f.out != "-" {
				file, err := os.Create(f.out)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			return writeRecords(w, pts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.kind, "kind", "blobs", "layout: blobs, ring or uniform")
	fs.IntVarP(&f.n, "points", "n", 100, "points (per blob for blobs)")
	fs.IntVar(&f.k, "k", 3, "number of blobs")
	fs.Float64Var(&f.sigma, "sigma", 1, "blob standard deviation or ring jitter")
	fs.Float64Var(&f.radius, "radius", 10, "ring radius")
	fs.Float64Var(&f.width, "width", 100, "uniform area width")
	fs.Float64Var(&f.height, "height", 100, "uniform area height")
	fs.Int64Var(&f.seed, "seed", 0, "random seed (default: clock)")
	fs.StringVarP(&f.out, "output", "o", "", "output file, stdout when empty")
	return cmd
}

func (f *generateFlags) generator() (synth.Generator, error) {
	switch f.kind {
	case "blobs":
		return synth.Blobs(f.k, f.n, f.sigma), nil
	case "ring":
		return synth.Ring(f.n, f.radius, f.sigma), nil
	case "uniform":
		return synth.Uniform(f.n, f.width, f.height), nil
	default:
		return nil, fmt.Errorf("unknown kind %q", f.kind)
	}
}

func writeRecords(w io.Writer, pts []points.Point) error {
	bw := bufio.NewWriter(w)
	for _, p := range pts {
		if _, err := fmt.Fprintf(bw, "%f\t%f\n", p.X, p.Y); err != nil {
			return err
		}
	}
	return bw.Flush()
}
