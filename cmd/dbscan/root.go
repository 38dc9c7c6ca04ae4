package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/katalvlaran/dbscan/config"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	logLevel   string
	logDev     bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "dbscan",
		Short: "Density-based clustering of 2-D point files",
		Long: `dbscan groups 2-D points into clusters of densely packed points and
reports points in sparse regions as noise.

Input files hold one "x y" record per line. Each cluster is written to
cluster_<id>.data and the noise points to noise.data.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configFile, "config", "c", "", "YAML config file")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&g.logDev, "log-dev", false, "human-readable development logging")

	root.AddCommand(
		newRunCmd(g),
		newWatchCmd(g),
		newGenerateCmd(),
		newVersionCmd(),
	)
	return root
}

// load resolves the configuration: defaults, file, environment, then the
// flags the user actually set.
func (g *globalFlags) load(fs *pflag.FlagSet, rf *runFlags) (config.Config, error) {
	cfg, err := config.Load(g.configFile)
	if err != nil {
		return cfg, err
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if fs.Changed("log-dev") {
		cfg.Log.Development = g.logDev
	}
	if rf != nil {
		rf.apply(fs, &cfg)
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return config.NewLogger(cfg.Log)
}
