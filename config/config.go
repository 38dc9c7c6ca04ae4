// Package config loads run configuration for the dbscan command.
//
// Sources, lowest priority first: built-in defaults, an optional YAML file,
// then DBSCAN_* environment variables. Command-line flags are applied by the
// caller on top of the result, after which Validate must be called.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for unreadable or inconsistent configuration.
var ErrInvalid = errors.New("config: invalid configuration")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DBSCAN_"

// Config is the full run configuration.
type Config struct {
	Input      string  `yaml:"input"`
	Count      int     `yaml:"count" validate:"gte=-1"`
	Eps        float64 `yaml:"eps" validate:"gt=0"`
	MinPts     int     `yaml:"min_pts" validate:"gte=1"`
	Seed       *int64  `yaml:"seed"`
	Workers    int     `yaml:"workers" validate:"gte=0"`
	Strategy   string  `yaml:"strategy" validate:"oneof=exhaustive grid"`
	MaxEntries int     `yaml:"max_entries" validate:"gte=0"`

	Output  Output  `yaml:"output"`
	Metrics Metrics `yaml:"metrics"`
	Log     Log     `yaml:"log"`
}

// Output selects the result sinks. Empty fields disable a sink.
type Output struct {
	Dir    string `yaml:"dir"`
	SQLite string `yaml:"sqlite"`
}

// Metrics configures the Prometheus textfile export.
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when nothing else is given. Eps has
// no default and must be supplied.
func Default() Config {
	return Config{
		Count:    -1,
		MinPts:   4,
		Strategy: "exhaustive",
		Output:   Output{Dir: "."},
		Log:      Log{Level: "info"},
	}
}

// Load reads defaults, the YAML file at path (skipped when path is empty)
// and environment overrides. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		defer f.Close()
		if err = decode(f, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// decode strictly unmarshals YAML into cfg; unknown keys are rejected and an
// empty document leaves cfg unchanged.
func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnv overlays DBSCAN_* variables found by lookup.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	var errs []error
	num := func(key string, dst *int) {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			return
		}
		*dst = n
	}

	str("INPUT", &cfg.Input)
	num("COUNT", &cfg.Count)
	num("MIN_PTS", &cfg.MinPts)
	num("WORKERS", &cfg.Workers)
	num("MAX_ENTRIES", &cfg.MaxEntries)
	str("STRATEGY", &cfg.Strategy)
	str("OUTPUT_DIR", &cfg.Output.Dir)
	str("OUTPUT_SQLITE", &cfg.Output.SQLite)
	str("METRICS_TEXTFILE", &cfg.Metrics.Textfile)
	str("LOG_LEVEL", &cfg.Log.Level)

	if v, ok := lookup(EnvPrefix + "EPS"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sEPS: %w", EnvPrefix, err))
		} else {
			cfg.Eps = f
		}
	}
	if v, ok := lookup(EnvPrefix + "SEED"); ok {
		s, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSEED: %w", EnvPrefix, err))
		} else {
			cfg.Seed = &s
		}
	}
	if v, ok := lookup(EnvPrefix + "LOG_DEVELOPMENT"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sLOG_DEVELOPMENT: %w", EnvPrefix, err))
		} else {
			cfg.Log.Development = b
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints. Input may be empty here; commands that
// need a file check for it themselves.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
