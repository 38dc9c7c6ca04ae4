package config

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a zap logger from l: the production preset by default,
// the development preset when l.Development is set.
func NewLogger(l Log) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: log level: %w", ErrInvalid, err)
	}

	zc := zap.NewProductionConfig()
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
