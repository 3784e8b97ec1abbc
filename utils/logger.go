package utils

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

type LogConfig struct {
	Level string
	JSON  bool
}

// NewLogger builds the root logger. Components take a Named child of it.
func NewLogger(name string, cfg LogConfig) hclog.Logger {
	level := hclog.LevelFromString(cfg.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      level,
		Output:     os.Stderr,
		JSONFormat: cfg.JSON,
	})
}
