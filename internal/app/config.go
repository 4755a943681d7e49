package app

import (
	"errors"
	"fmt"

	"github.com/vk/themeforge/internal/config"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProjectPath string // project file or the directory holding it
	Mode        config.Mode

	LogFormat   string
	LogLevel    string
	WorkerCount int
	Port        int // dev server port
}

// NewConfig validates a configuration and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectPath == "" {
		return nil, errors.New("ProjectPath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("worker count must be at least 1, got %d", cfg.WorkerCount)
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port %d is out of range", cfg.Port)
	}
	return &cfg, nil
}
