// Package config loads benchmark settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ib-77/tokbench/pkg/bench/core"
	"github.com/ib-77/tokbench/pkg/logger"
)

const (
	StrategySequential = "sequential"
	StrategyParallel   = "parallel"
	StrategyPipeline   = "pipeline"
)

// Config is the full benchmark configuration.
type Config struct {
	Target     string    `yaml:"target"`
	Variants   *[]string `yaml:"variants"`
	IgnoreCase bool      `yaml:"ignore_case"`
	Sources    []string  `yaml:"sources"`
	Workers    int       `yaml:"workers"`
	Buffer     int       `yaml:"buffer"`
	Producers  int       `yaml:"producers"`
	Policy     string    `yaml:"policy"` // wait-all, fail-fast
	Iterations int       `yaml:"iterations"`
	Strategies []string  `yaml:"strategies"`
	Log        LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level      string `yaml:"level"`  // debug, info, warn, error
	Format     string `yaml:"format"` // json, console
	Output     string `yaml:"output"` // stderr, file, both
	FilePath   string `yaml:"file_path"`
	MaxSize    int    `yaml:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // days
}

// Default is the stock benchmark: three text files scanned for
// "the" (and "The") by all three strategies once.
func Default() Config {
	return Config{
		Target:     "the",
		Sources:    []string{"yellowwallpaper.txt", "prayer.txt", "prophet.txt"},
		Workers:    runtime.NumCPU(),
		Buffer:     0,
		Producers:  1,
		Policy:     core.WaitAll.String(),
		Iterations: 1,
		Strategies: []string{StrategySequential, StrategyParallel, StrategyPipeline},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
			Output: "stderr",
		},
	}
}

// Load reads path on top of Default. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Target) == "" {
		errs = append(errs, errors.New("target must not be empty"))
	}
	if strings.ContainsFunc(c.Target, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }) {
		errs = append(errs, fmt.Errorf("target %q must be a single token", c.Target))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if c.Buffer < 0 {
		errs = append(errs, fmt.Errorf("buffer must be >= 0, got %d", c.Buffer))
	}
	if c.Producers < 0 {
		errs = append(errs, fmt.Errorf("producers must be >= 0, got %d", c.Producers))
	}
	if c.Iterations < 1 {
		errs = append(errs, fmt.Errorf("iterations must be >= 1, got %d", c.Iterations))
	}
	if _, err := core.ParseFailurePolicy(c.Policy); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Output {
	case "", "stderr":
	case "file", "both":
		if c.Log.FilePath == "" {
			errs = append(errs, fmt.Errorf("log output %q needs log.file_path", c.Log.Output))
		}
	default:
		errs = append(errs, fmt.Errorf("log output %q is not one of stderr, file, both", c.Log.Output))
	}
	if len(c.Strategies) == 0 {
		errs = append(errs, errors.New("at least one strategy is required"))
	}
	for _, s := range c.Strategies {
		switch s {
		case StrategySequential, StrategyParallel, StrategyPipeline:
		default:
			errs = append(errs, fmt.Errorf("unknown strategy %q", s))
		}
	}
	return errors.Join(errs...)
}

// FailurePolicy returns the parsed policy; Validate reports parse errors.
func (c Config) FailurePolicy() core.FailurePolicy {
	p, _ := core.ParseFailurePolicy(c.Policy)
	return p
}

// VariantList returns the configured variants, or nil when the key was
// absent so the matcher falls back to its default.
func (c Config) VariantList() []string {
	if c.Variants == nil {
		return nil
	}
	return append([]string{}, (*c.Variants)...)
}

func (c Config) Logger() *logger.Config {
	return &logger.Config{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		Output:     c.Log.Output,
		FilePath:   c.Log.FilePath,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
	}
}
