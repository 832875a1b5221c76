// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package config reads the configuration of the bddtool command from a YAML
// file and turns it into options for bdd.New.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/hwre/bdd"
)

// Config holds the configuration of bddtool.
type Config struct {
	Kernel  KernelConfig  `yaml:"kernel"`
	Reorder ReorderConfig `yaml:"reorder"`
	Logging LoggingConfig `yaml:"logging"`

	// Workers is the maximal number of kernels running at the same time.
	Workers int `yaml:"workers"`
}

// KernelConfig gives the sizes of the node table and of the caches. A zero
// value keeps the default of the kernel.
type KernelConfig struct {
	Nodesize        int `yaml:"nodesize"`
	Maxnodesize     int `yaml:"maxnodesize"`
	Maxnodeincrease int `yaml:"maxnodeincrease"`
	Minfreenodes    int `yaml:"minfreenodes"` // percent
	Cachesize       int `yaml:"cachesize"`
	Cacheratio      int `yaml:"cacheratio"` // percent
}

// ReorderConfig selects the reordering heuristic applied after building a
// model.
type ReorderConfig struct {
	Method string `yaml:"method"` // none, win2, win2ite, sift, siftite, random
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Kernel: KernelConfig{
			Nodesize:  10000,
			Cachesize: 10000,
		},
		Reorder: ReorderConfig{Method: "none"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Workers: 4,
	}
}

// Load reads the configuration from a YAML file. Missing fields keep their
// default value, and we return the default configuration if the file does not
// exist. Environment variables BDDTOOL_LOG_LEVEL, BDDTOOL_REORDER and
// BDDTOOL_WORKERS take precedence over the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("BDDTOOL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("BDDTOOL_REORDER"); v != "" {
		c.Reorder.Method = v
	}
	if v := os.Getenv("BDDTOOL_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("bad value for BDDTOOL_WORKERS: %w", err)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks the consistency of the configuration.
func (c *Config) Validate() error {
	k := c.Kernel
	for name, v := range map[string]int{
		"nodesize":        k.Nodesize,
		"maxnodesize":     k.Maxnodesize,
		"maxnodeincrease": k.Maxnodeincrease,
		"cachesize":       k.Cachesize,
	} {
		if v < 0 {
			return fmt.Errorf("kernel.%s cannot be negative (%d)", name, v)
		}
	}
	if k.Minfreenodes < 0 || k.Minfreenodes > 100 {
		return fmt.Errorf("kernel.minfreenodes must be a percentage (%d)", k.Minfreenodes)
	}
	if k.Cacheratio < 0 {
		return fmt.Errorf("kernel.cacheratio cannot be negative (%d)", k.Cacheratio)
	}
	if k.Maxnodesize > 0 && k.Nodesize > k.Maxnodesize {
		return fmt.Errorf("kernel.nodesize (%d) is larger than kernel.maxnodesize (%d)", k.Nodesize, k.Maxnodesize)
	}
	if _, err := c.ReorderMethod(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive (%d)", c.Workers)
	}
	return nil
}

// ReorderMethod returns the reordering heuristic selected in the
// configuration.
func (c *Config) ReorderMethod() (bdd.ReorderMethod, error) {
	if c.Reorder.Method == "" {
		return bdd.ReorderNone, nil
	}
	return bdd.ParseReorderMethod(c.Reorder.Method)
}

// LogLevel returns the zap level selected in the configuration.
func (c *Config) LogLevel() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.Logging.Level)
}

// Options returns the options for bdd.New matching the kernel configuration.
// The logger is attached to the kernel when it is not nil.
func (c *Config) Options(logger *zap.Logger) []bdd.Option {
	k := c.Kernel
	var options []bdd.Option
	if k.Nodesize > 0 {
		options = append(options, bdd.Nodesize(k.Nodesize))
	}
	if k.Maxnodesize > 0 {
		options = append(options, bdd.Maxnodesize(k.Maxnodesize))
	}
	if k.Maxnodeincrease > 0 {
		options = append(options, bdd.Maxnodeincrease(k.Maxnodeincrease))
	}
	if k.Minfreenodes > 0 {
		options = append(options, bdd.Minfreenodes(k.Minfreenodes))
	}
	if k.Cachesize > 0 {
		options = append(options, bdd.Cachesize(k.Cachesize))
	}
	if k.Cacheratio > 0 {
		options = append(options, bdd.Cacheratio(k.Cacheratio))
	}
	if logger != nil {
		options = append(options, bdd.Logger(logger))
	}
	return options
}

// NewLogger builds the zap logger described in the logging section.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := c.LogLevel()
	if err != nil {
		return nil, err
	}
	var zc zap.Config
	if c.Logging.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
