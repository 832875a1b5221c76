// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/hwre/bdd"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	m, err := cfg.ReorderMethod()
	require.NoError(t, err)
	assert.Equal(t, bdd.ReorderNone, m)
	assert.Equal(t, 4, cfg.Workers)
	assert.Len(t, cfg.Options(nil), 2)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bddtool.yaml")
	data := `
kernel:
  nodesize: 5000
  maxnodesize: 100000
  cacheratio: 25
reorder:
  method: sift
logging:
  level: debug
  format: json
workers: 2
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Kernel.Nodesize)
	assert.Equal(t, 100000, cfg.Kernel.Maxnodesize)
	// fields absent from the file keep their default value
	assert.Equal(t, 10000, cfg.Kernel.Cachesize)
	assert.Equal(t, 2, cfg.Workers)
	m, err := cfg.ReorderMethod()
	require.NoError(t, err)
	assert.Equal(t, bdd.ReorderSift, m)
	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	k, err := bdd.New(4, cfg.Options(logger)...)
	require.NoError(t, err)
	defer k.Done()
	assert.GreaterOrEqual(t, k.Stats().Nodes, 5000)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "bddtool.yaml")
	cfg := DefaultConfig()
	cfg.Reorder.Method = "win2ite"
	cfg.Kernel.Minfreenodes = 30
	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BDDTOOL_LOG_LEVEL", "warn")
	t.Setenv("BDDTOOL_REORDER", "random")
	t.Setenv("BDDTOOL_WORKERS", "8")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "random", cfg.Reorder.Method)
	assert.Equal(t, 8, cfg.Workers)

	t.Setenv("BDDTOOL_WORKERS", "many")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative nodesize", func(c *Config) { c.Kernel.Nodesize = -1 }},
		{"bad percentage", func(c *Config) { c.Kernel.Minfreenodes = 120 }},
		{"nodesize above max", func(c *Config) { c.Kernel.Maxnodesize = 100 }},
		{"unknown method", func(c *Config) { c.Reorder.Method = "shuffle" }},
		{"unknown level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"unknown format", func(c *Config) { c.Logging.Format = "xml" }},
		{"no worker", func(c *Config) { c.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	cfg := DefaultConfig()
	cfg.Reorder.Method = "shuffle"
	_, err := cfg.ReorderMethod()
	assert.ErrorIs(t, err, bdd.ErrRange)
}
