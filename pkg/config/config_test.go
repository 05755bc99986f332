package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/tokbench/pkg/bench/core"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "the", cfg.Target)
	assert.Nil(t, cfg.VariantList())
	assert.Equal(t, core.WaitAll, cfg.FailurePolicy())
	assert.Len(t, cfg.Sources, 3)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
target: cat
variants: [Cat, CAT]
workers: 2
policy: fail-fast
iterations: 5
strategies: [pipeline, sequential]
sources:
  - a.txt
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cat", cfg.Target)
	assert.Equal(t, []string{"Cat", "CAT"}, cfg.VariantList())
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, core.FailFast, cfg.FailurePolicy())
	assert.Equal(t, 5, cfg.Iterations)
	assert.Equal(t, []string{"pipeline", "sequential"}, cfg.Strategies)
	assert.Equal(t, []string{"a.txt"}, cfg.Sources)
	assert.Equal(t, 1, cfg.Producers)
	assert.Equal(t, "debug", cfg.Logger().Level)
	assert.Equal(t, "json", cfg.Logger().Format)
}

func TestLoad_EmptyVariantsDisablesDefault(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "variants: []\n"))
	require.NoError(t, err)
	assert.NotNil(t, cfg.VariantList())
	assert.Empty(t, cfg.VariantList())
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, "target: ''\niterations: 0\npolicy: retry\nstrategies: [magic]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target must not be empty")
	assert.Contains(t, err.Error(), "iterations must be >= 1")
	assert.Contains(t, err.Error(), "unknown failure policy")
	assert.Contains(t, err.Error(), `unknown strategy "magic"`)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_BadYAML(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, "target: [unclosed\n"))
	assert.ErrorContains(t, err, "parse")
}

func TestValidate_LogOutput(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Log.Output = "stdout"
	assert.ErrorContains(t, cfg.Validate(), `log output "stdout" is not one of stderr, file, both`)

	cfg.Log.Output = "file"
	assert.ErrorContains(t, cfg.Validate(), "needs log.file_path")

	cfg.Log.FilePath = filepath.Join(t.TempDir(), "bench.log")
	assert.NoError(t, cfg.Validate())

	cfg.Log.Output = "both"
	assert.NoError(t, cfg.Validate())
}
