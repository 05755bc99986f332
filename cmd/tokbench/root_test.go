package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, bodies ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(bodies))
	for i, b := range bodies {
		paths[i] = filepath.Join(dir, "f"+string(rune('a'+i))+".txt")
		require.NoError(t, os.WriteFile(paths[i], []byte(b), 0o600))
	}
	return paths
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_RunsAllStrategies(t *testing.T) {
	paths := writeFiles(t, "The cat sat on the mat", "the the the", "")

	out, err := execute(t, append([]string{"--log-level", "error"}, paths...)...)
	require.NoError(t, err)

	for _, header := range []string{"Sequential:", "Task Parallelism:", "Pipeline Parallelism:"} {
		assert.Contains(t, out, header+"\nThe word 'the' occurs 2 times in file 0.\n"+
			"The word 'the' occurs 3 times in file 1.\n"+
			"The word 'the' occurs 0 times in file 2.\nElapsed time: ")
	}
	assert.Equal(t, 3, strings.Count(out, "Elapsed time: "))
}

func TestRoot_FlagsSelectStrategiesAndTarget(t *testing.T) {
	paths := writeFiles(t, "cat Cat CAT", "dog")

	out, err := execute(t, append([]string{"-t", "cat", "--variants", "", "--ignore-case",
		"-s", "pipeline", "-n", "3", "--producers", "2", "--log-level", "error"}, paths...)...)
	require.NoError(t, err)
	assert.NotContains(t, out, "Sequential:")
	assert.Contains(t, out, "Pipeline Parallelism:\nThe word 'cat' occurs 3 times in file 0.\n"+
		"The word 'cat' occurs 0 times in file 1.\n")
	assert.Contains(t, out, "Latency: runs=3 ")
}

func TestRoot_FailureIsReportedAndReturned(t *testing.T) {
	paths := writeFiles(t, "the")
	missing := filepath.Join(t.TempDir(), "missing.txt")

	out, err := execute(t, "--log-level", "error", "-s", "sequential,parallel", paths[0], missing)
	require.Error(t, err)
	assert.Equal(t, 2, strings.Count(out, "Error: "))
	assert.Contains(t, out, "source unreadable")

	var stderr bytes.Buffer
	reportErrors(&stderr, err)
	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Error: Sequential: "))
	assert.True(t, strings.HasPrefix(lines[1], "Error: Task Parallelism: "))
}

func TestReportErrors_SingleError(t *testing.T) {
	var buf bytes.Buffer
	reportErrors(&buf, errors.New("bad flag"))
	assert.Equal(t, "Error: bad flag\n", buf.String())
}

func TestRoot_ConfigFile(t *testing.T) {
	paths := writeFiles(t, "the The")
	cfgPath := filepath.Join(t.TempDir(), "bench.yaml")
	body := "target: the\nstrategies: [sequential]\nlog:\n  level: error\nsources:\n  - " + paths[0] + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))

	out, err := execute(t, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Sequential:\nThe word 'the' occurs 2 times in file 0.\n")
	assert.NotContains(t, out, "Task Parallelism:")
}

func TestRoot_InvalidFlags(t *testing.T) {
	_, err := execute(t, "--policy", "retry", "x.txt")
	assert.ErrorContains(t, err, "unknown failure policy")

	_, err = execute(t, "-s", "magic", "x.txt")
	assert.ErrorContains(t, err, `unknown strategy "magic"`)
}
