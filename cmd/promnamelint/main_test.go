package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	t.Cleanup(func() {
		prefixFlags, formatFlag, cacheFlag = nil, "", ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	project := filepath.Join("..", "..", "internal", "lint", "testdata", "project")

	out, err := execute(t, "check", "--prefix", "app_", project)
	assert.ErrorIs(t, err, errViolations)
	assert.Contains(t, out, `metrics.py:4:10: PMN001 metric name "legacy_requests_total"`)
	assert.Contains(t, out, `metrics.py:8:11: PMN001 metric name "latency_seconds"`)

	out, err = execute(t, "check", "--prefix", "app_", "--prefix", "legacy_", "--prefix", "latency_", "--format", "json", project)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestCheckCommand_NoPrefixes(t *testing.T) {
	_, err := execute(t, "check", ".")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errViolations)
}

func TestExplainCommand(t *testing.T) {
	out, err := execute(t, "explain", "--prefix", "app_", `prometheus_client.Counter("other_requests_total", "help")`)
	require.NoError(t, err)
	assert.Contains(t, out, "outcome:     violation")
	assert.Contains(t, out, "name:        other_requests_total")

	out, err = execute(t, "explain", "--prefix", "app_", `Counter(name, "help")`)
	require.NoError(t, err)
	assert.Contains(t, out, "outcome:     rejected")
}

func TestConstructorsCommand(t *testing.T) {
	out, err := execute(t, "constructors", "--prefix", "app_")
	require.NoError(t, err)
	assert.Contains(t, out, "Enum")
	assert.Contains(t, out, "stateset")
}
