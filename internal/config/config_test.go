package config

import (
	"os"
	"path/filepath"
	"testing"

	"promnamelint/internal/instrument"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
prefixes: [app_, platform_]
constructors:
  LabeledCounter: counter
  Timer: Histogram
exclude:
  - "**/migrations/**"
format: json
cache:
  path: .promnamelint.db
metrics_file: lint.prom
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"app_", "platform_"}, cfg.Prefixes)
	assert.Equal(t, []string{"**/migrations/**"}, cfg.Exclude)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, ".promnamelint.db", cfg.Cache.Path)
	assert.Equal(t, "lint.prom", cfg.MetricsFile)

	mapping, err := cfg.ConstructorMapping()
	require.NoError(t, err)
	assert.Same(t, instrument.Counter, mapping["LabeledCounter"])
	assert.Same(t, instrument.Histogram, mapping["Timer"])
	assert.Same(t, instrument.Gauge, mapping["Gauge"])
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PROMNAMELINT_PREFIXES", " svc_ , ,batch_")
	t.Setenv("PROMNAMELINT_FORMAT", "text")
	t.Setenv("PROMNAMELINT_CACHE", "/tmp/cache.db")

	cfg, err := LoadConfig(writeConfig(t, "prefixes: [app_]\nformat: json\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"svc_", "batch_"}, cfg.Prefixes)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, "/tmp/cache.db", cfg.Cache.Path)
}

func TestLoadConfigOrDefault(t *testing.T) {
	cfg, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, FormatText, cfg.Format)
	assert.ErrorIs(t, cfg.Validate(), ErrNoPrefixes)

	_, err = LoadConfigOrDefault(writeConfig(t, "prefixes: [unterminated\n"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	cfg.Prefixes = []string{"app_"}
	require.NoError(t, cfg.Validate())

	cfg.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg.Format = FormatText
	cfg.Constructors = map[string]string{"Timer": "stopwatch"}
	assert.Error(t, cfg.Validate())

	cfg.Constructors = nil
	cfg.ReplaceDefaultConstructors = true
	assert.Error(t, cfg.Validate(), "an empty mapping cannot match anything")
}

func TestConfig_ReplaceDefaults(t *testing.T) {
	cfg := Default()
	cfg.ReplaceDefaultConstructors = true
	cfg.Constructors = map[string]string{"metric_counter": "counter"}

	mapping, err := cfg.ConstructorMapping()
	require.NoError(t, err)
	assert.Len(t, mapping, 1)
	assert.NotContains(t, mapping, "Counter")
}

func TestConfig_Fingerprint(t *testing.T) {
	a := Default()
	a.Prefixes = []string{"app_"}
	a.Constructors = map[string]string{"A": "counter", "B": "gauge"}

	b := Default()
	b.Prefixes = []string{"app_"}
	b.Constructors = map[string]string{"B": "Gauge", "A": "Counter"}
	b.Format = FormatJSON
	b.Exclude = []string{"tests/**"}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "output settings do not affect results")

	b.Prefixes = []string{"app_", "svc_"}
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
