package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"promnamelint/internal/checker"
	"promnamelint/internal/instrument"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = ".promnamelint.yaml"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrNoPrefixes is returned by Validate when no prefix is configured.
var ErrNoPrefixes = errors.New("at least one metric name prefix must be configured")

type Config struct {
	// Prefixes are the allowed metric name prefixes.
	Prefixes []string `yaml:"prefixes"`
	// Constructors maps extra call identifiers to metric types, e.g.
	// {"LabeledCounter": "counter"}.
	Constructors map[string]string `yaml:"constructors"`
	// ReplaceDefaultConstructors drops the built-in Counter, Gauge, ... mapping.
	ReplaceDefaultConstructors bool `yaml:"replace_default_constructors"`
	// Exclude holds doublestar patterns of paths not to check.
	Exclude []string `yaml:"exclude"`
	Format  string   `yaml:"format"`
	Cache   struct {
		Path string `yaml:"path"`
	} `yaml:"cache"`
	MetricsFile string `yaml:"metrics_file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{Format: FormatText}
}

// LoadConfig reads the YAML file at path and applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// 3. Override with Environment Variables if present
	cfg.applyEnv()
	return cfg, nil
}

// LoadConfigOrDefault behaves like LoadConfig but falls back to Default when
// the file does not exist.
func LoadConfigOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		cfg.applyEnv()
		return cfg, nil
	}
	return cfg, err
}

func (c *Config) applyEnv() {
	if prefixes := os.Getenv("PROMNAMELINT_PREFIXES"); prefixes != "" {
		c.Prefixes = splitList(prefixes)
	}
	if format := os.Getenv("PROMNAMELINT_FORMAT"); format != "" {
		c.Format = format
	}
	if cache := os.Getenv("PROMNAMELINT_CACHE"); cache != "" {
		c.Cache.Path = cache
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the settings the linter cannot run without.
func (c *Config) Validate() error {
	if len(c.Prefixes) == 0 {
		return ErrNoPrefixes
	}
	switch c.Format {
	case "", FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown output format %q", c.Format)
	}
	_, err := c.ConstructorMapping()
	return err
}

// ConstructorMapping builds the identifier to metric type mapping.
func (c *Config) ConstructorMapping() (checker.ConstructorMapping, error) {
	mapping := checker.ConstructorMapping{}
	if !c.ReplaceDefaultConstructors {
		mapping = checker.DefaultConstructors()
	}
	for ident, typeName := range c.Constructors {
		t, ok := instrument.Lookup(typeName)
		if !ok {
			return nil, fmt.Errorf("constructor %s: unknown metric type %q", ident, typeName)
		}
		mapping[ident] = t
	}
	if len(mapping) == 0 {
		return nil, errors.New("constructor mapping is empty")
	}
	return mapping, nil
}

// PrefixAllowList returns the configured prefixes in order.
func (c *Config) PrefixAllowList() checker.PrefixAllowList {
	return checker.PrefixAllowList(c.Prefixes)
}

// Fingerprint identifies the settings that influence check results, so cached
// results can be discarded when they change.
func (c *Config) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "prefixes=%q\n", c.Prefixes)
	fmt.Fprintf(h, "replace=%t\n", c.ReplaceDefaultConstructors)
	idents := make([]string, 0, len(c.Constructors))
	for ident := range c.Constructors {
		idents = append(idents, ident)
	}
	sort.Strings(idents)
	for _, ident := range idents {
		fmt.Fprintf(h, "constructor=%s:%s\n", ident, strings.ToLower(c.Constructors[ident]))
	}
	return hex.EncodeToString(h.Sum(nil))
}
