// Package config assembles plugin settings from an optional YAML
// manifest and environment variables. Environment values override
// manifest values, which override the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	yaml "github.com/goccy/go-yaml"

	"github.com/omniflow/jsonplug/internal/document"
)

const (
	// DefaultMaxLine bounds an incoming message line, parser input
	// included. Bounding the input also bounds parser memory and
	// recursion pressure.
	DefaultMaxLine = 128 * 1024

	// DefaultHeartbeat is the interval between heartbeat log entries.
	DefaultHeartbeat = 5 * time.Second

	// DefaultMaxDepth is the parser nesting limit.
	DefaultMaxDepth = 200

	DefaultName    = "jsonplug"
	DefaultVersion = "1.0.0"
)

var (
	ErrInvalidValue = errors.New("invalid configuration value")
	ErrManifest     = errors.New("cannot load manifest")
)

// Config is the complete runtime configuration of a plugin process.
type Config struct {
	Name    string
	Version string

	// MaxLine is the maximum accepted request line in bytes.
	MaxLine int
	// Heartbeat is the background heartbeat interval; zero disables it.
	Heartbeat time.Duration
	// RateLimit is the maximum requests per second; zero disables
	// throttling.
	RateLimit float64
	// MaxDepth is the maximum JSON nesting depth accepted by the parser.
	MaxDepth int
	// NodeBudget caps live document nodes per request; zero means
	// unbounded.
	NodeBudget int
	// LogLevel selects the zap level for stderr logging.
	LogLevel string
}

// Manifest is the optional YAML descriptor a host may ship next to the
// plugin binary.
type Manifest struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Limits  struct {
		MaxLine          int     `yaml:"max_line"`
		HeartbeatSeconds int     `yaml:"heartbeat_seconds"`
		RateLimit        float64 `yaml:"rate_limit"`
		MaxDepth         int     `yaml:"max_depth"`
		NodeBudget       int     `yaml:"node_budget"`
	} `yaml:"limits"`
	LogLevel string `yaml:"log_level"`
}

// Load builds the configuration from the process environment. When
// JSONPLUG_MANIFEST names a file, its values are applied before the
// environment overrides.
func Load() (*Config, error) {
	cfg := &Config{
		Name:      DefaultName,
		Version:   DefaultVersion,
		MaxLine:   DefaultMaxLine,
		Heartbeat: DefaultHeartbeat,
		MaxDepth:  DefaultMaxDepth,
		LogLevel:  "info",
	}

	if path := os.Getenv("JSONPLUG_MANIFEST"); path != "" {
		m, err := LoadManifest(path)
		if err != nil {
			return nil, err
		}
		cfg.applyManifest(m)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadManifest reads and decodes a YAML manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifest, path, err)
	}
	return &m, nil
}

func (c *Config) applyManifest(m *Manifest) {
	if m.Name != "" {
		c.Name = m.Name
	}
	if m.Version != "" {
		c.Version = m.Version
	}
	if m.Limits.MaxLine > 0 {
		c.MaxLine = m.Limits.MaxLine
	}
	if m.Limits.HeartbeatSeconds > 0 {
		c.Heartbeat = time.Duration(m.Limits.HeartbeatSeconds) * time.Second
	}
	if m.Limits.RateLimit > 0 {
		c.RateLimit = m.Limits.RateLimit
	}
	if m.Limits.MaxDepth > 0 {
		c.MaxDepth = m.Limits.MaxDepth
	}
	if m.Limits.NodeBudget > 0 {
		c.NodeBudget = m.Limits.NodeBudget
	}
	if m.LogLevel != "" {
		c.LogLevel = m.LogLevel
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("JSONPLUG_MAX_LINE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: JSONPLUG_MAX_LINE=%q", ErrInvalidValue, v)
		}
		c.MaxLine = n
	}
	if v := os.Getenv("JSONPLUG_HEARTBEAT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: JSONPLUG_HEARTBEAT=%q", ErrInvalidValue, v)
		}
		c.Heartbeat = time.Duration(n) * time.Second
	}
	if v := os.Getenv("JSONPLUG_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: JSONPLUG_RATE_LIMIT=%q", ErrInvalidValue, v)
		}
		c.RateLimit = f
	}
	if v := os.Getenv("JSONPLUG_MAX_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: JSONPLUG_MAX_DEPTH=%q", ErrInvalidValue, v)
		}
		c.MaxDepth = n
	}
	if v := os.Getenv("JSONPLUG_NODE_BUDGET"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: JSONPLUG_NODE_BUDGET=%q", ErrInvalidValue, v)
		}
		c.NodeBudget = n
	}
	if v := os.Getenv("JSONPLUG_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// NewAllocator returns the per-request allocator implied by the
// configuration: budget-bounded when NodeBudget is set, plain heap
// otherwise.
func (c *Config) NewAllocator() document.Allocator {
	if c.NodeBudget > 0 {
		return document.NewBudgetAllocator(c.NodeBudget)
	}
	return document.HeapAllocator{}
}
