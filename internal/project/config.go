package project

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"eir/internal/lower"
	"eir/internal/trace"
)

// ErrInvalidConfig wraps every validation failure reported by Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// CompileConfig is the [compile] section.
type CompileConfig struct {
	// Jobs bounds concurrent function lowering. Zero means GOMAXPROCS.
	Jobs           int      `toml:"jobs"`
	Passes         []string `toml:"passes"`
	Incomplete     string   `toml:"incomplete"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
}

// TraceConfig is the [trace] section.
type TraceConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

// Config is the decoded eir.toml. Path is empty when no manifest was found.
type Config struct {
	Path    string        `toml:"-"`
	Compile CompileConfig `toml:"compile"`
	Trace   TraceConfig   `toml:"trace"`
}

// Default returns the configuration used when eir.toml is absent or leaves
// a key unset.
func Default() Config {
	return Config{
		Compile: CompileConfig{
			Passes:         []string{"validate", "propagate-constants"},
			Incomplete:     "reject",
			MaxDiagnostics: 100,
		},
		Trace: TraceConfig{
			Level:  "off",
			Format: "text",
			Mode:   "stream",
			Output: "-",
		},
	}
}

// Load decodes path over Default and validates the result. Keys the
// decoder does not know are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalidConfig, strings.Join(keys, ", "))
	}
	if meta.IsDefined("compile", "passes") && cfg.Compile.Passes == nil {
		cfg.Compile.Passes = []string{}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds eir.toml above startDir and loads it. Without a manifest
// it returns Default.
func Discover(startDir string) (Config, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges and enum spellings. Pass names are checked
// by the driver, which owns the pass registry.
func (c *Config) Validate() error {
	var errs []error
	if c.Compile.Jobs < 0 {
		errs = append(errs, fmt.Errorf("compile.jobs must be >= 0, got %d", c.Compile.Jobs))
	}
	if c.Compile.MaxDiagnostics < 0 {
		errs = append(errs, fmt.Errorf("compile.max_diagnostics must be >= 0, got %d", c.Compile.MaxDiagnostics))
	}
	if _, err := lower.ParseIncompletePolicy(c.Compile.Incomplete); err != nil {
		errs = append(errs, fmt.Errorf("compile.incomplete: %w", err))
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		errs = append(errs, fmt.Errorf("trace.level: %w", err))
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		errs = append(errs, fmt.Errorf("trace.format: %w", err))
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		errs = append(errs, fmt.Errorf("trace.mode: %w", err))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// LowerOptions converts the [compile] section into lowering options.
func (c *Config) LowerOptions() lower.Options {
	policy, _ := lower.ParseIncompletePolicy(c.Compile.Incomplete)
	return lower.Options{Incomplete: policy}
}

// TracerConfig converts the [trace] section into a tracer configuration.
func (c *Config) TracerConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(c.Trace.Format)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{Level: level, Format: format, Mode: mode, OutputPath: c.Trace.Output}, nil
}
