package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultListenAddr is used when server.listen_addr is not set.
const DefaultListenAddr = ":8080"

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	e := cfg.Engine
	if e.FuzzyMatchThreshold != nil && *e.FuzzyMatchThreshold < 0 {
		errs = append(errs, fmt.Errorf("engine.fuzzy_match_threshold %d is negative", *e.FuzzyMatchThreshold))
	}
	if e.DefaultConfidence != nil && (*e.DefaultConfidence < 0 || *e.DefaultConfidence > 1) {
		errs = append(errs, fmt.Errorf("engine.default_confidence %.2f is out of range [0, 1]", *e.DefaultConfidence))
	}
	if e.PauseMultiplier != nil && *e.PauseMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("engine.pause_multiplier %.2f must be positive", *e.PauseMultiplier))
	}
	if e.MinPauseMs != nil && *e.MinPauseMs < 0 {
		errs = append(errs, fmt.Errorf("engine.min_pause_ms %d is negative", *e.MinPauseMs))
	}
	for i, w := range e.FillerWords {
		if w == "" {
			errs = append(errs, fmt.Errorf("engine.filler_words[%d] is empty", i))
		}
	}

	return errors.Join(errs...)
}

// applyDefaults fills fields that have a server-level default. Engine
// tunables keep their nil-means-default semantics and are not touched here.
func applyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
}
