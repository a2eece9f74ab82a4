// Package config provides the YAML configuration schema and loader for the
// ReadCoach analysis service.
package config

import (
	"time"

	"github.com/readcoach-ai/readcoach/internal/analysis"
)

// LogLevel controls log verbosity for the ReadCoach server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure. It is typically loaded from a
// YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server ServerConfig `yaml:"server"`
	Engine EngineConfig `yaml:"engine"`
}

// ServerConfig holds network and logging settings for the HTTP server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity. Empty means info.
	LogLevel LogLevel `yaml:"log_level"`
}

// EngineConfig holds the analysis engine tunables. Nil values mean "use the
// engine default"; [EngineConfig.Options] only emits options for fields that
// were explicitly set.
type EngineConfig struct {
	// FuzzyMatchThreshold is the maximum edit distance still counted as a
	// correct word. Default: 2.
	FuzzyMatchThreshold *int `yaml:"fuzzy_match_threshold"`

	// DefaultConfidence is assumed for words the ASR provider reported
	// without a confidence. Default: 0.9.
	DefaultConfidence *float64 `yaml:"default_confidence"`

	// PauseMultiplier scales the mean inter-word gap to obtain the
	// long-pause threshold. Default: 1.5.
	PauseMultiplier *float64 `yaml:"pause_multiplier"`

	// MinPauseMs is the floor of the long-pause threshold in milliseconds.
	// Default: 500.
	MinPauseMs *int `yaml:"min_pause_ms"`

	// FillerWords replaces the built-in filler-word set when non-empty.
	FillerWords []string `yaml:"filler_words"`
}

// Options translates the engine tunables into [analysis.Option] values,
// skipping every field that was not explicitly set so the engine defaults
// apply.
func (e EngineConfig) Options() []analysis.Option {
	var opts []analysis.Option
	if e.FuzzyMatchThreshold != nil {
		opts = append(opts, analysis.WithFuzzyThreshold(*e.FuzzyMatchThreshold))
	}
	if e.DefaultConfidence != nil {
		opts = append(opts, analysis.WithDefaultConfidence(*e.DefaultConfidence))
	}
	if e.PauseMultiplier != nil {
		opts = append(opts, analysis.WithPauseMultiplier(*e.PauseMultiplier))
	}
	if e.MinPauseMs != nil {
		opts = append(opts, analysis.WithMinPause(time.Duration(*e.MinPauseMs)*time.Millisecond))
	}
	if len(e.FillerWords) > 0 {
		opts = append(opts, analysis.WithFillerWords(e.FillerWords))
	}
	return opts
}
