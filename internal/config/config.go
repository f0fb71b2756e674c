// Package config loads the application's YAML configuration (spec §6),
// mirroring the teacher's internal/config singleton pattern
// (Initialize/GetString/GetBool) built on spf13/viper.
//
// File discovery/precedence/merging mechanics are out of scope per
// spec.md §1: this loader reads exactly one file (COMMITJOURNAL_CONFIG, or
// a discovered .commitjournal/config.yaml) and otherwise runs on defaults
// plus environment overrides, the same shape the teacher uses for its own
// config surface.
package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "COMMITJOURNAL"

var (
	once sync.Once
	v    *viper.Viper
)

// Initialize sets up the process-global viper instance with defaults, env
// binding, and (if present) a single config file. Safe to call more than
// once; only the first call takes effect.
func Initialize() error {
	var err error
	once.Do(func() {
		v = viper.New()
		setDefaults(v)
		v.SetEnvPrefix(envPrefix)
		v.AutomaticEnv()

		path := configFilePath()
		if path != "" {
			v.SetConfigFile(path)
			if readErr := v.ReadInConfig(); readErr != nil {
				if !os.IsNotExist(readErr) {
					err = readErr
				}
			}
		}
	})
	return err
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("journal.root", "journal/")
	v.SetDefault("ai.provider", "anthropic")
	v.SetDefault("ai.model", "claude-3-5-haiku-20241022")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.debug", false)
	v.SetDefault("telemetry.service_name", "commitjournal")
	v.SetDefault("chat.max_messages", 200)
	v.SetDefault("boundary.min_confidence", 8)
	v.SetDefault("boundary.ambiguous_below", 5)
	v.SetDefault("generator.soft_timeout", 5*time.Second)
	v.SetDefault("generator.hard_timeout", 30*time.Second)
	v.SetDefault("orchestration.total_budget", 90*time.Second)
	v.SetDefault("chatdb.query_timeout", 5*time.Second)
	v.SetDefault("chatdb.discovery_timeout", 5*time.Second)
	v.SetDefault("chatdb.summary_mode_threshold", 100)
	v.SetDefault("chatdb.summary_mode_sample_pct", 0.20)
}

func configFilePath() string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	if wd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(wd, ".commitjournal", "config.yaml")
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate
		}
	}
	return ""
}

func ensure() *viper.Viper {
	if v == nil {
		_ = Initialize()
	}
	return v
}

// GetString returns a string config value.
func GetString(key string) string { return ensure().GetString(key) }

// GetBool returns a bool config value.
func GetBool(key string) bool { return ensure().GetBool(key) }

// GetInt returns an int config value.
func GetInt(key string) int { return ensure().GetInt(key) }

// GetFloat64 returns a float64 config value.
func GetFloat64(key string) float64 { return ensure().GetFloat64(key) }

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration { return ensure().GetDuration(key) }

// Set overrides a config value in-process (primarily for tests).
func Set(key string, value any) { ensure().Set(key, value) }

// AIAPIKey returns the AI provider API key, preferring config then falling
// back to the environment variable named by envVar (spec §6: "if absent,
// fall back to an environment variable").
func AIAPIKey(envVar string) string {
	if key := GetString("ai.api_key"); key != "" {
		return key
	}
	return os.Getenv(envVar)
}

// ExporterSpec mirrors the `telemetry.exporters` list entries from config.
type ExporterSpec struct {
	Type     string `mapstructure:"type"`
	Endpoint string `mapstructure:"endpoint"`
}

// TelemetryExporters unmarshals the telemetry.exporters config list.
func TelemetryExporters() []ExporterSpec {
	var specs []ExporterSpec
	_ = ensure().UnmarshalKey("telemetry.exporters", &specs)
	return specs
}

// Reset clears the singleton; test-only.
func Reset() {
	once = sync.Once{}
	v = nil
}
