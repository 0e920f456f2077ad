package roomshare

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the configuration for the Tracker.
//
// All duration fields accept standard Go duration strings like "30s", "5m"
// when loaded from YAML.
type Config struct {
	// Namespace is the event namespace the tracker operates in. Namespaces
	// are fully independent: participants, groups, and persisted state never
	// cross namespaces.
	Namespace string `yaml:"namespace"`

	// MaxResolveRetries is the number of allocation attempts per mutation
	// before the resolution is declared stalled. Each retry recomputes the
	// proposal from a fresh snapshot.
	//
	// Default: 3
	MaxResolveRetries int `yaml:"maxResolveRetries"`

	// FullResolveThreshold is the dirty-group ratio (0.0-1.0] at which a
	// mutation escalates from a delta re-solve to a full re-solve. For
	// example, 0.5 means a full re-solve runs when at least half of the
	// live groups are dirty.
	//
	// Default: 0.5
	FullResolveThreshold float64 `yaml:"fullResolveThreshold"`

	// OperationTimeout bounds persistence and resource source calls made
	// during a mutation.
	//
	// Default: 10 seconds
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// EventSubjectPrefix is the leading token of outbound event subjects:
	// <prefix>.<namespace>.<kind>.
	//
	// Default: "roomshare"
	EventSubjectPrefix string `yaml:"eventSubjectPrefix"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Namespace:            "default",
		MaxResolveRetries:    3,
		FullResolveThreshold: 0.5,
		OperationTimeout:     10 * time.Second,
		EventSubjectPrefix:   "roomshare",
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Namespace == "" {
		cfg.Namespace = defaults.Namespace
	}
	if cfg.MaxResolveRetries == 0 {
		cfg.MaxResolveRetries = defaults.MaxResolveRetries
	}
	if cfg.FullResolveThreshold == 0 {
		cfg.FullResolveThreshold = defaults.FullResolveThreshold
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
	if cfg.EventSubjectPrefix == "" {
		cfg.EventSubjectPrefix = defaults.EventSubjectPrefix
	}
}

// Validate checks configuration constraints and returns an error for
// invalid values.
//
// Hard Validation Rules:
//   - MaxResolveRetries >= 1 (at least one attempt)
//   - 0 < FullResolveThreshold <= 1
//   - OperationTimeout > 0
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.MaxResolveRetries < 1 {
		return fmt.Errorf("MaxResolveRetries must be >= 1, got %d", cfg.MaxResolveRetries)
	}

	if cfg.FullResolveThreshold <= 0 || cfg.FullResolveThreshold > 1 {
		return fmt.Errorf(
			"FullResolveThreshold must be in (0.0, 1.0], got %v",
			cfg.FullResolveThreshold,
		)
	}

	if cfg.OperationTimeout <= 0 {
		return fmt.Errorf("OperationTimeout must be > 0, got %v", cfg.OperationTimeout)
	}

	return nil
}

// LoadConfig reads a YAML configuration file and applies defaults.
//
// Parameters:
//   - path: Path to the YAML file
//
// Returns:
//   - Config: Parsed configuration with defaults applied
//   - error: Read, parse, or validation failure
//
// Example:
//
//	cfg, err := roomshare.LoadConfig("roomshare.yaml")
//	if err != nil { /* handle */ }
//	trk, err := roomshare.NewTracker(&cfg, src, allocator.NewGreedy())
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Returns:
//   - Config: Configuration with fast timings for tests
//
// Example:
//
//	cfg := roomshare.TestConfig()
//	cfg.Namespace = "test-con"
//	trk, err := roomshare.NewTracker(&cfg, src, allocator.NewGreedy())
func TestConfig() Config {
	cfg := DefaultConfig()
	cfg.Namespace = "test"
	cfg.OperationTimeout = 2 * time.Second

	return cfg
}
