package roomshare

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, "default", cfg.Namespace)
	require.Equal(t, 3, cfg.MaxResolveRetries)
	require.Equal(t, 0.5, cfg.FullResolveThreshold)
	require.Equal(t, 10*time.Second, cfg.OperationTimeout)
	require.Equal(t, "roomshare", cfg.EventSubjectPrefix)
	require.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	t.Run("fills empty config", func(t *testing.T) {
		var cfg Config
		SetDefaults(&cfg)

		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		cfg := Config{
			Namespace:            "con-2026",
			MaxResolveRetries:    5,
			FullResolveThreshold: 0.25,
			OperationTimeout:     time.Second,
			EventSubjectPrefix:   "events",
		}
		SetDefaults(&cfg)

		require.Equal(t, "con-2026", cfg.Namespace)
		require.Equal(t, 5, cfg.MaxResolveRetries)
		require.Equal(t, 0.25, cfg.FullResolveThreshold)
		require.Equal(t, time.Second, cfg.OperationTimeout)
		require.Equal(t, "events", cfg.EventSubjectPrefix)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		cfg := DefaultConfig()
		require.NoError(t, cfg.Validate())
	})

	t.Run("rejects zero retries", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxResolveRetries = 0

		err := cfg.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "MaxResolveRetries")
	})

	t.Run("rejects threshold above one", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FullResolveThreshold = 1.5

		err := cfg.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "FullResolveThreshold")
	})

	t.Run("rejects negative threshold", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FullResolveThreshold = -0.1

		err := cfg.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "FullResolveThreshold")
	})

	t.Run("rejects negative timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.OperationTimeout = -time.Second

		err := cfg.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "OperationTimeout")
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("parses yaml and applies defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "roomshare.yaml")
		data := `
namespace: con-2026
maxResolveRetries: 5
operationTimeout: 30s
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, "con-2026", cfg.Namespace)
		require.Equal(t, 5, cfg.MaxResolveRetries)
		require.Equal(t, 30*time.Second, cfg.OperationTimeout)
		// Unset fields pick up defaults.
		require.Equal(t, 0.5, cfg.FullResolveThreshold)
		require.Equal(t, "roomshare", cfg.EventSubjectPrefix)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("invalid yaml fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("namespace: [unclosed"), 0o600))

		_, err := LoadConfig(path)
		require.Error(t, err)
	})

	t.Run("invalid values fail validation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invalid.yaml")
		require.NoError(t, os.WriteFile(path, []byte("fullResolveThreshold: 2.0"), 0o600))

		_, err := LoadConfig(path)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	require.Equal(t, "test", cfg.Namespace)
	require.Equal(t, 2*time.Second, cfg.OperationTimeout)
	require.NoError(t, cfg.Validate())
}
