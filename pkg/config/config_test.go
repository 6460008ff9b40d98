package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "porchconf.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = os.Stat(path)
	require.NoError(t, err, "first run should write the defaults")

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "porchconf.yaml")
	data := `file: /tmp/panels.txt
precision: -1
log:
  level: debug
watch_debounce: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/panels.txt", cfg.File)
	assert.Equal(t, -1, cfg.Precision)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, time.Second, cfg.WatchDebounce)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "porchconf.yaml")
	t.Setenv(EnvFile, "other.txt")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvArchive, "snap.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "other.txt", cfg.File)
	assert.Equal(t, "warn", cfg.Log.Level)

	archive, err := cfg.ArchivePath()
	require.NoError(t, err)
	assert.Equal(t, "snap.db", archive)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "shortest precision", mutate: func(c *Config) { c.Precision = -1 }},
		{name: "zero precision", mutate: func(c *Config) { c.Precision = 0 }, wantErr: true},
		{name: "precision too high", mutate: func(c *Config) { c.Precision = 12 }, wantErr: true},
		{name: "empty file", mutate: func(c *Config) { c.File = "" }, wantErr: true},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "porchconf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("precision: [1"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
