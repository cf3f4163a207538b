package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/minidom/internal/errors"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "?/", cfg.Router.DefaultPath)
	assert.Equal(t, []string{"?/", "/?/"}, cfg.Router.LinkPrefixes)
	assert.Equal(t, []string{"list", "form", "selected"}, cfg.Render.AttrDenylist)
	assert.Equal(t, "disk", cfg.Snapshot.Store)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minidom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"log": {"level": "debug", "format": "json"},
		"render": {"strictHooks": true},
		"router": {"defaultPath": "?/home"}
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Render.StrictHooks)
	assert.Equal(t, "?/home", cfg.Router.DefaultPath)
	// untouched sections keep their defaults
	assert.Equal(t, DefaultDevtoolsAddr, cfg.Devtools.Addr)
	assert.Equal(t, path, cfg.Path())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MINIDOM_DEVTOOLS_ADDR", "127.0.0.1:9999")
	t.Setenv("MINIDOM_LOG_LEVEL", "warn")

	dir := t.TempDir()
	path := filepath.Join(dir, "minidom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.Devtools.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CategoryConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"bad store", func(c *Config) { c.Snapshot.Store = "ftp" }, true},
		{"s3 without bucket", func(c *Config) { c.Snapshot.Store = "s3" }, true},
		{"s3 with bucket", func(c *Config) {
			c.Snapshot.Store = "s3"
			c.Snapshot.Bucket = "snaps"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
