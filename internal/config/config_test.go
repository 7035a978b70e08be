package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshharrison/netdiagram/internal/taskdata"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := fromLookup(mapLookup(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultFile, cfg.File)
	assert.Equal(t, taskdata.FormatAuto, cfg.Format)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultCacheSize, cfg.CacheSize)
	assert.True(t, cfg.Color)
}

func TestOverrides(t *testing.T) {
	cfg, err := fromLookup(mapLookup(map[string]string{
		"NETDIAGRAM_FILE":       "plan.hcl",
		"NETDIAGRAM_FORMAT":     "HCL",
		"NETDIAGRAM_LOG_LEVEL":  "debug",
		"NETDIAGRAM_ADDR":       "127.0.0.1:9000",
		"NETDIAGRAM_CACHE_SIZE": "16",
		"NO_COLOR":              "1",
	}))
	require.NoError(t, err)

	assert.Equal(t, "plan.hcl", cfg.File)
	assert.Equal(t, taskdata.FormatHCL, cfg.Format)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.False(t, cfg.Color)
}

func TestInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"format":        {"NETDIAGRAM_FORMAT": "yaml"},
		"log level":     {"NETDIAGRAM_LOG_LEVEL": "loud"},
		"cache size":    {"NETDIAGRAM_CACHE_SIZE": "many"},
		"zero cache":    {"NETDIAGRAM_CACHE_SIZE": "0"},
		"negative size": {"NETDIAGRAM_CACHE_SIZE": "-4"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := fromLookup(mapLookup(env))
			assert.Error(t, err)
		})
	}
}

func TestLoad_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NETDIAGRAM_FILE=from-dotenv.json\nNETDIAGRAM_ADDR=:9999\n"), 0o644))
	t.Setenv("NETDIAGRAM_ADDR", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv.json", cfg.File)
	assert.Equal(t, ":7070", cfg.Addr, "environment wins over the dotenv file")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}
