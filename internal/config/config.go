package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/joshharrison/netdiagram/internal/taskdata"
)

const (
	DefaultFile      = "examples/tasks.json"
	DefaultAddr      = ":8080"
	DefaultCacheSize = 128
)

type Config struct {
	File      string
	Format    taskdata.Format
	LogLevel  slog.Level
	Addr      string
	CacheSize int
	Color     bool
}

// Load reads configuration from the environment, falling back to values in
// the given dotenv files (".env" when none are named). Missing files are
// ignored and the process environment always wins.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	dotenv := make(map[string]string)
	for _, f := range files {
		values, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range values {
			if _, ok := dotenv[k]; !ok {
				dotenv[k] = v
			}
		}
	}

	return fromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	})
}

func fromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &Config{
		File:      firstNonEmpty(get("NETDIAGRAM_FILE"), DefaultFile),
		Addr:      firstNonEmpty(get("NETDIAGRAM_ADDR"), DefaultAddr),
		CacheSize: DefaultCacheSize,
		Color:     get("NO_COLOR") == "",
	}

	format, err := taskdata.ParseFormat(get("NETDIAGRAM_FORMAT"))
	if err != nil {
		return nil, fmt.Errorf("NETDIAGRAM_FORMAT: %w", err)
	}
	cfg.Format = format

	if raw := get("NETDIAGRAM_LOG_LEVEL"); raw != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("NETDIAGRAM_LOG_LEVEL: %w", err)
		}
	}

	if raw := get("NETDIAGRAM_CACHE_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("NETDIAGRAM_CACHE_SIZE: want a positive integer, got %q", raw)
		}
		cfg.CacheSize = n
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
