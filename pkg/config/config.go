// Package config loads bundlescope settings from a TOML file.
//
// Settings are resolved as flags > config file > defaults. The CLI applies
// flags on top of the [Config] returned by [Load].
//
//	vendor_marker = "node_modules"
//	searcher      = "rg"        # or "builtin"
//	workers       = 4
//
//	[cache]
//	url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[store]
//	uri      = "mongodb://localhost:27017"
//	database = "bundlescope"
//
//	[serve]
//	addr        = ":8080"
//	bundle_root = "/srv/bundles"
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bundlescope/pkg/analyze"
	"github.com/matzehuels/bundlescope/pkg/cache"
	"github.com/matzehuels/bundlescope/pkg/errors"
	"github.com/matzehuels/bundlescope/pkg/extract"
)

// FileName is the project-local config file name.
const FileName = "bundlescope.toml"

// Searcher names.
const (
	SearcherRipgrep = "rg"
	SearcherBuiltin = "builtin"
)

// Config is the full set of file-configurable settings.
type Config struct {
	VendorMarker  string `toml:"vendor_marker"`
	Searcher      string `toml:"searcher"`
	SearchCommand string `toml:"search_command"`
	Pattern       string `toml:"pattern"`
	ChunkSize     int    `toml:"chunk_size"`
	Workers       int    `toml:"workers"`

	Cache CacheConfig `toml:"cache"`
	Store StoreConfig `toml:"store"`
	Serve ServeConfig `toml:"serve"`
}

// CacheConfig selects the module set cache.
type CacheConfig struct {
	Disabled bool     `toml:"disabled"`
	Dir      string   `toml:"dir"` // File cache directory; empty uses the user cache dir
	URL      string   `toml:"url"` // Redis URL; when set, Redis replaces the file cache
	TTL      Duration `toml:"ttl"`
}

// StoreConfig configures the MongoDB snapshot store. An empty URI disables
// snapshots.
type StoreConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	Addr       string   `toml:"addr"`
	BundleRoot string   `toml:"bundle_root"` // Directory that request paths are resolved against
	Timeout    Duration `toml:"timeout"`     // Per-request analysis limit
}

// Duration is a time.Duration written as a string ("90s", "24h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		VendorMarker:  analyze.DefaultVendorMarker,
		Searcher:      SearcherRipgrep,
		SearchCommand: extract.DefaultCommand,
		ChunkSize:     extract.DefaultChunkSize,
		Cache: CacheConfig{
			TTL: Duration{cache.DefaultTTL},
		},
		Store: StoreConfig{
			Database:   "bundlescope",
			Collection: "snapshots",
		},
		Serve: ServeConfig{
			Addr:       ":8080",
			BundleRoot: ".",
			Timeout:    Duration{2 * time.Minute},
		},
	}
}

// Candidates returns the paths searched for a config file, in order.
func Candidates() []string {
	paths := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "bundlescope", "config.toml"))
	}
	return paths
}

// Load reads the config file at path over the defaults. An empty path tries
// each of [Candidates] and falls back to the defaults when none exists. The
// second result is the file that was read, or "".
func Load(path string) (Config, string, error) {
	if path != "" {
		cfg, err := LoadFile(path)
		return cfg, path, err
	}
	for _, p := range Candidates() {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		cfg, err := LoadFile(p)
		return cfg, p, err
	}
	return Default(), "", nil
}

// LoadFile reads and validates one config file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result. Unknown
// keys are rejected so typos do not go unnoticed.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c Config) Validate() error {
	if err := errors.ValidateVendorMarker(c.VendorMarker); err != nil {
		return err
	}
	switch c.Searcher {
	case SearcherRipgrep, SearcherBuiltin:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"searcher must be %q or %q, got %q", SearcherRipgrep, SearcherBuiltin, c.Searcher)
	}
	if c.ChunkSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "chunk_size must not be negative")
	}
	if c.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative")
	}
	if c.Cache.URL != "" {
		if err := errors.ValidateURL(c.Cache.URL, "redis", "rediss"); err != nil {
			return err
		}
	}
	if c.Store.URI != "" {
		if err := errors.ValidateURL(c.Store.URI, "mongodb", "mongodb+srv"); err != nil {
			return err
		}
	}
	return nil
}
