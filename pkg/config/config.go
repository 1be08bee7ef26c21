// Package config loads constellar settings from a file and the environment.
//
// Settings are resolved in three steps: built-in defaults, an optional
// TOML or YAML file (chosen by extension), then environment variables.
// A .env file in the working directory is loaded into the environment
// first, without overriding variables that are already set.
//
// Recognised variables:
//
//	CONSTELLAR_ADDR         server listen address
//	PORT                    server port; sets the address to ":PORT"
//	CONSTELLAR_CORS_ORIGIN  Access-Control-Allow-Origin value
//	CONSTELLAR_CACHE        cache backend: file, redis or none
//	CONSTELLAR_CACHE_DIR    file cache directory
//	REDIS_URL               redis connection URL
//	CONSTELLAR_CACHE_TTL    cache entry lifetime (Go duration)
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/constellar/pkg/cache"
	"github.com/matzehuels/constellar/pkg/diagram"
	"github.com/matzehuels/constellar/pkg/errors"
)

// AppName names the XDG cache directory.
const AppName = "constellar"

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `toml:"server" yaml:"server"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Layout LayoutConfig `toml:"layout" yaml:"layout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr       string `toml:"addr" yaml:"addr"`
	CORSOrigin string `toml:"cors_origin" yaml:"cors_origin"`
}

// CacheConfig selects the tool result cache.
type CacheConfig struct {
	Backend  string   `toml:"backend" yaml:"backend"`
	Dir      string   `toml:"dir" yaml:"dir"`
	RedisURL string   `toml:"redis_url" yaml:"redis_url"`
	TTL      Duration `toml:"ttl" yaml:"ttl"`
}

// LayoutConfig holds the default geometry of the diagram commands.
type LayoutConfig struct {
	NodeWidth         float64 `toml:"node_width" yaml:"node_width"`
	NodeHeight        float64 `toml:"node_height" yaml:"node_height"`
	HorizontalSpacing float64 `toml:"horizontal_spacing" yaml:"horizontal_spacing"`
	VerticalSpacing   float64 `toml:"vertical_spacing" yaml:"vertical_spacing"`

	ComponentWidth    float64 `toml:"component_width" yaml:"component_width"`
	ComponentHeight   float64 `toml:"component_height" yaml:"component_height"`
	ComponentHSpacing float64 `toml:"component_horizontal_spacing" yaml:"component_horizontal_spacing"`
	ComponentVSpacing float64 `toml:"component_vertical_spacing" yaml:"component_vertical_spacing"`
}

// Duration is a time.Duration that decodes from strings like "36h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML.
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

// UnmarshalYAML decodes a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Default returns the built-in configuration.
func Default() *Config {
	fc := diagram.DefaultFlowchartOptions().Grid
	ac := diagram.DefaultArchitectureOptions().Grid
	return &Config{
		Server: ServerConfig{
			Addr:       ":8080",
			CORSOrigin: "*",
		},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			Dir:     DefaultCacheDir(),
			TTL:     Duration{cache.TTLToolResult},
		},
		Layout: LayoutConfig{
			NodeWidth:         fc.BoxWidth,
			NodeHeight:        fc.BoxHeight,
			HorizontalSpacing: fc.HSpacing,
			VerticalSpacing:   fc.VSpacing,
			ComponentWidth:    ac.BoxWidth,
			ComponentHeight:   ac.BoxHeight,
			ComponentHSpacing: ac.HSpacing,
			ComponentVSpacing: ac.VSpacing,
		},
	}
}

// DefaultCacheDir returns the cache directory using the XDG standard
// (~/.cache/constellar/). It returns "" when no home directory is known.
func DefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", AppName)
}

// Load resolves the configuration from defaults, the file at path (if not
// empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if err := cfg.ReadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile merges the file at path into c. Files ending in .yaml or .yml
// are decoded as YAML; anything else as TOML.
func (c *Config) ReadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && err != io.EOF {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undec[0].String())
		}
	}
	return nil
}

// ApplyEnv overrides c with the recognised environment variables, looked up
// through lookup (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		c.Server.Addr = ":" + v
	}
	if v, ok := lookup("CONSTELLAR_ADDR"); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup("CONSTELLAR_CORS_ORIGIN"); ok {
		c.Server.CORSOrigin = v
	}
	if v, ok := lookup("CONSTELLAR_CACHE"); ok && v != "" {
		c.Cache.Backend = v
	}
	if v, ok := lookup("CONSTELLAR_CACHE_DIR"); ok && v != "" {
		c.Cache.Dir = v
	}
	if v, ok := lookup("REDIS_URL"); ok && v != "" {
		c.Cache.RedisURL = v
	}
	if v, ok := lookup("CONSTELLAR_CACHE_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "CONSTELLAR_CACHE_TTL")
		}
		c.Cache.TTL = Duration{d}
	}
	return nil
}

// Validate checks that c is usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server address cannot be empty")
	}
	switch c.Cache.Backend {
	case cache.BackendFile:
		if c.Cache.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "file cache needs a directory")
		}
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis cache needs REDIS_URL")
		}
	case cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must be positive, got %s", c.Cache.TTL)
	}
	l := c.Layout
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"node_width", l.NodeWidth},
		{"node_height", l.NodeHeight},
		{"component_width", l.ComponentWidth},
		{"component_height", l.ComponentHeight},
	} {
		if f.v <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "layout %s must be positive, got %g", f.name, f.v)
		}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"horizontal_spacing", l.HorizontalSpacing},
		{"vertical_spacing", l.VerticalSpacing},
		{"component_horizontal_spacing", l.ComponentHSpacing},
		{"component_vertical_spacing", l.ComponentVSpacing},
	} {
		if f.v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "layout %s cannot be negative, got %g", f.name, f.v)
		}
	}
	return nil
}

// CacheOptions converts the cache section for [cache.Open].
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:  c.Cache.Backend,
		Dir:      c.Cache.Dir,
		RedisURL: c.Cache.RedisURL,
	}
}

// FlowchartOptions returns flowchart assembly options with the configured
// geometry.
func (c *Config) FlowchartOptions() diagram.FlowchartOptions {
	opts := diagram.DefaultFlowchartOptions()
	opts.Grid.BoxWidth = c.Layout.NodeWidth
	opts.Grid.BoxHeight = c.Layout.NodeHeight
	opts.Grid.HSpacing = c.Layout.HorizontalSpacing
	opts.Grid.VSpacing = c.Layout.VerticalSpacing
	return opts
}

// ArchitectureOptions returns architecture assembly options with the
// configured geometry.
func (c *Config) ArchitectureOptions() diagram.ArchitectureOptions {
	opts := diagram.DefaultArchitectureOptions()
	opts.Grid.BoxWidth = c.Layout.ComponentWidth
	opts.Grid.BoxHeight = c.Layout.ComponentHeight
	opts.Grid.HSpacing = c.Layout.ComponentHSpacing
	opts.Grid.VSpacing = c.Layout.ComponentVSpacing
	return opts
}

// String renders c as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}
