package cli

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/matzehuels/stipple/pkg/cache"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/pipeline"
)

// Cache backends selectable in the config file.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the optional config file. Zero values fall back to the pipeline
// defaults; command-line flags override everything set here.
type Config struct {
	Run    RunConfig    `toml:"run"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// RunConfig holds relaxation and loading defaults.
type RunConfig struct {
	Points     int     `toml:"points,omitempty"`
	Iterations int     `toml:"iterations,omitempty"`
	Workers    int     `toml:"workers,omitempty"`
	Gain       float64 `toml:"gain,omitempty"`
	Model      string  `toml:"model,omitempty"`
	MinWidth   int     `toml:"min_width,omitempty"`
	MaxWidth   int     `toml:"max_width,omitempty"`
}

// RenderConfig holds drawing defaults.
type RenderConfig struct {
	Formats   []string `toml:"formats,omitempty"`
	Mode      string   `toml:"mode,omitempty"`
	Radius    float64  `toml:"radius,omitempty"`
	LineWidth float64  `toml:"line_width,omitempty"`
	Scale     float64  `toml:"scale,omitempty"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir,omitempty"`
	Namespace string `toml:"namespace,omitempty"`

	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db,omitempty"`
	RedisPrefix   string `toml:"redis_prefix,omitempty"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

func defaultConfig() Config {
	return Config{
		Cache: CacheConfig{Backend: backendFile, RedisPrefix: cache.DefaultRedisPrefix},
		Serve: ServeConfig{Addr: ":8080"},
	}
}

// loadConfig reads the config file at path on top of the defaults. A
// missing file is only an error when explicit is set.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) && !explicit {
		return defaultConfig(), nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case backendFile, backendNone:
	case backendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be one of file, redis, none; got %q", c.Cache.Backend)
	}
	if c.Run.Model != "" {
		if err := pipeline.ValidateModel(c.Run.Model); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "run.model")
		}
	}
	if c.Render.Mode != "" {
		if err := pipeline.ValidateMode(c.Render.Mode); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.mode")
		}
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.formats")
	}
	return nil
}

// encode renders the config as TOML.
func (c Config) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// applyRun copies file values into opts for every flag the user did not set.
func (c Config) applyRun(opts *pipeline.Options, flags *pflag.FlagSet) {
	set := func(name string, apply func()) {
		if !flags.Changed(name) {
			apply()
		}
	}
	r := c.Run
	if r.Points != 0 {
		set("points", func() { opts.Points = r.Points })
	}
	if r.Iterations != 0 {
		set("iterations", func() { opts.Iterations = r.Iterations })
	}
	if r.Workers != 0 {
		set("workers", func() { opts.Workers = r.Workers })
	}
	if r.Gain != 0 {
		set("gain", func() { opts.Gain = r.Gain })
	}
	if r.Model != "" {
		set("model", func() { opts.Model = r.Model })
	}
	if r.MinWidth != 0 {
		set("min-width", func() { opts.MinWidth = r.MinWidth })
	}
	if r.MaxWidth != 0 {
		set("max-width", func() { opts.MaxWidth = r.MaxWidth })
	}
}

// applyRender is applyRun for the drawing options.
func (c Config) applyRender(opts *pipeline.Options, flags *pflag.FlagSet) {
	set := func(name string, apply func()) {
		if !flags.Changed(name) {
			apply()
		}
	}
	r := c.Render
	if len(r.Formats) > 0 {
		set("format", func() { opts.Formats = r.Formats })
	}
	if r.Mode != "" {
		set("mode", func() { opts.Mode = r.Mode })
	}
	if r.Radius != 0 {
		set("radius", func() { opts.Radius = r.Radius })
	}
	if r.LineWidth != 0 {
		set("line-width", func() { opts.LineWidth = r.LineWidth })
	}
	if r.Scale != 0 {
		set("scale", func() { opts.Scale = r.Scale })
	}
}

// configPath returns the default config file location
// ($XDG_CONFIG_HOME/stipple/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
