package config

import (
	stderrors "errors"
	"strings"

	"github.com/spf13/viper"

	"github.com/vango-dev/minidom/internal/errors"
)

const (
	// ConfigName is the base name of the configuration file.
	ConfigName = "minidom"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "MINIDOM"

	// DefaultRoutePath is where the router goes when nothing matches.
	DefaultRoutePath = "?/"

	// DefaultDevtoolsAddr is the devtools listen address.
	DefaultDevtoolsAddr = "localhost:7070"
)

// Config is the complete minidom configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log" json:"log"`
	Render   RenderConfig   `mapstructure:"render" json:"render"`
	Router   RouterConfig   `mapstructure:"router" json:"router"`
	Devtools DevtoolsConfig `mapstructure:"devtools" json:"devtools"`
	Metrics  MetricsConfig  `mapstructure:"metrics" json:"metrics"`
	Snapshot SnapshotConfig `mapstructure:"snapshot" json:"snapshot"`

	// path is the file the config was loaded from, empty for defaults.
	path string
}

// LogConfig configures the slog logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" json:"level"`

	// Format is text or json.
	Format string `mapstructure:"format" json:"format"`
}

// RenderConfig configures the reconciler.
type RenderConfig struct {
	// StrictHooks panics on hook order changes instead of logging them.
	StrictHooks bool `mapstructure:"strictHooks" json:"strictHooks"`

	// AttrDenylist names props always committed as attributes even when the
	// live node has a field of the same name.
	AttrDenylist []string `mapstructure:"attrDenylist" json:"attrDenylist"`
}

// RouterConfig configures the client-side router.
type RouterConfig struct {
	// DefaultPath is navigated to when no route matches.
	DefaultPath string `mapstructure:"defaultPath" json:"defaultPath"`

	// LinkPrefixes are href prefixes recognized as internal routes.
	LinkPrefixes []string `mapstructure:"linkPrefixes" json:"linkPrefixes"`

	// BaseURL is the initial document URL for headless sessions.
	BaseURL string `mapstructure:"baseURL" json:"baseURL"`
}

// DevtoolsConfig configures the inspector server.
type DevtoolsConfig struct {
	Addr string `mapstructure:"addr" json:"addr"`

	// AllowedOrigins restricts websocket origins; empty allows same-host only.
	AllowedOrigins []string `mapstructure:"allowedOrigins" json:"allowedOrigins"`
}

// MetricsConfig configures prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" json:"enabled"`
	Namespace string `mapstructure:"namespace" json:"namespace"`
}

// SnapshotConfig configures where serialized documents are exported.
type SnapshotConfig struct {
	// Store is "disk" or "s3".
	Store string `mapstructure:"store" json:"store"`

	// Dir is the output directory of the disk store.
	Dir string `mapstructure:"dir" json:"dir"`

	Bucket   string `mapstructure:"bucket" json:"bucket"`
	Prefix   string `mapstructure:"prefix" json:"prefix"`
	Region   string `mapstructure:"region" json:"region"`
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Render: RenderConfig{
			AttrDenylist: []string{"list", "form", "selected"},
		},
		Router: RouterConfig{
			DefaultPath:  DefaultRoutePath,
			LinkPrefixes: []string{"?/", "/?/"},
			BaseURL:      "http://localhost/" + DefaultRoutePath,
		},
		Devtools: DevtoolsConfig{
			Addr: DefaultDevtoolsAddr,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "minidom",
		},
		Snapshot: SnapshotConfig{
			Store:  "disk",
			Dir:    "snapshots",
			Region: "us-east-1",
		},
	}
}

// setDefaults mirrors New into v so env-only keys are visible to Unmarshal.
func setDefaults(v *viper.Viper) {
	d := New()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("render.strictHooks", d.Render.StrictHooks)
	v.SetDefault("render.attrDenylist", d.Render.AttrDenylist)
	v.SetDefault("router.defaultPath", d.Router.DefaultPath)
	v.SetDefault("router.linkPrefixes", d.Router.LinkPrefixes)
	v.SetDefault("router.baseURL", d.Router.BaseURL)
	v.SetDefault("devtools.addr", d.Devtools.Addr)
	v.SetDefault("devtools.allowedOrigins", d.Devtools.AllowedOrigins)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("snapshot.store", d.Snapshot.Store)
	v.SetDefault("snapshot.dir", d.Snapshot.Dir)
	v.SetDefault("snapshot.bucket", d.Snapshot.Bucket)
	v.SetDefault("snapshot.prefix", d.Snapshot.Prefix)
	v.SetDefault("snapshot.region", d.Snapshot.Region)
	v.SetDefault("snapshot.endpoint", d.Snapshot.Endpoint)
}

// NewViper returns a Viper instance with defaults and env bindings set,
// ready for flags to be bound onto it.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from path, or searches the working directory
// for minidom.{json,yaml,toml} when path is empty.
func Load(path string) (*Config, error) {
	return LoadWith(NewViper(), path)
}

// LoadWith is Load on a caller-provided Viper (typically with flags bound).
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.New("M500").
				WithDetail("reading " + describe(path)).
				Wrap(err)
		}
	}

	cfg := New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("M500").
			WithDetail("decoding " + describe(path)).
			Wrap(err)
	}
	cfg.path = v.ConfigFileUsed()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func describe(path string) string {
	if path == "" {
		return ConfigName + " config"
	}
	return path
}

// applyDefaults fills fields a config file explicitly emptied.
func (c *Config) applyDefaults() {
	d := New()
	if c.Router.DefaultPath == "" {
		c.Router.DefaultPath = d.Router.DefaultPath
	}
	if len(c.Router.LinkPrefixes) == 0 {
		c.Router.LinkPrefixes = d.Router.LinkPrefixes
	}
	if c.Router.BaseURL == "" {
		c.Router.BaseURL = d.Router.BaseURL
	}
	if c.Devtools.Addr == "" {
		c.Devtools.Addr = d.Devtools.Addr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("M500").WithDetailf("log.format must be text or json, got %q", c.Log.Format)
	}
	switch c.Snapshot.Store {
	case "disk", "s3":
	default:
		return errors.New("M500").WithDetailf("snapshot.store must be disk or s3, got %q", c.Snapshot.Store)
	}
	if c.Snapshot.Store == "s3" && c.Snapshot.Bucket == "" {
		return errors.New("M500").WithDetail("snapshot.bucket is required for the s3 store")
	}
	return nil
}

// Path returns the file the configuration was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}
