// Package config loads runtime settings for the resize server.
//
// Settings come from three layers, later layers winning:
//   - built-in defaults
//   - an optional config.yaml in the search path
//   - environment variables prefixed with IMAGE_RESIZE_ (e.g. IMAGE_RESIZE_LOG_LEVEL)
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "IMAGE_RESIZE"

// DefaultMaxSurfaceArea matches the largest canvas area mainstream browsers
// will hand out a 2D context for (16384 x 16384).
const DefaultMaxSurfaceArea = 16384 * 16384

// Config holds every tunable of the pipeline and its server.
type Config struct {
	LogLevel       logrus.Level
	DisableLogging bool

	// Engine selects the resize engine: "imaging" or "bild".
	Engine string
	// Filter names the resampling filter handed to the engine.
	Filter string

	// OutputFormat is the MIME type resized surfaces are encoded to.
	OutputFormat string
	// JPEGQuality is in the 0..1 range, as for canvas.toDataURL.
	JPEGQuality float64
	// Matte is the hex colour transparent pixels are flattened onto when the
	// output format has no alpha channel.
	Matte string

	// MaxSurfaceArea bounds width*height of any surface that may obtain a
	// drawing context.
	MaxSurfaceArea int
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		LogLevel:       logrus.InfoLevel,
		Engine:         "imaging",
		Filter:         "lanczos",
		OutputFormat:   "image/png",
		JPEGQuality:    0.92,
		Matte:          "#000000",
		MaxSurfaceArea: DefaultMaxSurfaceArea,
	}
}

// Load reads config.yaml from configPath (if present) and applies
// environment overrides on top of the defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("log_level", def.LogLevel.String())
	v.SetDefault("disable_logging", def.DisableLogging)
	v.SetDefault("engine", def.Engine)
	v.SetDefault("filter", def.Filter)
	v.SetDefault("output_format", def.OutputFormat)
	v.SetDefault("jpeg_quality", def.JPEGQuality)
	v.SetDefault("matte", def.Matte)
	v.SetDefault("max_surface_area", def.MaxSurfaceArea)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine: defaults and env still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		DisableLogging: v.GetBool("disable_logging"),
		Engine:         strings.ToLower(v.GetString("engine")),
		Filter:         strings.ToLower(v.GetString("filter")),
		OutputFormat:   strings.ToLower(v.GetString("output_format")),
		JPEGQuality:    v.GetFloat64("jpeg_quality"),
		Matte:          v.GetString("matte"),
		MaxSurfaceArea: v.GetInt("max_surface_area"),
	}

	level, err := logrus.ParseLevel(v.GetString("log_level"))
	if err != nil {
		level = logrus.InfoLevel
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot work with.
func (c *Config) Validate() error {
	if c.JPEGQuality < 0 || c.JPEGQuality > 1 {
		return fmt.Errorf("jpeg_quality must be within 0..1, got %v", c.JPEGQuality)
	}
	if c.MaxSurfaceArea <= 0 {
		return fmt.Errorf("max_surface_area must be positive, got %d", c.MaxSurfaceArea)
	}
	if c.Engine == "" {
		return errors.New("engine must not be empty")
	}
	return nil
}
