// Package config loads the parameters of the webstyle command from
// a YAML file, WEBSTYLE_ environment variables and command line flags.
package config

import (
	"strings"

	"github.com/benoitkugler/webstyle/html/tree"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables read by [Load].
const EnvPrefix = "WEBSTYLE"

// Config is the content of a configuration file.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger"`
	Styling StylingConfig `mapstructure:"styling"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn or error
}

// StylingConfig mirrors [tree.Options].
type StylingConfig struct {
	ViewportWidth       float64 `mapstructure:"viewport_width"`
	ViewportHeight      float64 `mapstructure:"viewport_height"`
	FontSize            float64 `mapstructure:"font_size"`
	Workers             int     `mapstructure:"workers"`
	PresentationalHints bool    `mapstructure:"presentational_hints"`
	MediaType           string  `mapstructure:"media_type"`
}

// SetDefaults registers the default values on [v].
func SetDefaults(v *viper.Viper) {
	def := tree.DefaultOptions()
	v.SetDefault("logger.level", "warn")
	v.SetDefault("styling.viewport_width", def.ViewportWidth)
	v.SetDefault("styling.viewport_height", def.ViewportHeight)
	v.SetDefault("styling.font_size", def.FontSize)
	v.SetDefault("styling.workers", def.Workers)
	v.SetDefault("styling.presentational_hints", def.PresentationalHints)
	v.SetDefault("styling.media_type", def.MediaType)
}

// flagKeys maps the command line flags to the configuration keys.
var flagKeys = map[string]string{
	"log-level": "logger.level",
	"viewport":  "styling.viewport_width",
	"height":    "styling.viewport_height",
	"font-size": "styling.font_size",
	"workers":   "styling.workers",
	"hints":     "styling.presentational_hints",
	"media":     "styling.media_type",
}

// RegisterFlags adds the flags overriding the configuration to [flags].
func RegisterFlags(flags *pflag.FlagSet) {
	def := tree.DefaultOptions()
	flags.String("log-level", "warn", "logging level (debug, info, warn, error)")
	flags.Float64("viewport", def.ViewportWidth, "width of the viewport, in pixels")
	flags.Float64("height", def.ViewportHeight, "height of the viewport, in pixels")
	flags.Float64("font-size", def.FontSize, "computed value of 'medium', in pixels")
	flags.Int("workers", def.Workers, "number of goroutines used to style the document")
	flags.Bool("hints", def.PresentationalHints, "apply the HTML presentational hints")
	flags.String("media", def.MediaType, "media type used to evaluate @media rules")
}

// Load reads the configuration, by increasing priority: the defaults,
// the file at [path] (if not empty), the environment variables and the
// flags of [flags] explicitly set (flags may be nil).
func Load(v *viper.Viper, path string, flags *pflag.FlagSet) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "reading config file %s", path)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, errors.Wrapf(err, "binding flag %s", name)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "invalid configuration")
	}
	return cfg, cfg.Validate()
}

// Validate checks the ranges of the values.
func (cfg Config) Validate() error {
	switch cfg.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("invalid logger level %q", cfg.Logger.Level)
	}
	st := cfg.Styling
	if st.ViewportWidth <= 0 || st.ViewportHeight <= 0 {
		return errors.Errorf("invalid viewport %gx%g", st.ViewportWidth, st.ViewportHeight)
	}
	if st.FontSize <= 0 {
		return errors.Errorf("invalid font size %g", st.FontSize)
	}
	if st.Workers < 0 {
		return errors.Errorf("invalid number of workers %d", st.Workers)
	}
	if strings.TrimSpace(st.MediaType) == "" {
		return errors.New("missing media type")
	}
	return nil
}

// Options returns the styling options described by [cfg].
func (cfg Config) Options() tree.Options {
	st := cfg.Styling
	return tree.Options{
		ViewportWidth:       tree.Fl(st.ViewportWidth),
		ViewportHeight:      tree.Fl(st.ViewportHeight),
		FontSize:            tree.Fl(st.FontSize),
		Workers:             st.Workers,
		PresentationalHints: st.PresentationalHints,
		MediaType:           strings.ToLower(strings.TrimSpace(st.MediaType)),
	}
}
