// Package config loads launchdash settings from defaults, a YAML file,
// LAUNCHDASH_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/launchdash/logging"
)

const (
	// FileName is the config file base name searched for in each location.
	FileName = "launchdash"
	// EnvPrefix prefixes every environment override, e.g. LAUNCHDASH_SERVER_ADDR.
	EnvPrefix = "LAUNCHDASH"
)

// Config is the full application configuration.
type Config struct {
	Data   DataConfig     `mapstructure:"data" yaml:"data"`
	Server ServerConfig   `mapstructure:"server" yaml:"server"`
	Slider SliderConfig   `mapstructure:"slider" yaml:"slider"`
	Render RenderConfig   `mapstructure:"render" yaml:"render"`
	Log    logging.Config `mapstructure:"log" yaml:"log"`
}

type DataConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// SliderConfig is the payload slider domain in kilograms.
type SliderConfig struct {
	Min  float64 `mapstructure:"min" yaml:"min"`
	Max  float64 `mapstructure:"max" yaml:"max"`
	Step float64 `mapstructure:"step" yaml:"step"`
}

// RenderConfig is the image size for PNG/SVG output.
type RenderConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

func defaults() map[string]any {
	return map[string]any{
		"data.path":               "spacex_launch_dash.csv",
		"server.addr":             "127.0.0.1:8050",
		"server.shutdown_timeout": "5s",
		"slider.min":              0.0,
		"slider.max":              10000.0,
		"slider.step":             1000.0,
		"render.width":            800,
		"render.height":           500,
		"log.level":               "info",
		"log.format":              "console",
		"log.output":              "stderr",
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"data":       "data.path",
	"addr":       "server.addr",
	"log-level":  "log.level",
	"log-format": "log.format",
	"width":      "render.width",
	"height":     "render.height",
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Data:   DataConfig{Path: "spacex_launch_dash.csv"},
		Server: ServerConfig{Addr: "127.0.0.1:8050", ShutdownTimeout: 5 * time.Second},
		Slider: SliderConfig{Min: 0, Max: 10000, Step: 1000},
		Render: RenderConfig{Width: 800, Height: 500},
		Log:    logging.Config{Level: "info", Format: "console", Output: "stderr"},
	}
}

// UserConfigPath returns the per-user config file location.
func UserConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, "launchdash", FileName+".yaml"), nil
}

// Load resolves the configuration. When path is non-empty that file must
// exist; otherwise launchdash.yaml is searched for in the working directory
// and the user config directory, and a missing file is not an error.
// Flags of cmd that were set explicitly override everything else.
func Load(cmd *cobra.Command, path string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if userPath, err := UserConfigPath(); err == nil {
			v.AddConfigPath(filepath.Dir(userPath))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return c, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate reports settings no component could run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Data.Path) == "" {
		errs = append(errs, errors.New("data.path is empty"))
	}
	if c.Slider.Max < c.Slider.Min {
		errs = append(errs, fmt.Errorf("slider.max %v below slider.min %v", c.Slider.Max, c.Slider.Min))
	}
	if c.Slider.Step <= 0 {
		errs = append(errs, fmt.Errorf("slider.step must be positive, got %v", c.Slider.Step))
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size %dx%d must be positive", c.Render.Width, c.Render.Height))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout is negative"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be console or json", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Write stores c as YAML at path, creating parent directories.
func Write(path string, c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Marshal renders c as YAML.
func Marshal(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}
