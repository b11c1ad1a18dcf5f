package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fulmenhq/svgaudit/pkg/reconcile"
	"github.com/fulmenhq/svgaudit/pkg/search"
)

// Config holds all configuration for svgaudit
type Config struct {
	ImageFolder   string               `mapstructure:"image_folder"`
	JSONPath      string               `mapstructure:"json_path"`
	FileList      string               `mapstructure:"file_list"`
	Include       []string             `mapstructure:"include"`
	TrailingFiles []string             `mapstructure:"trailing_files"`
	Exclude       []string             `mapstructure:"exclude"`
	Sequence      reconcile.Sequence   `mapstructure:"sequence"`
	Dimensions    reconcile.Dimensions `mapstructure:"dimensions"`
	Categories    []string             `mapstructure:"categories"`
	Measure       MeasureConfig        `mapstructure:"measure"`
	Highlight     HighlightConfig      `mapstructure:"highlight"`
}

// MeasureConfig controls dimension measurement
type MeasureConfig struct {
	Workers int `mapstructure:"workers"`
}

// HighlightConfig selects the search highlight markers
type HighlightConfig struct {
	Style string `mapstructure:"style"` // auto, ansi, brackets, html
	Open  string `mapstructure:"open"`
	Close string `mapstructure:"close"`
}

var defaultConfig = Config{
	ImageFolder:   "img/",
	JSONPath:      "data/image-data.json",
	FileList:      "file-list.json",
	Include:       []string{"*.svg"},
	TrailingFiles: []string{"filter.svg", "search.svg"},
	Sequence:      reconcile.DefaultSequence(),
	Dimensions:    reconcile.DefaultExpected,
	Categories:    []string{"hr", "settings", "profile", "request", "other", "shared"},
	Measure:       MeasureConfig{Workers: 8},
	Highlight:     HighlightConfig{Style: "auto"},
}

// Default returns a copy of the built-in configuration.
func Default() *Config {
	c := defaultConfig
	c.Include = append([]string(nil), defaultConfig.Include...)
	c.TrailingFiles = append([]string(nil), defaultConfig.TrailingFiles...)
	c.Categories = append([]string(nil), defaultConfig.Categories...)
	return &c
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"images":    "image_folder",
	"data":      "json_path",
	"file-list": "file_list",
	"workers":   "measure.workers",
}

// Options control where LoadConfig looks.
type Options struct {
	// File is an explicit config file; when empty svgaudit.yaml is searched
	// for in the working directory, $HOME and the svgaudit config dir.
	File string
	// Flags, when set, override file and environment values for the flags
	// that were changed on the command line.
	Flags *pflag.FlagSet
}

// LoadConfig loads configuration from defaults, the config file, the
// SVGAUDIT_* environment and command-line flags, in increasing priority.
func LoadConfig(opts Options) (*Config, error) {
	v := viper.New()

	v.SetDefault("image_folder", defaultConfig.ImageFolder)
	v.SetDefault("json_path", defaultConfig.JSONPath)
	v.SetDefault("file_list", defaultConfig.FileList)
	v.SetDefault("include", defaultConfig.Include)
	v.SetDefault("trailing_files", defaultConfig.TrailingFiles)
	v.SetDefault("sequence.prefix", defaultConfig.Sequence.Prefix)
	v.SetDefault("sequence.ext", defaultConfig.Sequence.Ext)
	v.SetDefault("sequence.start", defaultConfig.Sequence.Start)
	v.SetDefault("dimensions.width", defaultConfig.Dimensions.Width)
	v.SetDefault("dimensions.height", defaultConfig.Dimensions.Height)
	v.SetDefault("categories", defaultConfig.Categories)
	v.SetDefault("measure.workers", defaultConfig.Measure.Workers)
	v.SetDefault("highlight.style", defaultConfig.Highlight.Style)
	v.SetDefault("highlight.open", defaultConfig.Highlight.Open)
	v.SetDefault("highlight.close", defaultConfig.Highlight.Close)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("svgaudit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		if configDir, err := GetConfigDir(); err == nil {
			v.AddConfigPath(configDir)
		}
	}

	v.SetEnvPrefix("SVGAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for flag, key := range flagKeys {
			if f := opts.Flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding --%s: %w", flag, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	} else if err := ValidateConfigFile(v.ConfigFileUsed()); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if config.Measure.Workers < 1 {
		config.Measure.Workers = 1
	}
	return &config, nil
}

// FileListPath resolves file_list against image_folder, where the listing
// is generated, unless it is absolute.
func (c *Config) FileListPath() string {
	if filepath.IsAbs(c.FileList) {
		return c.FileList
	}
	return filepath.Join(c.ImageFolder, c.FileList)
}

// Filter returns the gallery filter with every configured category enabled.
func (c *Config) Filter() reconcile.Filter {
	return reconcile.NewFilter(c.Categories...)
}

// Marker resolves the highlight markers. color reports whether the output
// is a colour terminal.
func (c *Config) Marker(color bool) search.Marker {
	if c.Highlight.Open != "" && c.Highlight.Close != "" {
		return search.Marker{Open: c.Highlight.Open, Close: c.Highlight.Close}
	}
	switch strings.ToLower(c.Highlight.Style) {
	case "html":
		return search.HTMLMarker
	case "ansi":
		return search.ANSIMarker
	case "brackets":
		return search.BracketMarker
	}
	if color {
		return search.ANSIMarker
	}
	return search.BracketMarker
}

// GetSvgauditHome returns the svgaudit home directory
func GetSvgauditHome() (string, error) {
	if home := os.Getenv("SVGAUDIT_HOME"); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".svgaudit"), nil
}

// GetConfigDir returns the config directory. It is not created.
func GetConfigDir() (string, error) {
	homeDir, err := GetSvgauditHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, "config"), nil
}
