package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config mirrors the staticforge.yaml file driving the CLI.
type Config struct {
	// Source is the resource directory to scan.
	Source string `mapstructure:"source"`

	// Output is the generated file path.
	Output string `mapstructure:"output"`

	// Package is the generated package name (default: output dir name).
	Package string `mapstructure:"package"`

	// Function is the generated entry point name.
	Function string `mapstructure:"function"`

	// Sort enables lexicographic ordering of the embedded table.
	Sort bool `mapstructure:"sort"`

	// Sniff enables content-based MIME detection for unknown extensions.
	Sniff bool `mapstructure:"sniff"`

	// ChangeDetection enables fingerprint-based skipping.
	ChangeDetection bool `mapstructure:"change_detection"`

	// CacheDir holds fingerprints between invocations.
	CacheDir string `mapstructure:"cache_dir"`

	// SplitCount, when positive, splits the table into set files of that
	// many resources each.
	SplitCount int `mapstructure:"split_count"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// Npm configures the optional package-manager bridge.
	Npm NpmConfig `mapstructure:"npm"`
}

// NpmConfig configures the package-manager step that runs before scanning.
type NpmConfig struct {
	// Dir is the directory holding package.json. Empty disables the bridge.
	Dir string `mapstructure:"dir"`

	// Executable overrides the package manager (npm, yarn, pnpm).
	Executable string `mapstructure:"executable"`

	// Install runs the install command before any scripts.
	Install bool `mapstructure:"install"`

	// Run lists the scripts executed in order after install.
	Run []string `mapstructure:"run"`

	// Target is where built assets land, relative to Dir (default dist).
	Target string `mapstructure:"target"`

	// CleanNodeModules removes node_modules after a successful build.
	CleanNodeModules bool `mapstructure:"clean_node_modules"`

	// EnvFile loads extra subprocess environment from a dotenv file.
	EnvFile string `mapstructure:"env_file"`
}

// LoadConfig reads configuration via Viper. With an explicit path the file
// must exist; otherwise staticforge.yaml is searched in the working
// directory and its absence is not an error (flags alone can drive a run).
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("staticforge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("function", "Generate")
	v.SetDefault("sort", true)
	v.SetDefault("cache_dir", ".staticforge")
	v.SetDefault("log_level", "info")
	v.SetDefault("npm.install", true)
}
