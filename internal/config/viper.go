// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Fit struct {
		PolynomialDegree int     `mapstructure:"polynomial_degree" yaml:"polynomial_degree"`
		GoalPerPeriod    float64 `mapstructure:"goal_per_period" yaml:"goal_per_period"`
		Workers          int     `mapstructure:"workers" yaml:"workers"`

		ConstantShortCircuit         bool `mapstructure:"constant_short_circuit" yaml:"constant_short_circuit"`
		IndependentExponentialChecks bool `mapstructure:"independent_exponential_checks" yaml:"independent_exponential_checks"`

		Exponential struct {
			MinPoints                 int     `mapstructure:"min_points" yaml:"min_points"`
			MinPositiveRatio          float64 `mapstructure:"min_positive_ratio" yaml:"min_positive_ratio"`
			MaxCoefficientOfVariation float64 `mapstructure:"max_coefficient_of_variation" yaml:"max_coefficient_of_variation"`
		} `mapstructure:"exponential" yaml:"exponential"`

		OverfitThreshold    float64 `mapstructure:"overfit_threshold" yaml:"overfit_threshold"`
		BorderlineThreshold float64 `mapstructure:"borderline_threshold" yaml:"borderline_threshold"`
	} `mapstructure:"fit" yaml:"fit"`

	Store struct {
		Backend string `mapstructure:"backend" yaml:"backend"`
		Path    string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"store" yaml:"store"`

	Watch struct {
		Schedule string `mapstructure:"schedule" yaml:"schedule"`
		Input    string `mapstructure:"input" yaml:"input"`
	} `mapstructure:"watch" yaml:"watch"`
}

// Store backends accepted in store.backend.
const (
	StoreBackendYAML   = "yaml"
	StoreBackendSQLite = "sqlite"
	StoreBackendNone   = "none"
)

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile behaves like InitializeConfig but reads configFile instead of
// searching the default locations when configFile is not empty. An explicit file that
// cannot be read is an error.
func InitializeConfigFromFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.trendfit")
		v.AddConfigPath(".trendfit")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("TRENDFIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")

	// Fit defaults
	v.SetDefault("fit.polynomial_degree", 3)
	v.SetDefault("fit.goal_per_period", 0.0)
	v.SetDefault("fit.workers", runtime.NumCPU())
	v.SetDefault("fit.constant_short_circuit", true)
	v.SetDefault("fit.independent_exponential_checks", false)
	v.SetDefault("fit.exponential.min_points", 5)
	v.SetDefault("fit.exponential.min_positive_ratio", 0.8)
	v.SetDefault("fit.exponential.max_coefficient_of_variation", 0.6)
	v.SetDefault("fit.overfit_threshold", 0.9)
	v.SetDefault("fit.borderline_threshold", 0.8)

	// Store defaults
	v.SetDefault("store.backend", StoreBackendYAML)
	v.SetDefault("store.path", "")

	// Watch defaults
	v.SetDefault("watch.schedule", "@hourly")
	v.SetDefault("watch.input", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiter
	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	// Validate fit configuration
	if config.Fit.PolynomialDegree < 1 {
		return fmt.Errorf("fit.polynomial_degree must be at least 1, got: %d", config.Fit.PolynomialDegree)
	}
	if config.Fit.Workers < 1 {
		return fmt.Errorf("fit.workers must be at least 1, got: %d", config.Fit.Workers)
	}
	if config.Fit.GoalPerPeriod < 0 {
		return fmt.Errorf("fit.goal_per_period must not be negative, got: %f", config.Fit.GoalPerPeriod)
	}
	if config.Fit.Exponential.MinPoints < 2 {
		return fmt.Errorf("fit.exponential.min_points must be at least 2, got: %d", config.Fit.Exponential.MinPoints)
	}

	ratios := map[string]float64{
		"fit.exponential.min_positive_ratio": config.Fit.Exponential.MinPositiveRatio,
		"fit.overfit_threshold":              config.Fit.OverfitThreshold,
		"fit.borderline_threshold":           config.Fit.BorderlineThreshold,
	}
	for key, value := range ratios {
		if value < 0.0 || value > 1.0 {
			return fmt.Errorf("%s must be between 0.0 and 1.0, got: %f", key, value)
		}
	}
	if config.Fit.Exponential.MaxCoefficientOfVariation <= 0 {
		return fmt.Errorf("fit.exponential.max_coefficient_of_variation must be positive, got: %f",
			config.Fit.Exponential.MaxCoefficientOfVariation)
	}

	// Validate store backend
	switch config.Store.Backend {
	case StoreBackendYAML, StoreBackendSQLite, StoreBackendNone:
	default:
		return fmt.Errorf("invalid store backend: %s (must be 'yaml', 'sqlite' or 'none')", config.Store.Backend)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	// Parse and set log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Configure log format
	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
