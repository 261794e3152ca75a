package config

import (
	"os"
	"path/filepath"
	"sync"

	"fjacquet/trendfit/internal/fileutils"
	"fjacquet/trendfit/internal/trend"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file in the working directory or its
// parent, if one exists. It runs at most once per process.
func LoadEnv(logger *logrus.Logger) {
	once.Do(func() {
		envFile := ".env"
		if !fileutils.FileExists(envFile) {
			envFile = filepath.Join("..", ".env")
			if !fileutils.FileExists(envFile) {
				logger.Debug("No .env file found, using environment variables")
				return
			}
		}

		if err := godotenv.Load(envFile); err != nil {
			logger.Warnf("Error loading .env file: %v", err)
			return
		}
		logger.Debugf("Loaded environment variables from %s", envFile)
	})
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// GoalPerPeriod returns fit.goal_per_period as a decimal.
func (c *Config) GoalPerPeriod() decimal.Decimal {
	return decimal.NewFromFloat(c.Fit.GoalPerPeriod)
}

// EngineOptions maps the fit section onto trend engine options.
func (c *Config) EngineOptions() trend.Options {
	opts := trend.DefaultOptions()

	opts.Driver.PolynomialDegree = c.Fit.PolynomialDegree
	opts.Driver.ConstantShortCircuit = c.Fit.ConstantShortCircuit
	opts.Driver.IndependentExponentialChecks = c.Fit.IndependentExponentialChecks
	opts.Driver.Exponential = trend.ExponentialDetector{
		MinPoints:                 c.Fit.Exponential.MinPoints,
		MinPositiveRatio:          c.Fit.Exponential.MinPositiveRatio,
		MaxCoefficientOfVariation: c.Fit.Exponential.MaxCoefficientOfVariation,
	}

	opts.Selector.OverfitThreshold = c.Fit.OverfitThreshold
	opts.Selector.BorderlineThreshold = c.Fit.BorderlineThreshold

	opts.Workers = c.Fit.Workers
	opts.GoalPerPeriod = c.GoalPerPeriod()
	return opts
}
