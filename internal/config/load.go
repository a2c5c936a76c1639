package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"pacer/internal/bench"
	"pacer/internal/sampler"
	"pacer/internal/stats"
)

// Load initializes the configuration from file and environment variables.
func Load(cfgFile string) {
	// explicit .env loading; a missing file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search the working directory for pacer.yaml.
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("pacer")
	}

	viper.SetEnvPrefix("PACER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// Set defaults
	viper.SetDefault("sample_size", sampler.DefaultMinSamples)
	viper.SetDefault("timeout", 3.0) // minutes of auto-sampling
	viper.SetDefault("horizons", "0%")
	viper.SetDefault("resamples", stats.DefaultResamples)
	viper.SetDefault("seed", 0)
	viper.SetDefault("history_file", ".pacer/results.json")
	viper.SetDefault("verbose", false)

	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()
}

// SamplerConfig assembles the controller configuration from the resolved
// settings. Flag bindings override file values, which override defaults.
func SamplerConfig() (sampler.Config, error) {
	horizons, err := stats.ParseHorizons(viper.GetString("horizons"))
	if err != nil {
		return sampler.Config{}, err
	}
	return sampler.Config{
		MinSamples: viper.GetInt("sample_size"),
		Timeout:    time.Duration(viper.GetFloat64("timeout") * float64(time.Minute)),
		Horizons:   horizons,
		Seed:       viper.GetInt64("seed"),
		Resamples:  viper.GetInt("resamples"),
	}, nil
}

// Specs unmarshals the configured benchmark list and validates it.
func Specs() ([]bench.Spec, error) {
	var specs []bench.Spec
	if err := viper.UnmarshalKey("benchmarks", &specs); err != nil {
		return nil, fmt.Errorf("invalid benchmarks config: %w", err)
	}
	if err := bench.ValidateAll(specs); err != nil {
		return nil, err
	}
	return specs, nil
}
