package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pacer/internal/sampler"
	"pacer/internal/stats"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	Load("")

	assert.Equal(t, sampler.DefaultMinSamples, viper.GetInt("sample_size"))
	assert.Equal(t, 3.0, viper.GetFloat64("timeout"))
	assert.Equal(t, "0%", viper.GetString("horizons"))
	assert.Equal(t, stats.DefaultResamples, viper.GetInt("resamples"))
	assert.Equal(t, ".pacer/results.json", viper.GetString("history_file"))
	assert.False(t, viper.GetBool("verbose"))
}

func TestSamplerConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	Load("")

	viper.Set("sample_size", 10)
	viper.Set("timeout", 0.5)
	viper.Set("horizons", "0ms,+5%")
	viper.Set("seed", int64(42))

	cfg, err := SamplerConfig()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MinSamples)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, int64(42), cfg.Seed)
	require.Len(t, cfg.Horizons, 2)
	assert.Equal(t, stats.Horizon{Value: 0}, cfg.Horizons[0])
	assert.Equal(t, stats.Horizon{Value: 0.05, Relative: true, Signed: true}, cfg.Horizons[1])
}

func TestSamplerConfigBadHorizons(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	Load("")

	viper.Set("horizons", "5 parsecs")
	_, err := SamplerConfig()
	assert.Error(t, err)
}

func TestSpecs(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	Load("")

	viper.Set("benchmarks", []map[string]interface{}{
		{
			"name": "render",
			"url":  map[string]interface{}{"path": "bench/render.html"},
			"browser": map[string]interface{}{
				"name":     "chrome",
				"headless": true,
			},
		},
		{
			"name": "render",
			"label": "optimized",
			"url":  map[string]interface{}{"path": "bench/render-opt.html"},
		},
	})

	specs, err := Specs()
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "render", specs[0].Name)
	assert.True(t, specs[0].Browser.Headless)
	assert.Equal(t, "optimized", specs[1].Label)
}

func TestSpecsEmpty(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	Load("")

	_, err := Specs()
	assert.ErrorContains(t, err, "no benchmarks")
}

func TestSpecsInvalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	Load("")

	viper.Set("benchmarks", []map[string]interface{}{
		{"name": "broken"},
	})

	_, err := Specs()
	assert.ErrorContains(t, err, "needs a url")
}
