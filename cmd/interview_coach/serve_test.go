package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServeConfig_Defaults(t *testing.T) {
	serveConfigPath = ""

	cfg, err := loadServeConfig(serveCmd)
	require.NoError(t, err)

	assert.InDelta(t, 0.6, cfg.ContentWeight, 1e-9)
	assert.InDelta(t, 0.4, cfg.DeliveryWeight, 1e-9)
	assert.Equal(t, int64(5000), cfg.ContentTimeoutMS)
	assert.Equal(t, int64(5000), cfg.DeliveryTimeoutMS)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Nil(t, cfg.CrossInsightRules)
}

func TestLoadServeConfig_FileAndFlagOverride(t *testing.T) {
	serveConfigPath = writeTempFile(t, "config.json", `{
		"content_weight": 0.7,
		"delivery_weight": 0.3,
		"content_timeout_ms": 2500,
		"listen_addr": ":9090",
		"cross_insight_rules": ["structure_vs_pace"]
	}`)
	t.Cleanup(func() { serveConfigPath = "" })

	cfg, err := loadServeConfig(serveCmd)
	require.NoError(t, err)

	assert.InDelta(t, 0.7, cfg.ContentWeight, 1e-9)
	assert.InDelta(t, 0.3, cfg.DeliveryWeight, 1e-9)
	assert.Equal(t, int64(2500), cfg.ContentTimeoutMS)
	assert.Equal(t, int64(5000), cfg.DeliveryTimeoutMS, "unset values keep their defaults")
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, []string{"structure_vs_pace"}, cfg.CrossInsightRules)

	require.NoError(t, serveCmd.Flags().Set("addr", ":7070"))
	cfg, err = loadServeConfig(serveCmd)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.ListenAddr, "flags take priority over the config file")
}

func TestLoadServeConfig_RejectsMismatchedWeights(t *testing.T) {
	serveConfigPath = writeTempFile(t, "config.json", `{
		"content_weight": 0.7,
		"delivery_weight": 0.7
	}`)
	t.Cleanup(func() { serveConfigPath = "" })

	_, err := loadServeConfig(serveCmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1")
}
