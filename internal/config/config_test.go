package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"job_url": "https://jobs.example.com/backend",
		"content_timeout_ms": 8000,
		"content_weight": 0.7,
		"delivery_weight": 0.3,
		"cross_insight_rules": ["structure_vs_pace"]
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://jobs.example.com/backend", cfg.JobURL)
	assert.Equal(t, int64(8000), cfg.ContentTimeoutMS)
	assert.Equal(t, 0.7, cfg.ContentWeight)
	assert.Equal(t, []string{"structure_vs_pace"}, cfg.CrossInsightRules)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "{not json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	jobFile := writeConfig(t, "Senior Backend Engineer posting")

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "empty config is valid", cfg: Config{}},
		{name: "weights sum to one", cfg: Config{ContentWeight: 0.7, DeliveryWeight: 0.3}},
		{name: "weights do not sum to one", cfg: Config{ContentWeight: 0.7, DeliveryWeight: 0.7}, wantErr: true},
		{name: "half-set weights", cfg: Config{ContentWeight: 0.7}, wantErr: true},
		{name: "negative weight", cfg: Config{ContentWeight: -0.2, DeliveryWeight: 1.2}, wantErr: true},
		{name: "negative timeout", cfg: Config{ContentTimeoutMS: -1}, wantErr: true},
		{name: "job and job_url together", cfg: Config{JobFile: jobFile, JobURL: "https://x.example"}, wantErr: true},
		{name: "missing job file", cfg: Config{JobFile: "/nonexistent/posting.txt"}, wantErr: true},
		{name: "existing job file", cfg: Config{JobFile: jobFile}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{JobURL: "https://jobs.example.com/a"}
	defaults := Config{
		APIKey:            "file-key",
		DatabaseURL:       "postgres://localhost/coach",
		ContentTimeoutMS:  9000,
		CrossInsightRules: []string{"strong_both"},
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "https://jobs.example.com/a", merged.JobURL)
	assert.Equal(t, "file-key", merged.APIKey)
	assert.Equal(t, int64(9000), merged.ContentTimeoutMS)
	assert.Equal(t, int64(DefaultDeliveryTimeoutMS), merged.DeliveryTimeoutMS)
	assert.Equal(t, DefaultContentWeight, merged.ContentWeight)
	assert.Equal(t, DefaultDeliveryWeight, merged.DeliveryWeight)
	assert.Equal(t, DefaultListenAddr, merged.ListenAddr)
	assert.Equal(t, []string{"strong_both"}, merged.CrossInsightRules)
}

func TestMergeWithDefaults_ExplicitValuesWin(t *testing.T) {
	cfg := Config{
		ContentWeight:  0.5,
		DeliveryWeight: 0.5,
		ListenAddr:     ":9090",
	}

	merged := cfg.MergeWithDefaults(Config{ContentWeight: 0.8, DeliveryWeight: 0.2, ListenAddr: ":8080"})

	assert.Equal(t, 0.5, merged.ContentWeight)
	assert.Equal(t, 0.5, merged.DeliveryWeight)
	assert.Equal(t, ":9090", merged.ListenAddr)
}
