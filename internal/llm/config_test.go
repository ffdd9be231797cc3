package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.NotEmpty(t, config.GetModel(TierLite))
	assert.NotEmpty(t, config.GetModel(TierStandard))
	assert.NotEmpty(t, config.GetModel(TierAdvanced))
}

func TestGetModel_FallbackChain(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierStandard: "standard-model"},
	}
	assert.Equal(t, "standard-model", config.GetModel(TierAdvanced), "missing tier falls back to standard")

	config = &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierLite: "lite-model"},
	}
	assert.Equal(t, "lite-model", config.GetModel(TierAdvanced), "then to lite")

	config = &Config{Provider: ProviderGemini}
	assert.Empty(t, config.GetModel(TierAdvanced))
}

func TestWithModel_DoesNotMutateOriginal(t *testing.T) {
	original := DefaultConfig()
	originalAdvanced := original.GetModel(TierAdvanced)

	updated := original.WithModel(TierAdvanced, "custom-model")

	assert.Equal(t, "custom-model", updated.GetModel(TierAdvanced))
	assert.Equal(t, originalAdvanced, original.GetModel(TierAdvanced))
}
