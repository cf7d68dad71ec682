package gemini

import (
	"thinktap/pkg/config"
	"thinktap/pkg/llm"
)

// GeminiFactory handles creation of Gemini Providers
type GeminiFactory struct{}

// Create implements ProviderFactory
func (f *GeminiFactory) Create(cfg llm.ProviderGroupConfig, sys *config.SystemConfig) ([]llm.Provider, error) {
	var providers []llm.Provider

	// Cartesian Product: Models x Keys (prioritize models)
	for _, model := range cfg.Models {
		for _, key := range cfg.APIKeys {
			p, err := NewProvider(key, model, cfg.Options)
			if err != nil {
				return nil, err
			}
			providers = append(providers, p)
		}
	}
	return providers, nil
}

func init() {
	llm.RegisterProvider("gemini", &GeminiFactory{})
}
