package ollama

import (
	"thinktap/pkg/config"
	"thinktap/pkg/llm"
)

// OllamaFactory handles creation of Ollama Providers
type OllamaFactory struct{}

// Create implements ProviderFactory
func (f *OllamaFactory) Create(cfg llm.ProviderGroupConfig, sys *config.SystemConfig) ([]llm.Provider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" && sys != nil {
		baseURL = sys.OllamaDefaultURL
	}

	var providers []llm.Provider
	for _, model := range cfg.Models {
		p, err := NewProvider(model, baseURL, cfg.Options)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}

func init() {
	llm.RegisterProvider("ollama", &OllamaFactory{})
}
