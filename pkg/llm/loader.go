package llm

import (
	"fmt"
	"log"
	"time"

	"thinktap/pkg/config"

	jsoniter "github.com/json-iterator/go"
)

// NewFromConfig 根據設定檔建立 LLM Provider
func NewFromConfig(rawLLM jsoniter.RawMessage, system *config.SystemConfig) (Provider, error) {
	var allAtomicProviders []Provider

	if rawLLM == nil {
		return nil, fmt.Errorf("missing 'llm' config")
	}

	var groups []ProviderGroupConfig
	if err := json.Unmarshal(rawLLM, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse 'llm' config: %v", err)
	}

	for _, group := range groups {
		log.Printf("Loading LLM Group: %s (%d models)", group.Type, len(group.Models))

		factory, ok := GetProviderFactory(group.Type)
		if !ok {
			log.Printf("⚠️ Unknown provider type: %s", group.Type)
			continue
		}

		providers, err := factory.Create(group, system)
		if err != nil {
			log.Printf("⚠️ Failed to create providers for %s: %v", group.Type, err)
			continue
		}

		allAtomicProviders = append(allAtomicProviders, providers...)
	}

	if len(allAtomicProviders) == 0 {
		return nil, fmt.Errorf("no LLM providers could be initialized")
	}

	log.Printf("✅ Total atomic LLM providers initialized: %d", len(allAtomicProviders))

	// 如果只有一個，直接回傳
	if len(allAtomicProviders) == 1 {
		return allAtomicProviders[0], nil
	}

	// 否則包裹在 FallbackClient 中，並代入系統層級的重試設定
	return &FallbackClient{
		Providers:  allAtomicProviders,
		MaxRetries: system.MaxRetries,
		RetryDelay: time.Duration(system.RetryDelayMs) * time.Millisecond,
	}, nil
}
