package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"thinktap/pkg/llm"

	jsoniter "github.com/json-iterator/go"
	"google.golang.org/genai"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Provider Google Gemini API provider
//
// 兩個擴充點（buildConfig / normalize）以函數值的形式保存在實例上，
// 預設指向 defaultBuildConfig 與 NormalizeParts。讀寫由 mu 保護，
// 但預期的使用紀律是：安裝/還原只發生在沒有請求進行中的時候。
type Provider struct {
	client       *genai.Client
	model        string
	options      map[string]any
	debugEnabled bool

	mu          sync.RWMutex
	buildConfig ConfigBuilderFunc
	normalize   NormalizeFunc
}

// NewProvider creates a Gemini provider with a single model and API key
func NewProvider(apiKey string, model string, options map[string]any) (*Provider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	g := &Provider{
		client:  client,
		model:   model,
		options: options,
	}
	g.buildConfig = g.defaultBuildConfig
	g.normalize = NormalizeParts
	return g, nil
}

func (g *Provider) Provider() string {
	return "gemini"
}

// Model 回傳此 Provider 綁定的模型名稱
func (g *Provider) Model() string {
	return g.model
}

// SetDebug implements the llm.Provider interface
func (g *Provider) SetDebug(enabled bool) {
	g.debugEnabled = enabled
}

//----------------------------------------------------------------
// Hookable 實作
//----------------------------------------------------------------

// ConfigBuilder implements Hookable
func (g *Provider) ConfigBuilder() ConfigBuilderFunc {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.buildConfig
}

// SetConfigBuilder implements Hookable
func (g *Provider) SetConfigBuilder(fn ConfigBuilderFunc) error {
	if fn == nil {
		return ErrNilHook
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.buildConfig = fn
	return nil
}

// Normalizer implements Hookable
func (g *Provider) Normalizer() NormalizeFunc {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.normalize
}

// SetNormalizer implements Hookable
func (g *Provider) SetNormalizer(fn NormalizeFunc) error {
	if fn == nil {
		return ErrNilHook
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.normalize = fn
	return nil
}

//----------------------------------------------------------------
// Chat
//----------------------------------------------------------------

// Chat implements llm.Provider.Chat.
// 請求配置與回應正規化都經過目前安裝的 hook，因此包裝器得以在
// 不碰觸這裡任何一行的情況下改變外送請求與回應的內容。
func (g *Provider) Chat(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
	cfg, err := g.ConfigBuilder()(ctx, messages)
	if err != nil {
		return nil, err
	}

	contents := g.convertMessages(messages)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, err
	}

	// Save raw response payload when debugging
	debugger := llm.NewResponseDebugger(ctx, "gemini", g.debugEnabled)
	defer debugger.Close()
	if jsonData, err := json.Marshal(resp); err == nil {
		debugger.Write(jsonData)
	}

	out := &llm.Response{}
	if err := g.Normalizer()(resp, out); err != nil {
		return nil, err
	}

	if out.Usage != nil {
		llm.LogUsage(g.model, out.Usage)
	}
	return out, nil
}

// defaultBuildConfig 是請求配置建構的預設實作（綁定實例）。
// System 訊息轉成 SystemInstruction，其餘參數來自 provider options。
func (g *Provider) defaultBuildConfig(ctx context.Context, messages []llm.Message) (*genai.GenerateContentConfig, error) {
	cfg := &genai.GenerateContentConfig{}

	for _, msg := range messages {
		if msg.Role != "system" {
			continue
		}
		var parts []*genai.Part
		for _, block := range msg.Content {
			if block.Type == llm.BlockTypeText && block.Text != "" {
				parts = append(parts, &genai.Part{Text: block.Text})
			}
		}
		if len(parts) > 0 {
			cfg.SystemInstruction = &genai.Content{Parts: parts}
		}
	}

	if temp, ok := g.options["temperature"].(float64); ok {
		t := float32(temp)
		cfg.Temperature = &t
	}
	if maxTokens, ok := g.options["max_output_tokens"].(float64); ok {
		cfg.MaxOutputTokens = int32(maxTokens)
	}

	return cfg, nil
}

// convertMessages converts message list to GenAI format.
// System 訊息由 config builder 處理，這裡略過。
func (g *Provider) convertMessages(messages []llm.Message) []*genai.Content {
	var genaiContents []*genai.Content

	for _, msg := range messages {
		if msg.Role == "system" {
			continue
		}

		role := "user"
		if msg.Role == "assistant" {
			role = "model"
		}

		if msg.Role == "tool" {
			// Tool results are part of user role in Gemini
			genaiContents = append(genaiContents, &genai.Content{
				Role: "user",
				Parts: []*genai.Part{
					{
						FunctionResponse: &genai.FunctionResponse{
							Name:     msg.ToolCallID,
							Response: map[string]any{"result": msg.GetTextContent()},
						},
					},
				},
			})
			continue
		}

		var parts []*genai.Part
		// Gemini 要求在回應前先回放先前的 ToolCalls
		for _, tc := range msg.ToolCalls {
			// Use original FunctionCall if available (includes thought_signature)
			if tc.Meta != nil {
				if originalFC, ok := tc.Meta["gemini_function_call"].(*genai.FunctionCall); ok {
					parts = append(parts, &genai.Part{
						FunctionCall: originalFC,
					})
					continue
				}
			}

			// Rebuild manually if original data is missing (may miss thought_signature)
			var args map[string]any
			json.Unmarshal([]byte(tc.Function.Arguments), &args)
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					Name: tc.Function.Name,
					Args: args,
				},
			})
		}

		for _, block := range msg.Content {
			switch block.Type {
			case llm.BlockTypeText:
				if block.Text == "" {
					continue // 略過空文本
				}
				parts = append(parts, &genai.Part{Text: block.Text})

			case llm.BlockTypeThinking:
				if block.Text == "" {
					continue
				}
				// Mark reasoning content as Thought when saving
				parts = append(parts, &genai.Part{
					Text:    block.Text,
					Thought: true,
				})

			case llm.BlockTypeImage:
				if block.Source != nil && len(block.Source.Data) > 0 {
					parts = append(parts, &genai.Part{
						InlineData: &genai.Blob{
							MIMEType: block.Source.MediaType,
							Data:     block.Source.Data,
						},
					})
				}
			}
		}

		if len(parts) > 0 {
			genaiContents = append(genaiContents, &genai.Content{
				Role:  role,
				Parts: parts,
			})
		}
	}

	return genaiContents
}

// IsTransientError implements the llm.Provider interface
func (g *Provider) IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()

	// 1. Google API common 503 Service Unavailable / Overloaded
	if strings.Contains(errMsg, "503") || strings.Contains(strings.ToLower(errMsg), "overloaded") {
		return true
	}

	// 2. 429 Too Many Requests (Rate Limit)
	if strings.Contains(errMsg, "429") || strings.Contains(strings.ToLower(errMsg), "resource exhausted") {
		return true
	}

	// 3. 500 Internal Error (Occasional Google Gemini crashes)
	if strings.Contains(errMsg, "500") || strings.Contains(strings.ToLower(errMsg), "internal error") {
		return true
	}

	return false
}
