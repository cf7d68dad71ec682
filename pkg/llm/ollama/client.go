package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"thinktap/pkg/llm"

	jsoniter "github.com/json-iterator/go"
	"github.com/ollama/ollama/api"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Provider Ollama API provider.
// 不具備 gemini.Hookable 能力：它的請求配置與回應處理沒有對外的
// 擴充點，因此 gemini_patcher 的能力探測會略過它。
type Provider struct {
	client       *api.Client
	model        string
	options      map[string]any
	debugEnabled bool
}

// NewProvider creates an Ollama provider
func NewProvider(model string, baseURL string, options map[string]any) (*Provider, error) {
	var client *api.Client
	var err error

	if baseURL != "" {
		u, parseErr := url.Parse(baseURL)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid base URL: %w", parseErr)
		}
		client = api.NewClient(u, http.DefaultClient)
	} else {
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, err
		}
	}

	return &Provider{
		client:  client,
		model:   model,
		options: options,
	}, nil
}

func (o *Provider) Provider() string {
	return "ollama"
}

// SetDebug implements the llm.Provider interface
func (o *Provider) SetDebug(enabled bool) {
	o.debugEnabled = enabled
}

// Chat implements llm.Provider.Chat (non-streaming)
func (o *Provider) Chat(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
	apiMessages := o.convertMessages(messages)

	streamVal := false
	req := &api.ChatRequest{
		Model:    o.model,
		Messages: apiMessages,
		Options:  o.options,
		Stream:   &streamVal,
	}

	debugger := llm.NewResponseDebugger(ctx, "ollama", o.debugEnabled)
	defer debugger.Close()

	out := &llm.Response{}
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		if jsonData, err := json.Marshal(resp); err == nil {
			debugger.Write(jsonData)
		}

		if resp.Message.Content != "" {
			out.Content = append(out.Content, llm.NewTextBlock(resp.Message.Content))
		}

		if resp.Done {
			switch resp.DoneReason {
			case "length":
				out.StopReason = llm.StopReasonLength
			default:
				out.StopReason = llm.StopReasonStop
			}
			out.Usage = &llm.LLMUsage{
				PromptTokens:     resp.Metrics.PromptEvalCount,
				CompletionTokens: resp.Metrics.EvalCount,
				TotalTokens:      resp.Metrics.PromptEvalCount + resp.Metrics.EvalCount,
				StopReason:       resp.DoneReason,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.Usage != nil {
		llm.LogUsage(o.model, out.Usage)
	}
	return out, nil
}

// convertMessages converts message list to Ollama API format
func (o *Provider) convertMessages(messages []llm.Message) []api.Message {
	var apiMessages []api.Message

	for _, msg := range messages {
		apiMsg := api.Message{
			Role:    msg.Role,
			Content: msg.GetTextContent(),
		}

		for _, block := range msg.Content {
			if block.Type == llm.BlockTypeImage && block.Source != nil && len(block.Source.Data) > 0 {
				apiMsg.Images = append(apiMsg.Images, api.ImageData(block.Source.Data))
			}
		}

		if apiMsg.Content == "" && len(apiMsg.Images) == 0 {
			continue
		}
		apiMessages = append(apiMessages, apiMsg)
	}

	return apiMessages
}

// IsTransientError implements the llm.Provider interface
func (o *Provider) IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())

	// Local server restarting or model still loading
	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "timeout") {
		return true
	}
	if strings.Contains(errMsg, "503") || strings.Contains(errMsg, "loading") {
		return true
	}

	return false
}
