package gemini

import (
	"context"
	"testing"

	"thinktap/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNormalizePartsTextAndToolCalls(t *testing.T) {
	t.Parallel()

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Hello "},
				{Text: "world"},
				{FunctionCall: &genai.FunctionCall{
					Name: "get_weather",
					Args: map[string]any{"city": "Taipei"},
				}},
			}},
			FinishReason: genai.FinishReason("STOP"),
		}},
	}

	out := &llm.Response{}
	require.NoError(t, NormalizeParts(resp, out))

	assert.Equal(t, "Hello world", out.GetTextContent())
	assert.Equal(t, llm.StopReasonStop, out.StopReason)

	require.Len(t, out.ToolCalls, 1)
	tc := out.ToolCalls[0]
	assert.Equal(t, "get_weather", tc.Name)
	assert.JSONEq(t, `{"city":"Taipei"}`, tc.Function.Arguments)
	// 原始 FunctionCall 必須保留在 Meta 供後續回放
	assert.NotNil(t, tc.Meta["gemini_function_call"])
}

func TestNormalizePartsMaxTokens(t *testing.T) {
	t.Parallel()

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: "truncat"}}},
			FinishReason: genai.FinishReason("MAX_TOKENS"),
		}},
	}

	out := &llm.Response{}
	require.NoError(t, NormalizeParts(resp, out))
	assert.Equal(t, llm.StopReasonLength, out.StopReason)
}

func TestNormalizePartsEmptyResponse(t *testing.T) {
	t.Parallel()

	// 空回應不是錯誤，out 維持原樣
	out := &llm.Response{}
	require.NoError(t, NormalizeParts(&genai.GenerateContentResponse{}, out))
	assert.Empty(t, out.Content)
	assert.Empty(t, out.StopReason)
}

func TestNormalizePartsNilArguments(t *testing.T) {
	t.Parallel()

	assert.Error(t, NormalizeParts(nil, &llm.Response{}))
	assert.Error(t, NormalizeParts(&genai.GenerateContentResponse{}, nil))
}

func TestNormalizePartsUsage(t *testing.T) {
	t.Parallel()

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: "ok"}}},
			FinishReason: genai.FinishReason("STOP"),
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     10,
			CandidatesTokenCount: 5,
			TotalTokenCount:      20,
			ThoughtsTokenCount:   5,
		},
	}

	out := &llm.Response{}
	require.NoError(t, NormalizeParts(resp, out))

	require.NotNil(t, out.Usage)
	assert.Equal(t, 10, out.Usage.PromptTokens)
	assert.Equal(t, 5, out.Usage.CompletionTokens)
	assert.Equal(t, 20, out.Usage.TotalTokens)
	assert.Equal(t, 5, out.Usage.ThoughtsTokens)
	assert.Equal(t, "STOP", out.Usage.StopReason)
}

func TestDefaultBuildConfig(t *testing.T) {
	t.Parallel()

	g := &Provider{
		model: "gemini-2.5-pro",
		options: map[string]any{
			"temperature":       0.4,
			"max_output_tokens": 1024.0,
		},
	}

	messages := []llm.Message{
		llm.NewSystemMessage("You are helpful."),
		llm.NewUserMessage("hi"),
	}

	cfg, err := g.defaultBuildConfig(context.Background(), messages)
	require.NoError(t, err)

	require.NotNil(t, cfg.SystemInstruction)
	require.Len(t, cfg.SystemInstruction.Parts, 1)
	assert.Equal(t, "You are helpful.", cfg.SystemInstruction.Parts[0].Text)

	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.4, float64(*cfg.Temperature), 1e-6)
	assert.Equal(t, int32(1024), cfg.MaxOutputTokens)

	// 預設建構器絕不主動要求思考輸出
	assert.Nil(t, cfg.ThinkingConfig)
}

func TestHookSettersRejectNil(t *testing.T) {
	t.Parallel()

	g := &Provider{}
	assert.ErrorIs(t, g.SetConfigBuilder(nil), ErrNilHook)
	assert.ErrorIs(t, g.SetNormalizer(nil), ErrNilHook)
}

func TestConvertMessagesSkipsSystemAndEmpty(t *testing.T) {
	t.Parallel()

	g := &Provider{}
	messages := []llm.Message{
		llm.NewSystemMessage("system prompt"),
		llm.NewUserMessage("question"),
		llm.NewAssistantMessage(""),
	}

	contents := g.convertMessages(messages)
	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "question", contents[0].Parts[0].Text)
}
