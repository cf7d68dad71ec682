package gemini

import (
	"fmt"
	"strings"

	"thinktap/pkg/llm"

	"google.golang.org/genai"
)

// NormalizeParts is the default response normalizer. It maps the first
// candidate's parts onto the normalized Response: text parts become text
// content blocks, function calls become tool calls, and finish reason plus
// usage metadata are carried over.
//
// 這個函數刻意對 Part.Thought 一無所知：宿主的正規化表示法不包含
// 推理內容。思考的擷取與分離完全由外部包裝器（gemini_patcher）負責。
func NormalizeParts(resp *genai.GenerateContentResponse, out *llm.Response) error {
	if resp == nil || out == nil {
		return fmt.Errorf("gemini: normalize called with nil response or output")
	}

	if resp.UsageMetadata != nil {
		u := resp.UsageMetadata
		out.Usage = &llm.LLMUsage{
			PromptTokens:     int(u.PromptTokenCount),
			PromptDetail:     formatModality(u.PromptTokensDetails),
			CompletionTokens: int(u.CandidatesTokenCount),
			CompletionDetail: formatModality(u.CandidatesTokensDetails),
			TotalTokens:      int(u.TotalTokenCount),
			ThoughtsTokens:   int(u.ThoughtsTokenCount),
			CachedTokens:     int(u.CachedContentTokenCount),
		}
	}

	// 空回應：不視為錯誤，維持 out 原樣讓上層自行判斷
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}

	candidate := resp.Candidates[0]
	for _, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			out.Content = append(out.Content, llm.ContentBlock{
				Type: llm.BlockTypeText,
				Text: part.Text,
			})
		}
		if part.FunctionCall != nil {
			argsB, _ := json.Marshal(part.FunctionCall.Args)
			out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
				Name: part.FunctionCall.Name,
				Function: llm.FunctionCall{
					Name:      part.FunctionCall.Name,
					Arguments: string(argsB),
				},
				// Save original FunctionCall for reconstruction (includes thought_signature, etc.)
				Meta: map[string]any{
					"gemini_function_call": part.FunctionCall,
				},
			})
		}
	}

	if candidate.FinishReason != "" {
		if strings.Contains(string(candidate.FinishReason), "MAX_TOKENS") {
			out.StopReason = llm.StopReasonLength
		} else {
			out.StopReason = llm.StopReasonStop
		}
		if out.Usage != nil {
			out.Usage.StopReason = string(candidate.FinishReason)
		}
	}

	return nil
}

// formatModality formats ModalityTokenCount array for logging
func formatModality(details []*genai.ModalityTokenCount) string {
	if len(details) == 0 {
		return "0"
	}
	var res []string
	for _, d := range details {
		res = append(res, fmt.Sprintf("%v: %d", d.Modality, d.TokenCount))
	}
	return strings.Join(res, " | ")
}
