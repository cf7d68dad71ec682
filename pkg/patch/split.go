package patch

import (
	"log/slog"
	"strings"

	"thinktap/pkg/llm"
	"thinktap/pkg/llm/gemini"

	"google.golang.org/genai"
)

// reasoningSeparator joins multiple thought parts into one reasoning string.
const reasoningSeparator = "\n\n"

// newSplittingNormalizer 包裝回應正規化器。
// 將第一個 candidate 的 parts 依 Thought 標記分成思考與回答兩組
// （各自保持原有順序），思考文字串接後掛到 Response.ReasoningContent，
// 回答部分則交還給原始正規化器處理。
func newSplittingNormalizer(orig gemini.NormalizeFunc) gemini.NormalizeFunc {
	return func(resp *genai.GenerateContentResponse, out *llm.Response) error {
		// 形狀異常的回應不做任何處理，讓原始正規化器自行面對
		if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return orig(resp, out)
		}

		thoughts, answers := partitionParts(resp.Candidates[0].Content.Parts)

		if len(thoughts) > 0 {
			slog.Debug("Captured thought parts", "count", len(thoughts))
		}
		out.ReasoningContent = strings.Join(thoughts, reasoningSeparator)

		// 回答為空時仍然委派（帶空序列），空回答的語意由原始實作決定
		resp.Candidates[0].Content.Parts = answers
		return orig(resp, out)
	}
}

// partitionParts 將 parts 分成思考文字與回答 parts 兩組，保持順序。
// 判別條件與上游一致：帶 Thought 標記且有文字的 part 是思考，
// 其餘（含無文字的 thought part）都屬於回答。
func partitionParts(parts []*genai.Part) (thoughts []string, answers []*genai.Part) {
	answers = make([]*genai.Part, 0, len(parts))
	for _, part := range parts {
		if part != nil && part.Thought && part.Text != "" {
			thoughts = append(thoughts, part.Text)
			continue
		}
		answers = append(answers, part)
	}
	return thoughts, answers
}
