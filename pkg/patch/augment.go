package patch

import (
	"context"
	"log/slog"

	"thinktap/pkg/llm"
	"thinktap/pkg/llm/gemini"

	"google.golang.org/genai"
)

// newAugmentedBuilder 包裝請求配置建構器。
// 先以原樣的參數呼叫原始建構器取得配置（不重複宿主的建構邏輯），
// 再把 ThinkingConfig 寫到回傳的配置上。原始建構器的錯誤原封不動
// 往上傳：這個包裝器在成功路徑之外不引入任何新的失敗模式。
func newAugmentedBuilder(orig gemini.ConfigBuilderFunc, cfg Config) gemini.ConfigBuilderFunc {
	return func(ctx context.Context, messages []llm.Message) (*genai.GenerateContentConfig, error) {
		original, err := orig(ctx, messages)
		if err != nil {
			return nil, err
		}

		if cfg.IncludeThoughts {
			slog.Debug("Injecting thinking_config", "budget", cfg.ThinkingBudget)
			budget := cfg.ThinkingBudget
			original.ThinkingConfig = &genai.ThinkingConfig{
				IncludeThoughts: true,
				ThinkingBudget:  &budget,
			}
		}

		return original, nil
	}
}
