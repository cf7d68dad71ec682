package patch

import (
	"log/slog"

	"thinktap/pkg/llm"
	"thinktap/pkg/llm/gemini"
)

// unwrapper 由組合型 Provider（如 llm.FallbackClient）實作，
// 讓探測器能看到底層的實際提供者
type unwrapper interface {
	Unwrap() []llm.Provider
}

// Discover 探測 provider 樹，回傳所有具備 hook 能力的目標。
// 這是一次性的環境檢查：回傳空切片表示目前的環境沒有可安裝的
// 目標（例如只配置了 Ollama），思考捕獲功能應整體停用，宿主
// 其餘功能完全不受影響。
func Discover(p llm.Provider) []gemini.Hookable {
	var targets []gemini.Hookable
	discover(p, &targets)
	return targets
}

func discover(p llm.Provider, targets *[]gemini.Hookable) {
	if p == nil {
		return
	}

	if u, ok := p.(unwrapper); ok {
		for _, child := range u.Unwrap() {
			discover(child, targets)
		}
		return
	}

	if h, ok := p.(gemini.Hookable); ok {
		// 形狀檢查：能力介面存在但 hook 是 nil，視為不相容的表面
		if h.ConfigBuilder() == nil || h.Normalizer() == nil {
			slog.Warn("Provider exposes hook capability but has nil hooks, skipping", "provider", p.Provider())
			return
		}
		*targets = append(*targets, h)
		return
	}

	slog.Debug("Provider has no hook capability, skipping", "provider", p.Provider())
}
