// Package geminipatcher 是思考捕獲插件：在宿主的 Gemini Provider 上
// 安裝請求增強與回應分離兩個包裝器，讓下游插件（如 think）能從
// Response.ReasoningContent 讀取模型的思考過程。
//
// 插件只依賴擴充點的函數簽名與 genai 物件的結構，不依賴宿主
// Provider 的內部實作，宿主升級時耦合風險很低。
package geminipatcher

import (
	"fmt"
	"log/slog"

	"thinktap/pkg/config"
	"thinktap/pkg/llm/gemini"
	"thinktap/pkg/patch"
	"thinktap/pkg/plugins"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PluginName 是此插件在設定檔中的識別名稱
const PluginName = "gemini_patcher"

// Patcher 管理思考捕獲包裝器的完整生命週期。
// tokens 在 Init 成功後持有每個目標的還原憑證，Terminate 時消費。
type Patcher struct {
	cfg    patch.Config
	tokens []*patch.Token
}

// Name implements plugins.Plugin
func (p *Patcher) Name() string {
	return PluginName
}

// Init implements plugins.Plugin.
// 先做一次性的能力探測；沒有任何可安裝目標時回報停用（宿主照常
// 運作）。有目標時逐一安裝，途中失敗則還原所有已安裝的目標，
// 維持全有或全無。
func (p *Patcher) Init(host *plugins.Host) error {
	targets := patch.Discover(host.Provider())
	if len(targets) == 0 {
		return fmt.Errorf("no hookable Gemini provider available, thought capture disabled")
	}

	for _, target := range targets {
		token, err := patch.Install(target, p.cfg)
		if err != nil {
			// 回滾已安裝的目標，不留下半套狀態
			for _, t := range p.tokens {
				if rbErr := t.Restore(); rbErr != nil {
					slog.Error("Rollback restore failed", "error", rbErr)
				}
			}
			p.tokens = nil
			return fmt.Errorf("install failed: %w", err)
		}
		p.tokens = append(p.tokens, token)
	}

	slog.Info("Thought capture patches applied", "targets", len(p.tokens), "budget", p.cfg.ThinkingBudget)
	return nil
}

// Terminate implements plugins.Plugin.
// 還原所有目標。冪等且盡力而為：單一目標還原失敗只記錄，
// 其餘目標仍會被還原。
func (p *Patcher) Terminate() error {
	for _, t := range p.tokens {
		if err := t.Restore(); err != nil {
			slog.Error("Failed to restore original hooks", "error", err)
		}
	}
	p.tokens = nil
	slog.Info("Thought capture patches removed")
	return nil
}

// Targets 回傳目前持有還原憑證的目標數量
func (p *Patcher) Targets() int {
	return len(p.tokens)
}

// Factory 建立 Patcher 插件
type Factory struct{}

// Create implements plugins.Factory
func (f *Factory) Create(raw jsoniter.RawMessage, sys *config.SystemConfig) (plugins.Plugin, error) {
	cfg := patch.DefaultConfig()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("invalid %s config: %w", PluginName, err)
		}
	}
	return &Patcher{cfg: cfg}, nil
}

// 確認 Hookable 由 gemini.Provider 滿足（編譯期檢查）
var _ gemini.Hookable = (*gemini.Provider)(nil)

func init() {
	plugins.Register(PluginName, &Factory{})
}
