// Package patch 在 Gemini Provider 的兩個擴充點上安裝思考捕獲包裝器：
// 請求配置建構器被包裝為額外注入 ThinkingConfig，回應正規化器被包裝為
// 把思考片段從回答中分離出來並掛到 Response.ReasoningContent 上。
//
// 安裝回傳一個 Token，持有被換下的原始函數；還原時把原始函數原封不動
// 地放回去。兩個擴充點永遠同進同退：要嘛都被包裝，要嘛都是原始狀態。
package patch

import (
	"errors"
	"fmt"
	"sync"

	"thinktap/pkg/llm/gemini"
)

// ErrNilTarget is returned by Install when the target is nil.
var ErrNilTarget = errors.New("patch: install target must not be nil")

// Config 控制包裝器的行為，對應外部插件設定
type Config struct {
	// IncludeThoughts 是否要求模型回傳思考內容
	IncludeThoughts bool `json:"include_thoughts"`
	// ThinkingBudget 思考 token 預算
	ThinkingBudget int32 `json:"thinking_budget"`
}

// DefaultConfig 回傳預設的包裝器設定
func DefaultConfig() Config {
	return Config{
		IncludeThoughts: true,
		ThinkingBudget:  2048,
	}
}

// Token 代表一次成功的安裝。它持有被換下的兩個原始函數，
// 是唯一能夠還原目標的憑證：Token 存在即表示目標處於被包裝狀態。
//
// 原始函數在捕獲後即為唯讀，Token 只在 Restore 時消費它們一次。
type Token struct {
	target gemini.Hookable

	origBuilder    gemini.ConfigBuilderFunc
	origNormalizer gemini.NormalizeFunc

	mu       sync.Mutex
	restored bool
}

// Install 在目標的兩個擴充點上安裝包裝器並回傳還原憑證。
//
// 全有或全無：若第二個擴充點安裝失敗，第一個會被回滾到原始狀態，
// 目標不會停留在「半包裝」的混合狀態。目標目前的 hook 為 nil 時
// 視為形狀異常，安裝直接失敗。
func Install(target gemini.Hookable, cfg Config) (*Token, error) {
	if target == nil {
		return nil, ErrNilTarget
	}

	// 捕獲原始函數（Original Method References）
	origBuilder := target.ConfigBuilder()
	origNormalizer := target.Normalizer()
	if origBuilder == nil || origNormalizer == nil {
		return nil, fmt.Errorf("patch: target exposes a nil hook, refusing to install")
	}

	if err := target.SetConfigBuilder(newAugmentedBuilder(origBuilder, cfg)); err != nil {
		return nil, fmt.Errorf("patch: failed to install config builder wrapper: %w", err)
	}

	if err := target.SetNormalizer(newSplittingNormalizer(origNormalizer)); err != nil {
		// 回滾第一個擴充點，維持同進同退
		if rbErr := target.SetConfigBuilder(origBuilder); rbErr != nil {
			return nil, fmt.Errorf("patch: failed to install normalizer wrapper (%v) and rollback also failed: %w", err, rbErr)
		}
		return nil, fmt.Errorf("patch: failed to install normalizer wrapper: %w", err)
	}

	return &Token{
		target:         target,
		origBuilder:    origBuilder,
		origNormalizer: origNormalizer,
	}, nil
}

// Restore 將捕獲的原始函數放回目標。冪等：第二次以後的呼叫是 no-op。
// 即使其中一個擴充點還原失敗，另一個仍會嘗試還原：讓目標盡可能
// 回到原始狀態的優先度高於回報完整的錯誤。
func (t *Token) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.restored {
		return nil
	}

	var errs []error
	if err := t.target.SetConfigBuilder(t.origBuilder); err != nil {
		errs = append(errs, fmt.Errorf("restore config builder: %w", err))
	}
	if err := t.target.SetNormalizer(t.origNormalizer); err != nil {
		errs = append(errs, fmt.Errorf("restore normalizer: %w", err))
	}

	t.restored = true
	return errors.Join(errs...)
}

// Restored 回報此 Token 是否已被還原
func (t *Token) Restored() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.restored
}
