package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// json 用於 package llm 內部的 JSON 處理，統一使用 json-iterator
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LLMUsage 定義通用的用量統計結構
type LLMUsage struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	ThoughtsTokens   int    `json:"thoughts_tokens,omitempty"`
	CachedTokens     int    `json:"cached_tokens,omitempty"`
	PromptDetail     string `json:"prompt_detail,omitempty"`
	CompletionDetail string `json:"completion_detail,omitempty"`
	StopReason       string `json:"stop_reason,omitempty"`
}

// LogUsage 印出統一格式的用量統計
func LogUsage(model string, usage *LLMUsage) {
	if usage == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n> ### 📊 完整用量統計 (%s)\n", model)
	fmt.Fprintf(&sb, "> | 統計項目 | Token 數量 | 詳細拆解 |\n")
	fmt.Fprintf(&sb, "> | :--- | :--- | :--- |\n")
	fmt.Fprintf(&sb, "> | **提示 (Prompt)** | %d | %s |\n", usage.PromptTokens, usage.PromptDetail)
	fmt.Fprintf(&sb, "> | **回答 (Response)** | %d | %s |\n", usage.CompletionTokens, usage.CompletionDetail)
	fmt.Fprintf(&sb, "> | **總計 (Total)** | **%d** | - |\n", usage.TotalTokens)
	fmt.Fprintf(&sb, "> | **思考 (Thoughts)** | %d | - |\n", usage.ThoughtsTokens)

	if usage.StopReason != "" {
		fmt.Fprintf(&sb, "> | **停止原因 (Reason)** | %s | - |\n", usage.StopReason)
	}

	if usage.CachedTokens > 0 {
		fmt.Fprintf(&sb, "> | **快取 (Cached)** | %d | - |\n", usage.CachedTokens)
	}

	fmt.Fprint(&sb, "> ---")

	log.Println(sb.String())
}

// Provider 通用 LLM 提供者介面
type Provider interface {
	// Provider 回傳提供者名稱 (如 "gemini", "ollama")
	Provider() string

	// Chat 執行一次完整對話輪，回傳正規化的 Response
	// messages: 對話歷史（使用 llm.Message 結構）
	Chat(ctx context.Context, messages []Message) (*Response, error)

	// IsTransientError 判斷是否為暫時性錯誤 (如 503, Rate Limit)
	IsTransientError(err error) bool

	// SetDebug 切換原始回應封包的落地紀錄
	SetDebug(enabled bool)
}

// FallbackClient 支援多個 Provider 分級嘗試
type FallbackClient struct {
	Providers  []Provider
	MaxRetries int
	RetryDelay time.Duration
}

func (f *FallbackClient) Provider() string {
	return "fallback"
}

// Unwrap 回傳底層的 Provider 清單，供能力探測等需要檢視
// 實際提供者的元件使用
func (f *FallbackClient) Unwrap() []Provider {
	return f.Providers
}

func (f *FallbackClient) Chat(ctx context.Context, messages []Message) (*Response, error) {
	var lastErr error
	for i, provider := range f.Providers {
		if i > 0 {
			log.Printf("⚠️ Previous provider failed. Trying fallback provider #%d...", i+1)
		}

		// 使用配置的重試次數，若為 0 則至少執行 1 次
		maxRetries := f.MaxRetries
		if maxRetries <= 0 {
			maxRetries = 1
		}

		for retry := 1; retry <= maxRetries; retry++ {
			if retry > 1 {
				log.Printf("🔄 Retrying provider #%d (attempt %d/%d)...", i+1, retry, maxRetries)
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(time.Duration(retry-1) * f.RetryDelay):
				}
			}

			resp, err := provider.Chat(ctx, messages)
			if err == nil {
				return resp, nil
			}

			lastErr = err

			if provider.IsTransientError(err) && retry < maxRetries {
				log.Printf("❌ Provider #%d failed with transient error: %v. Retrying...", i+1, err)
				continue
			}

			// 非暫時性錯誤，或者已達最大重試次數
			log.Printf("❌ Provider #%d failed: %v", i+1, err)
			break
		}
	}
	return nil, fmt.Errorf("all fallback providers failed. Last error: %v", lastErr)
}

// IsTransientError 實作 Provider 介面
// FallbackClient 的錯誤意味著所有 Child 都已失敗，視為非暫時性
func (f *FallbackClient) IsTransientError(err error) bool {
	return false
}

// SetDebug 實作 Provider 介面，將設定傳遞給所有底層 Provider
func (f *FallbackClient) SetDebug(enabled bool) {
	for _, p := range f.Providers {
		p.SetDebug(enabled)
	}
}
