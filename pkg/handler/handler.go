package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"thinktap/pkg/config"
	"thinktap/pkg/llm"
	"thinktap/pkg/monitor"
	"thinktap/pkg/plugins"
	"thinktap/pkg/utils"
)

// ChatHandler orchestrates the conversation flow: it maintains the session
// history, dispatches each turn to the LLM provider, and broadcasts the
// completed response to the plugin host so observers (like the think
// plugin) can consume the captured reasoning.
type ChatHandler struct {
	provider     llm.Provider         // The LLM provider (possibly a fallback composite)
	host         *plugins.Host        // Plugin host for response broadcasting
	history      *llm.ChatHistory     // In-memory buffer for the conversation's message history
	config       *config.Config       // Business-level application configuration
	systemConfig *config.SystemConfig // Technical/engine-level configuration parameters
}

// NewChatHandler initializes a ChatHandler instance.
// The system prompt (if configured) is seeded into the history as the
// opening system message.
func NewChatHandler(provider llm.Provider, host *plugins.Host, cfg *config.Config, sysCfg *config.SystemConfig, history *llm.ChatHistory) *ChatHandler {
	h := &ChatHandler{
		provider:     provider,
		host:         host,
		history:      history,
		config:       cfg,
		systemConfig: sysCfg,
	}

	if cfg.SystemPrompt != "" && history.Len() == 0 {
		history.Add(llm.NewSystemMessage(cfg.SystemPrompt))
	}

	// Sync debug switch based on config
	provider.SetDebug(sysCfg.DebugResponses)

	return h
}

// HandleMessage 處理一則使用者訊息並回傳最終回答文字。
// 回應物件會先廣播給插件，讓 think 插件在答案送出前呈現思考內容。
func (h *ChatHandler) HandleMessage(ctx context.Context, userText string) (string, error) {
	h.history.Add(llm.NewUserMessage(userText))

	if h.host != nil && h.host.Monitor() != nil {
		h.host.Monitor().OnMessage(monitor.MonitorMessage{
			Timestamp:   time.Now(),
			MessageType: monitor.TypeUser,
			Username:    "user",
			Content:     userText,
		})
	}

	// 每次請求一個獨立的 debug ID，raw response 落地時用來分組
	debugID := utils.GenerateID()
	reqCtx := context.WithValue(ctx, llm.DebugDirContextKey, debugID)

	timeout := time.Duration(h.systemConfig.LLMTimeoutMs) * time.Millisecond
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(reqCtx, timeout)
		defer cancel()
	}

	resp, err := h.provider.Chat(reqCtx, h.history.GetMessages())
	if err != nil {
		return "", fmt.Errorf("chat failed: %w", err)
	}

	// 廣播給插件（think 插件在這裡讀取 ReasoningContent）
	if h.host != nil {
		h.host.NotifyResponse(resp)
	}

	answer := resp.GetTextContent()
	h.history.Add(llm.NewAssistantMessage(answer))

	if resp.StopReason == llm.StopReasonLength {
		slog.Warn("Response truncated due to max tokens limit")
	}

	if h.host != nil && h.host.Monitor() != nil {
		h.host.Monitor().OnMessage(monitor.MonitorMessage{
			Timestamp:   time.Now(),
			MessageType: monitor.TypeAssistant,
			Content:     answer,
		})
	}

	return answer, nil
}
