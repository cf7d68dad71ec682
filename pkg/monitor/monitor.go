package monitor

import "time"

// Message type constants for MonitorMessage.MessageType.
const (
	TypeUser      = "USER"
	TypeAssistant = "ASSISTANT"
	// TypeThought marks captured chain-of-thought content. It is only
	// produced when the gemini_patcher plugin is installed and the model
	// actually returned thought parts.
	TypeThought = "THOUGHT"
)

// MonitorMessage 代表一則監控訊息
type MonitorMessage struct {
	Timestamp   time.Time
	MessageType string // "USER", "ASSISTANT" or "THOUGHT"
	Username    string
	Content     string
}

// Monitor 介面定義了監控器的行為
type Monitor interface {
	// Start 啟動監控器
	Start() error

	// Stop 停止監控器
	Stop() error

	// OnMessage 接收並顯示監控訊息
	OnMessage(msg MonitorMessage)
}
