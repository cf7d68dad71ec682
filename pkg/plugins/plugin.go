// Package plugins 提供宿主的插件生命週期管理。
// 插件透過 init() 將 Factory 註冊到全域註冊表（與 llm provider
// 的註冊方式一致），宿主依設定檔逐一建立並初始化。
package plugins

import (
	"thinktap/pkg/config"
	"thinktap/pkg/llm"

	jsoniter "github.com/json-iterator/go"
)

// Plugin 定義插件的生命週期介面
type Plugin interface {
	// Name 回傳插件名稱
	Name() string

	// Init 初始化插件。回傳錯誤表示此插件停用，
	// 但不影響宿主或其他插件的運作。
	Init(host *Host) error

	// Terminate 終止插件並釋放其對宿主的所有改動。
	// 必須可安全地重複呼叫。
	Terminate() error
}

// ResponseObserver 是插件的可選擴充介面：
// 實作它的插件會在每次對話輪完成後收到正規化的回應物件。
type ResponseObserver interface {
	OnResponse(resp *llm.Response)
}

// Factory 定義建立插件的工廠介面
type Factory interface {
	// Create 根據原始 JSON 配置建立插件實例
	Create(raw jsoniter.RawMessage, systemConfig *config.SystemConfig) (Plugin, error)
}

// 全域 Plugin 註冊表
var pluginRegistry = make(map[string]Factory)

// Register 註冊一個 Plugin Factory
func Register(name string, factory Factory) {
	pluginRegistry[name] = factory
}

// GetFactory 取得指定名稱的 Plugin Factory
func GetFactory(name string) (Factory, bool) {
	f, ok := pluginRegistry[name]
	return f, ok
}
