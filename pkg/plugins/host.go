package plugins

import (
	"log/slog"
	"sync"

	"thinktap/pkg/config"
	"thinktap/pkg/llm"
	"thinktap/pkg/monitor"

	jsoniter "github.com/json-iterator/go"
)

// Host 是插件的執行環境，持有插件需要存取的宿主元件：
// LLM provider、監控器與系統配置。
type Host struct {
	provider     llm.Provider
	monitor      monitor.Monitor
	systemConfig *config.SystemConfig

	mu      sync.Mutex
	plugins []Plugin
}

// Provider 回傳宿主目前使用的 LLM provider
func (h *Host) Provider() llm.Provider {
	return h.provider
}

// Monitor 回傳宿主的監控器（可能為 nil）
func (h *Host) Monitor() monitor.Monitor {
	return h.monitor
}

// SystemConfig 回傳引擎層級的技術參數
func (h *Host) SystemConfig() *config.SystemConfig {
	return h.systemConfig
}

// LoadPlugins 依設定檔建立並初始化插件。
// 未知的插件類型與初始化失敗都只記錄後跳過：插件的缺席對宿主
// 而言必須是無感的。
func (h *Host) LoadPlugins(configs map[string]jsoniter.RawMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for name, raw := range configs {
		factory, ok := GetFactory(name)
		if !ok {
			slog.Warn("Unknown plugin type, skipping", "plugin", name)
			continue
		}

		p, err := factory.Create(raw, h.systemConfig)
		if err != nil {
			slog.Error("Failed to create plugin", "plugin", name, "error", err)
			continue
		}

		if err := p.Init(h); err != nil {
			slog.Error("Plugin init failed, plugin disabled", "plugin", p.Name(), "error", err)
			continue
		}

		slog.Info("Plugin loaded", "plugin", p.Name())
		h.plugins = append(h.plugins, p)
	}
}

// NotifyResponse 將完成的回應物件廣播給所有實作 ResponseObserver 的插件
func (h *Host) NotifyResponse(resp *llm.Response) {
	if resp == nil {
		return
	}

	h.mu.Lock()
	active := make([]Plugin, len(h.plugins))
	copy(active, h.plugins)
	h.mu.Unlock()

	for _, p := range active {
		if obs, ok := p.(ResponseObserver); ok {
			obs.OnResponse(resp)
		}
	}
}

// StopAll 以載入的相反順序終止所有插件。
// 終止失敗只記錄：teardown 路徑上宿主能繼續正常運作的優先度
// 高於錯誤回報。可安全地重複呼叫。
func (h *Host) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := len(h.plugins) - 1; i >= 0; i-- {
		p := h.plugins[i]
		slog.Info("Terminating plugin", "plugin", p.Name())
		if err := p.Terminate(); err != nil {
			slog.Error("Plugin terminate failed", "plugin", p.Name(), "error", err)
		}
	}
	h.plugins = nil
}

// Reload 終止所有插件後依新的設定重新載入。
// 設定檔熱更新時由 watcher 驅動。
func (h *Host) Reload(configs map[string]jsoniter.RawMessage) {
	slog.Info("Reloading plugins")
	h.StopAll()
	h.LoadPlugins(configs)
}

// ActivePlugins 回傳目前已載入的插件數量
func (h *Host) ActivePlugins() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.plugins)
}
