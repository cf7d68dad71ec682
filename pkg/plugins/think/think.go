// Package think 是思考內容的下游消費插件：每次對話輪完成後讀取
// Response.ReasoningContent，若有內容則透過監控器呈現給使用者。
// 它只讀取這一個附加欄位，完全不關心思考是如何被捕獲的。
package think

import (
	"time"

	"thinktap/pkg/config"
	"thinktap/pkg/llm"
	"thinktap/pkg/monitor"
	"thinktap/pkg/plugins"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PluginName 是此插件在設定檔中的識別名稱
const PluginName = "think"

// options 控制思考內容的呈現方式
type options struct {
	// MaxDisplayChars 限制單次呈現的思考文字長度，0 表示不限制
	MaxDisplayChars int `json:"max_display_chars"`
}

// Viewer 在每次回應完成後將捕獲的思考內容送到監控器
type Viewer struct {
	opts    options
	monitor monitor.Monitor
}

// Name implements plugins.Plugin
func (v *Viewer) Name() string {
	return PluginName
}

// Init implements plugins.Plugin
func (v *Viewer) Init(host *plugins.Host) error {
	v.monitor = host.Monitor()
	return nil
}

// Terminate implements plugins.Plugin
func (v *Viewer) Terminate() error {
	v.monitor = nil
	return nil
}

// OnResponse implements plugins.ResponseObserver
func (v *Viewer) OnResponse(resp *llm.Response) {
	if v.monitor == nil || resp.ReasoningContent == "" {
		return
	}

	content := resp.ReasoningContent
	if v.opts.MaxDisplayChars > 0 && len(content) > v.opts.MaxDisplayChars {
		content = content[:v.opts.MaxDisplayChars] + "..."
	}

	v.monitor.OnMessage(monitor.MonitorMessage{
		Timestamp:   time.Now(),
		MessageType: monitor.TypeThought,
		Content:     content,
	})
}

// Factory 建立 Viewer 插件
type Factory struct{}

// Create implements plugins.Factory
func (f *Factory) Create(raw jsoniter.RawMessage, sys *config.SystemConfig) (plugins.Plugin, error) {
	var opts options
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &opts); err != nil {
			return nil, err
		}
	}
	return &Viewer{opts: opts}, nil
}

func init() {
	plugins.Register(PluginName, &Factory{})
}
