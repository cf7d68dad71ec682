package gemini

import (
	"context"
	"errors"

	"thinktap/pkg/llm"

	"google.golang.org/genai"
)

// ErrNilHook is returned by the hook setters when the replacement
// function is nil. Installing a nil hook would break every later call,
// so it is rejected up front.
var ErrNilHook = errors.New("gemini: hook function must not be nil")

// ConfigBuilderFunc 建立單次請求的 GenerateContentConfig。
// 預設實作是綁定在 Provider 實例上的 method value（需要讀取 provider
// 自身的 options）；包裝器呼叫它時不需要知道這件事。
type ConfigBuilderFunc func(ctx context.Context, messages []llm.Message) (*genai.GenerateContentConfig, error)

// NormalizeFunc 將原始 API 回應轉換為正規化的 llm.Response。
// 預設實作是 package-level 的 NormalizeParts，不依賴任何 Provider 狀態。
type NormalizeFunc func(resp *genai.GenerateContentResponse, out *llm.Response) error

// Hookable 是 Provider 對外暴露的兩個擴充點。
// 外部元件（如 gemini_patcher 插件）透過組合的方式包裝這兩個函數，
// 而不是直接改寫 Provider 內部。
//
// Setter 只應在沒有請求進行中時呼叫（安裝於服務開始前、還原於服務
// 結束後）；Getter 在每次請求時讀取。
type Hookable interface {
	// ConfigBuilder 回傳目前的請求配置建構函數
	ConfigBuilder() ConfigBuilderFunc
	// SetConfigBuilder 替換請求配置建構函數，fn 為 nil 時回傳 ErrNilHook
	SetConfigBuilder(fn ConfigBuilderFunc) error

	// Normalizer 回傳目前的回應正規化函數
	Normalizer() NormalizeFunc
	// SetNormalizer 替換回應正規化函數，fn 為 nil 時回傳 ErrNilHook
	SetNormalizer(fn NormalizeFunc) error
}
