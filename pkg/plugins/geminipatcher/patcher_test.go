package geminipatcher

import (
	"context"
	"testing"

	"thinktap/pkg/config"
	"thinktap/pkg/llm"
	"thinktap/pkg/llm/gemini"
	"thinktap/pkg/patch"
	"thinktap/pkg/plugins"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// hookedProvider 是測試用的可掛鉤 provider
type hookedProvider struct {
	builder    gemini.ConfigBuilderFunc
	normalizer gemini.NormalizeFunc
}

func newHookedProvider() *hookedProvider {
	return &hookedProvider{
		builder: func(ctx context.Context, messages []llm.Message) (*genai.GenerateContentConfig, error) {
			return &genai.GenerateContentConfig{}, nil
		},
		normalizer: gemini.NormalizeParts,
	}
}

func (p *hookedProvider) ConfigBuilder() gemini.ConfigBuilderFunc { return p.builder }

func (p *hookedProvider) SetConfigBuilder(fn gemini.ConfigBuilderFunc) error {
	if fn == nil {
		return gemini.ErrNilHook
	}
	p.builder = fn
	return nil
}

func (p *hookedProvider) Normalizer() gemini.NormalizeFunc { return p.normalizer }

func (p *hookedProvider) SetNormalizer(fn gemini.NormalizeFunc) error {
	if fn == nil {
		return gemini.ErrNilHook
	}
	p.normalizer = fn
	return nil
}

func (p *hookedProvider) Provider() string { return "gemini" }

func (p *hookedProvider) Chat(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
	return &llm.Response{}, nil
}

func (p *hookedProvider) IsTransientError(err error) bool { return false }

func (p *hookedProvider) SetDebug(enabled bool) {}

// nonHookedProvider 沒有任何擴充點
type nonHookedProvider struct{}

func (p *nonHookedProvider) Provider() string { return "ollama" }

func (p *nonHookedProvider) Chat(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
	return &llm.Response{}, nil
}

func (p *nonHookedProvider) IsTransientError(err error) bool { return false }

func (p *nonHookedProvider) SetDebug(enabled bool) {}

func newHost(t *testing.T, p llm.Provider) *plugins.Host {
	t.Helper()
	host, err := plugins.NewHostBuilder().
		WithProvider(p).
		WithSystemConfig(config.DefaultSystemConfig()).
		Build()
	require.NoError(t, err)
	return host
}

func TestFactoryDefaults(t *testing.T) {
	t.Parallel()

	f := &Factory{}
	p, err := f.Create(nil, config.DefaultSystemConfig())
	require.NoError(t, err)

	patcher := p.(*Patcher)
	assert.True(t, patcher.cfg.IncludeThoughts)
	assert.Equal(t, int32(2048), patcher.cfg.ThinkingBudget)
}

func TestFactoryConfigOverrides(t *testing.T) {
	t.Parallel()

	f := &Factory{}
	raw := jsoniter.RawMessage(`{"include_thoughts": true, "thinking_budget": 8192}`)
	p, err := f.Create(raw, config.DefaultSystemConfig())
	require.NoError(t, err)

	patcher := p.(*Patcher)
	assert.Equal(t, int32(8192), patcher.cfg.ThinkingBudget)
}

func TestFactoryInvalidConfig(t *testing.T) {
	t.Parallel()

	f := &Factory{}
	_, err := f.Create(jsoniter.RawMessage(`{not json`), config.DefaultSystemConfig())
	assert.Error(t, err)
}

func TestInitWithoutHookableProvider(t *testing.T) {
	t.Parallel()

	patcher := &Patcher{cfg: patch.DefaultConfig()}
	host := newHost(t, &nonHookedProvider{})

	// 能力探測失敗 → 插件停用，不 panic、不影響宿主
	err := patcher.Init(host)
	assert.Error(t, err)
	assert.Equal(t, 0, patcher.Targets())
}

func TestInitInstallsAndTerminateRestores(t *testing.T) {
	t.Parallel()

	provider := newHookedProvider()
	patcher := &Patcher{cfg: patch.DefaultConfig()}
	host := newHost(t, provider)

	require.NoError(t, patcher.Init(host))
	assert.Equal(t, 1, patcher.Targets())

	// 安裝後建構出的配置必須帶 ThinkingConfig
	cfg, err := provider.ConfigBuilder()(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, cfg.ThinkingConfig)
	assert.True(t, cfg.ThinkingConfig.IncludeThoughts)

	require.NoError(t, patcher.Terminate())
	assert.Equal(t, 0, patcher.Targets())

	// 還原後配置不再帶 ThinkingConfig
	cfg, err = provider.ConfigBuilder()(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, cfg.ThinkingConfig)

	// Terminate 可重複呼叫
	require.NoError(t, patcher.Terminate())
}

func TestReloadCycle(t *testing.T) {
	t.Parallel()

	provider := newHookedProvider()
	patcher := &Patcher{cfg: patch.DefaultConfig()}
	host := newHost(t, provider)

	// install → uninstall → install：重載後 patch 必須仍然有效
	require.NoError(t, patcher.Init(host))
	require.NoError(t, patcher.Terminate())
	require.NoError(t, patcher.Init(host))

	cfg, err := provider.ConfigBuilder()(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, cfg.ThinkingConfig)

	require.NoError(t, patcher.Terminate())
}

func TestEndToEndSplitThroughInstalledHooks(t *testing.T) {
	t.Parallel()

	provider := newHookedProvider()
	patcher := &Patcher{cfg: patch.DefaultConfig()}
	host := newHost(t, provider)
	require.NoError(t, patcher.Init(host))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "let me think...", Thought: true},
				{Text: "the answer is 42"},
			}},
			FinishReason: genai.FinishReason("STOP"),
		}},
	}

	out := &llm.Response{}
	require.NoError(t, provider.Normalizer()(resp, out))

	assert.Equal(t, "let me think...", out.ReasoningContent)
	assert.Equal(t, "the answer is 42", out.GetTextContent())

	require.NoError(t, patcher.Terminate())
}
