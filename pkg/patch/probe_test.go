package patch

import (
	"context"
	"testing"

	"thinktap/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainProvider 是不具備 hook 能力的 provider（模擬 Ollama 類型）
type plainProvider struct{}

func (p *plainProvider) Provider() string { return "ollama" }

func (p *plainProvider) Chat(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
	return &llm.Response{}, nil
}

func (p *plainProvider) IsTransientError(err error) bool { return false }

func (p *plainProvider) SetDebug(enabled bool) {}

func TestDiscoverHookableTarget(t *testing.T) {
	t.Parallel()

	target := newStubTarget()
	targets := Discover(target)
	require.Len(t, targets, 1)
	assert.Same(t, target, targets[0].(*stubTarget))
}

func TestDiscoverNonHookableProvider(t *testing.T) {
	t.Parallel()

	// 環境裡只有不相容的 provider → 沒有可安裝目標，功能整體停用
	targets := Discover(&plainProvider{})
	assert.Empty(t, targets)
}

func TestDiscoverNilProvider(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Discover(nil))
}

func TestDiscoverUnwrapsFallbackComposite(t *testing.T) {
	t.Parallel()

	hookable1 := newStubTarget()
	hookable2 := newStubTarget()
	fb := &llm.FallbackClient{
		Providers: []llm.Provider{&plainProvider{}, hookable1, hookable2},
	}

	targets := Discover(fb)
	require.Len(t, targets, 2)
	assert.Same(t, hookable1, targets[0].(*stubTarget))
	assert.Same(t, hookable2, targets[1].(*stubTarget))
}

func TestDiscoverSkipsNilHooks(t *testing.T) {
	t.Parallel()

	// 能力介面存在但 hook 是 nil：形狀不相容，應被略過
	broken := &stubTarget{}
	assert.Empty(t, Discover(broken))
}
