package patch

import (
	"context"
	"errors"
	"testing"

	"thinktap/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestAugmentInjectsThinkingConfig(t *testing.T) {
	t.Parallel()

	base := &genai.GenerateContentConfig{}
	var gotMessages []llm.Message
	orig := func(ctx context.Context, messages []llm.Message) (*genai.GenerateContentConfig, error) {
		gotMessages = messages
		return base, nil
	}

	wrapped := newAugmentedBuilder(orig, Config{IncludeThoughts: true, ThinkingBudget: 4096})

	messages := []llm.Message{llm.NewUserMessage("hi")}
	cfg, err := wrapped(context.Background(), messages)
	require.NoError(t, err)

	// 參數必須原封不動地傳給原始建構器，回傳的是同一個配置物件
	assert.Equal(t, messages, gotMessages)
	assert.Same(t, base, cfg)

	require.NotNil(t, cfg.ThinkingConfig)
	assert.True(t, cfg.ThinkingConfig.IncludeThoughts)
	require.NotNil(t, cfg.ThinkingConfig.ThinkingBudget)
	assert.Equal(t, int32(4096), *cfg.ThinkingConfig.ThinkingBudget)
}

func TestAugmentDisabledLeavesConfigUntouched(t *testing.T) {
	t.Parallel()

	base := &genai.GenerateContentConfig{}
	orig := func(ctx context.Context, messages []llm.Message) (*genai.GenerateContentConfig, error) {
		return base, nil
	}

	wrapped := newAugmentedBuilder(orig, Config{IncludeThoughts: false})

	cfg, err := wrapped(context.Background(), nil)
	require.NoError(t, err)
	assert.Same(t, base, cfg)
	assert.Nil(t, cfg.ThinkingConfig)
}

func TestAugmentPropagatesDelegateError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("builder exploded")
	orig := func(ctx context.Context, messages []llm.Message) (*genai.GenerateContentConfig, error) {
		return nil, sentinel
	}

	wrapped := newAugmentedBuilder(orig, DefaultConfig())

	cfg, err := wrapped(context.Background(), nil)
	assert.Nil(t, cfg)
	// 原始建構器的錯誤必須原封不動往上傳
	assert.ErrorIs(t, err, sentinel)
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.True(t, cfg.IncludeThoughts)
	assert.Equal(t, int32(2048), cfg.ThinkingBudget)
}
