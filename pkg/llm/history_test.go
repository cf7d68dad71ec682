package llm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatHistoryBasics(t *testing.T) {
	t.Parallel()

	h := NewChatHistory()
	assert.Equal(t, 0, h.Len())

	h.Add(NewSystemMessage("you are helpful"))
	h.Add(NewUserMessage("hello"))
	assert.Equal(t, 2, h.Len())

	msgs := h.GetMessages()
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[1].Role)

	// GetMessages 回傳副本，修改不影響內部狀態
	msgs[0].Role = "mutated"
	assert.Equal(t, "system", h.GetMessages()[0].Role)

	h.Clear()
	assert.Equal(t, 0, h.Len())
}

func TestChatHistoryConcurrentAdd(t *testing.T) {
	t.Parallel()

	h := NewChatHistory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Add(NewUserMessage("msg"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, h.Len())
}
