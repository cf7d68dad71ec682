// Package autoload 透過 blank import 觸發各 Provider 的 init() 註冊
package autoload

import (
	_ "thinktap/pkg/llm/gemini"
	_ "thinktap/pkg/llm/ollama"
)
