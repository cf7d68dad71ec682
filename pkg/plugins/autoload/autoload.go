// Package autoload 透過 blank import 觸發各 Plugin 的 init() 註冊
package autoload

import (
	_ "thinktap/pkg/plugins/geminipatcher"
	_ "thinktap/pkg/plugins/think"
)
