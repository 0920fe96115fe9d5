//go:build tools

// Package chat_hub pins the code generators run by go generate (mockgen for mocks/).
package chat_hub

import (
	_ "go.uber.org/mock/mockgen"
)
