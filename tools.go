//go:build tools
// +build tools

// Package tools pins the code generators run by go generate (mockgen for mocks/),
// so a fresh checkout resolves them from go.mod.
package chat_relay

import (
	_ "go.uber.org/mock/mockgen"
)
