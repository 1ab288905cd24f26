package domain

import "strings"

// DefaultBotPrefix is the sentinel that turns a plaintext message into a bot query.
const DefaultBotPrefix = "@@"

// IsBotCommand reports whether the trimmed plaintext starts with prefix.
func IsBotCommand(plaintext, prefix string) bool {
	if prefix == "" {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(plaintext), prefix)
}

// ExtractBotQuery strips the prefix and the surrounding whitespace.
func ExtractBotQuery(plaintext, prefix string) string {
	trimmed := strings.TrimSpace(plaintext)
	return strings.TrimSpace(strings.TrimPrefix(trimmed, prefix))
}

// Turn is one exchange line handed to the bot responder as context.
type Turn struct {
	FromBot bool
	Text    string
}
