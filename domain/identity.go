// Package domain contains core concepts of the chat relay.
// This file defines identities and the canonical conversation key.
// No runtime, network, or storage logic should be added here.
package domain

import "strings"

type Identity = string

const (
	SystemIdentity Identity = "system"
	BotIdentity    Identity = "bot"

	BotDisplayName    = "Assistant"
	SystemDisplayName = "System"
)

// IsPseudoIdentity reports whether id is one of the reserved non-human identities.
func IsPseudoIdentity(id Identity) bool {
	return id == SystemIdentity || id == BotIdentity
}

// KeySeparator joins the two identities of a conversation key. Client identities may
// not contain it, otherwise two different pairs could share a key.
const KeySeparator = ":"

// ConversationKey returns min(a,b) + ":" + max(a,b).
// The result does not depend on argument order.
func ConversationKey(a, b Identity) string {
	first, second := OrderedPair(a, b)
	return first + KeySeparator + second
}

// IsKeySafe reports whether id can take part in a conversation key without ambiguity.
func IsKeySafe(id Identity) bool {
	return id != "" && !strings.Contains(id, KeySeparator)
}

// OrderedPair returns both identities sorted lexicographically.
func OrderedPair(a, b Identity) (Identity, Identity) {
	if strings.Compare(a, b) <= 0 {
		return a, b
	}
	return b, a
}
