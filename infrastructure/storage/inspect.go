package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RecordView is a flat, printable rendition of one stored key/value pair.
type RecordView struct {
	Key       string
	Kind      string
	EntityID  string
	Timestamp string
	Detail    string
}

const inspectTimeLayout = "2006-01-02 15:04:05.000"

// Describe decodes a raw key/value pair written by the repositories of this package.
// Unknown prefixes and undecodable values still yield a row with the value size.
func Describe(key string, val []byte) RecordView {
	view := RecordView{
		Key:       key,
		Kind:      "RAW",
		EntityID:  "-",
		Timestamp: "-",
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	switch {
	case strings.HasPrefix(key, messageIDPrefix):
		view.Kind = "MESSAGE_INDEX"
		view.EntityID = strings.TrimPrefix(key, messageIDPrefix)
		view.Detail = "-> " + string(val)
	case strings.HasPrefix(key, messagePrefix):
		view.Kind = "MESSAGE"
		var record messageRecord
		if err := unmarshal(val, &record); err != nil {
			view.Detail = "Error: unmarshal failed"
			return view
		}
		view.EntityID = record.ID
		view.Timestamp = formatNanos(record.Timestamp)
		view.Detail = describeMessage(record)
	case strings.HasPrefix(key, conversationKeyPrefix):
		view.Kind = "CONVERSATION_KEY"
		view.EntityID = string(val)
		view.Detail = strings.TrimPrefix(key, conversationKeyPrefix)
	case strings.HasPrefix(key, conversationPrefix):
		view.Kind = "CONVERSATION"
		var record conversationRecord
		if err := unmarshal(val, &record); err != nil {
			view.Detail = "Error: unmarshal failed"
			return view
		}
		view.EntityID = record.ID
		view.Timestamp = formatNanos(record.CreatedAt)
		view.Detail = record.ParticipantA + " <-> " + record.ParticipantB
	case strings.HasPrefix(key, participantPrefix):
		view.Kind = "PARTICIPANT"
		rest := strings.TrimPrefix(key, participantPrefix)
		if i := strings.LastIndex(rest, ":"); i >= 0 {
			view.EntityID = rest[i+1:]
			view.Detail = rest[:i]
		}
	case strings.HasPrefix(key, profilePrefix):
		view.Kind = "PROFILE"
		var record profileRecord
		if err := unmarshal(val, &record); err != nil {
			view.Detail = "Error: unmarshal failed"
			return view
		}
		view.EntityID = record.ID
		view.Timestamp = formatNanos(record.UpdatedAt)
		view.Detail = fmt.Sprintf("%s (%s)", record.Username, record.Language)
	case strings.HasPrefix(key, publicKeyPrefix):
		view.Kind = "PUBLIC_KEY"
		view.EntityID = strings.TrimPrefix(key, publicKeyPrefix)
		view.Detail = truncate(string(val), 32)
	}
	return view
}

func describeMessage(record messageRecord) string {
	var flags []string
	if record.EncryptionNonce != nil {
		flags = append(flags, "encrypted")
	}
	if record.Edited {
		flags = append(flags, "edited")
	}
	if record.Deleted {
		flags = append(flags, "deleted")
	}
	if record.Read {
		flags = append(flags, "read")
	}
	if record.IsBot {
		flags = append(flags, "bot")
	}
	content := record.Content
	if record.EncryptionNonce != nil {
		content = "<ciphertext>"
	}
	detail := fmt.Sprintf("[%s] %s -> %s: %s", record.Type, record.SenderID, record.ReceiverID, truncate(content, 48))
	if len(flags) > 0 {
		detail += " {" + strings.Join(flags, ",") + "}"
	}
	return detail
}

func formatNanos(n int64) string {
	return time.Unix(0, n).UTC().Format(inspectTimeLayout)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
