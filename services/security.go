package services

import "log/slog"

// Security event kinds, logged apart from ordinary validation failures.
const (
	securityForeignConversation  = "foreign_conversation"
	securityConversationMismatch = "conversation_participant_mismatch"
	securityForeignMessage       = "foreign_message"
	securitySyncLeak             = "sync_foreign_message"
)

func logSecurityEvent(log *slog.Logger, kind, msg string, attrs ...any) {
	log.Warn("SECURITY: "+msg, append([]any{"security_event", kind}, attrs...)...)
}
