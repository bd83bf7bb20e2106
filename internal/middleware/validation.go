package middleware

import (
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"
)

// maxMessageBytes caps message bodies at roughly 100KB.
const maxMessageBytes = 100000

// maxFeedbackBytes caps free-text feedback comments.
const maxFeedbackBytes = 2000

// ValidateMessageContent validates a chat message body.
func ValidateMessageContent(content string) error {
	if len(content) == 0 {
		return errors.New("message cannot be empty")
	}
	if len(content) > maxMessageBytes {
		return errors.New("message exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("message must be valid UTF-8")
	}
	return nil
}

// ValidateConversationID validates a conversation ID. Conversation ids
// are UUIDs; anything else can never name a stored conversation.
func ValidateConversationID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid conversation ID format")
	}
	return nil
}

// ValidateFeedbackText validates an optional feedback comment.
func ValidateFeedbackText(text string) error {
	if len(text) > maxFeedbackBytes {
		return errors.New("feedback text exceeds maximum length")
	}
	if !utf8.ValidString(text) {
		return errors.New("feedback text must be valid UTF-8")
	}
	return nil
}
