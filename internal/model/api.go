package model

import (
	"encoding/json"
	"time"
)

// StartConversationRequest is the body for POST /conversations/start.
type StartConversationRequest struct {
	UserIdentifier string `json:"userIdentifier,omitempty"`
	Channel        string `json:"channel"`
}

// StartConversationResponse is the reply to a start request.
type StartConversationResponse struct {
	ConversationID string    `json:"conversationId"`
	UserIdentifier string    `json:"userIdentifier"`
	StartedAt      time.Time `json:"startedAt"`
}

// ChatRequest is the body for POST /conversations/message.
type ChatRequest struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
	Sender         string `json:"sender"`
}

// ChatReply is the raw backend reply before classification. Type is an
// optional tag; Data is left undecoded until the classifier inspects it.
type ChatReply struct {
	Message string          `json:"message"`
	Type    string          `json:"type,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// FeedbackRequest is the body for POST /conversations/feedback.
type FeedbackRequest struct {
	ConversationID string `json:"conversationId"`
	Rating         int    `json:"rating"`
	FeedbackText   string `json:"feedbackText,omitempty"`
}

// Ack is the generic acknowledgement body.
type Ack struct {
	Status string `json:"status"`
}
