// Package store provides persistence for the reference backend.
package store

import (
	"context"
	"time"

	"github.com/shopassist-ai/support-chat/internal/model"
)

// Conversation is a backend-side conversation row.
type Conversation struct {
	ID             string
	UserIdentifier string
	Channel        string
	StartedAt      time.Time
	EndedAt        *time.Time
}

// StoredMessage is a backend-side transcript row. Payload holds the
// JSON-encoded structured payload for non-text kinds, empty otherwise.
type StoredMessage struct {
	ID             string
	ConversationID string
	Sender         model.Sender
	Kind           model.Kind
	Body           string
	Payload        string
	CreatedAt      time.Time
}

// Feedback is a submitted conversation rating.
type Feedback struct {
	ID             string
	ConversationID string
	Rating         int
	Text           string
	CreatedAt      time.Time
}

// Store is the persistence interface the backend handlers depend on.
// Lookup methods return (nil, nil) when the row does not exist.
type Store interface {
	CreateConversation(ctx context.Context, conv *Conversation) error
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	EndConversation(ctx context.Context, id string, endedAt time.Time) error

	AppendMessage(ctx context.Context, msg *StoredMessage) error
	Messages(ctx context.Context, conversationID string) ([]StoredMessage, error)

	SaveFeedback(ctx context.Context, fb *Feedback) error

	TopProducts(ctx context.Context, limit int) ([]model.ProductSummary, error)
	SearchProducts(ctx context.Context, name string) ([]model.ProductSummary, error)
	GetOrder(ctx context.Context, orderID string) (*model.OrderRecord, error)

	Ping(ctx context.Context) error
	Close() error
}
