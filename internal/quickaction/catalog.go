// Package quickaction holds the canned-prompt catalog and its dispatcher.
package quickaction

import (
	"context"
	"errors"

	"github.com/shopassist-ai/support-chat/internal/model"
	"github.com/shopassist-ai/support-chat/internal/session"
)

// ErrUnknownAction is returned when an action id is not in the catalog.
var ErrUnknownAction = errors.New("unknown quick action")

// catalog is the fixed set of prompts offered before the user has typed
// anything. Process-wide constant, not session state.
var catalog = []model.QuickAction{
	{
		ID:      "track-order",
		Label:   "Track my order",
		Message: "I want to check the status of my order",
		Icon:    "📦",
	},
	{
		ID:      "top-products",
		Label:   "Best sellers",
		Message: "Show me your top selling products",
		Icon:    "🔥",
	},
	{
		ID:      "find-product",
		Label:   "Find a product",
		Message: "I am looking for a product",
		Icon:    "🔍",
	},
	{
		ID:      "talk-support",
		Label:   "Something else",
		Message: "I need help with something else",
		Icon:    "💬",
	},
}

// Catalog returns the quick actions in display order.
func Catalog() []model.QuickAction {
	out := make([]model.QuickAction, len(catalog))
	copy(out, catalog)
	return out
}

// Dispatch sends the canned message for actionID through the session's
// ordinary send path, so quick actions can never desynchronize from
// manual input.
func Dispatch(ctx context.Context, sess *session.Manager, actionID string) (model.MessageRecord, error) {
	for _, action := range catalog {
		if action.ID == actionID {
			return sess.Send(ctx, action.Message)
		}
	}
	return model.MessageRecord{}, ErrUnknownAction
}
