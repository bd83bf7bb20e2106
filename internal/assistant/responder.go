// Package assistant generates backend replies for the support chat.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/shopassist-ai/support-chat/internal/model"
	"github.com/shopassist-ai/support-chat/internal/store"
	"github.com/shopassist-ai/support-chat/pkg/logger"
	"github.com/shopassist-ai/support-chat/pkg/metrics"
)

// Intent is the routing decision for an incoming message.
type Intent string

const (
	IntentOrderStatus Intent = "order_status"
	IntentTopProducts Intent = "top_products"
	IntentSearch      Intent = "product_search"
	IntentSmallTalk   Intent = "small_talk"
)

const topProductsLimit = 5

// Responder maps user messages to structured or plain-text replies,
// backed by the store and optionally an LLM for small talk.
type Responder struct {
	store     store.Store
	completer Completer
	logger    *logger.Logger
}

// NewResponder creates a responder. completer may be nil, in which case
// unresolved messages get a canned reply.
func NewResponder(st store.Store, completer Completer, log *logger.Logger) *Responder {
	return &Responder{
		store:     st,
		completer: completer,
		logger:    log,
	}
}

var orderIDPattern = regexp.MustCompile(`(?i)\b(ORD-?\d+|\d{5,})\b`)

// Reply produces the backend reply for one user message.
func (r *Responder) Reply(ctx context.Context, text string) (*model.ChatReply, error) {
	intent, arg := DetectIntent(text)
	metrics.AssistantIntents.WithLabelValues(string(intent)).Inc()

	switch intent {
	case IntentOrderStatus:
		return r.orderReply(ctx, arg)
	case IntentTopProducts:
		return r.productsReply(ctx)
	case IntentSearch:
		return r.searchReply(ctx, arg)
	default:
		return r.smallTalkReply(ctx, text)
	}
}

// DetectIntent classifies a message and extracts its argument: the order
// id for order status, the query string for product search.
func DetectIntent(text string) (Intent, string) {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "order") || strings.Contains(lower, "track") ||
		strings.Contains(lower, "delivery") || strings.Contains(lower, "package") {
		return IntentOrderStatus, orderIDPattern.FindString(text)
	}

	if strings.Contains(lower, "top") || strings.Contains(lower, "best sell") ||
		strings.Contains(lower, "bestsell") || strings.Contains(lower, "popular") ||
		strings.Contains(lower, "trending") {
		return IntentTopProducts, ""
	}

	for _, prefix := range []string{"looking for", "do you have", "do you sell", "search for", "find me", "find", "search"} {
		if idx := strings.Index(lower, prefix); idx >= 0 {
			q := strings.TrimSpace(text[idx+len(prefix):])
			q = strings.Trim(q, "?!. ")
			for _, article := range []string{"a ", "an ", "the ", "some "} {
				if len(q) > len(article) && strings.EqualFold(q[:len(article)], article) {
					q = q[len(article):]
					break
				}
			}
			if strings.EqualFold(q, "product") {
				q = ""
			}
			return IntentSearch, q
		}
	}

	return IntentSmallTalk, ""
}

func (r *Responder) orderReply(ctx context.Context, orderID string) (*model.ChatReply, error) {
	if orderID == "" {
		return &model.ChatReply{
			Message: "Sure, what's your order number? It looks like ORD-12345.",
		}, nil
	}

	order, err := r.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("look up order %s: %w", orderID, err)
	}
	if order == nil {
		// Explicit not-found: still an order reply, with a null payload,
		// so the widget renders its not-found card.
		return &model.ChatReply{
			Message: fmt.Sprintf("I couldn't find an order %s. Please double-check the number.", orderID),
			Type:    "order",
			Data:    json.RawMessage("null"),
		}, nil
	}

	data, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}
	return &model.ChatReply{
		Message: fmt.Sprintf("Here's the latest on order %s:", order.ID),
		Type:    "order",
		Data:    data,
	}, nil
}

func (r *Responder) productsReply(ctx context.Context) (*model.ChatReply, error) {
	products, err := r.store.TopProducts(ctx, topProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("load top products: %w", err)
	}

	data, err := json.Marshal(products)
	if err != nil {
		return nil, fmt.Errorf("encode products: %w", err)
	}
	return &model.ChatReply{
		Message: "These are our best sellers right now:",
		Type:    "products",
		Data:    data,
	}, nil
}

func (r *Responder) searchReply(ctx context.Context, query string) (*model.ChatReply, error) {
	if query == "" {
		return &model.ChatReply{
			Message: "What product are you looking for?",
		}, nil
	}

	products, err := r.store.SearchProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search products %q: %w", query, err)
	}
	if len(products) == 0 {
		return &model.ChatReply{
			Message: fmt.Sprintf("I couldn't find anything matching %q. Try a different name?", query),
		}, nil
	}

	data, err := json.Marshal(products)
	if err != nil {
		return nil, fmt.Errorf("encode products: %w", err)
	}
	return &model.ChatReply{
		Message: fmt.Sprintf("Here's what I found for %q:", query),
		Type:    "products",
		Data:    data,
	}, nil
}

func (r *Responder) smallTalkReply(ctx context.Context, text string) (*model.ChatReply, error) {
	if r.completer == nil {
		return &model.ChatReply{
			Message: "I can help you track an order, browse best sellers, or find a product. What would you like to do?",
		}, nil
	}

	content, err := r.completer.Complete(ctx, text)
	if err != nil {
		r.logger.Warn("llm completion failed, using canned reply",
			zap.String("provider", r.completer.Name()),
			zap.Error(err),
		)
		return &model.ChatReply{
			Message: "I can help you track an order, browse best sellers, or find a product. What would you like to do?",
		}, nil
	}
	return &model.ChatReply{Message: content}, nil
}
