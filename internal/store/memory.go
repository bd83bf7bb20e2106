package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopassist-ai/support-chat/internal/model"
)

// MemoryStore implements Store in memory. Used by tests and as a
// fallback when no database path is configured.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
	messages      map[string][]StoredMessage
	feedback      []Feedback
	products      []model.ProductSummary
	orders        map[string]model.OrderRecord
}

// NewMemory creates an in-memory store pre-loaded with the demo catalog.
func NewMemory() *MemoryStore {
	orders := make(map[string]model.OrderRecord, len(seedOrders))
	for _, o := range seedOrders {
		orders[strings.ToUpper(o.ID)] = o
	}
	products := make([]model.ProductSummary, len(seedProducts))
	copy(products, seedProducts)

	return &MemoryStore{
		conversations: make(map[string]*Conversation),
		messages:      make(map[string][]StoredMessage),
		products:      products,
		orders:        orders,
	}
}

func (s *MemoryStore) CreateConversation(_ context.Context, conv *Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *conv
	s.conversations[conv.ID] = &c
	s.messages[conv.ID] = make([]StoredMessage, 0, 16)
	return nil
}

func (s *MemoryStore) GetConversation(_ context.Context, id string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil, nil
	}
	c := *conv
	return &c, nil
}

func (s *MemoryStore) EndConversation(_ context.Context, id string, endedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.conversations[id]; ok && conv.EndedAt == nil {
		t := endedAt
		conv.EndedAt = &t
	}
	return nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, msg *StoredMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.ConversationID] = append(s.messages[msg.ConversationID], *msg)
	return nil
}

func (s *MemoryStore) Messages(_ context.Context, conversationID string) ([]StoredMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[conversationID]
	out := make([]StoredMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryStore) SaveFeedback(_ context.Context, fb *Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, *fb)
	return nil
}

func (s *MemoryStore) TopProducts(_ context.Context, limit int) ([]model.ProductSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ProductSummary, len(s.products))
	copy(out, s.products)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalSold > out[j].TotalSold
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) SearchProducts(_ context.Context, name string) ([]model.ProductSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(name))
	var out []model.ProductSummary
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) GetOrder(_ context.Context, orderID string) (*model.OrderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[strings.ToUpper(orderID)]
	if !ok {
		return nil, nil
	}
	o := order
	return &o, nil
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
