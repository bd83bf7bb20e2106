package store_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopassist-ai/support-chat/internal/model"
	"github.com/shopassist-ai/support-chat/internal/store"
)

// storeFactories lets the same behavioral suite run against both
// implementations.
var storeFactories = map[string]func(t *testing.T) store.Store{
	"memory": func(t *testing.T) store.Store {
		return store.NewMemory()
	},
	"sqlite": func(t *testing.T) store.Store {
		st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("open sqlite store: %v", err)
		}
		return st
	},
}

func TestConversationLifecycle(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			st := factory(t)
			defer st.Close()
			ctx := context.Background()

			conv := &store.Conversation{
				ID:             "c-1",
				UserIdentifier: "anon-1",
				Channel:        "web",
				StartedAt:      time.Now().UTC(),
			}
			if err := st.CreateConversation(ctx, conv); err != nil {
				t.Fatalf("create: %v", err)
			}

			got, err := st.GetConversation(ctx, "c-1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got == nil || got.UserIdentifier != "anon-1" {
				t.Fatalf("unexpected conversation: %+v", got)
			}
			if got.EndedAt != nil {
				t.Fatal("new conversation should not be ended")
			}

			missing, err := st.GetConversation(ctx, "nope")
			if err != nil {
				t.Fatalf("get missing: %v", err)
			}
			if missing != nil {
				t.Fatal("missing conversation should be nil, nil")
			}

			ended := time.Now().UTC()
			if err := st.EndConversation(ctx, "c-1", ended); err != nil {
				t.Fatalf("end: %v", err)
			}
			got, err = st.GetConversation(ctx, "c-1")
			if err != nil {
				t.Fatalf("get after end: %v", err)
			}
			if got.EndedAt == nil {
				t.Fatal("conversation should record its end time")
			}
		})
	}
}

func TestMessagesPreserveInsertionOrder(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			st := factory(t)
			defer st.Close()
			ctx := context.Background()

			conv := &store.Conversation{ID: "c-2", UserIdentifier: "anon", Channel: "web", StartedAt: time.Now().UTC()}
			if err := st.CreateConversation(ctx, conv); err != nil {
				t.Fatalf("create: %v", err)
			}

			bodies := []string{"first", "second", "third"}
			for i, body := range bodies {
				sender := model.SenderUser
				if i%2 == 1 {
					sender = model.SenderBot
				}
				msg := &store.StoredMessage{
					ID:             body,
					ConversationID: "c-2",
					Sender:         sender,
					Kind:           model.KindText,
					Body:           body,
					CreatedAt:      time.Now().UTC(),
				}
				if err := st.AppendMessage(ctx, msg); err != nil {
					t.Fatalf("append %q: %v", body, err)
				}
			}

			msgs, err := st.Messages(ctx, "c-2")
			if err != nil {
				t.Fatalf("messages: %v", err)
			}
			if len(msgs) != len(bodies) {
				t.Fatalf("got %d messages, want %d", len(msgs), len(bodies))
			}
			for i, body := range bodies {
				if msgs[i].Body != body {
					t.Fatalf("position %d: got %q, want %q", i, msgs[i].Body, body)
				}
			}
		})
	}
}

func TestTopProductsSortedBySales(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			st := factory(t)
			defer st.Close()

			products, err := st.TopProducts(context.Background(), 5)
			if err != nil {
				t.Fatalf("top products: %v", err)
			}
			if len(products) != 5 {
				t.Fatalf("got %d products, want 5", len(products))
			}
			for i := 1; i < len(products); i++ {
				if products[i].TotalSold > products[i-1].TotalSold {
					t.Fatalf("products out of order at %d: %d > %d", i, products[i].TotalSold, products[i-1].TotalSold)
				}
			}
		})
	}
}

func TestSearchProductsCaseInsensitive(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			st := factory(t)
			defer st.Close()

			results, err := st.SearchProducts(context.Background(), "YOGA")
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(results) == 0 {
				t.Fatal("expected a match for the seeded yoga mat")
			}
			for _, p := range results {
				if !strings.Contains(strings.ToLower(p.Name), "yoga") {
					t.Fatalf("unexpected match %q", p.Name)
				}
			}

			none, err := st.SearchProducts(context.Background(), "flux capacitor")
			if err != nil {
				t.Fatalf("search miss: %v", err)
			}
			if len(none) != 0 {
				t.Fatalf("expected no matches, got %d", len(none))
			}
		})
	}
}

func TestGetOrderLookup(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			st := factory(t)
			defer st.Close()
			ctx := context.Background()

			order, err := st.GetOrder(ctx, "ord-10021")
			if err != nil {
				t.Fatalf("get order: %v", err)
			}
			if order == nil {
				t.Fatal("seeded order should resolve regardless of case")
			}
			if order.Status != model.OrderStatusShipped {
				t.Fatalf("status %s, want shipped", order.Status)
			}
			if len(order.Items) == 0 {
				t.Fatal("order should carry its line items")
			}

			missing, err := st.GetOrder(ctx, "ORD-99999")
			if err != nil {
				t.Fatalf("get missing order: %v", err)
			}
			if missing != nil {
				t.Fatal("unknown order should be nil, nil")
			}
		})
	}
}

func TestSaveFeedback(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			st := factory(t)
			defer st.Close()
			ctx := context.Background()

			conv := &store.Conversation{ID: "c-3", UserIdentifier: "anon", Channel: "web", StartedAt: time.Now().UTC()}
			if err := st.CreateConversation(ctx, conv); err != nil {
				t.Fatalf("create: %v", err)
			}
			fb := &store.Feedback{
				ID:             "f-1",
				ConversationID: "c-3",
				Rating:         5,
				Text:           "great",
				CreatedAt:      time.Now().UTC(),
			}
			if err := st.SaveFeedback(ctx, fb); err != nil {
				t.Fatalf("save feedback: %v", err)
			}
		})
	}
}
