package classify_test

import (
	"encoding/json"
	"testing"

	"github.com/shopassist-ai/support-chat/internal/classify"
	"github.com/shopassist-ai/support-chat/internal/model"
	"github.com/shopassist-ai/support-chat/pkg/logger"
)

func newClassifier() *classify.Classifier {
	return classify.New(logger.NewNop())
}

func TestClassifyPlainText(t *testing.T) {
	res := newClassifier().Classify(&model.ChatReply{Message: "hi there"})
	if res.Kind != model.KindText {
		t.Fatalf("kind %s, want text", res.Kind)
	}
	if res.Body != "hi there" {
		t.Fatalf("unexpected body: %q", res.Body)
	}
}

func TestClassifyUnknownTypeFallsBackToText(t *testing.T) {
	res := newClassifier().Classify(&model.ChatReply{
		Message: "something new",
		Type:    "carousel",
		Data:    json.RawMessage(`{"anything": true}`),
	})
	if res.Kind != model.KindText {
		t.Fatalf("kind %s, want text fallback for unknown tag", res.Kind)
	}
}

func TestClassifyTypeTagCaseInsensitive(t *testing.T) {
	for _, tag := range []string{"PRODUCTS", "Products", " products "} {
		res := newClassifier().Classify(&model.ChatReply{
			Message: "here",
			Type:    tag,
			Data:    json.RawMessage(`[]`),
		})
		if res.Kind != model.KindProductList {
			t.Fatalf("tag %q: kind %s, want product list", tag, res.Kind)
		}
	}
}

func TestClassifyProductsDropsMalformedEntries(t *testing.T) {
	data := json.RawMessage(`[
		{"id": "P-1", "name": "Widget", "price": 9.99},
		"not an object",
		{"id": "P-3", "price": 4.50},
		{"id": "P-4", "name": "Gadget", "price": "not a number"},
		{"id": "P-5", "name": "Doodad", "price": 1.25}
	]`)
	res := newClassifier().Classify(&model.ChatReply{Message: "x", Type: "products", Data: data})

	if res.Kind != model.KindProductList {
		t.Fatalf("kind %s, want product list", res.Kind)
	}
	if len(res.Products) != 2 {
		t.Fatalf("expected 2 well-formed products, got %d", len(res.Products))
	}
	if res.Products[0].Name != "Widget" || res.Products[1].Name != "Doodad" {
		t.Fatalf("unexpected products kept: %+v", res.Products)
	}
}

func TestClassifyOrderNormalizesStatus(t *testing.T) {
	data := json.RawMessage(`{"id": "ORD-1", "status": "SHIPPED", "customer_name": "Ana"}`)
	res := newClassifier().Classify(&model.ChatReply{Message: "x", Type: "order", Data: data})

	if res.Kind != model.KindOrderInfo {
		t.Fatalf("kind %s, want order info", res.Kind)
	}
	if res.Order == nil || !res.Order.Found {
		t.Fatal("expected a found order")
	}
	if res.Order.Order.Status != model.OrderStatusShipped {
		t.Fatalf("status %s, want shipped", res.Order.Order.Status)
	}
}

func TestClassifyOrderUnrecognizedStatusMapsToUnknown(t *testing.T) {
	data := json.RawMessage(`{"id": "ORD-1", "status": "teleported", "customer_name": "Ana"}`)
	res := newClassifier().Classify(&model.ChatReply{Message: "x", Type: "order", Data: data})

	if res.Order.Order.Status != model.OrderStatusUnknown {
		t.Fatalf("status %s, want unknown", res.Order.Order.Status)
	}
}

func TestClassifyOrderMissingDataIsNotFound(t *testing.T) {
	for _, data := range []json.RawMessage{nil, json.RawMessage("null")} {
		res := newClassifier().Classify(&model.ChatReply{Message: "x", Type: "order", Data: data})
		if res.Kind != model.KindOrderInfo {
			t.Fatalf("kind %s, want order info", res.Kind)
		}
		if res.Order == nil || res.Order.Found {
			t.Fatalf("expected not-found marker, got %+v", res.Order)
		}
	}
}

func TestClassifyOrderDropsNonPositiveQuantities(t *testing.T) {
	data := json.RawMessage(`{
		"id": "ORD-2",
		"status": "pending",
		"customer_name": "Bo",
		"items": [
			{"product_name": "Widget", "quantity": 2, "unit_price": 19.99},
			{"product_name": "Ghost", "quantity": 0, "unit_price": 5.00}
		]
	}`)
	res := newClassifier().Classify(&model.ChatReply{Message: "x", Type: "order", Data: data})

	items := res.Order.Order.Items
	if len(items) != 1 {
		t.Fatalf("expected 1 valid item, got %d", len(items))
	}
	if got := items[0].DisplayTotal(); got != 39.98 {
		t.Fatalf("display total %.2f, want 39.98", got)
	}
}
