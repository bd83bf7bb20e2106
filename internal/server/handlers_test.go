package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopassist-ai/support-chat/internal/assistant"
	"github.com/shopassist-ai/support-chat/internal/model"
	"github.com/shopassist-ai/support-chat/internal/server"
	"github.com/shopassist-ai/support-chat/internal/store"
	"github.com/shopassist-ai/support-chat/pkg/logger"
)

func setupRouter() *chi.Mux {
	st := store.NewMemory()
	responder := assistant.NewResponder(st, nil, logger.NewNop())
	handler := server.NewHandler(st, responder, logger.NewNop())
	return server.NewRouter(handler, st, logger.NewNop(), server.Options{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
	})
}

func postJSON(t *testing.T, r *chi.Mux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func startConversation(t *testing.T, r *chi.Mux) model.StartConversationResponse {
	t.Helper()
	resp := postJSON(t, r, "/api/conversations/start", model.StartConversationRequest{Channel: "web"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("start: expected 201, got %d", resp.Code)
	}
	var out model.StartConversationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode start response: %v", err)
	}
	return out
}

func TestStartConversationAssignsAnonymousIdentifier(t *testing.T) {
	r := setupRouter()
	out := startConversation(t, r)
	if out.ConversationID == "" {
		t.Fatal("expected a conversation id")
	}
	if out.UserIdentifier == "" {
		t.Fatal("expected a defaulted user identifier")
	}
}

func TestPostMessageUnknownConversation(t *testing.T) {
	r := setupRouter()
	resp := postJSON(t, r, "/api/conversations/message", model.ChatRequest{
		ConversationID: "nope",
		Message:        "hello",
		Sender:         "user",
	})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestPostMessageEmptyRejected(t *testing.T) {
	r := setupRouter()
	conv := startConversation(t, r)
	resp := postJSON(t, r, "/api/conversations/message", model.ChatRequest{
		ConversationID: conv.ConversationID,
		Message:        "   ",
		Sender:         "user",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestPostMessageRejectsInvalidContent(t *testing.T) {
	r := setupRouter()
	conv := startConversation(t, r)

	oversized := strings.Repeat("a", 100001)
	resp := postJSON(t, r, "/api/conversations/message", model.ChatRequest{
		ConversationID: conv.ConversationID,
		Message:        oversized,
		Sender:         "user",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("oversized message: expected 400, got %d", resp.Code)
	}

	// The rejected attempt may not leave a row behind.
	req := httptest.NewRequest(http.MethodGet, "/api/conversations/"+conv.ConversationID+"/messages", nil)
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)
	var records []model.MessageRecord
	if err := json.NewDecoder(recorder.Body).Decode(&records); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("rejected messages must not be stored, found %d records", len(records))
	}
}

func TestPostMessageOrderLookup(t *testing.T) {
	r := setupRouter()
	conv := startConversation(t, r)

	resp := postJSON(t, r, "/api/conversations/message", model.ChatRequest{
		ConversationID: conv.ConversationID,
		Message:        "where is order ORD-10021",
		Sender:         "user",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var reply model.ChatReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.Type != "order" {
		t.Fatalf("type %q, want order", reply.Type)
	}
}

func TestHistoryReturnsTranscriptInOrder(t *testing.T) {
	r := setupRouter()
	conv := startConversation(t, r)

	for _, msg := range []string{"hello", "show me top products"} {
		resp := postJSON(t, r, "/api/conversations/message", model.ChatRequest{
			ConversationID: conv.ConversationID,
			Message:        msg,
			Sender:         "user",
		})
		if resp.Code != http.StatusOK {
			t.Fatalf("message: expected 200, got %d", resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/conversations/"+conv.ConversationID+"/messages", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", resp.Code)
	}

	var records []model.MessageRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	if records[0].Sender != model.SenderUser || records[1].Sender != model.SenderBot {
		t.Fatal("history should alternate user/bot in causal order")
	}
	if records[3].Kind != model.KindProductList {
		t.Fatalf("last record kind %s, want product list", records[3].Kind)
	}
	if len(records[3].Products) == 0 {
		t.Fatal("product payload should be rehydrated from the store")
	}
}

func TestTopProductsEndpoint(t *testing.T) {
	r := setupRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/products/top?limit=3", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var products []model.ProductSummary
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
}

func TestSearchRequiresName(t *testing.T) {
	r := setupRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/products/search", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestFeedbackValidatesRating(t *testing.T) {
	r := setupRouter()
	conv := startConversation(t, r)

	resp := postJSON(t, r, "/api/conversations/feedback", model.FeedbackRequest{
		ConversationID: conv.ConversationID,
		Rating:         9,
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range rating, got %d", resp.Code)
	}

	resp = postJSON(t, r, "/api/conversations/feedback", model.FeedbackRequest{
		ConversationID: conv.ConversationID,
		Rating:         4,
		FeedbackText:   "helpful",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestEndConversationThenMessageConflicts(t *testing.T) {
	r := setupRouter()
	conv := startConversation(t, r)

	resp := postJSON(t, r, "/api/conversations/"+conv.ConversationID+"/end", struct{}{})
	if resp.Code != http.StatusOK {
		t.Fatalf("end: expected 200, got %d", resp.Code)
	}

	resp = postJSON(t, r, "/api/conversations/message", model.ChatRequest{
		ConversationID: conv.ConversationID,
		Message:        "anyone there?",
		Sender:         "user",
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 after end, got %d", resp.Code)
	}
}
