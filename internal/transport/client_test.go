package transport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopassist-ai/support-chat/internal/auth"
	"github.com/shopassist-ai/support-chat/internal/model"
	"github.com/shopassist-ai/support-chat/internal/transport"
	"github.com/shopassist-ai/support-chat/pkg/logger"
)

func newClient(baseURL, token string) (*transport.Client, *auth.Credentials) {
	creds := auth.NewCredentials(token)
	return transport.NewClient(baseURL, creds, logger.NewNop()), creds
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(model.ChatReply{Message: "ok"})
	}))
	defer srv.Close()

	client, _ := newClient(srv.URL, "secret-token")
	if _, err := client.SendMessage(context.Background(), "c1", "hello"); err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("Authorization header %q, want bearer token", gotAuth)
	}
}

func TestNoHeaderWithoutToken(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		json.NewEncoder(w).Encode(model.ChatReply{Message: "ok"})
	}))
	defer srv.Close()

	client, _ := newClient(srv.URL, "")
	if _, err := client.SendMessage(context.Background(), "c1", "hello"); err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}
	if sawAuth {
		t.Fatal("Authorization header should not be sent without a token")
	}
}

func TestUnauthorizedClearsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, creds := newClient(srv.URL, "stale-token")
	_, err := client.SendMessage(context.Background(), "c1", "hello")
	if err == nil {
		t.Fatal("expected error for 401")
	}

	te, ok := transport.AsError(err)
	if !ok {
		t.Fatalf("expected *transport.Error, got %T", err)
	}
	if te.Reason != transport.ReasonStatus || te.Status != http.StatusUnauthorized {
		t.Fatalf("unexpected error: %+v", te)
	}
	if creds.Token() != "" {
		t.Fatal("credentials should be invalidated on 401")
	}
}

func TestNonOKStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"conversation not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client, _ := newClient(srv.URL, "")
	_, err := client.History(context.Background(), "missing")
	te, ok := transport.AsError(err)
	if !ok {
		t.Fatalf("expected *transport.Error, got %v", err)
	}
	if te.Reason != transport.ReasonStatus {
		t.Fatalf("reason %s, want status", te.Reason)
	}
	if te.Status != http.StatusNotFound {
		t.Fatalf("status %d, want 404", te.Status)
	}
	if !strings.Contains(te.Body, "conversation not found") {
		t.Fatalf("body %q should carry the server detail", te.Body)
	}
}

func TestMalformedBodyDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	client, _ := newClient(srv.URL, "")
	_, err := client.SendMessage(context.Background(), "c1", "hello")
	te, ok := transport.AsError(err)
	if !ok {
		t.Fatalf("expected *transport.Error, got %v", err)
	}
	if te.Reason != transport.ReasonDecode {
		t.Fatalf("reason %s, want decode", te.Reason)
	}
}

func TestUnreachableBackendNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client, _ := newClient(srv.URL, "")
	_, err := client.SendMessage(context.Background(), "c1", "hello")
	te, ok := transport.AsError(err)
	if !ok {
		t.Fatalf("expected *transport.Error, got %v", err)
	}
	if te.Reason != transport.ReasonNetwork {
		t.Fatalf("reason %s, want network", te.Reason)
	}
}

func TestStartConversationDefaultsAnonymousIdentifier(t *testing.T) {
	var got model.StartConversationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(model.StartConversationResponse{
			ConversationID: "c1",
			UserIdentifier: got.UserIdentifier,
		})
	}))
	defer srv.Close()

	client, _ := newClient(srv.URL, "")
	resp, err := client.StartConversation(context.Background(), "")
	if err != nil {
		t.Fatalf("StartConversation err: %v", err)
	}
	if !strings.HasPrefix(got.UserIdentifier, "anonymous_") {
		t.Fatalf("user identifier %q, want anonymous_<epoch-ms> default", got.UserIdentifier)
	}
	if got.Channel != "web" {
		t.Fatalf("channel %q, want web", got.Channel)
	}
	if resp.ConversationID != "c1" {
		t.Fatalf("conversation id %q", resp.ConversationID)
	}
}

func TestTopProductsDefaultLimit(t *testing.T) {
	var gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		json.NewEncoder(w).Encode([]model.ProductSummary{})
	}))
	defer srv.Close()

	client, _ := newClient(srv.URL, "")
	if _, err := client.TopProducts(context.Background(), 0); err != nil {
		t.Fatalf("TopProducts err: %v", err)
	}
	if gotLimit != "5" {
		t.Fatalf("limit %q, want default 5", gotLimit)
	}
}
