// Package transport is the HTTP client for the support-chat backend.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/shopassist-ai/support-chat/internal/auth"
	"github.com/shopassist-ai/support-chat/internal/model"
	"github.com/shopassist-ai/support-chat/pkg/logger"
	"github.com/shopassist-ai/support-chat/pkg/metrics"
)

// DefaultTimeout bounds every backend call. Exceeding it is reported as
// a network failure.
const DefaultTimeout = 30 * time.Second

// DefaultTopProductsLimit is used when the caller passes limit <= 0.
const DefaultTopProductsLimit = 5

// Client issues requests against the backend HTTP contract. It keeps a
// small surface area tailored to the widget's needs: one method per
// endpoint, primitive arguments, decoded bodies out, *Error on failure.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      *auth.Credentials
	logger     *logger.Logger
}

// NewClient creates a backend client. creds may hold an empty token, in
// which case no Authorization header is attached.
func NewClient(baseURL string, creds *auth.Credentials, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    baseURL,
		creds:      creds,
		logger:     log,
	}
}

// StartConversation opens a new conversation. An empty userIdentifier is
// defaulted to an anonymous id derived from the current time.
func (c *Client) StartConversation(ctx context.Context, userIdentifier string) (*model.StartConversationResponse, error) {
	if userIdentifier == "" {
		userIdentifier = fmt.Sprintf("anonymous_%d", time.Now().UnixMilli())
	}

	req := model.StartConversationRequest{
		UserIdentifier: userIdentifier,
		Channel:        "web",
	}

	var resp model.StartConversationResponse
	if err := c.postJSON(ctx, "start", "/conversations/start", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendMessage posts a user message and returns the raw reply for
// classification by the caller.
func (c *Client) SendMessage(ctx context.Context, conversationID, text string) (*model.ChatReply, error) {
	req := model.ChatRequest{
		ConversationID: conversationID,
		Message:        text,
		Sender:         "user",
	}

	var reply model.ChatReply
	if err := c.postJSON(ctx, "message", "/conversations/message", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// History fetches the stored transcript for a conversation, oldest first.
func (c *Client) History(ctx context.Context, conversationID string) ([]model.MessageRecord, error) {
	var records []model.MessageRecord
	path := "/conversations/" + url.PathEscape(conversationID) + "/messages"
	if err := c.getJSON(ctx, "history", path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// TopProducts fetches the best-selling products.
func (c *Client) TopProducts(ctx context.Context, limit int) ([]model.ProductSummary, error) {
	if limit <= 0 {
		limit = DefaultTopProductsLimit
	}

	var products []model.ProductSummary
	path := "/products/top?limit=" + strconv.Itoa(limit)
	if err := c.getJSON(ctx, "top_products", path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SearchProduct looks up products matching a name.
func (c *Client) SearchProduct(ctx context.Context, name string) ([]model.ProductSummary, error) {
	q := url.Values{}
	q.Set("name", name)

	var products []model.ProductSummary
	if err := c.getJSON(ctx, "search_product", "/products/search?"+q.Encode(), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SubmitFeedback records a rating for a conversation.
func (c *Client) SubmitFeedback(ctx context.Context, conversationID string, rating int, text string) error {
	req := model.FeedbackRequest{
		ConversationID: conversationID,
		Rating:         rating,
		FeedbackText:   text,
	}

	var ack model.Ack
	return c.postJSON(ctx, "feedback", "/conversations/feedback", req, &ack)
}

// EndConversation closes a conversation on the backend. Callers treat
// failures as advisory; the client still reports them.
func (c *Client) EndConversation(ctx context.Context, conversationID string) error {
	var ack model.Ack
	path := "/conversations/" + url.PathEscape(conversationID) + "/end"
	return c.postJSON(ctx, "end", path, struct{}{}, &ack)
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	return c.roundTrip(ctx, op, http.MethodGet, path, nil, out)
}

func (c *Client) postJSON(ctx context.Context, op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &Error{Reason: ReasonDecode, Op: op, Err: err}
	}
	return c.roundTrip(ctx, op, http.MethodPost, path, body, out)
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Reason: ReasonNetwork, Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordTransport(op, string(ReasonNetwork), time.Since(start).Seconds())
		c.logger.Warn("backend call failed",
			zap.String("op", op),
			zap.Error(err),
		)
		return &Error{Reason: ReasonNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// The token is no longer good for anything; drop it before
		// surfacing the failure so the next call goes out bare.
		c.creds.Invalidate()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		metrics.RecordTransport(op, string(ReasonStatus), time.Since(start).Seconds())
		c.logger.Warn("backend returned error status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
		)
		return &Error{Reason: ReasonStatus, Op: op, Status: resp.StatusCode, Body: string(bytes.TrimSpace(b))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordTransport(op, string(ReasonDecode), time.Since(start).Seconds())
		return &Error{Reason: ReasonDecode, Op: op, Err: err}
	}

	metrics.RecordTransport(op, "ok", time.Since(start).Seconds())
	return nil
}
