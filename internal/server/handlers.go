// Package server provides the HTTP handlers of the reference backend.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopassist-ai/support-chat/internal/assistant"
	"github.com/shopassist-ai/support-chat/internal/middleware"
	"github.com/shopassist-ai/support-chat/internal/model"
	"github.com/shopassist-ai/support-chat/internal/store"
	"github.com/shopassist-ai/support-chat/pkg/logger"
	"github.com/shopassist-ai/support-chat/pkg/metrics"
)

// Handler serves the conversation and product endpoints.
type Handler struct {
	store     store.Store
	responder *assistant.Responder
	logger    *logger.Logger
}

// NewHandler creates a backend handler.
func NewHandler(st store.Store, responder *assistant.Responder, log *logger.Logger) *Handler {
	return &Handler{
		store:     st,
		responder: responder,
		logger:    log,
	}
}

// log returns the handler logger scoped to the request's correlation id.
func (h *Handler) log(ctx context.Context) *logger.Logger {
	if id := middleware.GetCorrelationID(ctx); id != "" {
		return h.logger.With(zap.String("correlation_id", id))
	}
	return h.logger
}

// StartConversation handles POST /conversations/start
func (h *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userIdentifier := strings.TrimSpace(req.UserIdentifier)
	if userIdentifier == "" {
		userIdentifier = fmt.Sprintf("anonymous_%d", time.Now().UnixMilli())
	}
	channel := req.Channel
	if channel == "" {
		channel = "web"
	}

	conv := &store.Conversation{
		ID:             uuid.Must(uuid.NewV7()).String(),
		UserIdentifier: userIdentifier,
		Channel:        channel,
		StartedAt:      time.Now().UTC(),
	}
	if err := h.store.CreateConversation(ctx, conv); err != nil {
		h.log(ctx).Error("failed to create conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to start conversation")
		return
	}

	metrics.ConversationsTotal.Inc()

	writeJSON(w, http.StatusCreated, model.StartConversationResponse{
		ConversationID: conv.ID,
		UserIdentifier: conv.UserIdentifier,
		StartedAt:      conv.StartedAt,
	})
}

// PostMessage handles POST /conversations/message
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message cannot be empty")
		return
	}
	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateConversationID(req.ConversationID); err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	conv, err := h.store.GetConversation(ctx, req.ConversationID)
	if err != nil {
		h.log(ctx).Error("failed to load conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}
	if conv == nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if conv.EndedAt != nil {
		writeError(w, http.StatusConflict, "conversation has ended")
		return
	}

	now := time.Now().UTC()
	if err := h.store.AppendMessage(ctx, &store.StoredMessage{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conv.ID,
		Sender:         model.SenderUser,
		Kind:           model.KindText,
		Body:           req.Message,
		CreatedAt:      now,
	}); err != nil {
		h.log(ctx).Error("failed to store user message", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store message")
		return
	}

	reply, err := h.responder.Reply(ctx, req.Message)
	if err != nil {
		h.log(ctx).Error("failed to generate reply", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate reply")
		return
	}

	if err := h.store.AppendMessage(ctx, &store.StoredMessage{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conv.ID,
		Sender:         model.SenderBot,
		Kind:           replyKind(reply.Type),
		Body:           reply.Message,
		Payload:        string(reply.Data),
		CreatedAt:      time.Now().UTC(),
	}); err != nil {
		h.log(ctx).Error("failed to store bot message", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store message")
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// History handles GET /conversations/{id}/messages
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	conv, err := h.store.GetConversation(ctx, conversationID)
	if err != nil {
		h.log(ctx).Error("failed to load conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}
	if conv == nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	msgs, err := h.store.Messages(ctx, conversationID)
	if err != nil {
		h.log(ctx).Error("failed to load messages", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load messages")
		return
	}

	records := make([]model.MessageRecord, 0, len(msgs))
	for _, msg := range msgs {
		records = append(records, toRecord(msg))
	}
	writeJSON(w, http.StatusOK, records)
}

// TopProducts handles GET /products/top
func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	products, err := h.store.TopProducts(r.Context(), limit)
	if err != nil {
		h.log(r.Context()).Error("failed to load top products", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load products")
		return
	}
	if products == nil {
		products = []model.ProductSummary{}
	}
	writeJSON(w, http.StatusOK, products)
}

// SearchProducts handles GET /products/search
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name query parameter is required")
		return
	}

	products, err := h.store.SearchProducts(r.Context(), name)
	if err != nil {
		h.log(r.Context()).Error("failed to search products", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to search products")
		return
	}
	if products == nil {
		products = []model.ProductSummary{}
	}
	writeJSON(w, http.StatusOK, products)
}

// SubmitFeedback handles POST /conversations/feedback
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	if err := middleware.ValidateFeedbackText(req.FeedbackText); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateConversationID(req.ConversationID); err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	conv, err := h.store.GetConversation(ctx, req.ConversationID)
	if err != nil {
		h.log(ctx).Error("failed to load conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}
	if conv == nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	if err := h.store.SaveFeedback(ctx, &store.Feedback{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: req.ConversationID,
		Rating:         req.Rating,
		Text:           req.FeedbackText,
		CreatedAt:      time.Now().UTC(),
	}); err != nil {
		h.log(ctx).Error("failed to save feedback", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save feedback")
		return
	}

	writeJSON(w, http.StatusOK, model.Ack{Status: "ok"})
}

// EndConversation handles POST /conversations/{id}/end
func (h *Handler) EndConversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	conv, err := h.store.GetConversation(ctx, conversationID)
	if err != nil {
		h.log(ctx).Error("failed to load conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}
	if conv == nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	if err := h.store.EndConversation(ctx, conversationID, time.Now().UTC()); err != nil {
		h.log(ctx).Error("failed to end conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to end conversation")
		return
	}
	writeJSON(w, http.StatusOK, model.Ack{Status: "ended"})
}

func replyKind(tag string) model.Kind {
	switch strings.ToLower(tag) {
	case "products":
		return model.KindProductList
	case "order":
		return model.KindOrderInfo
	default:
		return model.KindText
	}
}

// toRecord rehydrates a stored row into the wire MessageRecord shape.
func toRecord(msg store.StoredMessage) model.MessageRecord {
	rec := model.MessageRecord{
		ID:        msg.ID,
		Sender:    msg.Sender,
		Kind:      msg.Kind,
		Body:      msg.Body,
		Timestamp: msg.CreatedAt,
	}
	if msg.Payload == "" || msg.Payload == "null" {
		if rec.Kind == model.KindOrderInfo {
			rec.Order = &model.OrderLookup{Found: false}
		}
		return rec
	}

	switch rec.Kind {
	case model.KindProductList:
		var products []model.ProductSummary
		if err := json.Unmarshal([]byte(msg.Payload), &products); err == nil {
			rec.Products = products
		}
	case model.KindOrderInfo:
		var order model.OrderRecord
		if err := json.Unmarshal([]byte(msg.Payload), &order); err == nil {
			rec.Order = &model.OrderLookup{Found: true, Order: &order}
		} else {
			rec.Order = &model.OrderLookup{Found: false}
		}
	}
	return rec
}
