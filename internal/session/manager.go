// Package session owns the lifecycle of a single conversation and its
// message log.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shopassist-ai/support-chat/internal/classify"
	"github.com/shopassist-ai/support-chat/internal/model"
	"github.com/shopassist-ai/support-chat/pkg/logger"
)

// Status is the lifecycle state of a conversation session.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusStarting      Status = "starting"
	StatusActive        Status = "active"
	StatusEnding        Status = "ending"
	StatusEnded         Status = "ended"
)

var (
	// ErrNotActive is returned when an operation requires an active session.
	ErrNotActive = errors.New("session is not active")
	// ErrAlreadyStarted is returned when start is called more than once.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrAwaitingReply is returned when a send is attempted while another
	// send is still in flight.
	ErrAwaitingReply = errors.New("a send is already in flight")
	// ErrEmptyMessage is returned for blank or whitespace-only input.
	ErrEmptyMessage = errors.New("message is empty")
)

// ErrorReplyText is the fixed user-facing body of an error record. Raw
// failure detail goes to the log output only, never to the end user.
const ErrorReplyText = "Sorry, something went wrong while processing your message. Please try again."

// Backend is the slice of the transport the session needs.
type Backend interface {
	StartConversation(ctx context.Context, userIdentifier string) (*model.StartConversationResponse, error)
	SendMessage(ctx context.Context, conversationID, text string) (*model.ChatReply, error)
	History(ctx context.Context, conversationID string) ([]model.MessageRecord, error)
	EndConversation(ctx context.Context, conversationID string) error
}

// Manager drives one conversation through
// Uninitialized → Starting → Active → Ending → Ended and serializes
// sends so at most one backend call is in flight per session.
//
// The mutex guards state only, never a backend call: the awaitingReply
// flag is what rejects overlapping sends, so Status, Messages and
// Pending stay readable while a call is in flight.
type Manager struct {
	backend    Backend
	classifier *classify.Classifier
	logger     *logger.Logger

	mu             sync.Mutex
	status         Status
	conversationID string
	startedAt      time.Time
	awaitingReply  bool
	pendingID      string
	log            *Log
}

// NewManager creates a session manager in the Uninitialized state.
func NewManager(backend Backend, classifier *classify.Classifier, log *logger.Logger) *Manager {
	return &Manager{
		backend:    backend,
		classifier: classifier,
		logger:     log,
		status:     StatusUninitialized,
		log:        NewLog(),
	}
}

// Start opens the conversation on the backend. Valid only from
// Uninitialized; a second call is rejected without issuing another
// backend request. On failure the session stays Uninitialized and the
// error is surfaced to the caller; no automatic retry.
func (m *Manager) Start(ctx context.Context, userIdentifier string) error {
	m.mu.Lock()
	if m.status != StatusUninitialized {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.status = StatusStarting
	m.mu.Unlock()

	resp, err := m.backend.StartConversation(ctx, userIdentifier)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.status = StatusUninitialized
		return err
	}

	m.conversationID = resp.ConversationID
	m.startedAt = resp.StartedAt
	m.status = StatusActive
	m.logger = m.logger.WithConversation(m.conversationID)

	m.logger.Info("conversation started")
	return nil
}

// Resume attaches to an existing conversation and loads its transcript
// into the log. Valid only from Uninitialized.
func (m *Manager) Resume(ctx context.Context, conversationID string) error {
	m.mu.Lock()
	if m.status != StatusUninitialized {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.status = StatusStarting
	m.mu.Unlock()

	records, err := m.backend.History(ctx, conversationID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.status = StatusUninitialized
		return err
	}

	for _, rec := range records {
		m.log.Restore(rec)
	}
	m.conversationID = conversationID
	m.status = StatusActive
	m.logger = m.logger.WithConversation(conversationID)

	m.logger.Info("conversation resumed", zap.Int("records", len(records)))
	return nil
}

// Send appends the user message, posts it, and appends the classified
// reply. The user record is appended optimistically before the backend
// call and never rolled back. Transport failures are not returned: they
// become a single Error record with fixed user-facing text, and the
// returned record is whatever was appended as the outcome. awaitingReply
// is cleared as the final step on every path.
//
// A Send while another is in flight is rejected with ErrAwaitingReply;
// two calls are never interleaved for one session.
func (m *Manager) Send(ctx context.Context, text string) (model.MessageRecord, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.MessageRecord{}, ErrEmptyMessage
	}

	m.mu.Lock()
	if m.status != StatusActive {
		m.mu.Unlock()
		return model.MessageRecord{}, ErrNotActive
	}
	if m.awaitingReply {
		m.mu.Unlock()
		return model.MessageRecord{}, ErrAwaitingReply
	}

	userRec := m.log.Append(model.MessageRecord{
		Sender: model.SenderUser,
		Kind:   model.KindText,
		Body:   text,
	})
	m.awaitingReply = true
	m.pendingID = userRec.ID
	conversationID := m.conversationID
	m.mu.Unlock()

	reply, err := m.backend.SendMessage(ctx, conversationID, text)

	m.mu.Lock()
	defer func() {
		m.awaitingReply = false
		m.pendingID = ""
		m.mu.Unlock()
	}()

	if err != nil {
		m.logger.Warn("send failed", zap.Error(err))
		return m.log.Append(model.MessageRecord{
			Sender: model.SenderBot,
			Kind:   model.KindError,
			Body:   ErrorReplyText,
		}), nil
	}

	res := m.classifier.Classify(reply)
	return m.log.Append(model.MessageRecord{
		Sender:   model.SenderBot,
		Kind:     res.Kind,
		Body:     res.Body,
		Products: res.Products,
		Order:    res.Order,
	}), nil
}

// End closes the conversation. Best-effort: backend failures are logged
// and swallowed, and the session transitions to Ended regardless.
func (m *Manager) End(ctx context.Context) error {
	m.mu.Lock()
	switch m.status {
	case StatusEnded:
		m.mu.Unlock()
		return nil
	case StatusActive:
	default:
		m.mu.Unlock()
		return ErrNotActive
	}
	m.status = StatusEnding
	conversationID := m.conversationID
	m.mu.Unlock()

	if err := m.backend.EndConversation(ctx, conversationID); err != nil {
		m.logger.Warn("end conversation failed, ignoring", zap.Error(err))
	}

	m.mu.Lock()
	m.status = StatusEnded
	m.mu.Unlock()
	return nil
}

// Status returns the current lifecycle state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// ConversationID returns the backend-assigned id, or "" before Start.
func (m *Manager) ConversationID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conversationID
}

// StartedAt returns the backend-reported start time.
func (m *Manager) StartedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startedAt
}

// Messages returns a snapshot of the message log in insertion order.
func (m *Manager) Messages() []model.MessageRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.log.Snapshot()
}

// Pending reports the id of the optimistically appended user message
// while its send is in flight. The log itself stays immutable; renderers
// that want to mark the pending turn consult this instead.
func (m *Manager) Pending() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingID, m.awaitingReply
}

// QuickActionsVisible reports whether canned prompts should be offered:
// only while the log has at most one entry, i.e. before the user has
// engaged. Once the conversation has real content they are hidden for
// the rest of the session.
func (m *Manager) QuickActionsVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.log.Len() <= 1
}
