package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopassist-ai/support-chat/internal/model"
	"github.com/shopassist-ai/support-chat/pkg/metrics"
)

// Log is the append-only ordered sequence of message records for one
// session. Records are never mutated or removed after insertion. The Log
// is owned by the Manager and guarded by its mutex; it is not safe for
// unsynchronized concurrent use on its own.
type Log struct {
	records []model.MessageRecord
}

// NewLog creates an empty message log.
func NewLog() *Log {
	return &Log{records: make([]model.MessageRecord, 0, 16)}
}

// Append creates a record with a fresh id and appends it. Ids are UUIDv7,
// which are time-ordered and monotonic within the process, so insertion
// order matches id order as required for render keys.
func (l *Log) Append(rec model.MessageRecord) model.MessageRecord {
	rec.ID = uuid.Must(uuid.NewV7()).String()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	l.records = append(l.records, rec)
	metrics.RecordMessage(string(rec.Sender), string(rec.Kind))
	return rec
}

// Restore appends a record that already has an id, used when resuming a
// conversation from backend history.
func (l *Log) Restore(rec model.MessageRecord) {
	l.records = append(l.records, rec)
}

// Len returns the number of records.
func (l *Log) Len() int {
	return len(l.records)
}

// Snapshot returns a copy of the records in insertion order.
func (l *Log) Snapshot() []model.MessageRecord {
	out := make([]model.MessageRecord, len(l.records))
	copy(out, l.records)
	return out
}
