// Package model defines data structures shared by the chat widget and the
// reference backend.
package model

import (
	"time"
)

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Kind selects how a message is rendered and which payload fields are set.
type Kind string

const (
	KindText        Kind = "text"
	KindProductList Kind = "products"
	KindOrderInfo   Kind = "order"
	KindError       Kind = "error"
)

// MessageRecord is one logged conversation turn. Records are append-only:
// once created they are never mutated or removed. ID is unique within a
// session and monotonically non-decreasing in insertion order so it can
// serve as a render key and scroll anchor.
//
// Kind determines which payload fields are populated: Text and Error
// carry none, ProductList carries Products, OrderInfo carries Order.
type MessageRecord struct {
	ID        string           `json:"id"`
	Sender    Sender           `json:"sender"`
	Kind      Kind             `json:"kind"`
	Body      string           `json:"body"`
	Products  []ProductSummary `json:"products,omitempty"`
	Order     *OrderLookup     `json:"order,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// OrderLookup is the OrderInfo payload: either a found order or an
// explicit not-found marker.
type OrderLookup struct {
	Found bool         `json:"found"`
	Order *OrderRecord `json:"order,omitempty"`
}

// QuickAction is a canned prompt offered before the user has engaged.
// The catalog is a process-wide constant, not session state.
type QuickAction struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Message string `json:"message"`
	Icon    string `json:"icon"`
}
