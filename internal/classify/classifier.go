// Package classify maps raw backend replies to message kinds and payloads.
package classify

import (
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shopassist-ai/support-chat/internal/model"
	"github.com/shopassist-ai/support-chat/pkg/logger"
)

// Result is a classified reply, ready to become a bot MessageRecord.
type Result struct {
	Kind     model.Kind
	Body     string
	Products []model.ProductSummary
	Order    *model.OrderLookup
}

// Classifier tags backend replies with a rendering kind.
type Classifier struct {
	logger *logger.Logger
}

// New creates a classifier.
func New(log *logger.Logger) *Classifier {
	return &Classifier{logger: log}
}

// Classify inspects a reply's type tag (case-insensitive) and decodes its
// payload accordingly. Unrecognized tags and absent tags fall back to
// plain text so unknown server-side types degrade gracefully instead of
// erroring.
func (c *Classifier) Classify(reply *model.ChatReply) Result {
	switch strings.ToLower(strings.TrimSpace(reply.Type)) {
	case "products":
		return Result{
			Kind:     model.KindProductList,
			Body:     reply.Message,
			Products: c.decodeProducts(reply.Data),
		}
	case "order":
		return Result{
			Kind:  model.KindOrderInfo,
			Body:  reply.Message,
			Order: c.decodeOrder(reply.Data),
		}
	default:
		return Result{Kind: model.KindText, Body: reply.Message}
	}
}

// decodeProducts decodes each entry independently, dropping malformed
// ones rather than failing the whole response.
func (c *Classifier) decodeProducts(data json.RawMessage) []model.ProductSummary {
	if len(data) == 0 {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("product payload is not an array", zap.Error(err))
		return nil
	}

	products := make([]model.ProductSummary, 0, len(entries))
	for i, entry := range entries {
		var p productWire
		if err := json.Unmarshal(entry, &p); err != nil {
			c.logger.Warn("dropping malformed product entry",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		if p.Name == "" {
			c.logger.Warn("dropping product entry without a name", zap.Int("index", i))
			continue
		}
		products = append(products, model.ProductSummary{
			ID:            p.ID,
			Name:          p.Name,
			Price:         p.Price,
			TotalSold:     p.TotalSold,
			StockQuantity: p.StockQuantity,
			Category:      p.Category,
		})
	}
	return products
}

// decodeOrder maps the payload to an OrderRecord, or to an explicit
// not-found marker when data is absent, null, or unusable.
func (c *Classifier) decodeOrder(data json.RawMessage) *model.OrderLookup {
	if len(data) == 0 || string(data) == "null" {
		return &model.OrderLookup{Found: false}
	}

	var o orderWire
	if err := json.Unmarshal(data, &o); err != nil {
		c.logger.Warn("order payload failed to decode", zap.Error(err))
		return &model.OrderLookup{Found: false}
	}

	order := &model.OrderRecord{
		ID:              o.ID,
		Status:          model.ParseOrderStatus(o.Status),
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: o.ShippingAddress,
		TotalAmount:     o.TotalAmount,
		TrackingNumber:  o.TrackingNumber,
	}
	if o.CreatedAt != nil {
		order.CreatedAt = *o.CreatedAt
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			continue
		}
		order.Items = append(order.Items, model.OrderItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	return &model.OrderLookup{Found: true, Order: order}
}

// Wire shapes are kept separate from the domain types so lenient decode
// rules (string statuses, optional timestamps) stay out of model.
type productWire struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	TotalSold     int     `json:"total_sold"`
	StockQuantity int     `json:"stock_quantity"`
	Category      string  `json:"category"`
}

type orderWire struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	ShippingAddress string          `json:"shipping_address"`
	CreatedAt       *time.Time      `json:"created_at"`
	TotalAmount     *float64        `json:"total_amount"`
	TrackingNumber  string          `json:"tracking_number"`
	Items           []orderItemWire `json:"items"`
}

type orderItemWire struct {
	ProductName string   `json:"product_name"`
	Quantity    int      `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"`
	TotalPrice  *float64 `json:"total_price"`
}
