package model

import (
	"strings"
	"time"
)

// ProductSummary is a product as carried in a product-list reply.
// Value type, no lifecycle beyond the response that carries it.
type ProductSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	TotalSold     int     `json:"total_sold"`
	StockQuantity int     `json:"stock_quantity"`
	Category      string  `json:"category,omitempty"`
}

// OrderStatus is a canonical order state.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusUnknown    OrderStatus = "unknown"
)

// ParseOrderStatus normalizes a backend status string case-insensitively.
// Unrecognized values map to OrderStatusUnknown rather than failing.
func ParseOrderStatus(s string) OrderStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return OrderStatusPending
	case "processing":
		return OrderStatusProcessing
	case "shipped":
		return OrderStatusShipped
	case "delivered":
		return OrderStatusDelivered
	case "cancelled", "canceled":
		return OrderStatusCancelled
	default:
		return OrderStatusUnknown
	}
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductName string   `json:"product_name"`
	Quantity    int      `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"`
	TotalPrice  *float64 `json:"total_price,omitempty"`
}

// DisplayTotal returns the line total, deriving it from unit price and
// quantity when the backend did not supply one.
func (i OrderItem) DisplayTotal() float64 {
	if i.TotalPrice != nil {
		return *i.TotalPrice
	}
	return i.UnitPrice * float64(i.Quantity)
}

// OrderRecord is an order as carried in an order-info reply. Value type.
type OrderRecord struct {
	ID              string      `json:"id"`
	Status          OrderStatus `json:"status"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email,omitempty"`
	ShippingAddress string      `json:"shipping_address,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	TotalAmount     *float64    `json:"total_amount,omitempty"`
	TrackingNumber  string      `json:"tracking_number,omitempty"`
	Items           []OrderItem `json:"items,omitempty"`
}
