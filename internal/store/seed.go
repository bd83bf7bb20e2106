package store

import (
	"time"

	"github.com/shopassist-ai/support-chat/internal/model"
)

func ptr(f float64) *float64 { return &f }

// seedProducts is the demo catalog loaded on first run.
var seedProducts = []model.ProductSummary{
	{ID: "P-1001", Name: "Wireless Earbuds Pro", Price: 89.99, TotalSold: 1843, StockQuantity: 230, Category: "Electronics"},
	{ID: "P-1002", Name: "Smart Watch Series 5", Price: 199.99, TotalSold: 1522, StockQuantity: 112, Category: "Electronics"},
	{ID: "P-1003", Name: "Yoga Mat Premium", Price: 34.50, TotalSold: 1301, StockQuantity: 540, Category: "Sports"},
	{ID: "P-1004", Name: "Stainless Steel Water Bottle", Price: 24.99, TotalSold: 1187, StockQuantity: 760, Category: "Home"},
	{ID: "P-1005", Name: "Bluetooth Speaker Mini", Price: 49.99, TotalSold: 954, StockQuantity: 310, Category: "Electronics"},
	{ID: "P-1006", Name: "Running Shoes Flex", Price: 119.00, TotalSold: 847, StockQuantity: 98, Category: "Sports"},
	{ID: "P-1007", Name: "Ceramic Coffee Mug Set", Price: 29.95, TotalSold: 712, StockQuantity: 420, Category: "Home"},
	{ID: "P-1008", Name: "Laptop Backpack 15in", Price: 59.99, TotalSold: 688, StockQuantity: 205, Category: "Accessories"},
}

// seedOrders is the demo order book loaded on first run.
var seedOrders = []model.OrderRecord{
	{
		ID:              "ORD-10021",
		Status:          model.OrderStatusShipped,
		CustomerName:    "Maya Thompson",
		CustomerEmail:   "maya.t@example.com",
		ShippingAddress: "412 Cedar Lane, Portland, OR 97203",
		CreatedAt:       time.Date(2025, 8, 14, 9, 30, 0, 0, time.UTC),
		TotalAmount:     ptr(139.98),
		TrackingNumber:  "1Z999AA10123456784",
		Items: []model.OrderItem{
			{ProductName: "Wireless Earbuds Pro", Quantity: 1, UnitPrice: 89.99, TotalPrice: ptr(89.99)},
			{ProductName: "Stainless Steel Water Bottle", Quantity: 2, UnitPrice: 24.99},
		},
	},
	{
		ID:              "ORD-10022",
		Status:          model.OrderStatusProcessing,
		CustomerName:    "Daniel Okafor",
		CustomerEmail:   "d.okafor@example.com",
		ShippingAddress: "88 Harbor St Apt 4B, Boston, MA 02110",
		CreatedAt:       time.Date(2025, 8, 19, 15, 12, 0, 0, time.UTC),
		TotalAmount:     ptr(199.99),
		Items: []model.OrderItem{
			{ProductName: "Smart Watch Series 5", Quantity: 1, UnitPrice: 199.99},
		},
	},
	{
		ID:           "ORD-10023",
		Status:       model.OrderStatusDelivered,
		CustomerName: "Lena Fischer",
		CreatedAt:    time.Date(2025, 7, 30, 11, 5, 0, 0, time.UTC),
		TotalAmount:  ptr(69.00),
		Items: []model.OrderItem{
			{ProductName: "Yoga Mat Premium", Quantity: 2, UnitPrice: 34.50},
		},
	},
	{
		ID:           "ORD-10024",
		Status:       model.OrderStatusPending,
		CustomerName: "Arun Patel",
		CreatedAt:    time.Date(2025, 8, 28, 18, 47, 0, 0, time.UTC),
		Items: []model.OrderItem{
			{ProductName: "Bluetooth Speaker Mini", Quantity: 1, UnitPrice: 49.99},
			{ProductName: "Laptop Backpack 15in", Quantity: 1, UnitPrice: 59.99},
		},
	},
}
