package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopassist-ai/support-chat/internal/model"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-backed store at dbPath, creating the schema
// and demo catalog on first use.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	if err := s.seedCatalog(); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		user_identifier TEXT NOT NULL,
		channel TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		ended_at INTEGER
	);

	CREATE TABLE IF NOT EXISTS messages (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		conversation_id TEXT NOT NULL,
		sender TEXT NOT NULL,
		kind TEXT NOT NULL,
		body TEXT NOT NULL,
		payload TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, seq);

	CREATE TABLE IF NOT EXISTS feedback (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		rating INTEGER NOT NULL,
		feedback_text TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price REAL NOT NULL,
		total_sold INTEGER NOT NULL DEFAULT 0,
		stock_quantity INTEGER NOT NULL DEFAULT 0,
		category TEXT
	);

	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		customer_email TEXT,
		shipping_address TEXT,
		created_at INTEGER NOT NULL,
		total_amount REAL,
		tracking_number TEXT
	);

	CREATE TABLE IF NOT EXISTS order_items (
		order_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price REAL NOT NULL,
		total_price REAL
	);
	CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// seedCatalog loads the demo products and orders once. A real deployment
// would load these through a data pipeline instead.
func (s *SQLiteStore) seedCatalog() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range seedProducts {
		if _, err := tx.Exec(
			`INSERT INTO products (id, name, price, total_sold, stock_quantity, category) VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Price, p.TotalSold, p.StockQuantity, p.Category,
		); err != nil {
			return err
		}
	}

	for _, o := range seedOrders {
		var total any
		if o.TotalAmount != nil {
			total = *o.TotalAmount
		}
		if _, err := tx.Exec(
			`INSERT INTO orders (id, status, customer_name, customer_email, shipping_address, created_at, total_amount, tracking_number)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, string(o.Status), o.CustomerName, o.CustomerEmail, o.ShippingAddress,
			o.CreatedAt.Unix(), total, o.TrackingNumber,
		); err != nil {
			return err
		}
		for _, item := range o.Items {
			var lineTotal any
			if item.TotalPrice != nil {
				lineTotal = *item.TotalPrice
			}
			if _, err := tx.Exec(
				`INSERT INTO order_items (order_id, product_name, quantity, unit_price, total_price) VALUES (?, ?, ?, ?, ?)`,
				o.ID, item.ProductName, item.Quantity, item.UnitPrice, lineTotal,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// CreateConversation inserts a conversation row.
func (s *SQLiteStore) CreateConversation(ctx context.Context, conv *Conversation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_identifier, channel, started_at) VALUES (?, ?, ?, ?)`,
		conv.ID, conv.UserIdentifier, conv.Channel, conv.StartedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

// GetConversation retrieves a conversation by id, (nil, nil) if missing.
func (s *SQLiteStore) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_identifier, channel, started_at, ended_at FROM conversations WHERE id = ?`, id)

	var conv Conversation
	var startedAt int64
	var endedAt sql.NullInt64
	err := row.Scan(&conv.ID, &conv.UserIdentifier, &conv.Channel, &startedAt, &endedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan conversation row: %w", err)
	}

	conv.StartedAt = time.Unix(startedAt, 0).UTC()
	if endedAt.Valid {
		t := time.Unix(endedAt.Int64, 0).UTC()
		conv.EndedAt = &t
	}
	return &conv, nil
}

// EndConversation marks a conversation ended. Idempotent.
func (s *SQLiteStore) EndConversation(ctx context.Context, id string, endedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET ended_at = ? WHERE id = ? AND ended_at IS NULL`,
		endedAt.Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("end conversation: %w", err)
	}
	return nil
}

// AppendMessage inserts a transcript row.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *StoredMessage) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, sender, kind, body, payload, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ConversationID, string(msg.Sender), string(msg.Kind), msg.Body, msg.Payload, msg.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// Messages returns a conversation's transcript oldest-first.
func (s *SQLiteStore) Messages(ctx context.Context, conversationID string) ([]StoredMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, sender, kind, body, COALESCE(payload, ''), created_at
		 FROM messages WHERE conversation_id = ? ORDER BY seq ASC`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []StoredMessage
	for rows.Next() {
		var msg StoredMessage
		var sender, kind string
		var createdAt int64
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &sender, &kind, &msg.Body, &msg.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		msg.Sender = model.Sender(sender)
		msg.Kind = model.Kind(kind)
		msg.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, msg)
	}
	return out, rows.Err()
}

// SaveFeedback inserts a feedback row.
func (s *SQLiteStore) SaveFeedback(ctx context.Context, fb *Feedback) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, conversation_id, rating, feedback_text, created_at) VALUES (?, ?, ?, ?, ?)`,
		fb.ID, fb.ConversationID, fb.Rating, fb.Text, fb.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// TopProducts returns the best sellers by units sold.
func (s *SQLiteStore) TopProducts(ctx context.Context, limit int) ([]model.ProductSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, price, total_sold, stock_quantity, COALESCE(category, '')
		 FROM products ORDER BY total_sold DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// SearchProducts returns products whose name contains the query,
// case-insensitively.
func (s *SQLiteStore) SearchProducts(ctx context.Context, name string) ([]model.ProductSummary, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, price, total_sold, stock_quantity, COALESCE(category, '')
		 FROM products WHERE LOWER(name) LIKE ? ORDER BY total_sold DESC`, pattern)
	if err != nil {
		return nil, fmt.Errorf("query product search: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]model.ProductSummary, error) {
	var out []model.ProductSummary
	for rows.Next() {
		var p model.ProductSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.TotalSold, &p.StockQuantity, &p.Category); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetOrder retrieves an order with its items, (nil, nil) if missing.
func (s *SQLiteStore) GetOrder(ctx context.Context, orderID string) (*model.OrderRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, customer_name, COALESCE(customer_email, ''), COALESCE(shipping_address, ''),
		        created_at, total_amount, COALESCE(tracking_number, '')
		 FROM orders WHERE UPPER(id) = UPPER(?)`, orderID)

	var order model.OrderRecord
	var status string
	var createdAt int64
	var total sql.NullFloat64
	err := row.Scan(&order.ID, &status, &order.CustomerName, &order.CustomerEmail,
		&order.ShippingAddress, &createdAt, &total, &order.TrackingNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan order row: %w", err)
	}

	order.Status = model.ParseOrderStatus(status)
	order.CreatedAt = time.Unix(createdAt, 0).UTC()
	if total.Valid {
		order.TotalAmount = &total.Float64
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT product_name, quantity, unit_price, total_price FROM order_items WHERE order_id = ?`, order.ID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		var lineTotal sql.NullFloat64
		if err := rows.Scan(&item.ProductName, &item.Quantity, &item.UnitPrice, &lineTotal); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		if lineTotal.Valid {
			item.TotalPrice = &lineTotal.Float64
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
