package orders

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// OrderRepository defines the data access contract for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

// --- In-memory repository ---

// MemoryOrderRepository keeps orders in process memory.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []Order
}

// NewMemoryOrderRepository creates an empty in-memory order repository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{}
}

// Create appends the order.
func (r *MemoryOrderRepository) Create(_ context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, *order)
	return nil
}

// ListByUser returns the user's orders in placement order.
func (r *MemoryOrderRepository) ListByUser(_ context.Context, userID string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// Count returns the number of recorded orders.
func (r *MemoryOrderRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}

// --- MariaDB repository ---

// mariadbOrderRepository stores orders in the orders table.
type mariadbOrderRepository struct {
	db *sql.DB
}

// NewMariaDBOrderRepository creates an order repository backed by the given DB pool.
func NewMariaDBOrderRepository(db *sql.DB) OrderRepository {
	return &mariadbOrderRepository{db: db}
}

// Create inserts a new order row.
func (r *mariadbOrderRepository) Create(ctx context.Context, order *Order) error {
	query := `INSERT INTO orders (id, user_id, product_id, product_name, price_cents, placed_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		order.ID, order.UserID, order.ProductID, order.ProductName, order.PriceCents, order.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

// ListByUser returns the user's orders, oldest first.
func (r *mariadbOrderRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	query := `SELECT id, user_id, product_id, product_name, price_cents, placed_at
	          FROM orders WHERE user_id = ? ORDER BY placed_at, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductID, &o.ProductName, &o.PriceCents, &o.PlacedAt); err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
