package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keyxmakerx/storefront/internal/apperror"
	"github.com/keyxmakerx/storefront/internal/sanitize"
)

// ProductRepository defines the read-only data access contract for products.
type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id int) (*Product, error)
}

// --- In-memory repository ---

// memoryProductRepository serves a fixed slice of products. Never mutated
// after construction.
type memoryProductRepository struct {
	products []Product
}

// NewMemoryProductRepository creates a repository over a copy of products.
func NewMemoryProductRepository(products []Product) ProductRepository {
	return &memoryProductRepository{products: append([]Product(nil), products...)}
}

// List returns a copy of all products in catalog order.
func (r *memoryProductRepository) List(_ context.Context) ([]Product, error) {
	return append([]Product(nil), r.products...), nil
}

// FindByID returns the product with the given ID or apperror.NotFound.
func (r *memoryProductRepository) FindByID(_ context.Context, id int) (*Product, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, apperror.NewNotFound("product not found")
}

// --- MariaDB repository ---

// mariadbProductRepository reads products from the products table.
type mariadbProductRepository struct {
	db *sql.DB
}

// NewMariaDBProductRepository creates a product repository backed by the given DB pool.
func NewMariaDBProductRepository(db *sql.DB) ProductRepository {
	return &mariadbProductRepository{db: db}
}

// List returns all products ordered by ID.
func (r *mariadbProductRepository) List(ctx context.Context) ([]Product, error) {
	query := `SELECT id, name, price_cents, image FROM products ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Image); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		p.Name = sanitize.PlainText(p.Name)
		products = append(products, p)
	}

	return products, rows.Err()
}

// FindByID retrieves a product by ID.
func (r *mariadbProductRepository) FindByID(ctx context.Context, id int) (*Product, error) {
	query := `SELECT id, name, price_cents, image FROM products WHERE id = ?`

	p := &Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.PriceCents, &p.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}
	p.Name = sanitize.PlainText(p.Name)
	return p, nil
}
