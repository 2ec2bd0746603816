package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/keyxmakerx/storefront/internal/apperror"
	"github.com/keyxmakerx/storefront/internal/plugins/products"
)

// OrderService defines the business logic contract for orders.
type OrderService interface {
	// Place records an order of productID for userID. An unknown product
	// yields a 404 AppError and records nothing.
	Place(ctx context.Context, userID string, productID int) (*Order, error)

	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

// orderService implements OrderService.
type orderService struct {
	repo     OrderRepository
	products products.ProductService
	now      func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(repo OrderRepository, catalog products.ProductService) OrderService {
	return &orderService{repo: repo, products: catalog, now: time.Now}
}

// Place looks up the product, then records the order.
func (s *orderService) Place(ctx context.Context, userID string, productID int) (*Order, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	order := &Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		ProductID:   product.ID,
		ProductName: product.Name,
		PriceCents:  product.PriceCents,
		PlacedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("recording order: %w", err))
	}

	slog.Info("order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.Int("product_id", product.ID),
	)
	return order, nil
}

// ListByUser returns the user's orders.
func (s *orderService) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing orders: %w", err))
	}
	return out, nil
}
