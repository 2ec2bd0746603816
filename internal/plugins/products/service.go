package products

import (
	"context"
	"fmt"

	"github.com/keyxmakerx/storefront/internal/apperror"
)

// NotFoundMessage is the client message for an unknown product.
const NotFoundMessage = "Product not found"

// ProductService defines the business logic contract for the catalog.
type ProductService interface {
	List(ctx context.Context) ([]Product, error)

	// GetByID returns the product or a 404 AppError carrying NotFoundMessage.
	GetByID(ctx context.Context, id int) (*Product, error)
}

// productService implements ProductService.
type productService struct {
	repo ProductRepository
}

// NewProductService creates a new product service.
func NewProductService(repo ProductRepository) ProductService {
	return &productService{repo: repo}
}

// List returns every product.
func (s *productService) List(ctx context.Context) ([]Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing products: %w", err))
	}
	return products, nil
}

// GetByID looks up a single product.
func (s *productService) GetByID(ctx context.Context, id int) (*Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound(NotFoundMessage)
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding product: %w", err))
	}
	return p, nil
}
