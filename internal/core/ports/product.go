package ports

import (
	"context"

	"github.com/storefront/accounts-api/internal/core/domain"
)

// ProductRepository defines persistence operations for the catalog.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	// FindByID returns domain.ErrProductNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns every product, or only those in category when it is non-empty.
	List(ctx context.Context, category string) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductInput carries the writable product fields.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
	Category    string
}

// ProductService defines catalog use cases. Writes require the ADMIN role.
type ProductService interface {
	List(ctx context.Context, category string) ([]*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, principal domain.Principal, in ProductInput) (*domain.Product, error)
	Update(ctx context.Context, principal domain.Principal, id string, in ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, principal domain.Principal, id string) error
}
