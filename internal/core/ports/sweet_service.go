package ports

import (
	"context"

	"github.com/sweetshop/inventory-system/internal/core/domain"
)

// SweetInput carries all data needed to create or replace a catalog item.
type SweetInput struct {
	Name     string
	Category string
	Price    float64
	Quantity int
}

// SweetService defines the catalog use-cases.
type SweetService interface {
	Create(ctx context.Context, input SweetInput) (*domain.Sweet, error)
	List(ctx context.Context) ([]domain.Sweet, error)
	Search(ctx context.Context, filter SearchFilter) ([]domain.Sweet, error)
	Update(ctx context.Context, id string, input SweetInput) (*domain.Sweet, error)
	Delete(ctx context.Context, id string) error
	// Restock increases stock by quantity (must be > 0).
	Restock(ctx context.Context, id string, quantity int) (*domain.Sweet, error)
	// Purchase decrements stock by one; rejected with domain.ErrOutOfStock
	// when no units remain.
	Purchase(ctx context.Context, id string) (*domain.Sweet, error)
}
