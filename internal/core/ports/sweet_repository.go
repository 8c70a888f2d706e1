package ports

import (
	"context"

	"github.com/sweetshop/inventory-system/internal/core/domain"
)

// SearchFilter carries the optional query parameters for the search endpoint.
// Zero-value fields are not applied; MinPrice/MaxPrice are pointers so that a
// filter of 0 is distinguishable from "absent".
type SearchFilter struct {
	Name     string   // partial, case-insensitive match
	Category string   // exact match
	MinPrice *float64 // price >= MinPrice
	MaxPrice *float64 // price <= MaxPrice
}

// SweetRepository defines persistence operations for catalog items.
type SweetRepository interface {
	Create(ctx context.Context, s *domain.Sweet) (*domain.Sweet, error)
	List(ctx context.Context) ([]domain.Sweet, error)
	Search(ctx context.Context, filter SearchFilter) ([]domain.Sweet, error)
	FindByID(ctx context.Context, id string) (*domain.Sweet, error)
	Update(ctx context.Context, id string, s *domain.Sweet) (*domain.Sweet, error)
	Delete(ctx context.Context, id string) error
	// AdjustQuantity atomically applies delta to the item's quantity and
	// returns the updated document. When delta is negative the update only
	// matches documents with enough stock; an insufficient-stock miss is
	// reported as domain.ErrOutOfStock.
	AdjustQuantity(ctx context.Context, id string, delta int) (*domain.Sweet, error)
}
