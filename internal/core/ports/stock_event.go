package ports

import (
	"context"

	"github.com/sweetshop/inventory-system/internal/core/domain"
)

// StockEventRepository persists the stock movement ledger.
type StockEventRepository interface {
	Insert(ctx context.Context, event *domain.StockEvent) error
	ListBySweet(ctx context.Context, sweetID string, limit int) ([]domain.StockEvent, error)
}

// StockEventService processes stock movements off the request path.
type StockEventService interface {
	Process(ctx context.Context, event domain.StockEvent) error
}

// StockEventReader answers ledger history queries for the API.
type StockEventReader interface {
	Recent(ctx context.Context, sweetID string, limit int) ([]domain.StockEvent, error)
}

// StockEventPublisher hands a stock movement to the async pipeline. The
// request path never blocks on, or fails because of, the ledger.
type StockEventPublisher interface {
	Publish(event domain.StockEvent)
}
