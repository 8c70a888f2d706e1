package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/core/ports"
)

// StockEventService persists stock movements to the ledger and answers
// history queries about them.
type StockEventService struct {
	repo ports.StockEventRepository
	log  zerolog.Logger
}

func NewStockEventService(repo ports.StockEventRepository, log zerolog.Logger) *StockEventService {
	return &StockEventService{repo: repo, log: log}
}

// Process persists a single stock movement. The ledger is advisory: errors
// are reported to the caller (the dispatcher) for logging and metrics but
// never reach the API request that triggered the movement.
func (s *StockEventService) Process(ctx context.Context, event domain.StockEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("process stock event: %w", err)
	}

	s.log.Debug().
		Str("sweet_id", event.SweetID).
		Str("kind", string(event.Kind)).
		Int("delta", event.Delta).
		Int("remaining", event.Remaining).
		Msg("stock event recorded")

	return nil
}

// Recent returns the newest ledger entries for one item, newest first.
func (s *StockEventService) Recent(ctx context.Context, sweetID string, limit int) ([]domain.StockEvent, error) {
	events, err := s.repo.ListBySweet(ctx, sweetID, limit)
	if err != nil {
		return nil, fmt.Errorf("list stock events: %w", err)
	}
	return events, nil
}
