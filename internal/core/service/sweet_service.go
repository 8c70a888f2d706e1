package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/core/ports"
)

type SweetService struct {
	repo   ports.SweetRepository
	events ports.StockEventPublisher
	logger zerolog.Logger
}

// NewSweetService builds the catalog service. events may be nil, in which
// case stock movements are not recorded.
func NewSweetService(repo ports.SweetRepository, events ports.StockEventPublisher, logger zerolog.Logger) *SweetService {
	return &SweetService{repo: repo, events: events, logger: logger}
}

func validateInput(input ports.SweetInput) error {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Category) == "" {
		return domain.ErrInvalidSweet
	}
	if input.Price < 0 || input.Quantity < 0 {
		return domain.ErrInvalidSweet
	}
	return nil
}

func (s *SweetService) Create(ctx context.Context, input ports.SweetInput) (*domain.Sweet, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	sweet := &domain.Sweet{
		Name:     strings.TrimSpace(input.Name),
		Category: strings.TrimSpace(input.Category),
		Price:    input.Price,
		Quantity: input.Quantity,
	}

	created, err := s.repo.Create(ctx, sweet)
	if err != nil {
		s.logger.Error().Err(err).Str("name", input.Name).Msg("failed to create sweet")
		return nil, err
	}

	s.logger.Info().Str("sweet_id", created.ID).Str("category", created.Category).Msg("sweet created")
	return created, nil
}

func (s *SweetService) List(ctx context.Context) ([]domain.Sweet, error) {
	return s.repo.List(ctx)
}

func (s *SweetService) Search(ctx context.Context, filter ports.SearchFilter) ([]domain.Sweet, error) {
	return s.repo.Search(ctx, filter)
}

func (s *SweetService) Update(ctx context.Context, id string, input ports.SweetInput) (*domain.Sweet, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, &domain.Sweet{
		Name:     strings.TrimSpace(input.Name),
		Category: strings.TrimSpace(input.Category),
		Price:    input.Price,
		Quantity: input.Quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("update sweet: %w", err)
	}

	s.logger.Info().Str("sweet_id", id).Msg("sweet updated")
	return updated, nil
}

func (s *SweetService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	s.logger.Info().Str("sweet_id", id).Msg("sweet deleted")
	return nil
}

// Restock increases stock by quantity. The quantity guard mirrors the one on
// the client: the server is the authority, the client check is advisory.
func (s *SweetService) Restock(ctx context.Context, id string, quantity int) (*domain.Sweet, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	sweet, err := s.repo.AdjustQuantity(ctx, id, quantity)
	if err != nil {
		return nil, fmt.Errorf("restock sweet: %w", err)
	}

	s.publish(domain.StockEvent{
		SweetID:   sweet.ID,
		Kind:      domain.StockRestock,
		Delta:     quantity,
		Remaining: sweet.Quantity,
		At:        time.Now().UTC(),
	})

	s.logger.Info().Str("sweet_id", id).Int("quantity", quantity).Int("remaining", sweet.Quantity).Msg("sweet restocked")
	return sweet, nil
}

// Purchase decrements stock by one. The repository applies the decrement
// atomically so a race between two buyers can never drive quantity negative.
func (s *SweetService) Purchase(ctx context.Context, id string) (*domain.Sweet, error) {
	sweet, err := s.repo.AdjustQuantity(ctx, id, -1)
	if err != nil {
		return nil, fmt.Errorf("purchase sweet: %w", err)
	}

	s.publish(domain.StockEvent{
		SweetID:   sweet.ID,
		Kind:      domain.StockPurchase,
		Delta:     -1,
		Remaining: sweet.Quantity,
		At:        time.Now().UTC(),
	})

	s.logger.Info().Str("sweet_id", id).Int("remaining", sweet.Quantity).Msg("sweet purchased")
	return sweet, nil
}

func (s *SweetService) publish(event domain.StockEvent) {
	if s.events != nil {
		s.events.Publish(event)
	}
}
