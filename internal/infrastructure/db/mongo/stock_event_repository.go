package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sweetshop/inventory-system/internal/core/domain"
)

const stockEventsCollection = "stock_events"

type StockEventRepository struct {
	coll *mongo.Collection
}

func NewStockEventRepository(db *mongo.Database) *StockEventRepository {
	return &StockEventRepository{coll: db.Collection(stockEventsCollection)}
}

func (r *StockEventRepository) Insert(ctx context.Context, event *domain.StockEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("insert stock event: %w", err)
	}
	return nil
}

func (r *StockEventRepository) ListBySweet(ctx context.Context, sweetID string, limit int) ([]domain.StockEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"sweet_id": sweetID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find stock events: %w", err)
	}
	defer cur.Close(ctx)

	events := []domain.StockEvent{}
	for cur.Next(ctx) {
		var e domain.StockEvent
		if err := cur.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode stock event: %w", err)
		}
		events = append(events, e)
	}
	return events, cur.Err()
}

// EnsureIndexes creates the lookup index on the stock_events collection.
func (r *StockEventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "sweet_id", Value: 1}, {Key: "at", Value: -1}},
	})
	return err
}
