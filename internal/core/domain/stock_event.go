package domain

import "time"

// StockEventKind classifies a stock movement.
type StockEventKind string

const (
	StockPurchase StockEventKind = "purchase"
	StockRestock  StockEventKind = "restock"
)

// StockEvent records a single stock movement in the advisory ledger.
// Delta is negative for purchases, positive for restocks; Remaining is the
// quantity after the movement was applied.
type StockEvent struct {
	SweetID   string         `json:"sweet_id" bson:"sweet_id"`
	Kind      StockEventKind `json:"kind" bson:"kind"`
	Delta     int            `json:"delta" bson:"delta"`
	Remaining int            `json:"remaining" bson:"remaining"`
	At        time.Time      `json:"at" bson:"at"`
}
