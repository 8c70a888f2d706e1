// Package metrics defines all custom Prometheus metrics for the Sweet Shop
// API. It is the single source of truth for metric names, labels, and help
// strings; metrics register themselves with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sweetshop"

// ── Catalog metrics ───────────────────────────────────────────────────────────

// SweetsCreatedTotal counts catalog items created, by category.
var SweetsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweets_created_total",
		Help:      "Total number of catalog items created, by category.",
	},
	[]string{"category"},
)

// PurchasesTotal counts successful purchases.
var PurchasesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Total number of successful purchases.",
	},
)

// OutOfStockTotal counts purchase attempts rejected for lack of stock.
var OutOfStockTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "out_of_stock_rejections_total",
		Help:      "Total number of purchases rejected because the item was out of stock.",
	},
)

// RestocksTotal counts successful restocks.
var RestocksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "restocks_total",
		Help:      "Total number of successful restock operations.",
	},
)

// ── Stock ledger metrics ──────────────────────────────────────────────────────

// StockEventsProcessedTotal counts ledger entries written successfully.
// Label:
//   - kind: "purchase" or "restock"
var StockEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_events_processed_total",
		Help:      "Total number of stock movements recorded in the ledger.",
	},
	[]string{"kind"},
)

// StockEventsErrorsTotal counts ledger writes that failed.
// Label:
//   - reason: short description of the failure (e.g. "insert_failed")
var StockEventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_events_errors_total",
		Help:      "Total number of stock movements that failed to record.",
	},
	[]string{"reason"},
)

// StockEventsQueueDepth tracks events waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var StockEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stock_events_queue_depth",
		Help:      "Current number of stock events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
