// Package execution sizes and submits orders, and performs the batch
// liquidation of minor holdings.
package execution

import (
	"context"

	"github.com/shopspring/decimal"

	"momentum_go/internal/domain"
)

// Execution submits market orders to a venue. Implementations must write
// one log line per call carrying side, symbol and the raw outcome —
// success or failure — because the log is the only audit trail.
type Execution interface {
	PlaceMarketOrder(ctx context.Context, symbol string, side domain.Side, qty decimal.Decimal) (domain.OrderResult, error)
	Close() error
}

// OrderAPI is the slice of the exchange client the live executor needs.
type OrderAPI interface {
	PlaceMarketOrder(ctx context.Context, symbol string, side domain.Side, qty decimal.Decimal) (domain.OrderResult, error)
	Close() error
}
