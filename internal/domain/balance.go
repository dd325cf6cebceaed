package domain

import "github.com/shopspring/decimal"

// Balance is one asset entry from the account snapshot.
// The snapshot is exchange-owned state as of the query instant; it is never
// cached across orchestration steps.
type Balance struct {
	Asset  string
	Free   decimal.Decimal
	Locked decimal.Decimal
}

// HasFree reports whether any free amount is available to trade.
func (b Balance) HasFree() bool {
	return b.Free.IsPositive()
}
