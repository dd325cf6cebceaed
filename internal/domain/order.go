package domain

import "github.com/shopspring/decimal"

// OrderType is fixed: this system only places market orders.
const OrderTypeMarket = "MARKET"

// OrderRequest is constructed and consumed entirely within one execution
// call; it is never persisted. Timestamp is generated fresh at call time and
// never reused across retries.
type OrderRequest struct {
	Symbol        string
	Side          Side
	Type          string
	Quantity      decimal.Decimal
	ClientOrderID string
	Timestamp     int64 // Unix milliseconds
}

// OrderResult carries the exchange response for one order attempt.
// Raw is the unparsed response body, kept verbatim for the audit trail.
type OrderResult struct {
	OrderID       int64
	ClientOrderID string
	Symbol        string
	Side          Side
	Status        string
	ExecutedQty   decimal.Decimal
	Raw           string
}
