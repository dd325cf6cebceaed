package execution

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// buyQtyDecimals is the quantity precision submitted to the venue.
const buyQtyDecimals = 4

// buyFraction caps a buy at half the available quote balance so a
// single signal can never empty the account.
var buyFraction = decimal.NewFromFloat(0.5)

// BuyQuantity computes the base-asset quantity for a market buy:
// half the free quote balance divided by the latest close, truncated
// to 4 decimal places. Truncation (not rounding) guarantees the result
// never exceeds buyFraction * quoteFree / price.
func BuyQuantity(quoteFree, price decimal.Decimal) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("buy sizing: price must be positive, got %s", price)
	}
	if quoteFree.IsNegative() {
		return decimal.Zero, fmt.Errorf("buy sizing: negative quote balance %s", quoteFree)
	}
	qty, _ := quoteFree.Mul(buyFraction).QuoRem(price, buyQtyDecimals)
	return qty, nil
}
