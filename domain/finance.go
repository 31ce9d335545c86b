/*
finance.go - Pure financial calculations

PURPOSE:
  Stateless money math for sales: profit, profit-per-hour, cost-per-hour,
  and suggested price. No storage, no I/O. The ledger calls these at
  registration/update time and persists the results on the Sale.

ROUNDING:
  Intermediate results keep full decimal precision. Rounding to 2 places
  happens only where a value crosses the persistence or display boundary
  (see RoundMoney in types.go).

SEE ALSO:
  - ledger/service.go: The only production caller
*/
package domain

import "github.com/shopspring/decimal"

// DefaultPriceMultiplier is the markup applied by SuggestedPrice when the
// caller does not supply one.
var DefaultPriceMultiplier = MustDecimal("2.5")

// Profit returns amount - costPrice. May be negative.
func Profit(amount, costPrice decimal.Decimal) decimal.Decimal {
	return amount.Sub(costPrice)
}

// ProfitPerHour returns profit / hoursWorked, or zero when no hours were
// logged.
func ProfitPerHour(profit, hoursWorked decimal.Decimal) decimal.Decimal {
	if !hoursWorked.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(hoursWorked)
}

// CostPerHour returns costPrice / hoursWorked. The result is nil when no
// hours were logged: cost per hour is undefined, not zero.
func CostPerHour(costPrice, hoursWorked decimal.Decimal) *decimal.Decimal {
	if !hoursWorked.IsPositive() {
		return nil
	}
	v := costPrice.Div(hoursWorked)
	return &v
}

// SuggestedPrice returns costPrice * multiplier.
func SuggestedPrice(costPrice, multiplier decimal.Decimal) decimal.Decimal {
	return costPrice.Mul(multiplier)
}

// AchievedPercentage returns realized / target * 100 rounded to 2 places,
// or zero when the target is not positive.
func AchievedPercentage(realized, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.Zero
	}
	return realized.Div(target).Mul(decimal.NewFromInt(100)).Round(2)
}
