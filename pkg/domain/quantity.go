package domain

import "github.com/shopspring/decimal"

// Numeric policy for the whole pipeline: weights are carried to three decimal
// places (grams), money to two. All derived figures are recomputed server-side
// with these roundings so client-supplied values can never drift the ledger.

// RoundWeight rounds a gram quantity to 3 decimal places (half up).
func RoundWeight(d decimal.Decimal) decimal.Decimal {
	return d.Round(3)
}

// RoundMoney rounds a monetary amount to 2 decimal places (half up).
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// GSTRate is the fixed goods-and-services tax applied to taxable procurement
// subtotals. Additive, never compounding.
var GSTRate = decimal.NewFromFloat(0.03)

// GST returns the tax on a taxable subtotal, rounded to money precision.
func GST(subtotal decimal.Decimal) decimal.Decimal {
	return RoundMoney(subtotal.Mul(GSTRate))
}
