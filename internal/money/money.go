// Package money converts between the decimal amounts used by the API and
// the integer cents persisted in the database.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Max is the largest absolute amount accepted, in cents (100 million).
const Max int64 = 100_000_000_00

// ToCents converts d to cents. It rejects more than two fractional digits
// instead of rounding, and anything beyond Max.
func ToCents(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(2)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than two decimal places", d.String())
	}
	if shifted.Abs().GreaterThan(decimal.NewFromInt(Max)) {
		return 0, fmt.Errorf("amount %s is too large", d.String())
	}
	return shifted.IntPart(), nil
}

// Parse reads a decimal string such as "12.5" into cents.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return ToCents(d)
}

func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format renders cents with exactly two decimals, e.g. 1250 -> "12.50".
func Format(cents int64) string {
	return FromCents(cents).StringFixed(2)
}
