// Package accrual implements the per-loan-type interest accrual rules.
package accrual

import (
	"time"

	"github.com/shopspring/decimal"
)

// Strategy computes the interest owed for the period containing asOf.
// Implementations must be pure: same inputs, same output, no I/O.
type Strategy interface {
	// Accrue returns the interest amount for the given loan balance as of
	// asOf, at the given annual rate expressed as a percentage (3.5 = 3.5%).
	Accrue(balance decimal.Decimal, asOf time.Time, annualRatePercent decimal.Decimal) decimal.Decimal

	// Name returns the strategy's configuration name.
	Name() string
}

var (
	oneHundred = decimal.NewFromInt(100)
	twelve     = decimal.NewFromInt(12)
)

// MonthlySimple divides the annual interest into twelve equal parts:
// balance * rate / 100 / 12. No rounding is applied; the full-precision
// result is posted as-is.
type MonthlySimple struct{}

// Name returns "monthly_simple".
func (MonthlySimple) Name() string { return "monthly_simple" }

// Accrue returns balance * annualRatePercent / 100 / 12.
func (MonthlySimple) Accrue(balance decimal.Decimal, _ time.Time, annualRatePercent decimal.Decimal) decimal.Decimal {
	return balance.Mul(annualRatePercent).Div(oneHundred).Div(twelve)
}

// DailyTruncated accrues a per-day amount over the exact day count of the
// calendar month containing asOf, truncating twice: the daily amount to
// 4 digits, then the monthly product to 2 digits. The double truncation
// matches the servicer's statements; a single final truncation would
// produce different cents on some balances.
type DailyTruncated struct{}

// Name returns "daily_truncated".
func (DailyTruncated) Name() string { return "daily_truncated" }

// Accrue computes the truncated daily rate for asOf's calendar year and
// multiplies it by the day count of asOf's calendar month.
func (DailyTruncated) Accrue(balance decimal.Decimal, asOf time.Time, annualRatePercent decimal.Decimal) decimal.Decimal {
	days := decimal.NewFromInt(int64(DaysInYear(asOf)))
	daily := Truncate(balance.Mul(annualRatePercent).Div(oneHundred).Div(days), 4)
	monthly := daily.Mul(decimal.NewFromInt(int64(DaysInMonth(asOf))))
	return Truncate(monthly, 2)
}

// Truncate drops fractional digits beyond the given count, rounding toward
// zero: Truncate(-1.23456, 4) = -1.2345.
func Truncate(d decimal.Decimal, digits int32) decimal.Decimal {
	return d.Truncate(digits)
}

// DaysInYear returns the exact day count of the calendar year containing t
// (366 in leap years, 365 otherwise).
func DaysInYear(t time.Time) int {
	year := t.Year()
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// DaysInMonth returns the exact day count of the calendar month containing t.
func DaysInMonth(t time.Time) int {
	// Day 0 of the next month normalizes to this month's last day.
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
