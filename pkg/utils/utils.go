package utils

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/elie009/utlityhub360-sub002/internal/domain"
)

// Power precision for fractional exponents. Results are rounded to cents
// exactly once, at the end of each formula.
const powPrecision = 16

var (
	one         = decimal.NewFromInt(1)
	daysInYear  = decimal.NewFromInt(365)
	daysInMonth = decimal.NewFromInt(30)
	daysInQtr   = decimal.NewFromInt(90)
)

// CompoundInterest computes the interest earned on a balance over elapsed
// whole days under the account's compounding frequency:
//
//	balance * ((1 + rate/m)^periods - 1)
//
// where periods is real-valued (days/30 months, days/90 quarters, ...).
// Unrecognized legacy frequencies fall back to simple interest.
func CompoundInterest(balance, annualRate decimal.Decimal, freq domain.CompoundingFrequency, days int) (decimal.Decimal, error) {
	if days <= 0 || balance.IsZero() || annualRate.IsZero() {
		return decimal.Zero, nil
	}

	d := decimal.NewFromInt(int64(days))

	var base, exponent decimal.Decimal
	switch freq {
	case domain.CompoundDaily:
		base = one.Add(annualRate.Div(daysInYear))
		exponent = d
	case domain.CompoundMonthly:
		base = one.Add(annualRate.Div(decimal.NewFromInt(12)))
		exponent = d.Div(daysInMonth)
	case domain.CompoundQuarterly:
		base = one.Add(annualRate.Div(decimal.NewFromInt(4)))
		exponent = d.Div(daysInQtr)
	case domain.CompoundAnnual:
		base = one.Add(annualRate)
		exponent = d.Div(daysInYear)
	default:
		return SimpleInterest(balance, annualRate, days), nil
	}

	factor, err := base.PowWithPrecision(exponent, powPrecision)
	if err != nil {
		return decimal.Zero, err
	}

	return balance.Mul(factor.Sub(one)).Round(2), nil
}

// SimpleInterest computes balance * rate * days/365, rounded to cents.
func SimpleInterest(balance, annualRate decimal.Decimal, days int) decimal.Decimal {
	d := decimal.NewFromInt(int64(days))
	return balance.Mul(annualRate).Mul(d.Div(daysInYear)).Round(2)
}

// AmortizedPayment computes the fixed periodic payment for a reducing-balance
// loan:
//
//	principal * (r(1+r)^n) / ((1+r)^n - 1)
//
// degenerating to principal/n when the periodic rate is zero.
func AmortizedPayment(principal, periodicRate decimal.Decimal, n int) decimal.Decimal {
	count := decimal.NewFromInt(int64(n))
	if periodicRate.IsZero() {
		return principal.Div(count).Round(2)
	}

	// error is only possible for a zero base with a negative exponent
	growth, _ := one.Add(periodicRate).PowInt32(int32(n))
	payment := principal.Mul(periodicRate.Mul(growth)).Div(growth.Sub(one))
	return payment.Round(2)
}

// DateOnly truncates a time to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ElapsedDays returns the whole days between two dates, comparing UTC
// calendar dates only.
func ElapsedDays(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

// DaysUntil returns how many whole days remain from asOf until due.
func DaysUntil(asOf, due time.Time) int {
	return ElapsedDays(asOf, due)
}
