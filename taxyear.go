package taxfolio

import "time"

// Age thresholds for the increased personal allowance.
const (
	loAgeAllowanceAge = 65
	hiAgeAllowanceAge = 75
)

// TaxYear holds every threshold, rate and allowance needed to compute the
// liability for one fiscal year. The year runs from 6 April of the previous
// calendar year to 5 April of Year (UK convention).
type TaxYear struct {
	Year int // ending calendar year

	// Allowances.
	Allowance         Money // base personal allowance
	LoAgeAllowance    Money // allowance from age 65
	HiAgeAllowance    Money // allowance from age 75
	AgeAllowanceLimit Money // income limit above which age allowance tapers
	AddAllowanceLimit Money // income limit above which any allowance tapers (additional-band regimes only)
	RentalAllowance   Money
	CapitalAllowance  Money

	// Band widths. A zero band is absent.
	LoBand            Money // low-rate band width (savings income)
	BasicBand         Money // basic-rate band width
	AddIncomeBoundary Money // income boundary where the additional rate starts; zero when no additional band

	// Income rates.
	LoTaxRate    Rate
	BasicTaxRate Rate
	HiTaxRate    Rate
	AddTaxRate   Rate

	// Interest rates.
	IntTaxRate Rate // rate applied to interest in the low band

	// Dividend rates.
	DivTaxRate    Rate
	HiDivTaxRate  Rate
	AddDivTaxRate Rate

	// Capital gains rates, used unless the regime taxes gains as income.
	CapTaxRate   Rate
	HiCapTaxRate Rate

	// CapitalAsIncome selects the regime where capital gains are pushed
	// through the income bands instead of the capital rates.
	CapitalAsIncome bool
}

// Start returns the first day of the tax year (6 April of the prior year).
func (y *TaxYear) Start() Date { return NewDate(y.Year-1, time.April, 6) }

// End returns the last day of the tax year (5 April).
func (y *TaxYear) End() Date { return NewDate(y.Year, time.April, 5) }

// Contains reports whether the date falls within the tax year.
func (y *TaxYear) Contains(d Date) bool {
	return !d.Before(y.Start()) && !d.After(y.End())
}

// HasAdditionalBand reports whether the year defines an additional tax band.
func (y *TaxYear) HasAdditionalBand() bool { return y.AddIncomeBoundary.IsNonZero() }

// HasLoBand reports whether the year defines a low-rate band.
func (y *TaxYear) HasLoBand() bool { return y.LoBand.IsNonZero() }

// AllowanceForAge returns the personal allowance applicable to a taxpayer of
// the given age at the end of the tax year, before any income tapering.
func (y *TaxYear) AllowanceForAge(age int) Money {
	switch {
	case age >= hiAgeAllowanceAge && y.HiAgeAllowance.IsNonZero():
		return y.HiAgeAllowance
	case age >= loAgeAllowanceAge && y.LoAgeAllowance.IsNonZero():
		return y.LoAgeAllowance
	default:
		return y.Allowance
	}
}
