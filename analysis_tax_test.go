package taxfolio

import (
	"testing"
	"time"
)

// year2025 is a minimal regime: a personal allowance and one basic band.
func year2025(allowance, basic float64, rate float64) *TaxYear {
	return &TaxYear{
		Year:         2025,
		Allowance:    GBP(allowance),
		BasicBand:    GBP(basic),
		BasicTaxRate: R(rate),
		HiTaxRate:    R(0.4),
	}
}

func analyseYear(t *testing.T, l *Ledger, y *TaxYear) *Analysis {
	t.Helper()
	a, err := AnalyseYear(l, y, nil)
	if err != nil {
		t.Fatalf("AnalyseYear() error = %v", err)
	}
	a.CalculateTax()
	return a
}

func TestCalculateTax_BandCascade(t *testing.T) {
	l, acc := newTestLedger()
	l.Append(ev(on(2025, time.January, 15), CatTaxedIncome, acc.employer, acc.current, GBP(2500)))

	a := analyseYear(t, l, year2025(1000, 2000, 0.2))
	tax := a.Tax()
	if tax == nil {
		t.Fatal("no tax liability")
	}
	// 1000 free under the allowance, 1500 at 20%.
	if got, want := tax.TotalTaxDue, GBP(300); !got.Equal(want) {
		t.Errorf("total tax due = %s, want %s", got, want)
	}
	if len(tax.Buckets) != 1 || tax.Buckets[0].Class != TaxOnSalary {
		t.Fatalf("buckets = %v, want one salary bucket", tax.Buckets)
	}
	bands := tax.Buckets[0].Bands
	if len(bands) != 2 {
		t.Fatalf("bands = %d, want 2", len(bands))
	}
	if !bands[0].Amount.Equal(GBP(1000)) || bands[0].Taxation.IsNonZero() {
		t.Errorf("allowance band = %s taxed %s", bands[0].Amount, bands[0].Taxation)
	}
	if !bands[1].Amount.Equal(GBP(1500)) || !bands[1].Taxation.Equal(GBP(300)) {
		t.Errorf("basic band = %s taxed %s", bands[1].Amount, bands[1].Taxation)
	}
}

func TestCalculateTax_HigherRateOverflow(t *testing.T) {
	l, acc := newTestLedger()
	l.Append(ev(on(2025, time.January, 15), CatTaxedIncome, acc.employer, acc.current, GBP(5000)))

	a := analyseYear(t, l, year2025(1000, 2000, 0.2))
	// 1000 free, 2000 at 20% = 400, 2000 at 40% = 800.
	if got, want := a.Tax().TotalTaxDue, GBP(1200); !got.Equal(want) {
		t.Errorf("total tax due = %s, want %s", got, want)
	}
}

func TestCalculateTax_SharedPoolsDrainInOrder(t *testing.T) {
	l, acc := newTestLedger()
	l.Append(
		ev(on(2025, time.January, 15), CatTaxedIncome, acc.employer, acc.current, GBP(2500)),
		ev(on(2025, time.January, 20), CatInterest, acc.savings, acc.savings, GBP(1000)),
	)

	a := analyseYear(t, l, year2025(1000, 2000, 0.2))
	tax := a.Tax()
	// Salary drained the allowance and 1500 of the basic band; interest gets
	// the remaining 500 at 20% and overflows 500 into the higher rate.
	if got, want := tax.TotalTaxDue, GBP(300 + 100 + 200); !got.Equal(want) {
		t.Errorf("total tax due = %s, want %s", got, want)
	}
	var interest *TaxDueBucket
	for _, b := range tax.Buckets {
		if b.Class == TaxOnInterest {
			interest = b
		}
	}
	if interest == nil {
		t.Fatal("no interest bucket")
	}
	if got, want := interest.TaxDue, GBP(300); !got.Equal(want) {
		t.Errorf("interest tax = %s, want %s", got, want)
	}
}

func TestCalculateTax_DividendRates(t *testing.T) {
	l, acc := newTestLedger()
	div := ev(on(2025, time.January, 20), CatDividend, acc.fund, acc.current, GBP(3000))
	l.Append(div)

	y := year2025(1000, 2000, 0.2)
	y.DivTaxRate = R(0.1)
	y.HiDivTaxRate = R(0.325)
	a := analyseYear(t, l, y)
	// 1000 free, 2000 at 10% = 200, nothing left for the higher dividend rate.
	if got, want := a.Tax().TotalTaxDue, GBP(200); !got.Equal(want) {
		t.Errorf("total tax due = %s, want %s", got, want)
	}
}

func TestCalculateTax_RentalAllowance(t *testing.T) {
	l, acc := newTestLedger()
	l.Append(ev(on(2025, time.January, 20), CatRentalIncome, acc.shop, acc.current, GBP(1500)))

	y := year2025(0, 10000, 0.2)
	y.RentalAllowance = GBP(1000)
	a := analyseYear(t, l, y)
	// Only 500 of the rent is chargeable.
	if got, want := a.Tax().TotalTaxDue, GBP(100); !got.Equal(want) {
		t.Errorf("total tax due = %s, want %s", got, want)
	}
}

func TestCalculateTax_AgeAllowanceTapers(t *testing.T) {
	l, acc := newTestLedger()
	l.BirthDate = on(1955, time.June, 1) // 69 at the 2025 year end
	l.Append(ev(on(2025, time.January, 15), CatTaxedIncome, acc.employer, acc.current, GBP(2500)))

	y := year2025(1000, 10000, 0.2)
	y.LoAgeAllowance = GBP(1500)
	y.AgeAllowanceLimit = GBP(2000)
	a := analyseYear(t, l, y)
	tax := a.Tax()
	// The enhanced allowance loses 1 for every 2 of income over 2000:
	// 1500 - 250 = 1250.
	if got, want := tax.Allowance, GBP(1250); !got.Equal(want) {
		t.Errorf("allowance = %s, want %s", got, want)
	}
	if got, want := tax.TotalTaxDue, GBP(250); !got.Equal(want) {
		t.Errorf("total tax due = %s, want %s", got, want)
	}
}

func TestCalculateTax_AgeAllowanceNeverBelowBase(t *testing.T) {
	l, acc := newTestLedger()
	l.BirthDate = on(1950, time.June, 1)
	l.Append(ev(on(2025, time.January, 15), CatTaxedIncome, acc.employer, acc.current, GBP(9000)))

	y := year2025(1000, 20000, 0.2)
	y.LoAgeAllowance = GBP(1500)
	y.AgeAllowanceLimit = GBP(2000)
	a := analyseYear(t, l, y)
	if got, want := a.Tax().Allowance, GBP(1000); !got.Equal(want) {
		t.Errorf("allowance = %s, want %s", got, want)
	}
}

func TestCalculateTax_TopSlicing(t *testing.T) {
	l, acc := newTestLedger()
	buy := ev(on(2015, time.June, 1), CatTransfer, acc.current, acc.bond, GBP(10000))
	buy.CreditUnits = U(100)
	surrender := ev(on(2025, time.January, 10), CatTaxableGain, acc.bond, acc.current, GBP(30000))
	surrender.DebitUnits = U(100)
	surrender.Years = 10
	l.Append(buy, surrender)

	a := analyseYear(t, l, year2025(0, 10000, 0.2))
	tax := a.Tax()
	// Gain 20000 over 10 years slices to 2000, fully within the basic band:
	// the whole gain is taxed at the sliced 20% rate instead of overflowing
	// into the higher rate.
	if got, want := tax.TotalTaxDue, GBP(4000); !got.Equal(want) {
		t.Errorf("total tax due = %s, want %s", got, want)
	}
	for c := range a.Charges().All() {
		if got, want := c.Tax, GBP(4000); !got.Equal(want) {
			t.Errorf("event tax = %s, want %s", got, want)
		}
	}
}

func TestCalculateTax_TopSlicingBasicRateCredit(t *testing.T) {
	l, acc := newTestLedger()
	buy := ev(on(2015, time.June, 1), CatTransfer, acc.current, acc.bond, GBP(10000))
	buy.CreditUnits = U(100)
	surrender := ev(on(2025, time.January, 10), CatTaxableGain, acc.bond, acc.current, GBP(30000))
	surrender.DebitUnits = U(100)
	surrender.Years = 10
	surrender.TaxCredit = GBP(4000)
	l.Append(buy, surrender)

	a := analyseYear(t, l, year2025(0, 10000, 0.2))
	// The basic-rate tax treated as paid inside the policy covers the whole
	// liability; nothing more is due and nothing is refunded.
	if got := a.Tax().TotalTaxDue; got.IsNonZero() {
		t.Errorf("total tax due = %s, want 0", got)
	}
}

func TestCalculateTax_CapitalGains(t *testing.T) {
	l, acc := newTestLedger()
	buy := ev(on(2025, time.January, 5), CatTransfer, acc.current, acc.fund, GBP(1000))
	buy.CreditUnits = U(100)
	sell := ev(on(2025, time.February, 5), CatTransfer, acc.fund, acc.current, GBP(6000))
	sell.DebitUnits = U(100)
	l.Append(buy, sell)

	y := year2025(0, 1000, 0.2)
	y.CapitalAllowance = GBP(3000)
	y.CapTaxRate = R(0.1)
	y.HiCapTaxRate = R(0.2)
	a := analyseYear(t, l, y)
	tax := a.Tax()
	// Gain 5000, exemption 3000, 1000 at 10% within the basic band and 1000
	// at 20% above it.
	if got, want := tax.TotalTaxDue, GBP(300); !got.Equal(want) {
		t.Errorf("total tax due = %s, want %s", got, want)
	}
	var capital *TaxDueBucket
	for _, b := range tax.Buckets {
		if b.Class == TaxOnCapitalGains {
			capital = b
		}
	}
	if capital == nil {
		t.Fatal("no capital gains bucket")
	}
	if got, want := capital.Amount, GBP(5000); !got.Equal(want) {
		t.Errorf("capital gains amount = %s, want %s", got, want)
	}
}

func TestCalculateTax_CapitalAsIncome(t *testing.T) {
	l, acc := newTestLedger()
	buy := ev(on(2025, time.January, 5), CatTransfer, acc.current, acc.fund, GBP(1000))
	buy.CreditUnits = U(100)
	sell := ev(on(2025, time.February, 5), CatTransfer, acc.fund, acc.current, GBP(6000))
	sell.DebitUnits = U(100)
	l.Append(buy, sell)

	y := year2025(0, 1000, 0.2)
	y.CapitalAllowance = GBP(3000)
	y.CapitalAsIncome = true
	a := analyseYear(t, l, y)
	// 1000 at 20% in the basic band, 1000 at the 40% higher rate.
	if got, want := a.Tax().TotalTaxDue, GBP(600); !got.Equal(want) {
		t.Errorf("total tax due = %s, want %s", got, want)
	}
}

func TestCalculateTax_Idempotent(t *testing.T) {
	l, acc := newTestLedger()
	l.Append(ev(on(2025, time.January, 15), CatTaxedIncome, acc.employer, acc.current, GBP(2500)))

	a := analyseYear(t, l, year2025(1000, 2000, 0.2))
	first := a.Tax()
	a.CalculateTax()
	if a.Tax() != first {
		t.Error("CalculateTax replaced the liability on rerun")
	}
	if got := a.State(); got != Taxed {
		t.Errorf("state = %s, want %s", got, Taxed)
	}
}

func TestCalculateTax_NoYearIsNoOp(t *testing.T) {
	l, acc := newTestLedger()
	l.Append(ev(on(2025, time.January, 15), CatTaxedIncome, acc.employer, acc.current, GBP(2500)))
	a, err := AnalyseDated(l, on(2025, time.December, 31))
	if err != nil {
		t.Fatalf("AnalyseDated() error = %v", err)
	}
	a.CalculateTax()
	if a.Tax() != nil {
		t.Error("dated analysis produced a tax liability")
	}
}

func TestCalculateTax_TaxPaidAndProfit(t *testing.T) {
	l, acc := newTestLedger()
	salary := ev(on(2025, time.January, 15), CatTaxedIncome, acc.employer, acc.current, GBP(2200))
	salary.TaxCredit = GBP(300)
	l.Append(salary)

	a := analyseYear(t, l, year2025(1000, 2000, 0.2))
	tax := a.Tax()
	// Gross salary 2500 taxes at 300; 300 was withheld at source.
	if got, want := tax.TotalTaxDue, GBP(300); !got.Equal(want) {
		t.Errorf("total tax due = %s, want %s", got, want)
	}
	if got, want := tax.TaxPaid, GBP(300); !got.Equal(want) {
		t.Errorf("tax paid = %s, want %s", got, want)
	}
	if got := tax.TaxProfit; got.IsNonZero() {
		t.Errorf("tax profit = %s, want 0", got)
	}
}
