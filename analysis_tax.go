package taxfolio

// TaxClass identifies one income class of the liability computation. Classes
// are taxed in a fixed order, each draining what the previous classes left of
// the shared allowance and band pools.
type TaxClass int

const (
	TaxOnSalary TaxClass = iota
	TaxOnRental
	TaxOnInterest
	TaxOnDividends
	TaxOnTaxableGains
	TaxOnCapitalGains

	taxClassCount
)

var taxClassNames = [taxClassCount]string{
	TaxOnSalary:       "salary",
	TaxOnRental:       "rental income",
	TaxOnInterest:     "interest",
	TaxOnDividends:    "dividends",
	TaxOnTaxableGains: "chargeable gains",
	TaxOnCapitalGains: "capital gains",
}

func (c TaxClass) String() string {
	if c < 0 || c >= taxClassCount {
		return "unknown"
	}
	return taxClassNames[c]
}

// TaxBand is one slice of an income class taxed at one rate.
type TaxBand struct {
	Name     string
	Amount   Money
	Rate     Rate
	Taxation Money
}

// TaxDueBucket is the liability detail of one income class.
type TaxDueBucket struct {
	Class  TaxClass
	Amount Money
	Bands  []TaxBand
	TaxDue Money
}

// TaxLiability is the result of the tax stage for one fiscal year.
type TaxLiability struct {
	Year      *TaxYear
	Age       int   // taxpayer age at year end, 0 when unknown
	Allowance Money // personal allowance after any age and income tapering

	Buckets []*TaxDueBucket

	TotalIncome Money // gross chargeable income across all classes
	TotalTaxDue Money
	TaxPaid     Money // tax already settled at source or by payment
	TaxProfit   Money // TaxPaid - TotalTaxDue; positive means overpaid
}

// bandPool holds what remains of the shared allowance and rate bands while
// the classes drain them in order.
type bandPool struct {
	currency  string
	allowance Money
	lo        Money
	basic     Money
	hi        Money // remaining width below the additional boundary
	hiBounded bool  // false when the year has no additional band
}

func newBandPool(y *TaxYear, allowance Money, currency string) *bandPool {
	p := &bandPool{
		currency:  currency,
		allowance: allowance,
		lo:        y.LoBand,
		basic:     y.BasicBand,
	}
	if y.HasAdditionalBand() {
		p.hiBounded = true
		p.hi = y.AddIncomeBoundary.Sub(allowance).Sub(y.LoBand).Sub(y.BasicBand)
		if p.hi.IsNegative() {
			p.hi = M(0, currency)
		}
	}
	return p
}

func (p *bandPool) clone() *bandPool {
	c := *p
	return &c
}

// bandRates selects the rate schedule of one income class.
type bandRates struct {
	lo, basic, hi, add Rate
	useAllowance       bool
	useLo              bool
}

// apply drains the pool with an amount under the given schedule and returns
// the bands consumed and the total tax. Each band records its own taxation;
// exhausted or skipped bands do not appear.
func (p *bandPool) apply(amount Money, r bandRates) ([]TaxBand, Money) {
	var bands []TaxBand
	total := M(0, p.currency)

	// pool == nil means the band is unbounded.
	band := func(name string, pool *Money, rate Rate) {
		if amount.IsZero() || !amount.IsPositive() {
			return
		}
		used := amount
		if pool != nil {
			used = amount.Min(*pool)
			*pool = (*pool).Sub(used)
		}
		if used.IsZero() {
			return
		}
		amount = amount.Sub(used)
		tax := rate.Of(used)
		bands = append(bands, TaxBand{Name: name, Amount: used, Rate: rate, Taxation: tax})
		total = total.Add(tax)
	}

	if r.useAllowance {
		band("personal allowance", &p.allowance, R(0))
	}
	if r.useLo {
		band("starting rate", &p.lo, r.lo)
	}
	band("basic rate", &p.basic, r.basic)
	if p.hiBounded {
		band("higher rate", &p.hi, r.hi)
		band("additional rate", nil, r.add)
	} else {
		band("higher rate", nil, r.hi)
	}
	return bands, total
}

// CalculateTax runs the tax stage for a full-year analysis: the income
// classes drain the allowance and band pools in order, the chargeable gains
// get top-slicing relief, and the resulting liability is attached to the
// analysis. Without a tax year the call is a no-op. The stage is idempotent.
func (a *Analysis) CalculateTax() {
	if a.year == nil || a.taxed {
		return
	}
	a.ProduceTotals()

	y := a.year
	currency := a.ledger.Currency
	zero := M(0, currency)

	amountOf := func(c TaxCategory) Money {
		if b, ok := a.taxCategories.Get(c); ok {
			return b.Amount
		}
		return zero
	}
	creditOf := func(c TaxCategory) Money {
		if b, ok := a.taxCategories.Get(c); ok {
			return b.TaxCredit
		}
		return zero
	}
	floor := func(m Money) Money {
		if m.IsNegative() {
			return zero
		}
		return m
	}

	salary := floor(amountOf(TaxGrossSalary))
	rental := floor(amountOf(TaxGrossRental).Sub(y.RentalAllowance))
	interest := floor(amountOf(TaxGrossInterest))
	dividends := floor(amountOf(TaxGrossDividend).Add(amountOf(TaxGrossUTDividend)))

	chargeable := a.charges.TotalGains(currency)
	if a.charges.Len() == 0 {
		chargeable = floor(amountOf(TaxGrossTaxableGains))
	}

	capital := amountOf(TaxGrossCapitalGains)
	capExempt := floor(capital.Min(y.CapitalAllowance))
	capTaxable := floor(capital.Sub(y.CapitalAllowance))

	totalIncome := salary.Add(rental).Add(interest).Add(dividends).
		Add(chargeable).Add(capTaxable)

	age := 0
	if !a.ledger.BirthDate.IsZero() {
		age = a.ledger.BirthDate.YearsUntil(y.End())
	}
	allowance := a.taperedAllowance(age, totalIncome)

	pool := newBandPool(y, allowance, currency)
	tax := &TaxLiability{
		Year:        y,
		Age:         age,
		Allowance:   allowance,
		TotalIncome: totalIncome,
		TotalTaxDue: zero,
	}
	addBucket := func(class TaxClass, amount Money, bands []TaxBand, due Money) {
		if amount.IsZero() && due.IsZero() {
			return
		}
		tax.Buckets = append(tax.Buckets, &TaxDueBucket{Class: class, Amount: amount, Bands: bands, TaxDue: due})
		tax.TotalTaxDue = tax.TotalTaxDue.Add(due)
	}

	incomeRates := bandRates{
		lo: y.LoTaxRate, basic: y.BasicTaxRate, hi: y.HiTaxRate, add: y.AddTaxRate,
		useAllowance: true, useLo: y.HasLoBand(),
	}

	bands, due := pool.apply(salary, incomeRates)
	addBucket(TaxOnSalary, salary, bands, due)

	bands, due = pool.apply(rental, incomeRates)
	addBucket(TaxOnRental, rental, bands, due)

	intRates := incomeRates
	intRates.lo = y.IntTaxRate
	bands, due = pool.apply(interest, intRates)
	addBucket(TaxOnInterest, interest, bands, due)

	divRates := bandRates{
		basic: y.DivTaxRate, hi: y.HiDivTaxRate, add: y.AddDivTaxRate,
		useAllowance: true,
	}
	bands, due = pool.apply(dividends, divRates)
	addBucket(TaxOnDividends, dividends, bands, due)

	a.taxChargeableGains(pool, chargeable, creditOf(TaxGrossTaxableGains), incomeRates, addBucket)
	a.taxCapitalGains(pool, capital, capExempt, capTaxable, incomeRates, addBucket)

	tax.TaxPaid = amountOf(TaxPaid)
	for b := range a.taxCategories.All() {
		// The chargeable-gains credit was already netted off the liability.
		if b.Category() == TaxGrossTaxableGains {
			continue
		}
		tax.TaxPaid = tax.TaxPaid.Add(b.TaxCredit)
	}
	tax.TaxProfit = tax.TaxPaid.Sub(tax.TotalTaxDue)

	a.tax = tax
	a.taxed = true
	a.state = Taxed
}

// taperedAllowance computes the personal allowance for the taxpayer's age at
// year end, withdrawn one unit for every two of income over the applicable
// limit: the age enhancement tapers down to the base allowance first, then in
// additional-band regimes the whole allowance tapers down to zero.
func (a *Analysis) taperedAllowance(age int, totalIncome Money) Money {
	y := a.year
	allowance := y.AllowanceForAge(age)
	if allowance.GreaterThan(y.Allowance) &&
		y.AgeAllowanceLimit.IsNonZero() && totalIncome.GreaterThan(y.AgeAllowanceLimit) {
		taper := totalIncome.Sub(y.AgeAllowanceLimit).Weighted(U(1), U(2))
		allowance = allowance.Sub(taper)
		if allowance.LessThan(y.Allowance) {
			allowance = y.Allowance
		}
	}
	if y.AddAllowanceLimit.IsNonZero() && totalIncome.GreaterThan(y.AddAllowanceLimit) {
		taper := totalIncome.Sub(y.AddAllowanceLimit).Weighted(U(1), U(2))
		allowance = allowance.Sub(taper)
		if allowance.IsNegative() {
			allowance = M(0, a.ledger.Currency)
		}
	}
	return allowance
}

// taxChargeableGains taxes the year's chargeable gains as income with
// top-slicing relief: the annual-equivalent slice is walked through a trial
// copy of the pools to find the effective rate, which then applies to the
// full gain. The basic-rate tax treated as paid within the policy is netted
// off, never refunded. The resulting tax is distributed back over the
// individual chargeable events.
func (a *Analysis) taxChargeableGains(pool *bandPool, gains, credit Money, rates bandRates, addBucket func(TaxClass, Money, []TaxBand, Money)) {
	if gains.IsZero() {
		return
	}
	currency := a.ledger.Currency
	slice := a.charges.TotalSlice(currency)

	var bands []TaxBand
	var due Money
	if slice.IsZero() || slice.Equal(gains) {
		bands, due = pool.apply(gains, rates)
	} else {
		trial := pool.clone()
		bands, due = trial.apply(slice, rates)
		sliceTax := due
		due = sliceTax.ValueWeighted(gains, slice)
		bands = append(bands, TaxBand{
			Name:     "top slicing",
			Amount:   gains.Sub(slice),
			Taxation: due.Sub(sliceTax),
		})
		// The full gain still consumes the real pools.
		pool.apply(gains, rates)
	}
	if credit.IsNonZero() {
		bands = append(bands, TaxBand{
			Name:     "basic rate treated as paid",
			Amount:   gains,
			Rate:     a.year.BasicTaxRate,
			Taxation: credit.Neg(),
		})
		due = due.Sub(credit)
		if due.IsNegative() {
			due = M(0, currency)
		}
	}
	a.charges.ApplyTax(due, slice)
	addBucket(TaxOnTaxableGains, gains, bands, due)
}

// taxCapitalGains taxes the net capital gains above the annual exemption. In
// capital-as-income regimes the gains walk the income bands; otherwise the
// part covered by the remaining basic band pays the lower capital rate and
// the rest the higher one.
func (a *Analysis) taxCapitalGains(pool *bandPool, capital, exempt, taxable Money, rates bandRates, addBucket func(TaxClass, Money, []TaxBand, Money)) {
	if capital.IsZero() || !capital.IsPositive() {
		return
	}
	currency := a.ledger.Currency
	bands := []TaxBand{{Name: "annual exemption", Amount: exempt, Rate: R(0), Taxation: M(0, currency)}}
	due := M(0, currency)

	switch {
	case taxable.IsZero():
		// Fully covered by the exemption.
	case a.year.CapitalAsIncome:
		more, t := pool.apply(taxable, rates)
		bands = append(bands, more...)
		due = t
	default:
		within := taxable.Min(pool.basic)
		if within.IsNegative() {
			within = M(0, currency)
		}
		pool.basic = pool.basic.Sub(within)
		if within.IsNonZero() {
			t := a.year.CapTaxRate.Of(within)
			bands = append(bands, TaxBand{Name: "capital rate", Amount: within, Rate: a.year.CapTaxRate, Taxation: t})
			due = due.Add(t)
		}
		if above := taxable.Sub(within); above.IsNonZero() {
			rate := a.year.HiCapTaxRate
			if rate.IsZero() {
				rate = a.year.CapTaxRate
			}
			t := rate.Of(above)
			bands = append(bands, TaxBand{Name: "higher capital rate", Amount: above, Rate: rate, Taxation: t})
			due = due.Add(t)
		}
	}
	addBucket(TaxOnCapitalGains, capital, bands, due)
}
