package taxfolio

import (
	"errors"
	"fmt"
)

// ErrBadCategory is the fatal logic error raised when the capital dispatch
// meets a category it does not know. Bucket state would be silently wrong if
// processing continued, so the whole pass is aborted and must be discarded.
var ErrBadCategory = errors.New("unrecognized category in capital event processing")

// AnalyseDated replays the full ledger up to and including the cutoff date
// and returns the populated analysis. Dilution and split-transaction linkage
// are tracked; assets are not valued (call ValueAssets for that).
func AnalyseDated(l *Ledger, on Date) (*Analysis, error) {
	a := newAnalysis(l, on, nil, nil)
	for e := range l.EventsUpTo(on) {
		if err := a.processEvent(e, true); err != nil {
			return nil, fmt.Errorf("analysis aborted at event %d on %s: %w", e.ID, e.Date, err)
		}
	}
	a.markActive()
	return a, nil
}

// AnalyseYear replays one tax year of the ledger. previous, when non-nil, is
// the analysis of the prior year: its buckets become the base generation for
// comparison, and running lot state (units, cost, gains) carries forward.
// Without a previous analysis the ledger is first replayed up to the day
// before the year starts, so the opening cost basis, units and balances are
// in place. Assets are valued at the year end.
func AnalyseYear(l *Ledger, year *TaxYear, previous *Analysis) (*Analysis, error) {
	if previous == nil {
		opening, err := AnalyseDated(l, year.Start().Add(-1))
		if err != nil {
			return nil, err
		}
		opening.ValueAssets()
		previous = opening
	}
	a := newAnalysis(l, year.End(), year, previous)
	a.carryForward(previous)
	for e := range l.EventsInRange(year.Start(), year.End()) {
		if err := a.processEvent(e, true); err != nil {
			return nil, fmt.Errorf("analysis of year %d aborted at event %d on %s: %w", year.Year, e.ID, e.Date, err)
		}
	}
	a.markActive()
	a.ValueAssets()
	return a, nil
}

// AnalyseStatement replays the events touching one account up to the end of
// the range. A save point is created at the start of the range so a caller
// can roll the statement period back and recompute it. Dilution tracking and
// split-transaction linkage are skipped in this scoped variant.
func AnalyseStatement(l *Ledger, account *Account, from, to Date) (*Analysis, error) {
	account = account.Resolve()
	a := newAnalysis(l, to, nil, nil)
	saved := false
	for e := range l.EventsUpTo(to) {
		if !saved && !e.Date.Before(from) {
			// Snapshot the opening state of the statement range.
			a.CreateSavePoint(from.Add(-1))
			saved = true
		}
		if !a.touches(e, account) {
			continue
		}
		if err := a.processEvent(e, false); err != nil {
			return nil, fmt.Errorf("statement for %q aborted at event %d on %s: %w", account.Name, e.ID, e.Date, err)
		}
	}
	if !saved {
		a.CreateSavePoint(from.Add(-1))
	}
	a.markActive()
	return a, nil
}

// touches reports whether the event moves money or units on the account.
func (a *Analysis) touches(e *Event, account *Account) bool {
	return e.Debit.Resolve() == account || e.Credit.Resolve() == account
}

// carryForward seeds running lot state and balances from the previous
// period's closing buckets. Period accumulators (spend, income, invested,
// category amounts) start from zero.
func (a *Analysis) carryForward(previous *Analysis) {
	if previous == nil {
		return
	}
	for prev := range previous.accounts.All() {
		switch p := prev.(type) {
		case *MoneyBucket:
			b := a.accounts.Bucket(p.Account()).(*MoneyBucket)
			b.Value = p.Value
		case *DebtBucket:
			b := a.accounts.Bucket(p.Account()).(*DebtBucket)
			b.Value = p.Value
		case *AssetBucket:
			b := a.accounts.Bucket(p.Account()).(*AssetBucket)
			b.Units = p.Units
			b.Cost = p.Cost
			b.Gains = p.Gains
			b.Gained = p.Gained
			b.Dividend = p.Dividend
		}
	}
}

// processEvent classifies one ledger event and routes it to the correct
// bucket-mutation routine. Side effects that only the full-dataset pass
// tracks (dilution, parent linkage) are guarded by full.
func (a *Analysis) processEvent(e *Event, full bool) error {
	if e.Deleted {
		return nil
	}
	if full && e.HasDilution() {
		a.dilutions.RecordEvent(e)
	}
	if e.Debit.Resolve().HasUnits() || e.Credit.Resolve().HasUnits() {
		return a.processCapitalEvent(e)
	}
	a.processSimpleEvent(e)
	return nil
}

// processSimpleEvent applies a non-capital event: debit and credit bucket
// adjustment, tax-authority credit accumulation, and category accumulation
// unless the category is a pure transfer.
func (a *Analysis) processSimpleEvent(e *Event) {
	debit := e.Debit.Resolve()
	credit := e.Credit.Resolve()
	category := e.Category

	// Interest and dividends are paid by the account's parent (the bank or
	// the fund manager), not by the account itself.
	if (category.IsInterest() || category.IsDividend()) && debit.Parent != nil {
		debit = debit.Parent.Resolve()
	}
	// Tax-free accounts remap their income categories.
	if debit.TaxFree || credit.TaxFree {
		switch category {
		case CatInterest:
			category = CatTaxFreeInterest
		case CatDividend, CatUnitTrustDividend:
			category = CatTaxFreeDividend
		}
	}

	a.accounts.Bucket(debit).adjustForDebit(e)
	a.accounts.Bucket(credit).adjustForCredit(e)
	a.adjustTaxMan(e)

	if !category.IsTransfer() {
		a.categories.Bucket(category).add(e)
	}
}

// adjustTaxMan accumulates any embedded tax credit and national insurance on
// the tax-authority bucket.
func (a *Analysis) adjustTaxMan(e *Event) {
	credit := e.TaxCredit.Add(e.NatInsurance)
	if credit.IsZero() {
		return
	}
	a.accounts.Payee(a.taxman).addIncome(credit)
}
