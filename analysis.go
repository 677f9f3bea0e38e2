package taxfolio

import (
	"iter"
	"maps"
	"slices"
)

// State is the meta-analysis stage of an Analysis. The progression is
// strictly linear: RAW → VALUED → TOTALLED → TAXED. Each transition is
// idempotent; invoking a stage the analysis is already past is a no-op.
type State int

const (
	Raw State = iota
	Valued
	Totalled
	Taxed
)

func (s State) String() string {
	switch s {
	case Raw:
		return "raw"
	case Valued:
		return "valued"
	case Totalled:
		return "totalled"
	case Taxed:
		return "taxed"
	}
	return "unknown"
}

// Analysis holds every bucket built by one replay of the ledger. Each run
// owns its bucket set exclusively; nothing is shared across runs except the
// read-only base back-references into the previous period's analysis.
type Analysis struct {
	ledger *Ledger
	date   Date     // valuation / cutoff date
	year   *TaxYear // nil for dated and statement analyses

	accounts      *AccountBuckets
	categories    *CategoryBuckets
	taxCategories *TaxCategoryBuckets
	capital       map[string]*CapitalEvents
	dilutions     *Dilutions
	charges       *ChargeableEvents

	// synthetic accounts
	market *Account // "Market" payee receiving market movement
	taxman *Account // tax authority payee accumulating credits

	active map[string]bool // accounts with activity, for close-ability rules

	state  State
	taxed  bool // tax-calculation latch
	tax    *TaxLiability
	wealth Wealth

	savePointDate Date
	hasSavePoint  bool
}

func newAnalysis(l *Ledger, on Date, year *TaxYear, previous *Analysis) *Analysis {
	var prevAccounts *AccountBuckets
	var prevCategories *CategoryBuckets
	var prevTaxCategories *TaxCategoryBuckets
	if previous != nil {
		prevAccounts = previous.accounts
		prevCategories = previous.categories
		prevTaxCategories = previous.taxCategories
	}
	a := &Analysis{
		ledger:        l,
		date:          on,
		year:          year,
		accounts:      NewAccountBuckets(l.Currency, prevAccounts),
		categories:    NewCategoryBuckets(l.Currency, prevCategories),
		taxCategories: NewTaxCategoryBuckets(l.Currency, prevTaxCategories),
		capital:       make(map[string]*CapitalEvents),
		dilutions:     l.Dilutions().Clone(),
		charges:       NewChargeableEvents(),
		active:        make(map[string]bool),
	}
	a.market = &Account{Name: "Market", Class: ClassPayee}
	a.taxman = l.TaxMan
	if a.taxman == nil {
		a.taxman = &Account{Name: "TaxMan", Class: ClassPayee}
	}
	return a
}

// Ledger returns the ledger the analysis was built from.
func (a *Analysis) Ledger() *Ledger { return a.ledger }

// Date returns the analysis cutoff / valuation date.
func (a *Analysis) Date() Date { return a.date }

// Year returns the tax year of a full-year analysis, or nil.
func (a *Analysis) Year() *TaxYear { return a.year }

// State returns the meta-analysis stage reached so far.
func (a *Analysis) State() State { return a.state }

// Accounts returns the account bucket collection.
func (a *Analysis) Accounts() *AccountBuckets { return a.accounts }

// Categories returns the category bucket collection.
func (a *Analysis) Categories() *CategoryBuckets { return a.categories }

// TaxCategories returns the summary bucket collection built by ProduceTotals.
func (a *Analysis) TaxCategories() *TaxCategoryBuckets { return a.taxCategories }

// Dilutions returns the dilution tracker populated during the pass.
func (a *Analysis) Dilutions() *Dilutions { return a.dilutions }

// Charges returns the chargeable-event list populated during the pass.
func (a *Analysis) Charges() *ChargeableEvents { return a.charges }

// Tax returns the computed tax liability, or nil before CalculateTax.
func (a *Analysis) Tax() *TaxLiability { return a.tax }

// Capital returns the capital-event ledger for a priced asset, creating it on
// first reference.
func (a *Analysis) Capital(acct *Account) *CapitalEvents {
	acct = acct.Resolve()
	if c, ok := a.capital[acct.Name]; ok {
		return c
	}
	c := NewCapitalEvents(acct)
	a.capital[acct.Name] = c
	return c
}

// CapitalLedgers iterates over the per-asset capital ledgers in account-name
// order.
func (a *Analysis) CapitalLedgers() iter.Seq[*CapitalEvents] {
	return func(yield func(*CapitalEvents) bool) {
		names := slices.Collect(maps.Keys(a.capital))
		slices.Sort(names)
		for _, name := range names {
			if !yield(a.capital[name]) {
				return
			}
		}
	}
}

// IsAccountActive reports whether the account saw any activity during the
// pass; inactive accounts are closeable.
func (a *Analysis) IsAccountActive(name string) bool { return a.active[name] }

// CreateSavePoint snapshots every bucket and remembers the rollback date for
// capital-ledger truncation. A previous save point is overwritten.
func (a *Analysis) CreateSavePoint(on Date) {
	a.accounts.CreateSavePoint()
	a.categories.CreateSavePoint()
	a.savePointDate = on
	a.hasSavePoint = true
}

// RestoreSavePoint rolls every bucket back and truncates capital history at
// or after the save-point date. The save point is consumed. The analysis
// regresses to RAW: valuation and totals must be recomputed.
func (a *Analysis) RestoreSavePoint() {
	if !a.hasSavePoint {
		return
	}
	a.accounts.RestoreSavePoint()
	a.categories.RestoreSavePoint()
	// Capital entries on the save-point day itself were snapshotted with the
	// buckets; only later history is beyond the rollback point.
	for _, c := range a.capital {
		c.PurgeFrom(a.savePointDate.Add(1))
	}
	a.hasSavePoint = false
	a.state = Raw
	a.taxed = false
	a.tax = nil
}

// markActive records which accounts have live buckets after the pass.
func (a *Analysis) markActive() {
	for b := range a.accounts.All() {
		if b.IsActive() {
			a.active[b.Account().Name] = true
		}
	}
}
