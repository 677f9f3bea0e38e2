package taxfolio

import (
	"iter"
	"maps"
	"slices"
)

// AccountBucket is the mutable aggregate built for one account during an
// analysis pass. Exactly one variant exists per account, selected by the
// account's class. Mutation happens only through the adjustment methods, so
// lot-accounting consistency is preserved.
type AccountBucket interface {
	Account() *Account

	// adjustForDebit applies the effect of an event debiting the account.
	adjustForDebit(e *Event)
	// adjustForCredit applies the effect of an event crediting the account.
	adjustForCredit(e *Event)

	// CreateSavePoint snapshots the bucket state, overwriting any previous
	// save point.
	CreateSavePoint()
	// RestoreSavePoint rolls the bucket back to its save point. The save
	// point is consumed: a second restore without a new snapshot is a no-op.
	RestoreSavePoint()
	// hasSavePoint reports whether a snapshot is pending.
	hasSavePoint() bool

	// IsActive reports whether the bucket has any live value.
	IsActive() bool
	// IsRelevant reports whether the bucket should survive pruning: active
	// now, or active in the prior-period base bucket.
	IsRelevant() bool
}

// --- Money bucket ---

// MoneyBucket aggregates a valued cash account: balance, effective rate and
// maturity date, plus an expense accumulator for auto-expense accounts.
type MoneyBucket struct {
	account *Account
	base    *MoneyBucket // prior period, nil for the first analysis

	Value    Money
	Rate     Rate
	Maturity Date

	// Expense accumulates movements on auto-expense accounts in place of
	// balance tracking.
	Expense Money

	saved *moneySave
}

type moneySave struct {
	value   Money
	expense Money
}

func newMoneyBucket(a *Account, base *MoneyBucket, currency string) *MoneyBucket {
	b := &MoneyBucket{
		account: a,
		base:    base,
		Value:   M(0, currency).Add(a.OpeningBalance),
		Expense: M(0, currency),
	}
	if !a.Maturity.IsZero() {
		b.Maturity = a.Maturity
	}
	return b
}

func (b *MoneyBucket) Account() *Account { return b.account }

// Base returns the prior-period bucket, or nil.
func (b *MoneyBucket) Base() *MoneyBucket { return b.base }

func (b *MoneyBucket) adjustForDebit(e *Event) {
	if b.account.HasAutoExpense {
		b.Expense = b.Expense.Sub(e.Amount)
		return
	}
	b.Value = b.Value.Sub(e.Amount)
}

func (b *MoneyBucket) adjustForCredit(e *Event) {
	if b.account.HasAutoExpense {
		b.Expense = b.Expense.Add(e.Amount)
		return
	}
	b.Value = b.Value.Add(e.Amount)
}

func (b *MoneyBucket) CreateSavePoint() {
	b.saved = &moneySave{value: b.Value, expense: b.Expense}
}

func (b *MoneyBucket) RestoreSavePoint() {
	if b.saved == nil {
		return
	}
	b.Value = b.saved.value
	b.Expense = b.saved.expense
	b.saved = nil
}

func (b *MoneyBucket) hasSavePoint() bool { return b.saved != nil }

func (b *MoneyBucket) IsActive() bool { return b.Value.IsNonZero() || b.Expense.IsNonZero() }

func (b *MoneyBucket) IsRelevant() bool {
	return b.IsActive() || (b.base != nil && b.base.IsActive())
}

// --- Debt bucket ---

// DebtBucket aggregates a debt account: the running balance and the amount
// spent during the analysis period.
type DebtBucket struct {
	account *Account
	base    *DebtBucket

	Value Money
	Spend Money

	saved *debtSave
}

type debtSave struct {
	value Money
	spend Money
}

func newDebtBucket(a *Account, base *DebtBucket, currency string) *DebtBucket {
	return &DebtBucket{
		account: a,
		base:    base,
		Value:   M(0, currency).Add(a.OpeningBalance),
		Spend:   M(0, currency),
	}
}

func (b *DebtBucket) Account() *Account { return b.account }

// Base returns the prior-period bucket, or nil.
func (b *DebtBucket) Base() *DebtBucket { return b.base }

func (b *DebtBucket) adjustForDebit(e *Event) {
	b.Value = b.Value.Sub(e.Amount)
}

func (b *DebtBucket) adjustForCredit(e *Event) {
	b.Value = b.Value.Add(e.Amount)
	if !e.Category.IsTransfer() {
		b.Spend = b.Spend.Add(e.Amount)
	}
}

func (b *DebtBucket) CreateSavePoint() {
	b.saved = &debtSave{value: b.Value, spend: b.Spend}
}

func (b *DebtBucket) RestoreSavePoint() {
	if b.saved == nil {
		return
	}
	b.Value = b.saved.value
	b.Spend = b.saved.spend
	b.saved = nil
}

func (b *DebtBucket) hasSavePoint() bool { return b.saved != nil }

func (b *DebtBucket) IsActive() bool { return b.Value.IsNonZero() || b.Spend.IsNonZero() }

func (b *DebtBucket) IsRelevant() bool {
	return b.IsActive() || (b.base != nil && b.base.IsActive())
}

// --- Asset bucket ---

// AssetBucket aggregates a priced asset: units held, cost basis, realized
// gains, dividends and net invested cash, plus the valuation outputs computed
// by the meta-analysis. Units, cost and gains move only through the
// capital-event routines.
type AssetBucket struct {
	account *Account
	base    *AssetBucket

	Units    Units
	Cost     Money
	Gains    Money // realized capital gains from disposals
	Gained   Money // gains plus dividends accumulated to date
	Dividend Money
	Invested Money // net cash moved into the asset

	// Valuation outputs, set by ValueAssets.
	Price          Price
	Value          Money
	Profit         Money
	MarketMovement Money

	saved *assetSave
}

type assetSave struct {
	units    Units
	cost     Money
	gains    Money
	gained   Money
	dividend Money
	invested Money
}

func newAssetBucket(a *Account, base *AssetBucket, currency string) *AssetBucket {
	return &AssetBucket{
		account:  a,
		base:     base,
		Cost:     M(0, currency),
		Gains:    M(0, currency),
		Gained:   M(0, currency),
		Dividend: M(0, currency),
		Invested: M(0, currency),
	}
}

func (b *AssetBucket) Account() *Account { return b.account }

// Base returns the prior-period bucket, or nil.
func (b *AssetBucket) Base() *AssetBucket { return b.base }

// The plain adjustments on an asset track the net invested cash. Unit and
// cost movements go through the capital-event routines.
func (b *AssetBucket) adjustForDebit(e *Event) {
	b.Invested = b.Invested.Sub(e.Amount)
}

func (b *AssetBucket) adjustForCredit(e *Event) {
	b.Invested = b.Invested.Add(e.Amount)
}

// addUnits, subUnits, addCost, subCost, addGains, addDividend mutate the
// lot-accounting fields. They are unexported: only the capital-event
// routines may call them.

func (b *AssetBucket) addUnits(u Units) { b.Units = b.Units.Add(u) }
func (b *AssetBucket) subUnits(u Units) { b.Units = b.Units.Sub(u) }
func (b *AssetBucket) addCost(m Money)  { b.Cost = b.Cost.Add(m) }
func (b *AssetBucket) subCost(m Money)  { b.Cost = b.Cost.Sub(m) }

func (b *AssetBucket) addGains(m Money) {
	b.Gains = b.Gains.Add(m)
	b.Gained = b.Gained.Add(m)
}

func (b *AssetBucket) addDividend(m Money) {
	b.Dividend = b.Dividend.Add(m)
	b.Gained = b.Gained.Add(m)
}

func (b *AssetBucket) CreateSavePoint() {
	b.saved = &assetSave{
		units:    b.Units,
		cost:     b.Cost,
		gains:    b.Gains,
		gained:   b.Gained,
		dividend: b.Dividend,
		invested: b.Invested,
	}
}

func (b *AssetBucket) RestoreSavePoint() {
	if b.saved == nil {
		return
	}
	b.Units = b.saved.units
	b.Cost = b.saved.cost
	b.Gains = b.saved.gains
	b.Gained = b.saved.gained
	b.Dividend = b.saved.dividend
	b.Invested = b.saved.invested
	b.saved = nil
}

func (b *AssetBucket) hasSavePoint() bool { return b.saved != nil }

func (b *AssetBucket) IsActive() bool {
	return b.Units.IsNonZero() || b.Cost.IsNonZero() || b.Gained.IsNonZero()
}

func (b *AssetBucket) IsRelevant() bool {
	return b.IsActive() || (b.base != nil && b.base.IsActive())
}

// --- Payee bucket ---

// PayeeBucket aggregates an external payee: income received from it, expense
// paid to it, and the embedded tax amounts the ledger records on its events.
type PayeeBucket struct {
	account *Account
	base    *PayeeBucket

	Income       Money
	Expense      Money
	TaxCredit    Money
	NatInsurance Money
	Benefit      Money
	Donation     Money

	saved *payeeSave
}

type payeeSave struct {
	income       Money
	expense      Money
	taxCredit    Money
	natInsurance Money
	benefit      Money
	donation     Money
}

func newPayeeBucket(a *Account, base *PayeeBucket, currency string) *PayeeBucket {
	z := M(0, currency)
	return &PayeeBucket{
		account: a, base: base,
		Income: z, Expense: z, TaxCredit: z,
		NatInsurance: z, Benefit: z, Donation: z,
	}
}

func (b *PayeeBucket) Account() *Account { return b.account }

// Base returns the prior-period bucket, or nil.
func (b *PayeeBucket) Base() *PayeeBucket { return b.base }

// A debit on a payee is income flowing from it; a credit is expense flowing
// to it.
func (b *PayeeBucket) adjustForDebit(e *Event) {
	b.Income = b.Income.Add(e.Amount)
	b.TaxCredit = b.TaxCredit.Add(e.TaxCredit)
	b.NatInsurance = b.NatInsurance.Add(e.NatInsurance)
	b.Benefit = b.Benefit.Add(e.Benefit)
	b.Donation = b.Donation.Add(e.Donation)
}

func (b *PayeeBucket) adjustForCredit(e *Event) {
	b.Expense = b.Expense.Add(e.Amount)
}

// addIncome records income attributed to the payee outside a debit movement
// (tax credits claimed back, market gains on the synthetic Market payee).
func (b *PayeeBucket) addIncome(m Money) { b.Income = b.Income.Add(m) }

// addExpense records expense attributed to the payee outside a credit movement.
func (b *PayeeBucket) addExpense(m Money) { b.Expense = b.Expense.Add(m) }

func (b *PayeeBucket) CreateSavePoint() {
	b.saved = &payeeSave{
		income: b.Income, expense: b.Expense, taxCredit: b.TaxCredit,
		natInsurance: b.NatInsurance, benefit: b.Benefit, donation: b.Donation,
	}
}

func (b *PayeeBucket) RestoreSavePoint() {
	if b.saved == nil {
		return
	}
	b.Income = b.saved.income
	b.Expense = b.saved.expense
	b.TaxCredit = b.saved.taxCredit
	b.NatInsurance = b.saved.natInsurance
	b.Benefit = b.saved.benefit
	b.Donation = b.saved.donation
	b.saved = nil
}

func (b *PayeeBucket) hasSavePoint() bool { return b.saved != nil }

func (b *PayeeBucket) IsActive() bool {
	return b.Income.IsNonZero() || b.Expense.IsNonZero() || b.TaxCredit.IsNonZero() ||
		b.NatInsurance.IsNonZero() || b.Benefit.IsNonZero() || b.Donation.IsNonZero()
}

func (b *PayeeBucket) IsRelevant() bool {
	return b.IsActive() || (b.base != nil && b.base.IsActive())
}

// --- Bucket list ---

// AccountBuckets is the keyed collection of account buckets for one analysis
// run. Buckets are created on first reference. The optional previous
// collection provides the two-generation base back-reference: prior buckets
// are looked up by account name and never mutated.
type AccountBuckets struct {
	currency    string
	previous    *AccountBuckets
	buckets     map[string]AccountBucket
	snapshotted bool
}

// NewAccountBuckets creates an empty collection. previous may be nil.
func NewAccountBuckets(currency string, previous *AccountBuckets) *AccountBuckets {
	return &AccountBuckets{
		currency: currency,
		previous: previous,
		buckets:  make(map[string]AccountBucket),
	}
}

// Bucket returns the bucket for the account, creating the class-appropriate
// variant on first reference.
func (s *AccountBuckets) Bucket(a *Account) AccountBucket {
	a = a.Resolve()
	if b, ok := s.buckets[a.Name]; ok {
		return b
	}
	var b AccountBucket
	switch a.Class {
	case ClassMoney:
		var base *MoneyBucket
		if p := s.previousBucket(a.Name); p != nil {
			base, _ = p.(*MoneyBucket)
		}
		b = newMoneyBucket(a, base, s.currency)
	case ClassDebt:
		var base *DebtBucket
		if p := s.previousBucket(a.Name); p != nil {
			base, _ = p.(*DebtBucket)
		}
		b = newDebtBucket(a, base, s.currency)
	case ClassPriced:
		var base *AssetBucket
		if p := s.previousBucket(a.Name); p != nil {
			base, _ = p.(*AssetBucket)
		}
		b = newAssetBucket(a, base, s.currency)
	case ClassPayee:
		var base *PayeeBucket
		if p := s.previousBucket(a.Name); p != nil {
			base, _ = p.(*PayeeBucket)
		}
		b = newPayeeBucket(a, base, s.currency)
	default:
		panic("account " + a.Name + " has unknown class " + a.Class.String())
	}
	s.buckets[a.Name] = b
	return b
}

func (s *AccountBuckets) previousBucket(name string) AccountBucket {
	if s.previous == nil {
		return nil
	}
	return s.previous.buckets[name]
}

// Asset returns the asset bucket for a priced account, creating it on first
// reference. It panics if the account does not hold units: routing an
// unpriced account into capital processing is a logic error.
func (s *AccountBuckets) Asset(a *Account) *AssetBucket {
	b, ok := s.Bucket(a).(*AssetBucket)
	if !ok {
		panic("account " + a.Name + " has no units")
	}
	return b
}

// Payee returns the payee bucket for a payee account.
func (s *AccountBuckets) Payee(a *Account) *PayeeBucket {
	b, ok := s.Bucket(a).(*PayeeBucket)
	if !ok {
		panic("account " + a.Name + " is not a payee")
	}
	return b
}

// Get returns the bucket by account name without creating it.
func (s *AccountBuckets) Get(name string) (AccountBucket, bool) {
	b, ok := s.buckets[name]
	return b, ok
}

// Len returns the number of buckets.
func (s *AccountBuckets) Len() int { return len(s.buckets) }

// All iterates over buckets in account-name order.
func (s *AccountBuckets) All() iter.Seq[AccountBucket] {
	return func(yield func(AccountBucket) bool) {
		names := slices.Collect(maps.Keys(s.buckets))
		slices.Sort(names)
		for _, name := range names {
			if !yield(s.buckets[name]) {
				return
			}
		}
	}
}

// Prune removes buckets that are not relevant: all-zero in both the current
// and the prior period.
func (s *AccountBuckets) Prune() {
	maps.DeleteFunc(s.buckets, func(_ string, b AccountBucket) bool {
		return !b.IsRelevant()
	})
}

// CreateSavePoint snapshots every bucket.
func (s *AccountBuckets) CreateSavePoint() {
	for _, b := range s.buckets {
		b.CreateSavePoint()
	}
	s.snapshotted = true
}

// RestoreSavePoint rolls every bucket back to its save point. Buckets first
// created after the snapshot have no prior state to return to and are
// removed. The save point is consumed.
func (s *AccountBuckets) RestoreSavePoint() {
	if !s.snapshotted {
		return
	}
	maps.DeleteFunc(s.buckets, func(_ string, b AccountBucket) bool {
		return !b.hasSavePoint()
	})
	for _, b := range s.buckets {
		b.RestoreSavePoint()
	}
	s.snapshotted = false
}
