package taxfolio

// Wealth sums the account buckets by class at the end of the totals stage.
type Wealth struct {
	Cash   Money // money account balances
	Debt   Money // debt balances (negative when owed)
	Assets Money // priced assets at market value
	Net    Money // Cash + Debt + Assets
}

// ProduceTotals runs the totals stage: the summary tiers are rebuilt from the
// category buckets, the per-class wealth summary is computed, and irrelevant
// buckets are pruned. Valuation runs first if it has not already. The stage
// is idempotent.
func (a *Analysis) ProduceTotals() {
	if a.state >= Totalled {
		return
	}
	a.ValueAssets()

	// The summary is derived data: rebuild it from scratch so a rerun after a
	// rollback cannot double-count.
	a.taxCategories = NewTaxCategoryBuckets(a.taxCategories.currency, a.taxCategories.previous)
	for cb := range a.categories.All() {
		a.taxCategories.fold(cb)
	}

	currency := a.ledger.Currency
	w := Wealth{
		Cash:   M(0, currency),
		Debt:   M(0, currency),
		Assets: M(0, currency),
	}
	for b := range a.accounts.All() {
		switch b := b.(type) {
		case *MoneyBucket:
			w.Cash = w.Cash.Add(b.Value)
		case *DebtBucket:
			w.Debt = w.Debt.Add(b.Value)
		case *AssetBucket:
			w.Assets = w.Assets.Add(b.Value)
		}
	}
	w.Net = w.Cash.Add(w.Debt).Add(w.Assets)
	a.wealth = w

	a.accounts.Prune()
	a.categories.Prune()
	a.taxCategories.Prune()
	a.state = Totalled
}

// Wealth returns the per-class summary computed by ProduceTotals.
func (a *Analysis) Wealth() Wealth { return a.wealth }
