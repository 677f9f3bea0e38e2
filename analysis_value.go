package taxfolio

// ValueAssets runs the valuation stage: effective rates on money accounts,
// market valuation and movement on priced assets, and routing of realized
// gains and market growth into their synthetic categories. The stage is
// idempotent; a second call is a no-op.
func (a *Analysis) ValueAssets() {
	if a.state >= Valued {
		return
	}
	currency := a.ledger.Currency
	movement := M(0, currency)

	for b := range a.accounts.All() {
		switch b := b.(type) {
		case *MoneyBucket:
			if r, ok := a.ledger.Rates().Latest(b.Account().Name, a.date); ok {
				b.Rate = r
			}
		case *AssetBucket:
			a.valueAsset(b)
			movement = movement.Add(b.MarketMovement)
			a.routeRealizedGains(b)
			a.recordValuation(b)
		}
	}

	// Market growth is income from (or expense to) the synthetic market payee.
	if movement.IsNonZero() {
		a.categories.Bucket(CatMarketGrowth).addAmount(movement)
		market := a.accounts.Payee(a.market)
		if movement.IsPositive() {
			market.addIncome(movement)
		} else {
			market.addExpense(movement.Neg())
		}
	}
	a.state = Valued
}

// valueAsset computes the asset's market price, value, market movement and
// overall profit at the valuation date. A price observed before a corporate
// action is diluted to the current regime first. An asset with no price
// history values at zero. Realized gains of the period are apportioned out of
// the market movement: they reach the summary through their own gain or loss
// categories, not as movement.
func (a *Analysis) valueAsset(b *AssetBucket) {
	currency := a.ledger.Currency
	acct := b.Account()
	if on, p, ok := a.ledger.Prices().LatestDated(acct.Name, a.date); ok {
		b.Price = p.Dilute(a.dilutions.FactorAfter(acct, on))
	}
	b.Value = M(0, currency)
	if !b.Price.IsZero() {
		b.Value = b.Price.Value(b.Units)
	}

	prevValue := M(0, currency)
	if base := b.Base(); base != nil {
		prevValue = base.Value
	}
	b.MarketMovement = b.Value.Sub(prevValue).Sub(b.Invested)
	if acct.CapitalGains || acct.LifeBond {
		b.MarketMovement = b.MarketMovement.Sub(periodGains(b))
	}
	b.Profit = b.Value.Sub(b.Cost).Add(b.Gained)
}

// periodGains returns the gains realized during the analysis period: the
// running total less whatever the prior period had already realized.
func periodGains(b *AssetBucket) Money {
	gains := b.Gains
	if base := b.Base(); base != nil {
		gains = gains.Sub(base.Gains)
	}
	return gains
}

// routeRealizedGains routes the period's realized gains of a capital-gains
// asset into the synthetic gain or loss category. Life-bond gains were
// already categorized as taxable gains when realized, and assets outside the
// capital-gains regime keep their gains out of the tax summary entirely.
func (a *Analysis) routeRealizedGains(b *AssetBucket) {
	acct := b.Account()
	if !acct.CapitalGains || acct.LifeBond {
		return
	}
	gains := periodGains(b)
	switch {
	case gains.IsPositive():
		a.categories.Bucket(CatCapitalGain).addAmount(gains)
	case gains.IsNegative():
		a.categories.Bucket(CatCapitalLoss).addAmount(gains.Neg())
	}
}

// recordValuation appends a synthetic record to the asset's capital ledger
// with the position at the valuation date. Assets with no capital history and
// no holding are left alone.
func (a *Analysis) recordValuation(b *AssetBucket) {
	acct := b.Account()
	if _, ok := a.capital[acct.Name]; !ok && b.Units.IsZero() {
		return
	}
	c := a.Capital(acct).AppendValuation(a.date)
	prev := M(0, a.ledger.Currency)
	if base := b.Base(); base != nil {
		prev = base.Value
	}
	c.SetMoney(CapInitialValue, prev)
	c.SetMoney(CapFinalValue, b.Value)
	c.SetUnits(CapFinalUnits, b.Units)
	if !b.Price.IsZero() {
		c.SetPrice(CapFinalPrice, b.Price)
	}
}
