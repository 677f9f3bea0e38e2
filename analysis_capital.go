package taxfolio

import "fmt"

// Small-distribution thresholds. A cash return on a holding counts as a part
// disposal only when it exceeds both the absolute limit and the fraction of
// the holding value; below that it is deducted from the cost basis instead.
const smallDistributionLimit = 3000

var smallDistributionRate = R(0.05)

// processCapitalEvent routes an event touching a priced asset to the lot
// accounting routine for its category. An unrecognized category is fatal:
// continuing would leave the lot state silently wrong.
func (a *Analysis) processCapitalEvent(e *Event) error {
	debit := e.Debit.Resolve()
	credit := e.Credit.Resolve()

	switch e.Category {
	case CatStockSplit, CatStockAdjust:
		a.processUnitsAdjust(e)

	case CatDividend, CatUnitTrustDividend, CatTaxFreeDividend:
		a.processStockDividend(e)

	case CatInterest, CatTaxFreeInterest:
		// Interest distributed by a fund is plain income, no lot effect.
		a.processSimpleEvent(e)

	case CatStockRightsTaken:
		a.processTransferIn(e)

	case CatTransfer, CatInherited:
		switch {
		case credit.HasUnits() && e.CreditUnits.IsNonZero():
			a.processTransferIn(e)
		case debit.HasUnits() && e.DebitUnits.IsNonZero():
			a.processTransferOut(e)
		default:
			// A money movement touching the asset account without units only
			// shifts the invested total.
			a.processSimpleEvent(e)
		}

	case CatStockRightsWaived:
		a.processRightsWaived(e)

	case CatStockDemerger:
		a.processDemerger(e)

	case CatStockTakeover:
		a.processStockTakeover(e)

	case CatCashTakeover:
		a.processCashTakeover(e)

	case CatTaxableGain:
		a.processTaxableGain(e)

	case CatTaxedIncome, CatBenefitIncome, CatRentalIncome, CatNatInsurance,
		CatTaxRelief, CatTaxSettlement, CatCharityDonation, CatRecovered,
		CatExpense, CatMarketGrowth:
		a.processSimpleEvent(e)

	default:
		return fmt.Errorf("%w: %s", ErrBadCategory, e.Category)
	}
	return nil
}

// adjustSides applies the plain debit/credit bucket adjustments and the
// tax-authority accumulation shared by every capital routine.
func (a *Analysis) adjustSides(e *Event) {
	a.accounts.Bucket(e.Debit.Resolve()).adjustForDebit(e)
	a.accounts.Bucket(e.Credit.Resolve()).adjustForCredit(e)
	a.adjustTaxMan(e)
}

// beginCapital opens a capital record with the asset's state before the
// mutation.
func (a *Analysis) beginCapital(e *Event, b *AssetBucket) *CapitalEvent {
	c := a.Capital(b.Account()).Append(e)
	c.SetUnits(CapInitialUnits, b.Units)
	c.SetMoney(CapInitialCost, b.Cost)
	c.SetMoney(CapInitialGains, b.Gains)
	c.SetMoney(CapInitialDividend, b.Dividend)
	c.SetMoney(CapInitialInvested, b.Invested)
	return c
}

// finishCapital closes a capital record with the asset's state after the
// mutation and the deltas against the opening state.
func finishCapital(c *CapitalEvent, b *AssetBucket) {
	c.SetUnits(CapFinalUnits, b.Units)
	c.SetMoney(CapFinalCost, b.Cost)
	c.SetMoney(CapFinalGains, b.Gains)
	c.SetMoney(CapFinalDividend, b.Dividend)
	c.SetMoney(CapFinalInvested, b.Invested)
	if u, ok := c.Units(CapInitialUnits); ok {
		c.SetUnits(CapDeltaUnits, b.Units.Sub(u))
	}
	if m, ok := c.Money(CapInitialCost); ok {
		c.SetMoney(CapDeltaCost, b.Cost.Sub(m))
	}
	if m, ok := c.Money(CapInitialGains); ok {
		c.SetMoney(CapDeltaGains, b.Gains.Sub(m))
	}
	if m, ok := c.Money(CapInitialDividend); ok {
		c.SetMoney(CapDeltaDividend, b.Dividend.Sub(m))
	}
	if m, ok := c.Money(CapInitialInvested); ok {
		c.SetMoney(CapDeltaInvested, b.Invested.Sub(m))
	}
}

// capitalAsset returns the priced side of the event, preferring the debit.
func (a *Analysis) capitalAsset(e *Event) *AssetBucket {
	if acct := e.Debit.Resolve(); acct.HasUnits() {
		return a.accounts.Asset(acct)
	}
	return a.accounts.Asset(e.Credit.Resolve())
}

// holdingValue estimates the market value of the holding at a date: the
// latest known price applied to the units, falling back to the cost basis
// when no price has ever been recorded.
func (a *Analysis) holdingValue(b *AssetBucket, on Date) Money {
	if p, ok := a.ledger.Prices().Latest(b.Account().Name, on); ok {
		return p.Value(b.Units)
	}
	return b.Cost
}

// isSmallDistribution applies the small-distribution rule: a cash return is
// small unless it exceeds both the absolute limit and the fractional limit of
// the holding value.
func isSmallDistribution(amount, value Money) bool {
	limit := M(smallDistributionLimit, amount.Currency())
	return amount.LessThanOrEqual(limit) ||
		amount.LessThanOrEqual(smallDistributionRate.Of(value))
}

// processUnitsAdjust handles a split or a manual unit adjustment: units move
// with no cost, gain or cash effect.
func (a *Analysis) processUnitsAdjust(e *Event) {
	b := a.capitalAsset(e)
	c := a.beginCapital(e, b)
	b.subUnits(e.DebitUnits)
	b.addUnits(e.CreditUnits)
	finishCapital(c, b)
}

// processStockDividend handles a dividend distributed by a priced asset. The
// dividend accrues on the asset; when the credit side is the asset itself the
// dividend is reinvested, adding units at a cost equal to the distribution.
func (a *Analysis) processStockDividend(e *Event) {
	debit := e.Debit.Resolve()
	credit := e.Credit.Resolve()
	category := e.Category
	if debit.TaxFree || credit.TaxFree {
		category = CatTaxFreeDividend
	}

	b := a.accounts.Asset(debit)
	c := a.beginCapital(e, b)
	b.addDividend(e.Amount)
	if credit == debit {
		// Reinvested distribution.
		b.addUnits(e.CreditUnits)
		b.addCost(e.Amount)
	}
	finishCapital(c, b)

	a.adjustSides(e)
	a.categories.Bucket(category).add(e)
}

// processTransferIn handles an acquisition: the credited asset gains units at
// a cost equal to the cash moved in.
func (a *Analysis) processTransferIn(e *Event) {
	b := a.accounts.Asset(e.Credit.Resolve())
	c := a.beginCapital(e, b)
	b.addUnits(e.CreditUnits)
	b.addCost(e.Amount)
	finishCapital(c, b)
	a.adjustSides(e)
}

// processTransferOut handles a disposal: units leave the debited asset, the
// cost basis is reduced by the weighted-average cost of the units sold capped
// at the remaining cost, and the excess of the proceeds is a realized gain.
func (a *Analysis) processTransferOut(e *Event) {
	b := a.accounts.Asset(e.Debit.Resolve())
	c := a.beginCapital(e, b)

	allowed := b.Cost.Weighted(e.DebitUnits, b.Units).Min(b.Cost)
	gains := e.Amount.Sub(allowed)
	b.subUnits(e.DebitUnits)
	b.subCost(allowed)
	b.addGains(gains)

	c.SetMoney(CapAllowedCost, allowed)
	c.SetMoney(CapProceeds, e.Amount)
	finishCapital(c, b)
	a.adjustSides(e)
}

// processRightsWaived handles cash received for waived rights. A small
// distribution is deducted from the cost basis; a large one is a part
// disposal apportioning cost by value.
func (a *Analysis) processRightsWaived(e *Event) {
	b := a.accounts.Asset(e.Debit.Resolve())
	c := a.beginCapital(e, b)
	a.partDisposal(c, b, e.Amount)
	finishCapital(c, b)
	a.adjustSides(e)
}

// partDisposal applies the small-distribution rule to a cash return with no
// unit movement, reducing cost and realizing any excess as gain.
func (a *Analysis) partDisposal(c *CapitalEvent, b *AssetBucket, amount Money) {
	var allowed Money
	if value := a.holdingValue(b, c.Date()); isSmallDistribution(amount, value) {
		allowed = amount.Min(b.Cost)
	} else {
		allowed = b.Cost.ValueWeighted(amount, amount.Add(value)).Min(b.Cost)
	}
	b.subCost(allowed)
	if gains := amount.Sub(allowed); gains.IsNonZero() {
		b.addGains(gains)
	}
	c.SetMoney(CapAllowedCost, allowed)
	c.SetMoney(CapProceeds, amount)
}

// processDemerger handles a demerger: the diluted share of the cost basis
// moves from the parent asset to the spun-off asset along with the new units.
// The dilution factor is the fraction of value remaining with the parent.
func (a *Analysis) processDemerger(e *Event) {
	old := a.accounts.Asset(e.Debit.Resolve())
	spun := a.accounts.Asset(e.Credit.Resolve())

	kept := R(e.Dilution.factor).Of(old.Cost)
	moved := old.Cost.Sub(kept)

	co := a.beginCapital(e, old)
	old.subCost(moved)
	old.subUnits(e.DebitUnits)
	finishCapital(co, old)

	cs := a.beginCapital(e, spun)
	spun.addUnits(e.CreditUnits)
	spun.addCost(moved)
	finishCapital(cs, spun)

	a.adjustSides(e)
}

// processCashTakeover handles the cash leg of a takeover: cash received for
// the holding, treated under the small-distribution rule like a waived-rights
// return. The record is kept so a later stock leg can pair with it.
func (a *Analysis) processCashTakeover(e *Event) {
	b := a.accounts.Asset(e.Debit.Resolve())
	c := a.beginCapital(e, b)
	a.partDisposal(c, b, e.Amount)
	c.SetMoney(CapTakeoverCashValue, e.Amount)
	finishCapital(c, b)
	a.adjustSides(e)
}

// processStockTakeover handles the stock leg of a takeover: the old holding
// is exchanged for units of the acquirer, rolling the remaining cost basis
// over. When a cash leg preceded it the total consideration is recorded so
// the capital report can show the full exchange.
func (a *Analysis) processStockTakeover(e *Event) {
	old := a.accounts.Asset(e.Debit.Resolve())
	acq := a.accounts.Asset(e.Credit.Resolve())

	cashValue := M(0, a.ledger.Currency)
	if leg := a.Capital(old.Account()).LastCashTakeover(); leg != nil {
		if m, ok := leg.Money(CapTakeoverCashValue); ok {
			cashValue = m
		}
	}
	stockValue := e.Amount
	moved := old.Cost

	co := a.beginCapital(e, old)
	old.subUnits(e.DebitUnits)
	old.subCost(moved)
	co.SetMoney(CapTakeoverCashValue, cashValue)
	co.SetMoney(CapTakeoverStockValue, stockValue)
	co.SetMoney(CapTakeoverTotalValue, stockValue.Add(cashValue))
	co.SetMoney(CapTakeoverStockCost, moved)
	finishCapital(co, old)

	ca := a.beginCapital(e, acq)
	acq.addUnits(e.CreditUnits)
	acq.addCost(moved)
	if e.CreditUnits.IsNonZero() {
		ca.SetPrice(CapTakeoverStockPrice, P(stockValue.value.Div(e.CreditUnits.value), stockValue.Currency()))
	}
	finishCapital(ca, acq)

	a.adjustSides(e)
}

// processTaxableGain handles a chargeable-event disposal (a bond surrender):
// a full or partial disposal whose gain enters the income computation with
// top-slicing relief rather than the capital-gains regime.
func (a *Analysis) processTaxableGain(e *Event) {
	b := a.accounts.Asset(e.Debit.Resolve())
	c := a.beginCapital(e, b)

	allowed := b.Cost.Weighted(e.DebitUnits, b.Units).Min(b.Cost)
	gains := e.Amount.Sub(allowed)
	b.subUnits(e.DebitUnits)
	b.subCost(allowed)
	b.addGains(gains)

	c.SetMoney(CapAllowedCost, allowed)
	c.SetMoney(CapProceeds, e.Amount)
	finishCapital(c, b)
	a.adjustSides(e)

	// Chargeable-event losses attract no relief.
	if gains.IsNegative() {
		gains = M(0, gains.Currency())
	}
	a.charges.Add(e, gains)
	cb := a.categories.Bucket(CatTaxableGain)
	cb.addAmount(gains)
	cb.addCredit(e.TaxCredit)
}
