package taxfolio

import "fmt"

// Category classifies a ledger event. The set is closed: the analysis engine
// dispatches on it, and an event carrying a category outside this set is a
// logic error that aborts the pass.
type Category int

const (
	CatTaxedIncome Category = iota // salary and other taxed income
	CatBenefitIncome
	CatRentalIncome
	CatInterest
	CatTaxFreeInterest
	CatDividend
	CatUnitTrustDividend
	CatTaxFreeDividend
	CatInherited
	CatNatInsurance
	CatTaxRelief
	CatTaxSettlement
	CatCharityDonation
	CatRecovered
	CatExpense
	CatTransfer
	CatMarketGrowth

	// Capital event categories. Events in any of these trigger the
	// capital-event processing path for the priced asset involved.
	CatStockSplit
	CatStockAdjust
	CatStockRightsTaken
	CatStockRightsWaived
	CatStockDemerger
	CatStockTakeover
	CatCashTakeover
	CatTaxableGain

	// Synthetic categories, produced by the meta-analysis valuation stage
	// rather than by ledger events.
	CatCapitalGain
	CatCapitalLoss

	catCount
)

var categoryNames = [catCount]string{
	CatTaxedIncome:       "TaxedIncome",
	CatBenefitIncome:     "BenefitIncome",
	CatRentalIncome:      "RentalIncome",
	CatInterest:          "Interest",
	CatTaxFreeInterest:   "TaxFreeInterest",
	CatDividend:          "Dividend",
	CatUnitTrustDividend: "UnitTrustDividend",
	CatTaxFreeDividend:   "TaxFreeDividend",
	CatInherited:         "Inherited",
	CatNatInsurance:      "NatInsurance",
	CatTaxRelief:         "TaxRelief",
	CatTaxSettlement:     "TaxSettlement",
	CatCharityDonation:   "CharityDonation",
	CatRecovered:         "Recovered",
	CatExpense:           "Expense",
	CatTransfer:          "Transfer",
	CatMarketGrowth:      "MarketGrowth",
	CatStockSplit:        "StockSplit",
	CatStockAdjust:       "StockAdjust",
	CatStockRightsTaken:  "StockRightsTaken",
	CatStockRightsWaived: "StockRightsWaived",
	CatStockDemerger:     "StockDemerger",
	CatStockTakeover:     "StockTakeover",
	CatCashTakeover:      "CashTakeover",
	CatTaxableGain:       "TaxableGain",
	CatCapitalGain:       "CapitalGain",
	CatCapitalLoss:       "CapitalLoss",
}

func (c Category) String() string {
	if c < 0 || c >= catCount {
		return "Unknown"
	}
	return categoryNames[c]
}

// ParseCategory parses a category name as produced by String.
func ParseCategory(str string) (Category, error) {
	for c, name := range categoryNames {
		if name == str {
			return Category(c), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", str)
}

// IsTransfer reports whether the category is a pure transfer between
// accounts, which never feeds a category bucket.
func (c Category) IsTransfer() bool {
	switch c {
	case CatTransfer, CatStockSplit, CatStockAdjust, CatStockDemerger,
		CatStockTakeover, CatCashTakeover, CatStockRightsTaken, CatStockRightsWaived:
		return true
	}
	return false
}

// IsInterest reports whether the category is an interest payment.
func (c Category) IsInterest() bool {
	return c == CatInterest || c == CatTaxFreeInterest
}

// IsDividend reports whether the category is a dividend payment.
func (c Category) IsDividend() bool {
	return c == CatDividend || c == CatUnitTrustDividend || c == CatTaxFreeDividend
}

// IsTaxFree reports whether income in this category is exempt from tax.
func (c Category) IsTaxFree() bool {
	return c == CatTaxFreeInterest || c == CatTaxFreeDividend || c == CatInherited
}

// Event is one dated ledger entry. Events are externally owned and treated as
// immutable during an analysis pass.
type Event struct {
	ID       int
	Date     Date
	Category Category
	Debit    *Account
	Credit   *Account
	Amount   Money

	// Optional fields. Zero values mean "absent".
	DebitUnits   Units
	CreditUnits  Units
	TaxCredit    Money
	NatInsurance Money
	Benefit      Money
	Donation     Money
	Dilution     Dilution
	Years        int // relevant years, for chargeable gains top-slicing

	Parent  *Event // split-transaction linkage
	Deleted bool   // soft delete
}

// HasDilution reports whether the event carries a dilution factor.
func (e *Event) HasDilution() bool {
	return !e.Dilution.factor.IsZero() && !e.Dilution.IsNeutral()
}

// compare orders events by date ascending with a stable tie-break on id.
func (e *Event) compare(f *Event) int {
	if c := e.Date.Compare(f.Date); c != 0 {
		return c
	}
	switch {
	case e.ID < f.ID:
		return -1
	case e.ID > f.ID:
		return 1
	}
	return 0
}
