package taxfolio

import (
	"iter"
	"maps"
	"slices"
)

// TaxCategory is a summary tier key. The produce-totals stage folds the ~20
// event categories into these ~12 summary buckets through a fixed mapping.
type TaxCategory int

const (
	TaxGrossSalary TaxCategory = iota
	TaxGrossRental
	TaxGrossInterest
	TaxGrossDividend
	TaxGrossUTDividend
	TaxGrossTaxableGains
	TaxGrossCapitalGains
	TaxGrossExpense
	TaxFreeIncome
	// TaxVirtual collects amounts (national insurance, benefits) that feed
	// gross salary but must cancel back out of the profit tiers.
	TaxVirtual
	TaxMarket
	TaxPaid
	TaxNonCore

	taxCategoryCount
)

var taxCategoryNames = [taxCategoryCount]string{
	TaxGrossSalary:       "GrossSalary",
	TaxGrossRental:       "GrossRental",
	TaxGrossInterest:     "GrossInterest",
	TaxGrossDividend:     "GrossDividend",
	TaxGrossUTDividend:   "GrossUTDividend",
	TaxGrossTaxableGains: "GrossTaxableGains",
	TaxGrossCapitalGains: "GrossCapitalGains",
	TaxGrossExpense:      "GrossExpense",
	TaxFreeIncome:        "TaxFreeIncome",
	TaxVirtual:           "Virtual",
	TaxMarket:            "Market",
	TaxPaid:              "TaxPaid",
	TaxNonCore:           "NonCore",
}

func (c TaxCategory) String() string {
	if c < 0 || c >= taxCategoryCount {
		return "Unknown"
	}
	return taxCategoryNames[c]
}

// taxMapping describes how one event category folds into the summary tiers.
type taxMapping struct {
	primary TaxCategory
	virtual bool // also feed the Virtual bucket, cancelled at the next tier
	income  bool // counts toward core income
	core    bool // counts toward core profit/loss
	expense bool // reduces the profit totals instead of increasing them
	negate  bool // subtracts from the summary bucket amount (losses netting gains)
}

// categoryTaxMap is the fixed mapping from event category to summary bucket.
var categoryTaxMap = map[Category]taxMapping{
	CatTaxedIncome:       {primary: TaxGrossSalary, income: true, core: true},
	CatBenefitIncome:     {primary: TaxGrossSalary, virtual: true, income: true, core: true},
	CatNatInsurance:      {primary: TaxGrossSalary, virtual: true, core: true},
	CatRentalIncome:      {primary: TaxGrossRental, income: true, core: true},
	CatInterest:          {primary: TaxGrossInterest, income: true, core: true},
	CatTaxFreeInterest:   {primary: TaxFreeIncome, income: true, core: true},
	CatDividend:          {primary: TaxGrossDividend, income: true, core: true},
	CatUnitTrustDividend: {primary: TaxGrossUTDividend, income: true, core: true},
	CatTaxFreeDividend:   {primary: TaxFreeIncome, income: true, core: true},
	CatInherited:         {primary: TaxNonCore, income: true},
	CatTaxRelief:         {primary: TaxPaid, core: true, expense: true},
	CatTaxSettlement:     {primary: TaxPaid, core: true, expense: true},
	CatCharityDonation:   {primary: TaxGrossExpense, core: true, expense: true},
	CatRecovered:         {primary: TaxGrossExpense, core: true, expense: true},
	CatExpense:           {primary: TaxGrossExpense, core: true, expense: true},
	CatMarketGrowth:      {primary: TaxMarket},
	CatTaxableGain:       {primary: TaxGrossTaxableGains, income: true, core: true},
	CatCapitalGain:       {primary: TaxGrossCapitalGains, income: true, core: true},
	CatCapitalLoss:       {primary: TaxGrossCapitalGains, core: true, expense: true, negate: true},
}

// TaxCategoryBucket accumulates one summary tier.
type TaxCategoryBucket struct {
	category TaxCategory
	base     *TaxCategoryBucket

	Amount    Money
	TaxCredit Money
}

// Category returns the bucket's summary tier key.
func (b *TaxCategoryBucket) Category() TaxCategory { return b.category }

// Base returns the prior-period bucket, or nil.
func (b *TaxCategoryBucket) Base() *TaxCategoryBucket { return b.base }

// IsActive reports whether the bucket accumulated anything.
func (b *TaxCategoryBucket) IsActive() bool {
	return b.Amount.IsNonZero() || b.TaxCredit.IsNonZero()
}

// IsRelevant reports whether the bucket should survive pruning.
func (b *TaxCategoryBucket) IsRelevant() bool {
	return b.IsActive() || (b.base != nil && b.base.IsActive())
}

// TaxCategoryBuckets is the summary collection rebuilt by every
// produce-totals run. It is derived data, never persisted.
type TaxCategoryBuckets struct {
	currency string
	previous *TaxCategoryBuckets
	buckets  map[TaxCategory]*TaxCategoryBucket

	// Top-level totals. ProfitLoss covers everything, CoreProfit excludes
	// non-core items (market movement, inheritance), CoreIncome counts only
	// income categories.
	ProfitLoss Money
	CoreProfit Money
	CoreIncome Money
}

// NewTaxCategoryBuckets creates an empty summary collection. previous may be nil.
func NewTaxCategoryBuckets(currency string, previous *TaxCategoryBuckets) *TaxCategoryBuckets {
	z := M(0, currency)
	return &TaxCategoryBuckets{
		currency:   currency,
		previous:   previous,
		buckets:    make(map[TaxCategory]*TaxCategoryBucket),
		ProfitLoss: z,
		CoreProfit: z,
		CoreIncome: z,
	}
}

// Bucket returns the summary bucket for a tier, creating it on first reference.
func (s *TaxCategoryBuckets) Bucket(c TaxCategory) *TaxCategoryBucket {
	if b, ok := s.buckets[c]; ok {
		return b
	}
	var base *TaxCategoryBucket
	if s.previous != nil {
		base = s.previous.buckets[c]
	}
	z := M(0, s.currency)
	b := &TaxCategoryBucket{category: c, base: base, Amount: z, TaxCredit: z}
	s.buckets[c] = b
	return b
}

// Get returns the summary bucket for a tier without creating it.
func (s *TaxCategoryBuckets) Get(c TaxCategory) (*TaxCategoryBucket, bool) {
	b, ok := s.buckets[c]
	return b, ok
}

// All iterates over summary buckets in tier order.
func (s *TaxCategoryBuckets) All() iter.Seq[*TaxCategoryBucket] {
	return func(yield func(*TaxCategoryBucket) bool) {
		cats := slices.Collect(maps.Keys(s.buckets))
		slices.Sort(cats)
		for _, c := range cats {
			if !yield(s.buckets[c]) {
				return
			}
		}
	}
}

// Prune removes irrelevant summary buckets.
func (s *TaxCategoryBuckets) Prune() {
	maps.DeleteFunc(s.buckets, func(_ TaxCategory, b *TaxCategoryBucket) bool {
		return !b.IsRelevant()
	})
}

// fold accumulates one category bucket into the summary tiers per the fixed
// mapping, updating the three top-level totals.
func (s *TaxCategoryBuckets) fold(cb *CategoryBucket) {
	m, ok := categoryTaxMap[cb.Category()]
	if !ok {
		return
	}
	gross := cb.Amount.Add(cb.TaxCredit)
	b := s.Bucket(m.primary)
	if m.negate {
		b.Amount = b.Amount.Sub(gross)
	} else {
		b.Amount = b.Amount.Add(gross)
	}
	b.TaxCredit = b.TaxCredit.Add(cb.TaxCredit)

	signed := gross
	if m.expense {
		signed = gross.Neg()
	}
	if m.virtual {
		v := s.Bucket(TaxVirtual)
		v.Amount = v.Amount.Add(gross)
		// The virtual tier cancels back out of the profit totals below.
		s.ProfitLoss = s.ProfitLoss.Sub(signed)
		if m.core {
			s.CoreProfit = s.CoreProfit.Sub(signed)
		}
	}
	s.ProfitLoss = s.ProfitLoss.Add(signed)
	if m.core {
		s.CoreProfit = s.CoreProfit.Add(signed)
	}
	if m.income {
		s.CoreIncome = s.CoreIncome.Add(gross)
	}
}
