package taxfolio

import (
	"iter"
	"maps"
	"slices"
)

// CategoryBucket accumulates the amount and embedded tax credit of every
// event in one category over an analysis pass.
type CategoryBucket struct {
	category Category
	base     *CategoryBucket

	Amount    Money
	TaxCredit Money

	saved *categorySave
}

type categorySave struct {
	amount    Money
	taxCredit Money
}

func newCategoryBucket(c Category, base *CategoryBucket, currency string) *CategoryBucket {
	z := M(0, currency)
	return &CategoryBucket{category: c, base: base, Amount: z, TaxCredit: z}
}

// Category returns the bucket's category key.
func (b *CategoryBucket) Category() Category { return b.category }

// Base returns the prior-period bucket, or nil.
func (b *CategoryBucket) Base() *CategoryBucket { return b.base }

// add accumulates an event's amount and embedded credits.
func (b *CategoryBucket) add(e *Event) {
	b.Amount = b.Amount.Add(e.Amount)
	b.TaxCredit = b.TaxCredit.Add(e.TaxCredit).Add(e.NatInsurance)
}

// addAmount accumulates a bare amount (synthetic gain/loss routing).
func (b *CategoryBucket) addAmount(m Money) {
	b.Amount = b.Amount.Add(m)
}

// addCredit accumulates an embedded tax credit without touching the amount.
func (b *CategoryBucket) addCredit(m Money) {
	b.TaxCredit = b.TaxCredit.Add(m)
}

func (b *CategoryBucket) CreateSavePoint() {
	b.saved = &categorySave{amount: b.Amount, taxCredit: b.TaxCredit}
}

func (b *CategoryBucket) RestoreSavePoint() {
	if b.saved == nil {
		return
	}
	b.Amount = b.saved.amount
	b.TaxCredit = b.saved.taxCredit
	b.saved = nil
}

// IsActive reports whether the bucket accumulated anything.
func (b *CategoryBucket) IsActive() bool {
	return b.Amount.IsNonZero() || b.TaxCredit.IsNonZero()
}

// IsRelevant reports whether the bucket should survive pruning.
func (b *CategoryBucket) IsRelevant() bool {
	return b.IsActive() || (b.base != nil && b.base.IsActive())
}

// CategoryBuckets is the keyed collection of category buckets for one
// analysis run.
type CategoryBuckets struct {
	currency    string
	previous    *CategoryBuckets
	buckets     map[Category]*CategoryBucket
	snapshotted bool
}

// NewCategoryBuckets creates an empty collection. previous may be nil.
func NewCategoryBuckets(currency string, previous *CategoryBuckets) *CategoryBuckets {
	return &CategoryBuckets{
		currency: currency,
		previous: previous,
		buckets:  make(map[Category]*CategoryBucket),
	}
}

// Bucket returns the bucket for a category, creating it on first reference.
func (s *CategoryBuckets) Bucket(c Category) *CategoryBucket {
	if b, ok := s.buckets[c]; ok {
		return b
	}
	var base *CategoryBucket
	if s.previous != nil {
		base = s.previous.buckets[c]
	}
	b := newCategoryBucket(c, base, s.currency)
	s.buckets[c] = b
	return b
}

// Get returns the bucket for a category without creating it.
func (s *CategoryBuckets) Get(c Category) (*CategoryBucket, bool) {
	b, ok := s.buckets[c]
	return b, ok
}

// Len returns the number of buckets.
func (s *CategoryBuckets) Len() int { return len(s.buckets) }

// All iterates over buckets in category order.
func (s *CategoryBuckets) All() iter.Seq[*CategoryBucket] {
	return func(yield func(*CategoryBucket) bool) {
		cats := slices.Collect(maps.Keys(s.buckets))
		slices.Sort(cats)
		for _, c := range cats {
			if !yield(s.buckets[c]) {
				return
			}
		}
	}
}

// Prune removes buckets whose current and prior amounts are both zero.
func (s *CategoryBuckets) Prune() {
	maps.DeleteFunc(s.buckets, func(_ Category, b *CategoryBucket) bool {
		return !b.IsRelevant()
	})
}

// CreateSavePoint snapshots every bucket.
func (s *CategoryBuckets) CreateSavePoint() {
	for _, b := range s.buckets {
		b.CreateSavePoint()
	}
	s.snapshotted = true
}

// RestoreSavePoint rolls every bucket back to its save point. Buckets first
// created after the snapshot are removed. The save point is consumed.
func (s *CategoryBuckets) RestoreSavePoint() {
	if !s.snapshotted {
		return
	}
	maps.DeleteFunc(s.buckets, func(_ Category, b *CategoryBucket) bool {
		return b.saved == nil
	})
	for _, b := range s.buckets {
		b.RestoreSavePoint()
	}
	s.snapshotted = false
}
