package taxfolio

import (
	"iter"
	"sort"
)

// datedPrice is one point of a price history.
type datedPrice struct {
	on    Date
	price Price
}

// PriceList holds price histories for priced assets, keyed by account name.
type PriceList struct {
	histories map[string][]datedPrice
}

// NewPriceList returns an empty price list.
func NewPriceList() *PriceList {
	return &PriceList{histories: make(map[string][]datedPrice)}
}

// Add records a price for an account on a date, keeping the history sorted.
// A second price on the same day replaces the first.
func (l *PriceList) Add(account string, on Date, p Price) {
	h := l.histories[account]
	i := sort.Search(len(h), func(i int) bool { return !h[i].on.Before(on) })
	if i < len(h) && h[i].on == on {
		h[i].price = p
	} else {
		h = append(h, datedPrice{})
		copy(h[i+1:], h[i:])
		h[i] = datedPrice{on: on, price: p}
	}
	l.histories[account] = h
}

// Latest returns the latest price at or before the given date. The boolean is
// false when no price exists; callers treat that as a zero price, since an
// account may be created before any price is known.
func (l *PriceList) Latest(account string, on Date) (Price, bool) {
	h := l.histories[account]
	i := sort.Search(len(h), func(i int) bool { return h[i].on.After(on) })
	if i == 0 {
		return Price{}, false
	}
	return h[i-1].price, true
}

// LatestDated returns the latest price at or before the given date along with
// its observation date, so the caller can correct it for dilutions that
// happened after the observation.
func (l *PriceList) LatestDated(account string, on Date) (Date, Price, bool) {
	h := l.histories[account]
	i := sort.Search(len(h), func(i int) bool { return h[i].on.After(on) })
	if i == 0 {
		return Date{}, Price{}, false
	}
	return h[i-1].on, h[i-1].price, true
}

// Accounts returns the account names with a price history, sorted.
func (l *PriceList) Accounts() []string {
	names := make([]string, 0, len(l.histories))
	for name := range l.histories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// History iterates over an account's price history in date order.
func (l *PriceList) History(account string) iter.Seq2[Date, Price] {
	return func(yield func(Date, Price) bool) {
		for _, p := range l.histories[account] {
			if !yield(p.on, p.price) {
				return
			}
		}
	}
}

// datedRate is one point of a rate history.
type datedRate struct {
	on   Date
	rate Rate
}

// RateList holds interest-rate histories for money accounts, keyed by account
// name.
type RateList struct {
	histories map[string][]datedRate
}

// NewRateList returns an empty rate list.
func NewRateList() *RateList {
	return &RateList{histories: make(map[string][]datedRate)}
}

// Add records a rate effective from a date, keeping the history sorted.
func (l *RateList) Add(account string, on Date, r Rate) {
	h := l.histories[account]
	i := sort.Search(len(h), func(i int) bool { return !h[i].on.Before(on) })
	if i < len(h) && h[i].on == on {
		h[i].rate = r
	} else {
		h = append(h, datedRate{})
		copy(h[i+1:], h[i:])
		h[i] = datedRate{on: on, rate: r}
	}
	l.histories[account] = h
}

// Latest returns the latest rate effective at or before the given date.
func (l *RateList) Latest(account string, on Date) (Rate, bool) {
	h := l.histories[account]
	i := sort.Search(len(h), func(i int) bool { return h[i].on.After(on) })
	if i == 0 {
		return Rate{}, false
	}
	return h[i-1].rate, true
}

// Accounts returns the account names with a rate history, sorted.
func (l *RateList) Accounts() []string {
	names := make([]string, 0, len(l.histories))
	for name := range l.histories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// History iterates over an account's rate history in date order.
func (l *RateList) History(account string) iter.Seq2[Date, Rate] {
	return func(yield func(Date, Rate) bool) {
		for _, r := range l.histories[account] {
			if !yield(r.on, r.rate) {
				return
			}
		}
	}
}
