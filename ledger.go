package taxfolio

import (
	"iter"
	"maps"
	"slices"
)

// Ledger is the fully materialized dataset an analysis runs over: the dated
// events, the price and rate histories, and the user preferences the tax
// computation needs. The analysis engine reads it, never writes it.
//
// In a Ledger events are always in chronological order, ties broken by
// event id, so a replay is deterministic.
type Ledger struct {
	events    []*Event
	accounts  map[string]*Account
	prices    *PriceList
	rates     *RateList
	dilutions *Dilutions // manually imported dilutions, seeding every analysis

	// Currency is the reporting currency for every bucket built from this
	// ledger.
	Currency string

	// BirthDate is the taxpayer's birth date, used for age-allowance
	// eligibility. A zero date disables age allowances.
	BirthDate Date

	// TaxMan is the tax-authority payee accumulating embedded tax credits.
	// When nil the analysis creates a synthetic one.
	TaxMan *Account
}

// NewLedger creates an empty ledger for the given reporting currency.
func NewLedger(currency string) *Ledger {
	return &Ledger{
		accounts:  make(map[string]*Account),
		prices:    NewPriceList(),
		rates:     NewRateList(),
		dilutions: NewDilutions(),
		Currency:  currency,
	}
}

// AddAccount registers an account. Registering twice with the same name
// replaces the previous registration.
func (l *Ledger) AddAccount(a *Account) {
	l.accounts[a.Name] = a
}

// Account returns the account with that name, or nil if unknown.
func (l *Ledger) Account(name string) *Account {
	return l.accounts[name]
}

// Append appends events to this ledger and maintains the chronological order.
func (l *Ledger) Append(events ...*Event) {
	l.events = append(l.events, events...)
	slices.SortStableFunc(l.events, (*Event).compare)
}

// Accounts returns an iterator over the registered accounts in name order.
func (l *Ledger) Accounts() iter.Seq[*Account] {
	return func(yield func(*Account) bool) {
		for _, name := range slices.Sorted(maps.Keys(l.accounts)) {
			if !yield(l.accounts[name]) {
				return
			}
		}
	}
}

// Prices returns the ledger's price list.
func (l *Ledger) Prices() *PriceList { return l.prices }

// Rates returns the ledger's rate list.
func (l *Ledger) Rates() *RateList { return l.rates }

// Dilutions returns the ledger's manually imported dilutions.
func (l *Ledger) Dilutions() *Dilutions { return l.dilutions }

// SetPrices replaces the ledger's price list with an imported one.
func (l *Ledger) SetPrices(p *PriceList) { l.prices = p }

// SetRates replaces the ledger's rate list with an imported one.
func (l *Ledger) SetRates(r *RateList) { l.rates = r }

// SetDilutions replaces the ledger's dilution tracker with an imported one.
func (l *Ledger) SetDilutions(d *Dilutions) { l.dilutions = d }

// Events returns an iterator over the ledger's events in chronological order.
func (l *Ledger) Events() iter.Seq[*Event] {
	return func(yield func(*Event) bool) {
		for _, e := range l.events {
			if !yield(e) {
				return
			}
		}
	}
}

// EventsUpTo returns an iterator over events dated at or before the cutoff.
func (l *Ledger) EventsUpTo(cutoff Date) iter.Seq[*Event] {
	return func(yield func(*Event) bool) {
		for _, e := range l.events {
			if e.Date.After(cutoff) {
				// The ledger is sorted by date, so it is safe to stop.
				return
			}
			if !yield(e) {
				return
			}
		}
	}
}

// EventsInRange returns an iterator over events within [from, to] inclusive.
func (l *Ledger) EventsInRange(from, to Date) iter.Seq[*Event] {
	return func(yield func(*Event) bool) {
		for _, e := range l.events {
			if e.Date.After(to) {
				return
			}
			if e.Date.Before(from) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}
