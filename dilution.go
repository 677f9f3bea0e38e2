package taxfolio

import (
	"fmt"
	"iter"
	"slices"
)

// DilutionEvent is an immutable record of a corporate action's dilution
// factor for one account on one date.
type DilutionEvent struct {
	Account *Account
	Date    Date
	Factor  Dilution
	Event   *Event // source ledger event, nil for manual imports
}

// Dilutions tracks dilution events and answers compounded-factor queries.
type Dilutions struct {
	events map[string][]*DilutionEvent // keyed by account name, sorted by date
}

// NewDilutions creates an empty dilution tracker.
func NewDilutions() *Dilutions {
	return &Dilutions{events: make(map[string][]*DilutionEvent)}
}

// RecordEvent records the dilution factor carried by a corporate-action
// ledger event.
func (d *Dilutions) RecordEvent(e *Event) {
	account := e.Debit.Resolve()
	if !account.HasUnits() {
		account = e.Credit.Resolve()
	}
	d.record(&DilutionEvent{Account: account, Date: e.Date, Factor: e.Dilution, Event: e})
}

// RecordImport records a dilution from manual import: an account, a date and
// a factor literal. A malformed literal is a data validation error carrying
// the offending value; nothing is recorded in that case.
func (d *Dilutions) RecordImport(account *Account, on Date, factor string) error {
	f, err := ParseDilution(factor)
	if err != nil {
		return fmt.Errorf("dilution for %q on %s: %w", account.Name, on, err)
	}
	d.record(&DilutionEvent{Account: account.Resolve(), Date: on, Factor: f})
	return nil
}

func (d *Dilutions) record(ev *DilutionEvent) {
	h := d.events[ev.Account.Name]
	h = append(h, ev)
	slices.SortStableFunc(h, func(a, b *DilutionEvent) int { return a.Date.Compare(b.Date) })
	d.events[ev.Account.Name] = h
}

// Clone returns an independent copy: the analysis seeds its tracker from the
// ledger's manual imports and then records event dilutions on top.
func (d *Dilutions) Clone() *Dilutions {
	c := NewDilutions()
	for name, h := range d.events {
		c.events[name] = slices.Clone(h)
	}
	return c
}

// HasDilution reports whether the account has any dilution events.
func (d *Dilutions) HasDilution(a *Account) bool {
	return len(d.events[a.Resolve().Name]) > 0
}

// FactorAfter returns the compounded dilution factor applicable to a price
// observed on the given date: the product of every factor strictly after that
// date for the account. The neutral sentinel is returned when nothing
// applies.
func (d *Dilutions) FactorAfter(a *Account, on Date) Dilution {
	factor := NeutralDilution()
	for _, ev := range d.events[a.Resolve().Name] {
		if ev.Date.After(on) {
			factor = factor.Mul(ev.Factor)
		}
	}
	return factor
}

// UndilutePrice converts an already-diluted historic price observed on a date
// back to its undiluted value, or passes it through unchanged when no
// dilution applies.
func (d *Dilutions) UndilutePrice(a *Account, on Date, p Price) Price {
	return p.Undilute(d.FactorAfter(a, on))
}

// All iterates over every dilution event, grouped by account name order.
func (d *Dilutions) All() iter.Seq[*DilutionEvent] {
	return func(yield func(*DilutionEvent) bool) {
		names := make([]string, 0, len(d.events))
		for name := range d.events {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			for _, ev := range d.events[name] {
				if !yield(ev) {
					return
				}
			}
		}
	}
}
