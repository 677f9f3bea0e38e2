package taxfolio

import "iter"

// CapitalAttr names one attribute recorded on a capital event. The set is
// closed so attributes live in a fixed-size array rather than a map: the
// per-event loop is the hot path of the whole engine.
type CapitalAttr int

const (
	CapDeltaUnits CapitalAttr = iota
	CapInitialUnits
	CapFinalUnits
	CapDeltaCost
	CapInitialCost
	CapFinalCost
	CapDeltaGains
	CapInitialGains
	CapFinalGains
	CapDeltaDividend
	CapInitialDividend
	CapFinalDividend
	CapDeltaInvested
	CapInitialInvested
	CapFinalInvested
	CapInitialValue
	CapFinalValue
	CapFinalPrice
	CapTakeoverCashValue
	CapTakeoverStockValue
	CapTakeoverTotalValue
	CapTakeoverStockPrice
	CapTakeoverStockCost
	CapAllowedCost
	CapProceeds

	capAttrCount
)

var capitalAttrNames = [capAttrCount]string{
	CapDeltaUnits:         "DeltaUnits",
	CapInitialUnits:       "InitialUnits",
	CapFinalUnits:         "FinalUnits",
	CapDeltaCost:          "DeltaCost",
	CapInitialCost:        "InitialCost",
	CapFinalCost:          "FinalCost",
	CapDeltaGains:         "DeltaGains",
	CapInitialGains:       "InitialGains",
	CapFinalGains:         "FinalGains",
	CapDeltaDividend:      "DeltaDividend",
	CapInitialDividend:    "InitialDividend",
	CapFinalDividend:      "FinalDividend",
	CapDeltaInvested:      "DeltaInvested",
	CapInitialInvested:    "InitialInvested",
	CapFinalInvested:      "FinalInvested",
	CapInitialValue:       "InitialValue",
	CapFinalValue:         "FinalValue",
	CapFinalPrice:         "FinalPrice",
	CapTakeoverCashValue:  "TakeoverCashValue",
	CapTakeoverStockValue: "TakeoverStockValue",
	CapTakeoverTotalValue: "TakeoverTotalValue",
	CapTakeoverStockPrice: "TakeoverStockPrice",
	CapTakeoverStockCost:  "TakeoverStockCost",
	CapAllowedCost:        "AllowedCost",
	CapProceeds:           "Proceeds",
}

func (a CapitalAttr) String() string {
	if a < 0 || a >= capAttrCount {
		return "Unknown"
	}
	return capitalAttrNames[a]
}

type capKind uint8

const (
	capUnset capKind = iota
	capMoney
	capUnits
	capPrice
)

type capValue struct {
	kind  capKind
	money Money
	units Units
	price Price
}

// CapitalEvent is one lot-level record in an asset's capital ledger: the
// deltas and running totals a single triggering ledger event (or a synthetic
// valuation) produced. The record is append-only once written.
type CapitalEvent struct {
	date  Date
	event *Event // nil for a synthetic valuation record
	attrs [capAttrCount]capValue
}

// Date returns the capital event's date.
func (c *CapitalEvent) Date() Date { return c.date }

// Event returns the underlying ledger event, or nil for a valuation record.
func (c *CapitalEvent) Event() *Event { return c.event }

// SetMoney records a money attribute.
func (c *CapitalEvent) SetMoney(a CapitalAttr, m Money) {
	c.attrs[a] = capValue{kind: capMoney, money: m}
}

// SetUnits records a units attribute.
func (c *CapitalEvent) SetUnits(a CapitalAttr, u Units) {
	c.attrs[a] = capValue{kind: capUnits, units: u}
}

// SetPrice records a price attribute.
func (c *CapitalEvent) SetPrice(a CapitalAttr, p Price) {
	c.attrs[a] = capValue{kind: capPrice, price: p}
}

// Money returns a money attribute; ok is false when the attribute is unset
// or not a money value.
func (c *CapitalEvent) Money(a CapitalAttr) (Money, bool) {
	v := c.attrs[a]
	return v.money, v.kind == capMoney
}

// Units returns a units attribute.
func (c *CapitalEvent) Units(a CapitalAttr) (Units, bool) {
	v := c.attrs[a]
	return v.units, v.kind == capUnits
}

// Price returns a price attribute.
func (c *CapitalEvent) Price(a CapitalAttr) (Price, bool) {
	v := c.attrs[a]
	return v.price, v.kind == capPrice
}

// IsSet reports whether the attribute was recorded.
func (c *CapitalEvent) IsSet(a CapitalAttr) bool { return c.attrs[a].kind != capUnset }

// before orders capital events by (date, underlying-event-id); a synthetic
// valuation record sorts after real events on the same day.
func (c *CapitalEvent) before(d *CapitalEvent) bool {
	if cmp := c.date.Compare(d.date); cmp != 0 {
		return cmp < 0
	}
	switch {
	case c.event == nil:
		return false
	case d.event == nil:
		return true
	}
	return c.event.ID < d.event.ID
}

// CapitalEvents is the append-only capital ledger of one priced asset.
type CapitalEvents struct {
	account *Account
	events  []*CapitalEvent
}

// NewCapitalEvents creates an empty capital ledger for an asset.
func NewCapitalEvents(a *Account) *CapitalEvents {
	return &CapitalEvents{account: a}
}

// Account returns the asset this ledger belongs to.
func (s *CapitalEvents) Account() *Account { return s.account }

// Len returns the number of recorded capital events.
func (s *CapitalEvents) Len() int { return len(s.events) }

// Append creates and appends a capital event tied to a ledger event.
func (s *CapitalEvents) Append(e *Event) *CapitalEvent {
	c := &CapitalEvent{date: e.Date, event: e}
	s.insert(c)
	return c
}

// AppendValuation creates and appends a synthetic capital event tied to a
// bare date, used to record a valuation without an underlying ledger event.
func (s *CapitalEvents) AppendValuation(on Date) *CapitalEvent {
	c := &CapitalEvent{date: on}
	s.insert(c)
	return c
}

func (s *CapitalEvents) insert(c *CapitalEvent) {
	// Events arrive nearly sorted; scan back from the end.
	i := len(s.events)
	for i > 0 && c.before(s.events[i-1]) {
		i--
	}
	s.events = append(s.events, nil)
	copy(s.events[i+1:], s.events[i:])
	s.events[i] = c
}

// LastCashTakeover locates the most recent capital event tied to a cash
// takeover, used to bridge the two legs of a stock-and-cash takeover.
func (s *CapitalEvents) LastCashTakeover() *CapitalEvent {
	for i := len(s.events) - 1; i >= 0; i-- {
		c := s.events[i]
		if c.event != nil && c.event.Category == CatCashTakeover {
			return c
		}
	}
	return nil
}

// PurgeFrom truncates all entries dated at or after the given date, so that
// restoring a save point does not retain capital history beyond the rollback
// point.
func (s *CapitalEvents) PurgeFrom(on Date) {
	for i, c := range s.events {
		if !c.date.Before(on) {
			s.events = s.events[:i]
			return
		}
	}
}

// All iterates over the capital events in order.
func (s *CapitalEvents) All() iter.Seq[*CapitalEvent] {
	return func(yield func(*CapitalEvent) bool) {
		for _, c := range s.events {
			if !yield(c) {
				return
			}
		}
	}
}
