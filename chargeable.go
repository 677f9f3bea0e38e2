package taxfolio

import "iter"

// ChargeableEvent is one taxable-gain realization collected during the pass:
// a bond surrender or similar event whose gain enters the income computation
// with top-slicing relief spread over its relevant years.
type ChargeableEvent struct {
	Event *Event
	Gains Money
	Slice Money // annual-equivalent gain: Gains over the relevant years
	Years int
	Tax   Money // set by ApplyTax
}

// ChargeableEvents collects the chargeable events of one analysis pass.
type ChargeableEvents struct {
	events []*ChargeableEvent
}

// NewChargeableEvents creates an empty collection.
func NewChargeableEvents() *ChargeableEvents {
	return &ChargeableEvents{}
}

// Add records a chargeable gain. Years below one counts as one.
func (s *ChargeableEvents) Add(e *Event, gains Money) *ChargeableEvent {
	years := e.Years
	if years < 1 {
		years = 1
	}
	c := &ChargeableEvent{
		Event: e,
		Gains: gains,
		Slice: gains.Weighted(U(1), U(int64(years))),
		Years: years,
	}
	s.events = append(s.events, c)
	return c
}

// Len returns the number of chargeable events.
func (s *ChargeableEvents) Len() int { return len(s.events) }

// TotalGains sums the full gains.
func (s *ChargeableEvents) TotalGains(currency string) Money {
	total := M(0, currency)
	for _, c := range s.events {
		total = total.Add(c.Gains)
	}
	return total
}

// TotalSlice sums the annual-equivalent slices.
func (s *ChargeableEvents) TotalSlice(currency string) Money {
	total := M(0, currency)
	for _, c := range s.events {
		total = total.Add(c.Slice)
	}
	return total
}

// ApplyTax distributes the total tax due across the events pro rata to their
// slices. The last event absorbs the rounding remainder so the parts always
// sum exactly to the total.
func (s *ChargeableEvents) ApplyTax(totalTax, totalSlice Money) {
	if len(s.events) == 0 {
		return
	}
	remaining := totalTax
	for _, c := range s.events[:len(s.events)-1] {
		c.Tax = totalTax.ValueWeighted(c.Slice, totalSlice)
		remaining = remaining.Sub(c.Tax)
	}
	s.events[len(s.events)-1].Tax = remaining
}

// All iterates over the chargeable events in recording order.
func (s *ChargeableEvents) All() iter.Seq[*ChargeableEvent] {
	return func(yield func(*ChargeableEvent) bool) {
		for _, c := range s.events {
			if !yield(c) {
				return
			}
		}
	}
}
