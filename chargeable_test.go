package taxfolio

import (
	"testing"
	"time"
)

func TestChargeableEvents_Slice(t *testing.T) {
	s := NewChargeableEvents()
	e := &Event{ID: 1, Date: NewDate(2025, time.June, 1), Years: 8}
	c := s.Add(e, GBP(4000))
	if got, want := c.Slice, GBP(500); !got.Equal(want) {
		t.Errorf("slice = %s, want %s", got, want)
	}

	// Years below one count as one.
	c = s.Add(&Event{ID: 2, Date: NewDate(2025, time.June, 2)}, GBP(100))
	if got, want := c.Slice, GBP(100); !got.Equal(want) {
		t.Errorf("slice = %s, want %s", got, want)
	}
}

func TestChargeableEvents_ApplyTaxSumsExactly(t *testing.T) {
	s := NewChargeableEvents()
	s.Add(&Event{ID: 1, Years: 1}, GBP(100))
	s.Add(&Event{ID: 2, Years: 2}, GBP(300))
	s.Add(&Event{ID: 3, Years: 3}, GBP(100))
	// slices: 100, 150, 33.33
	totalSlice := s.TotalSlice("GBP")
	totalTax := GBP(1000)

	s.ApplyTax(totalTax, totalSlice)

	sum := GBP(0)
	for c := range s.All() {
		sum = sum.Add(c.Tax)
	}
	if !sum.Equal(totalTax) {
		t.Errorf("distributed tax sums to %s, want %s", sum, totalTax)
	}
}

func TestChargeableEvents_Totals(t *testing.T) {
	s := NewChargeableEvents()
	s.Add(&Event{ID: 1, Years: 10}, GBP(2000))
	s.Add(&Event{ID: 2, Years: 5}, GBP(1000))
	if got, want := s.TotalGains("GBP"), GBP(3000); !got.Equal(want) {
		t.Errorf("total gains = %s, want %s", got, want)
	}
	if got, want := s.TotalSlice("GBP"), GBP(400); !got.Equal(want) {
		t.Errorf("total slice = %s, want %s", got, want)
	}
}
