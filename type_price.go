package taxfolio

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Price represents the unit price of a priced asset in a given currency.
// Unlike Money it keeps full precision: a price can be fractional below the
// currency's minor unit.
type Price struct {
	value decimal.Decimal
	cur   string
}

func P[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Price {
	return Price{value: newDecimal(value), cur: currency}
}

func (p Price) Currency() string      { return p.cur }
func (p Price) Equal(q Price) bool    { return p.value.Equal(q.value) && p.cur == q.cur }
func (p Price) IsZero() bool          { return p.value.IsZero() }
func (p Price) LessThan(q Price) bool { return p.value.LessThan(q.value) }
func (p Price) String() string        { return p.value.String() + " " + p.cur }

// Value returns units × price as Money, rounded half up at the currency's
// minor-unit precision.
func (p Price) Value(u Units) Money {
	m := Money{value: p.value.Mul(u.value), cur: p.cur}
	return Money{value: m.value.Round(int32(m.currency().Fraction)), cur: p.cur}
}

// Dilute applies a dilution factor to the price, yielding the post-action
// equivalent of a historic price.
func (p Price) Dilute(d Dilution) Price {
	if d.IsNeutral() {
		return p
	}
	return Price{value: p.value.Mul(d.factor), cur: p.cur}
}

// Undilute converts an already-diluted historic price back to its undiluted
// value. The price is returned unchanged when the factor is neutral.
func (p Price) Undilute(d Dilution) Price {
	if d.IsNeutral() {
		return p
	}
	return Price{value: p.value.Div(d.factor), cur: p.cur}
}

// ParsePrice parses a price literal like "12.34" or "12.34 GBP".
func ParsePrice(str, currency string) (Price, error) {
	str = strings.TrimSpace(str)
	if fields := strings.Fields(str); len(fields) == 2 {
		str, currency = fields[0], fields[1]
	}
	v, err := decimal.NewFromString(str)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", str, err)
	}
	if v.IsNegative() {
		return Price{}, fmt.Errorf("invalid price %q: must not be negative", str)
	}
	return Price{value: v, cur: currency}, nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", p.cur)
	w.Append("price", p.value)
	return w.MarshalJSON()
}
