package taxfolio

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Rate represents a fractional rate (an interest rate or a tax rate).
// The value is held as a fraction: 20% is 0.2.
type Rate struct {
	value decimal.Decimal
}

func R[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Rate {
	return Rate{value: newDecimal(value)}
}

func (r Rate) Equal(s Rate) bool    { return r.value.Equal(s.value) }
func (r Rate) IsZero() bool         { return r.value.IsZero() }
func (r Rate) IsNonZero() bool      { return !r.value.IsZero() }
func (r Rate) LessThan(s Rate) bool { return r.value.LessThan(s.value) }

// String renders the rate as a percentage, e.g. "20%".
func (r Rate) String() string {
	return r.value.Shift(2).String() + "%"
}

// Of applies the rate to an amount of money, rounded half up at the
// currency's minor-unit precision. This is the single rounding policy for
// money × rate in the whole engine.
func (r Rate) Of(m Money) Money {
	v := m.value.Mul(r.value)
	return Money{value: v.Round(int32(m.currency().Fraction)), cur: m.cur}
}

// ParseRate parses a rate literal like "0.2" or "20%".
func ParseRate(str string) (Rate, error) {
	str = strings.TrimSpace(str)
	shift := int32(0)
	if strings.HasSuffix(str, "%") {
		str = strings.TrimSuffix(str, "%")
		shift = -2
	}
	v, err := decimal.NewFromString(str)
	if err != nil {
		return Rate{}, fmt.Errorf("invalid rate %q: %w", str, err)
	}
	return Rate{value: v.Shift(shift)}, nil
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return r.value.MarshalJSON()
}

func (r *Rate) UnmarshalJSON(b []byte) error {
	return r.value.UnmarshalJSON(b)
}
