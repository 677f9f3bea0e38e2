package taxfolio

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Units represents a number of units (shares) of a priced asset.
type Units struct {
	value decimal.Decimal
}

func U[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Units {
	return Units{value: newDecimal(value)}
}

func (u Units) Equal(v Units) bool       { return u.value.Equal(v.value) }
func (u Units) LessThan(v Units) bool    { return u.value.LessThan(v.value) }
func (u Units) GreaterThan(v Units) bool { return u.value.GreaterThan(v.value) }
func (u Units) Add(v Units) Units        { return Units{value: u.value.Add(v.value)} }
func (u Units) Sub(v Units) Units        { return Units{value: u.value.Sub(v.value)} }
func (u Units) Mul(v Units) Units        { return Units{value: u.value.Mul(v.value)} }
func (u Units) Div(v Units) Units        { return Units{value: u.value.Div(v.value)} }
func (u Units) Neg() Units               { return Units{value: u.value.Neg()} }
func (u Units) IsZero() bool             { return u.value.IsZero() }
func (u Units) IsNonZero() bool          { return !u.value.IsZero() }
func (u Units) IsPositive() bool         { return u.value.IsPositive() }
func (u Units) IsNegative() bool         { return u.value.IsNegative() }
func (u Units) String() string           { return u.value.String() }

// ParseUnits parses a units literal like "12.5".
func ParseUnits(str string) (Units, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(str))
	if err != nil {
		return Units{}, fmt.Errorf("invalid units %q: %w", str, err)
	}
	return Units{value: v}, nil
}

func (u Units) MarshalJSON() ([]byte, error) {
	return u.value.MarshalJSON()
}

func (u *Units) UnmarshalJSON(b []byte) error {
	return u.value.UnmarshalJSON(b)
}
