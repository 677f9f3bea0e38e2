package taxfolio

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Dilution represents the multiplicative correction factor that a corporate
// action (split, rights issue, demerger) applies to historic prices of an
// asset. Factors compose multiplicatively and must lie in (0, 1].
type Dilution struct {
	factor decimal.Decimal
}

// NeutralDilution is the sentinel for "no dilution applies".
func NeutralDilution() Dilution { return Dilution{factor: decimal.NewFromInt(1)} }

func D[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Dilution {
	return Dilution{factor: newDecimal(value)}
}

// IsNeutral reports whether the factor leaves prices unchanged.
func (d Dilution) IsNeutral() bool { return d.factor.Equal(decimal.NewFromInt(1)) }

// Mul composes two dilution factors.
func (d Dilution) Mul(e Dilution) Dilution { return Dilution{factor: d.factor.Mul(e.factor)} }

func (d Dilution) Equal(e Dilution) bool { return d.factor.Equal(e.factor) }

func (d Dilution) String() string { return d.factor.String() }

// ParseDilution parses a dilution literal. The factor must be strictly
// positive and at most 1; anything else is a data validation error carrying
// the offending literal.
func ParseDilution(str string) (Dilution, error) {
	str = strings.TrimSpace(str)
	v, err := decimal.NewFromString(str)
	if err != nil {
		return Dilution{}, fmt.Errorf("invalid dilution %q: %w", str, err)
	}
	if !v.IsPositive() || v.GreaterThan(decimal.NewFromInt(1)) {
		return Dilution{}, fmt.Errorf("invalid dilution %q: factor must be in (0, 1]", str)
	}
	return Dilution{factor: v}, nil
}

func (d Dilution) MarshalJSON() ([]byte, error) {
	return d.factor.MarshalJSON()
}

func (d *Dilution) UnmarshalJSON(b []byte) error {
	return d.factor.UnmarshalJSON(b)
}
