package cost

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Precision selects how aggregated costs are rounded for output.
type Precision int

const (
	// Precise rounds half-up to two decimal places.
	Precise Precision = iota
	// Coarse floors to whole currency units.
	Coarse
)

func (p Precision) String() string {
	switch p {
	case Precise:
		return "precise"
	case Coarse:
		return "coarse"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}

// ParsePrecision maps "precise" / "coarse" to a Precision. Empty means Precise.
func ParsePrecision(s string) (Precision, error) {
	switch s {
	case "", "precise":
		return Precise, nil
	case "coarse":
		return Coarse, nil
	default:
		return 0, fmt.Errorf("unknown precision %q", s)
	}
}

// Round applies the precision to d.
func (p Precision) Round(d decimal.Decimal) decimal.Decimal {
	if p == Coarse {
		return d.Floor()
	}
	return d.Round(2)
}
