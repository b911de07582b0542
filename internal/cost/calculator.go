package cost

import (
	"time"

	"github.com/costmanagement/backend/internal/model"
	"github.com/shopspring/decimal"
)

// EffectiveWindow resolves an assignment against its module window and
// clamps the end to today.
func EffectiveWindow(a *model.Assignment, module model.Window, today time.Time) model.Window {
	w := a.Window(module)
	w.End = ClampEnd(w.End, today)
	return w
}

// AssignmentCost is mandays times the daily rate. Negative rates count as 0
// so the result is never negative. The value is exact; rounding happens at
// the aggregate level.
func AssignmentCost(a *model.Assignment, module model.Window, rate decimal.Decimal, today time.Time) decimal.Decimal {
	if rate.IsNegative() {
		return decimal.Zero
	}
	w := EffectiveWindow(a, module, today)
	days := ElapsedDays(w.Start, w.End)
	return rate.Mul(decimal.NewFromInt(days))
}

// Sum adds up costs.
func Sum(costs []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, c := range costs {
		total = total.Add(c)
	}
	return total
}
