package service

import (
	"context"
	"errors"

	"github.com/costmanagement/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// RateResolver looks up an employee's current daily cost. Rates are read
// live; there is no historical versioning.
type RateResolver struct {
	employees repository.EmployeeRepository
}

// NewRateResolver は RateResolver を生成する
func NewRateResolver(employees repository.EmployeeRepository) *RateResolver {
	return &RateResolver{employees: employees}
}

// DailyRate returns the employee's daily rate. A missing employee yields 0
// with a nil error; storage failures are returned as-is.
func (r *RateResolver) DailyRate(ctx context.Context, employeeID int64) (decimal.Decimal, error) {
	e, err := r.employees.GetByID(ctx, employeeID)
	if errors.Is(err, repository.ErrNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	if e.Cost.IsNegative() {
		return decimal.Zero, nil
	}
	return e.Cost, nil
}
