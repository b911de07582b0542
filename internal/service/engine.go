package service

import (
	"context"
	"fmt"
	"time"

	"github.com/costmanagement/backend/internal/cost"
	"github.com/costmanagement/backend/internal/metrics"
	"github.com/costmanagement/backend/internal/model"
	"github.com/costmanagement/backend/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// engine holds the aggregation steps shared by the cost, project and chart
// services. Every method takes the store explicitly so the same code runs
// against the pool or inside a transaction.
type engine struct {
	clock cost.Clock
}

func (e engine) today() time.Time {
	return cost.Today(e.clock)
}

// moduleCost sums every assignment of the module. Rates are resolved
// concurrently up to store.Parallelism(); the first failure fails the sum.
func (e engine) moduleCost(ctx context.Context, store repository.Store, module *model.Module, p cost.Precision) (decimal.Decimal, error) {
	start := time.Now()
	defer observe("module", start)

	assignments, err := store.Modules().ListAssignments(ctx, module.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list assignments of module %d: %w", module.ID, err)
	}
	if len(assignments) == 0 {
		return decimal.Zero, nil
	}

	rates := NewRateResolver(store.Employees())
	today := e.today()
	window := module.Window()
	costs := make([]decimal.Decimal, len(assignments))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(store.Parallelism())
	for i, a := range assignments {
		g.Go(func() error {
			rate, err := rates.DailyRate(gCtx, a.EmployeeID)
			if err != nil {
				return fmt.Errorf("resolve rate of employee %d: %w", a.EmployeeID, err)
			}
			costs[i] = cost.AssignmentCost(a, window, rate, today)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}
	return p.Round(cost.Sum(costs)), nil
}

// projectCost recomputes a project's cost from scratch as the sum of its
// rounded module costs.
func (e engine) projectCost(ctx context.Context, store repository.Store, projectID int64, p cost.Precision) (decimal.Decimal, error) {
	start := time.Now()
	defer observe("project", start)

	modules, err := store.Modules().ListByProject(ctx, projectID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list modules of project %d: %w", projectID, err)
	}
	costs := make([]decimal.Decimal, len(modules))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(store.Parallelism())
	for i, m := range modules {
		g.Go(func() error {
			c, err := e.moduleCost(gCtx, store, m, p)
			if err != nil {
				return err
			}
			costs[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}
	return cost.Sum(costs), nil
}

// projectCosts recomputes several projects concurrently, keyed by project id.
func (e engine) projectCosts(ctx context.Context, store repository.Store, projects []*model.Project, p cost.Precision) (map[int64]decimal.Decimal, error) {
	costs := make([]decimal.Decimal, len(projects))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(store.Parallelism())
	for i, pr := range projects {
		g.Go(func() error {
			c, err := e.projectCost(gCtx, store, pr.ID, p)
			if err != nil {
				return err
			}
			costs[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int64]decimal.Decimal, len(projects))
	for i, pr := range projects {
		out[pr.ID] = costs[i]
	}
	return out, nil
}

func observe(scope string, start time.Time) {
	metrics.AggregationsTotal.WithLabelValues(scope).Inc()
	metrics.AggregationDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
}
