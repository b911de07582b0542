package service

import (
	"context"
	"time"

	"github.com/costmanagement/backend/internal/cost"
	"github.com/costmanagement/backend/internal/model"
	"github.com/costmanagement/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// ChartService はプロジェクトコストを年・月のグリッドに積み上げる
type ChartService interface {
	Rollup(ctx context.Context, p cost.Precision) ([]*model.ChartYear, error)
}

// ChartServiceImpl は ChartService の実装
type ChartServiceImpl struct {
	store repository.Store
	engine
}

// NewChartService は ChartServiceImpl を生成する
func NewChartService(store repository.Store, clock cost.Clock) ChartService {
	return &ChartServiceImpl{store: store, engine: engine{clock: clock}}
}

type monthKey struct {
	year  int
	month time.Month
}

// Rollup charges each project's recomputed cost to every calendar month it
// is active in. The grid runs from the earliest project start month to the
// current month. A project appears at most once per month.
func (s *ChartServiceImpl) Rollup(ctx context.Context, p cost.Precision) ([]*model.ChartYear, error) {
	start := time.Now()
	defer observe("rollup", start)

	projects, err := s.store.Projects().List(ctx, model.ProjectFilter{})
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return []*model.ChartYear{}, nil
	}

	today := s.today()
	earliest := projects[0].Start
	for _, pr := range projects[1:] {
		if pr.Start.Before(earliest) {
			earliest = pr.Start
		}
	}
	years, months := buildGrid(earliest, today)
	if len(years) == 0 {
		return years, nil
	}

	costs, err := s.projectCosts(ctx, s.store, projects, p)
	if err != nil {
		return nil, err
	}

	// Sequential pass: the dedup set must observe entries in year/month order.
	recorded := make(map[monthKey]map[string]bool)
	for _, pr := range projects {
		for _, key := range activeMonths(pr, today) {
			bucket, ok := months[key]
			if !ok {
				continue
			}
			if recorded[key] == nil {
				recorded[key] = make(map[string]bool)
			}
			if recorded[key][pr.Name] {
				continue
			}
			recorded[key][pr.Name] = true
			c := costs[pr.ID]
			bucket.Detail = append(bucket.Detail, &model.ChartDetail{ProjectName: pr.Name, Cost: c})
			bucket.Total = bucket.Total.Add(c)
		}
	}
	return years, nil
}

// buildGrid returns empty months from from's month through today's month.
func buildGrid(from, today time.Time) ([]*model.ChartYear, map[monthKey]*model.ChartMonth) {
	years := []*model.ChartYear{}
	months := make(map[monthKey]*model.ChartMonth)
	for y := from.Year(); y <= today.Year(); y++ {
		first, last := time.January, time.December
		if y == from.Year() {
			first = from.Month()
		}
		if y == today.Year() {
			last = today.Month()
		}
		if first > last {
			continue
		}
		cy := &model.ChartYear{Year: y, Chart: []*model.ChartMonth{}}
		for m := first; m <= last; m++ {
			cm := &model.ChartMonth{Month: int(m), Detail: []*model.ChartDetail{}, Total: decimal.Zero}
			cy.Chart = append(cy.Chart, cm)
			months[monthKey{y, m}] = cm
		}
		years = append(years, cy)
	}
	return years, months
}

// activeMonths lists the months a project spans, capped at today's month.
func activeMonths(pr *model.Project, today time.Time) []monthKey {
	var keys []monthKey
	lastYear := pr.End.Year()
	if lastYear > today.Year() {
		lastYear = today.Year()
	}
	for y := pr.Start.Year(); y <= lastYear; y++ {
		first, last := time.January, time.December
		if y == pr.Start.Year() {
			first = pr.Start.Month()
		}
		if y == pr.End.Year() {
			last = pr.End.Month()
		}
		if y == today.Year() && last > today.Month() {
			last = today.Month()
		}
		for m := first; m <= last; m++ {
			keys = append(keys, monthKey{y, m})
		}
	}
	return keys
}
