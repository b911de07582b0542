package model

import "github.com/shopspring/decimal"

// ChartYear is one year of the calendar rollup.
type ChartYear struct {
	Year  int           `json:"year"`
	Chart []*ChartMonth `json:"chart"`
}

// ChartMonth holds the per-project costs charged to one calendar month.
// Total is always the exact sum of Detail costs.
type ChartMonth struct {
	Month  int             `json:"month"`
	Detail []*ChartDetail  `json:"detail"`
	Total  decimal.Decimal `json:"total"`
}

// ChartDetail is one project's charge within a month.
type ChartDetail struct {
	ProjectName string          `json:"project_name"`
	Cost        decimal.Decimal `json:"cost"`
}
