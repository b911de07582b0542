package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Module はプロジェクト配下の作業単位。AddDate..DueDate がコスト窓になる。
type Module struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	AddDate   time.Time `json:"add_date"`
	DueDate   time.Time `json:"due_date"`
	ProjectID int64     `json:"project_id"`
	Active    bool      `json:"module_active"` // 表示用フラグ。コスト計算には影響しない

	Employees []*Employee `json:"employees,omitempty"`
}

// Window returns the module's own cost window.
func (m *Module) Window() Window {
	return Window{Start: m.AddDate, End: m.DueDate}
}

// Ended reports whether the due date lies strictly before today.
func (m *Module) Ended(today time.Time) bool {
	return m.DueDate.Before(today)
}

// ModuleInput is the payload for creating a module.
type ModuleInput struct {
	Name        string
	AddDate     time.Time
	DueDate     time.Time
	ProjectID   int64
	EmployeeIDs []int64
	Active      *bool // nil は true
}

// ModuleCreated is returned by module creation.
type ModuleCreated struct {
	Module          *Module         `json:"module"`
	TotalModuleCost decimal.Decimal `json:"total_module_cost"`
	Assignment      *AssignResult   `json:"assignment"`
}

// ModuleEmployees is returned by adding employees to an existing module.
type ModuleEmployees struct {
	TotalModuleCost decimal.Decimal `json:"total_module_cost"`
	AddedEmployees  []int64         `json:"added_employees"`
	Skipped         []SkippedMember `json:"skipped"`
}

// ModuleDetail is one module in the module detail view.
type ModuleDetail struct {
	Module
	Members    []*ModuleMember `json:"members"`
	ModuleCost decimal.Decimal `json:"module_cost"`
}

// ModuleMember is a project member annotated with module membership (0|1).
type ModuleMember struct {
	Employee
	InModule int `json:"in_module"`
}

// ProjectModules is the response of the module detail view.
type ProjectModules struct {
	Project *Project        `json:"project"`
	Modules []*ModuleDetail `json:"modules"`
}
