package model

import "time"

// Window is a closed calendar date range used for cost computation.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Assignment links an employee to a module (or event). Nil dates mean the
// owning module's window applies for that bound.
type Assignment struct {
	EmployeeID int64      `json:"employee_id"`
	ModuleID   int64      `json:"module_id"`
	AddDate    *time.Time `json:"add_date,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}

// Window resolves the assignment's own dates against the fallback window.
func (a *Assignment) Window(fallback Window) Window {
	w := fallback
	if a.AddDate != nil {
		w.Start = *a.AddDate
	}
	if a.DueDate != nil {
		w.End = *a.DueDate
	}
	return w
}

// SkipReason explains why a batch member was not assigned.
type SkipReason string

const (
	SkipNotInProject    SkipReason = "not_in_project"
	SkipAlreadyAssigned SkipReason = "already_assigned"
)

// SkippedMember is an employee id left out of a batch assignment.
type SkippedMember struct {
	EmployeeID int64      `json:"employee_id"`
	Reason     SkipReason `json:"reason"`
}

// AssignResult is the outcome of a best-effort batch assignment.
type AssignResult struct {
	Accepted []int64         `json:"accepted"`
	Skipped  []SkippedMember `json:"skipped"`
}
