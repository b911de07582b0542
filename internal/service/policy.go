package service

import (
	"context"
	"log/slog"

	"github.com/costmanagement/backend/internal/metrics"
	"github.com/costmanagement/backend/internal/model"
)

// DuplicateAction decides what a repeated assignment does.
type DuplicateAction int

const (
	// DuplicateSkip leaves the member out of the accepted set; the batch succeeds.
	DuplicateSkip DuplicateAction = iota
	// DuplicateReject fails the whole operation with ErrConflict.
	DuplicateReject
)

// AssignmentPolicy is the per-operation rule set for assigning employees.
type AssignmentPolicy struct {
	Operation            string
	RequireProjectMember bool
	OnDuplicate          DuplicateAction
}

// Assignment policies by operation. Project membership duplicates are a
// conflict while module and event duplicates are skipped.
var (
	ProjectAssignPolicy = AssignmentPolicy{Operation: "project_assign", OnDuplicate: DuplicateReject}
	ModuleCreatePolicy  = AssignmentPolicy{Operation: "module_create", RequireProjectMember: true, OnDuplicate: DuplicateSkip}
	ModuleAddPolicy     = AssignmentPolicy{Operation: "module_add", RequireProjectMember: true, OnDuplicate: DuplicateSkip}
	EventCreatePolicy   = AssignmentPolicy{Operation: "event_create", RequireProjectMember: true, OnDuplicate: DuplicateSkip}
)

// batchTarget abstracts the membership checks and insert of one assignment target.
type batchTarget struct {
	isProjectMember func(ctx context.Context, employeeID int64) (bool, error)
	isAssigned      func(ctx context.Context, employeeID int64) (bool, error)
	assign          func(ctx context.Context, employeeID int64) error
}

// assignBatch applies policy to each employee id in order. It runs
// sequentially because it is always called inside a transaction.
func assignBatch(ctx context.Context, policy AssignmentPolicy, ids []int64, target batchTarget) (*model.AssignResult, error) {
	res := &model.AssignResult{Accepted: []int64{}, Skipped: []model.SkippedMember{}}
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if policy.RequireProjectMember {
			ok, err := target.isProjectMember(ctx, id)
			if err != nil {
				return nil, err
			}
			if !ok {
				slog.Warn("employee is not in project, skipping",
					"operation", policy.Operation, "employee_id", id)
				skip(res, policy, id, model.SkipNotInProject)
				continue
			}
		}

		assigned := seen[id]
		if !assigned {
			var err error
			if assigned, err = target.isAssigned(ctx, id); err != nil {
				return nil, err
			}
		}
		if assigned {
			if policy.OnDuplicate == DuplicateReject {
				return nil, ErrConflict
			}
			skip(res, policy, id, model.SkipAlreadyAssigned)
			continue
		}

		if err := target.assign(ctx, id); err != nil {
			return nil, err
		}
		seen[id] = true
		res.Accepted = append(res.Accepted, id)
	}
	return res, nil
}

func skip(res *model.AssignResult, policy AssignmentPolicy, id int64, reason model.SkipReason) {
	metrics.AssignmentsSkippedTotal.WithLabelValues(policy.Operation, string(reason)).Inc()
	res.Skipped = append(res.Skipped, model.SkippedMember{EmployeeID: id, Reason: reason})
}
