package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/costmanagement/backend/internal/cost"
	"github.com/costmanagement/backend/internal/metrics"
	"github.com/costmanagement/backend/internal/model"
	"github.com/costmanagement/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// CostService はモジュール・プロジェクト単位のコスト集計とモジュール作成を扱う
type CostService interface {
	ModuleCost(ctx context.Context, moduleID int64, p cost.Precision) (decimal.Decimal, error)
	AssignEmployees(ctx context.Context, moduleID int64, employeeIDs []int64) (*model.ModuleEmployees, error)
	CreateModule(ctx context.Context, in model.ModuleInput) (*model.ModuleCreated, error)
	RecomputeProjectCost(ctx context.Context, projectID int64, p cost.Precision) (decimal.Decimal, error)
}

// CostServiceImpl は CostService の実装
type CostServiceImpl struct {
	store repository.Store
	engine
}

// NewCostService は CostServiceImpl を生成する（DI: Store と Clock を注入）
func NewCostService(store repository.Store, clock cost.Clock) CostService {
	return &CostServiceImpl{store: store, engine: engine{clock: clock}}
}

// ModuleCost returns the module's cost as of today. No assignments yields 0.
func (s *CostServiceImpl) ModuleCost(ctx context.Context, moduleID int64, p cost.Precision) (decimal.Decimal, error) {
	module, err := s.store.Modules().GetByID(ctx, moduleID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("module %d: %w", moduleID, err)
	}
	return s.moduleCost(ctx, s.store, module, p)
}

// RecomputeProjectCost sums every module of the project from scratch.
// This is the value served to API consumers; the stored running total is
// only a hint.
func (s *CostServiceImpl) RecomputeProjectCost(ctx context.Context, projectID int64, p cost.Precision) (decimal.Decimal, error) {
	if _, err := s.store.Projects().GetByID(ctx, projectID); err != nil {
		return decimal.Zero, fmt.Errorf("project %d: %w", projectID, err)
	}
	return s.projectCost(ctx, s.store, projectID, p)
}

// CreateModule creates the module, assigns the employees and adds the new
// module's cost to the project's running total in one transaction.
func (s *CostServiceImpl) CreateModule(ctx context.Context, in model.ModuleInput) (*model.ModuleCreated, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateModuleInput(in); err != nil {
		return nil, err
	}

	var out *model.ModuleCreated
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		project, err := tx.Projects().GetByID(ctx, in.ProjectID)
		if err != nil {
			return fmt.Errorf("project %d: %w", in.ProjectID, err)
		}
		exists, err := tx.Modules().ExistsByName(ctx, project.ID, in.Name)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: module %q already exists in project %d", ErrInvalidInput, in.Name, project.ID)
		}

		module := &model.Module{
			Name:      in.Name,
			AddDate:   in.AddDate,
			DueDate:   in.DueDate,
			ProjectID: project.ID,
			Active:    in.Active == nil || *in.Active,
		}
		if err := tx.Modules().Create(ctx, module); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("%w: module %q already exists in project %d", ErrInvalidInput, in.Name, project.ID)
			}
			return fmt.Errorf("create module: %w", err)
		}

		res, err := assignBatch(ctx, ModuleCreatePolicy, in.EmployeeIDs, moduleTarget(tx, module, nil))
		if err != nil {
			return err
		}
		total, err := s.moduleCost(ctx, tx, module, cost.Precise)
		if err != nil {
			return err
		}
		if err := s.addProjectCost(ctx, tx, project.ID, total); err != nil {
			return err
		}
		out = &model.ModuleCreated{Module: module, TotalModuleCost: total, Assignment: res}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AssignEmployees adds employees to an existing module. New assignments are
// stamped with a window starting today (never before the module's add date)
// and following the module's due date. The project's running total grows by
// the resulting change in module cost.
func (s *CostServiceImpl) AssignEmployees(ctx context.Context, moduleID int64, employeeIDs []int64) (*model.ModuleEmployees, error) {
	if len(employeeIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one employee id is required", ErrInvalidInput)
	}

	var out *model.ModuleEmployees
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		module, err := tx.Modules().GetByID(ctx, moduleID)
		if err != nil {
			return fmt.Errorf("module %d: %w", moduleID, err)
		}
		today := s.today()
		if module.Ended(today) {
			return fmt.Errorf("%w: module %d ended on %s", ErrInvalidInput, module.ID, module.DueDate.Format("2006-01-02"))
		}

		before, err := s.moduleCost(ctx, tx, module, cost.Precise)
		if err != nil {
			return err
		}
		start := today
		if start.Before(module.AddDate) {
			start = module.AddDate
		}
		res, err := assignBatch(ctx, ModuleAddPolicy, employeeIDs, moduleTarget(tx, module, &start))
		if err != nil {
			return err
		}
		after, err := s.moduleCost(ctx, tx, module, cost.Precise)
		if err != nil {
			return err
		}
		if err := s.addProjectCost(ctx, tx, module.ProjectID, after.Sub(before)); err != nil {
			return err
		}
		out = &model.ModuleEmployees{TotalModuleCost: after, AddedEmployees: res.Accepted, Skipped: res.Skipped}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CostServiceImpl) addProjectCost(ctx context.Context, tx repository.Store, projectID int64, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	if err := tx.Projects().AddCost(ctx, projectID, delta); err != nil {
		return fmt.Errorf("increment project %d cost: %w", projectID, err)
	}
	metrics.ProjectCostIncrementsTotal.Inc()
	return nil
}

// moduleTarget wires batch assignment to a module. A nil start keeps the
// module's own window for the new assignments.
func moduleTarget(tx repository.Store, module *model.Module, start *time.Time) batchTarget {
	return batchTarget{
		isProjectMember: func(ctx context.Context, employeeID int64) (bool, error) {
			return tx.Projects().IsMember(ctx, module.ProjectID, employeeID)
		},
		isAssigned: func(ctx context.Context, employeeID int64) (bool, error) {
			return tx.Modules().IsAssigned(ctx, module.ID, employeeID)
		},
		assign: func(ctx context.Context, employeeID int64) error {
			return tx.Modules().Assign(ctx, &model.Assignment{EmployeeID: employeeID, ModuleID: module.ID, AddDate: start})
		},
	}
}

func validateModuleInput(in model.ModuleInput) error {
	switch {
	case in.Name == "":
		return fmt.Errorf("%w: module name is required", ErrInvalidInput)
	case in.ProjectID <= 0:
		return fmt.Errorf("%w: project id is required", ErrInvalidInput)
	case in.AddDate.IsZero() || in.DueDate.IsZero():
		return fmt.Errorf("%w: add date and due date are required", ErrInvalidInput)
	case in.DueDate.Before(in.AddDate):
		return fmt.Errorf("%w: due date is before add date", ErrInvalidInput)
	case len(in.EmployeeIDs) == 0:
		return fmt.Errorf("%w: at least one employee id is required", ErrInvalidInput)
	}
	return nil
}
