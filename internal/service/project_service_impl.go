package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/costmanagement/backend/internal/cost"
	"github.com/costmanagement/backend/internal/model"
	"github.com/costmanagement/backend/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ProjectServiceImpl は ProjectService の実装
type ProjectServiceImpl struct {
	store repository.Store
	engine
}

// NewProjectService は ProjectServiceImpl を生成する（DI: Store と Clock を注入）
func NewProjectService(store repository.Store, clock cost.Clock) ProjectService {
	return &ProjectServiceImpl{store: store, engine: engine{clock: clock}}
}

// List はプロジェクト一覧を返す。Cost は全モジュールから都度再計算した値で上書きする。
func (s *ProjectServiceImpl) List(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error) {
	projects, err := s.store.Projects().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	costs, err := s.projectCosts(ctx, s.store, projects, cost.Precise)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		p.Cost = costs[p.ID]
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	return projects, nil
}

// Create はプロジェクトを作成する。ランニングトータルは 0 から始まる。
func (s *ProjectServiceImpl) Create(ctx context.Context, project *model.Project) error {
	project.Name = strings.TrimSpace(project.Name)
	switch {
	case project.Name == "":
		return fmt.Errorf("%w: project name is required", ErrInvalidInput)
	case project.Start.IsZero() || project.End.IsZero():
		return fmt.Errorf("%w: project start and end are required", ErrInvalidInput)
	case project.End.Before(project.Start):
		return fmt.Errorf("%w: project end is before start", ErrInvalidInput)
	case project.Cost.IsNegative():
		return fmt.Errorf("%w: project cost must not be negative", ErrInvalidInput)
	}
	if err := s.store.Projects().Create(ctx, project); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("%w: project %q already exists", ErrInvalidInput, project.Name)
		}
		return err
	}
	return nil
}

// AddMember assigns an employee to a project. Unlike module assignment a
// repeated assignment is rejected with ErrConflict.
func (s *ProjectServiceImpl) AddMember(ctx context.Context, projectID, employeeID int64) (*model.ProjectMember, error) {
	if projectID <= 0 || employeeID <= 0 {
		return nil, fmt.Errorf("%w: employee id and project id are required", ErrInvalidInput)
	}

	member := &model.ProjectMember{ProjectID: projectID, EmployeeID: employeeID}
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Projects().GetByID(ctx, projectID); err != nil {
			return fmt.Errorf("project %d: %w", projectID, err)
		}
		if _, err := tx.Employees().GetByID(ctx, employeeID); err != nil {
			return fmt.Errorf("employee %d: %w", employeeID, err)
		}
		_, err := assignBatch(ctx, ProjectAssignPolicy, []int64{employeeID}, batchTarget{
			isAssigned: func(ctx context.Context, id int64) (bool, error) {
				return tx.Projects().IsMember(ctx, projectID, id)
			},
			assign: func(ctx context.Context, id int64) error {
				err := tx.Projects().AddMember(ctx, member)
				if errors.Is(err, repository.ErrDuplicate) {
					return ErrConflict
				}
				return err
			},
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: employee %d is already in project %d", ErrConflict, employeeID, projectID)
		}
		return nil, err
	}
	return member, nil
}

// MasterData returns the tree of the projects matching filter: each with its
// members, modules and each module's employees.
func (s *ProjectServiceImpl) MasterData(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error) {
	projects, err := s.store.Projects().List(ctx, filter)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.store.Parallelism())
	for _, p := range projects {
		g.Go(func() error {
			return s.fillTree(gCtx, p)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	return projects, nil
}

// Modules はプロジェクト横断で全モジュールを返す
func (s *ProjectServiceImpl) Modules(ctx context.Context) ([]*model.Module, error) {
	modules, err := s.store.Modules().List(ctx)
	if err != nil {
		return nil, err
	}
	if modules == nil {
		modules = []*model.Module{}
	}
	return modules, nil
}

func (s *ProjectServiceImpl) fillTree(ctx context.Context, p *model.Project) error {
	members, err := s.store.Projects().ListMembers(ctx, p.ID)
	if err != nil {
		return err
	}
	modules, err := s.store.Modules().ListByProject(ctx, p.ID)
	if err != nil {
		return err
	}
	for _, m := range modules {
		if m.Employees, err = s.store.Modules().ListEmployees(ctx, m.ID); err != nil {
			return err
		}
		if m.Employees == nil {
			m.Employees = []*model.Employee{}
		}
	}
	if members == nil {
		members = []*model.Employee{}
	}
	if modules == nil {
		modules = []*model.Module{}
	}
	p.Employees, p.Modules = members, modules
	return nil
}

// ModuleDetail returns the project's modules, each listing every project
// member flagged with in_module and the module's current cost.
func (s *ProjectServiceImpl) ModuleDetail(ctx context.Context, q ModuleDetailQuery) (*model.ProjectModules, error) {
	project, err := s.resolveProject(ctx, q)
	if err != nil {
		return nil, err
	}
	modules, err := s.store.Modules().ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(q.ModuleName); name != "" {
		var filtered []*model.Module
		for _, m := range modules {
			if m.Name == name {
				filtered = append(filtered, m)
			}
		}
		if len(filtered) == 0 {
			return nil, fmt.Errorf("module %q in project %d: %w", name, project.ID, ErrNotFound)
		}
		modules = filtered
	}
	members, err := s.store.Projects().ListMembers(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	details := make([]*model.ModuleDetail, len(modules))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.store.Parallelism())
	for i, m := range modules {
		g.Go(func() error {
			d, err := s.moduleDetail(gCtx, m, members)
			if err != nil {
				return err
			}
			details[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &model.ProjectModules{Project: project, Modules: details}, nil
}

func (s *ProjectServiceImpl) resolveProject(ctx context.Context, q ModuleDetailQuery) (*model.Project, error) {
	switch {
	case q.ProjectID != nil:
		p, err := s.store.Projects().GetByID(ctx, *q.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("project %d: %w", *q.ProjectID, err)
		}
		return p, nil
	case strings.TrimSpace(q.ProjectName) != "":
		p, err := s.store.Projects().GetByName(ctx, strings.TrimSpace(q.ProjectName))
		if err != nil {
			return nil, fmt.Errorf("project %q: %w", q.ProjectName, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: project id or project name is required", ErrInvalidInput)
	}
}

func (s *ProjectServiceImpl) moduleDetail(ctx context.Context, m *model.Module, members []*model.Employee) (*model.ModuleDetail, error) {
	assigned, err := s.store.Modules().ListEmployees(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	inModule := make(map[int64]bool, len(assigned))
	for _, e := range assigned {
		inModule[e.ID] = true
	}

	d := &model.ModuleDetail{Module: *m, Members: make([]*model.ModuleMember, 0, len(members)), ModuleCost: decimal.Zero}
	for _, e := range members {
		mm := &model.ModuleMember{Employee: *e}
		if inModule[e.ID] {
			mm.InModule = 1
		}
		d.Members = append(d.Members, mm)
	}
	d.Employees = assigned
	if d.ModuleCost, err = s.moduleCost(ctx, s.store, m, cost.Precise); err != nil {
		return nil, err
	}
	return d, nil
}
