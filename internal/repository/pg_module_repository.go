package repository

import (
	"context"

	"github.com/costmanagement/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

type pgModuleRepository struct {
	db querier
}

const moduleSelectCols = `module_id, module_name, module_add_date, module_due_date, project_id, module_active`

func scanModule(scan func(...any) error) (*model.Module, error) {
	m := &model.Module{}
	return m, scan(&m.ID, &m.Name, &m.AddDate, &m.DueDate, &m.ProjectID, &m.Active)
}

func (r *pgModuleRepository) GetByID(ctx context.Context, id int64) (*model.Module, error) {
	row := r.db.QueryRow(ctx, `SELECT `+moduleSelectCols+` FROM modules WHERE module_id = $1`, id)
	m, err := scanModule(row.Scan)
	if err != nil {
		return nil, translate(err)
	}
	return m, nil
}

// List は全プロジェクトのモジュールを返す
func (r *pgModuleRepository) List(ctx context.Context) ([]*model.Module, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+moduleSelectCols+` FROM modules ORDER BY project_id, module_add_date, module_id`)
	if err != nil {
		return nil, err
	}
	return collectModules(rows)
}

func (r *pgModuleRepository) ListByProject(ctx context.Context, projectID int64) ([]*model.Module, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+moduleSelectCols+` FROM modules WHERE project_id = $1 ORDER BY module_add_date, module_id`,
		projectID)
	if err != nil {
		return nil, err
	}
	return collectModules(rows)
}

func collectModules(rows pgx.Rows) ([]*model.Module, error) {
	defer rows.Close()

	var modules []*model.Module
	for rows.Next() {
		m, err := scanModule(rows.Scan)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

func (r *pgModuleRepository) ExistsByName(ctx context.Context, projectID int64, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM modules WHERE project_id = $1 AND module_name = $2)`,
		projectID, name,
	).Scan(&exists)
	return exists, err
}

// Create はモジュールを作成する。同一プロジェクト内で名前が重複する場合は ErrDuplicate。
func (r *pgModuleRepository) Create(ctx context.Context, module *model.Module) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO modules (module_name, module_add_date, module_due_date, project_id, module_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING module_id`,
		module.Name, module.AddDate, module.DueDate, module.ProjectID, module.Active,
	).Scan(&module.ID)
	return translate(err)
}

// ListAssignments はモジュールのアサイン一覧（個別の日付窓を含む）を返す
func (r *pgModuleRepository) ListAssignments(ctx context.Context, moduleID int64) ([]*model.Assignment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT employee_id, module_id, add_date, due_date
		 FROM module_employees WHERE module_id = $1 ORDER BY employee_id`,
		moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Assignment
	for rows.Next() {
		a := &model.Assignment{}
		if err := rows.Scan(&a.EmployeeID, &a.ModuleID, &a.AddDate, &a.DueDate); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *pgModuleRepository) IsAssigned(ctx context.Context, moduleID, employeeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM module_employees WHERE module_id = $1 AND employee_id = $2)`,
		moduleID, employeeID,
	).Scan(&exists)
	return exists, err
}

// Assign はアサインを追加する。同じ組み合わせが既にある場合は ErrDuplicate。
func (r *pgModuleRepository) Assign(ctx context.Context, a *model.Assignment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO module_employees (module_id, employee_id, add_date, due_date)
		 VALUES ($1, $2, $3, $4)`,
		a.ModuleID, a.EmployeeID, a.AddDate, a.DueDate,
	)
	return translate(err)
}

func (r *pgModuleRepository) ListEmployees(ctx context.Context, moduleID int64) ([]*model.Employee, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+employeeSelectCols+`
		 FROM employees e
		 JOIN module_employees me ON me.employee_id = e.employee_id
		 LEFT JOIN roles ro ON ro.role_id = e.role_id
		 WHERE me.module_id = $1
		 ORDER BY e.employee_id`,
		moduleID)
	if err != nil {
		return nil, err
	}
	return collectEmployees(rows)
}
