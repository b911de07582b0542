package repository

import (
	"context"

	"github.com/costmanagement/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

type pgEmployeeRepository struct {
	db querier
}

// employeeSelectCols resolves the position from the role table when a role
// is referenced, falling back to the free-text column.
const employeeSelectCols = `e.employee_id, e.employee_name,
	COALESCE(ro.role_name, e.employee_position, ''), e.role_id, e.employee_cost`

func scanEmployee(scan func(...any) error) (*model.Employee, error) {
	e := &model.Employee{}
	return e, scan(&e.ID, &e.Name, &e.Position, &e.RoleID, &e.Cost)
}

func collectEmployees(rows pgx.Rows) ([]*model.Employee, error) {
	defer rows.Close()
	var list []*model.Employee
	for rows.Next() {
		e, err := scanEmployee(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *pgEmployeeRepository) List(ctx context.Context) ([]*model.Employee, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+employeeSelectCols+`
		 FROM employees e LEFT JOIN roles ro ON ro.role_id = e.role_id
		 ORDER BY e.employee_id`)
	if err != nil {
		return nil, err
	}
	return collectEmployees(rows)
}

// GetByID は従業員を取得する。存在しない場合は ErrNotFound。
func (r *pgEmployeeRepository) GetByID(ctx context.Context, id int64) (*model.Employee, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+employeeSelectCols+`
		 FROM employees e LEFT JOIN roles ro ON ro.role_id = e.role_id
		 WHERE e.employee_id = $1`, id)
	e, err := scanEmployee(row.Scan)
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

// Create は従業員を作成する。Position と RoleID はどちらか一方でよい。
func (r *pgEmployeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO employees (employee_name, employee_position, role_id, employee_cost)
		 VALUES ($1, NULLIF($2, ''), $3, $4)
		 RETURNING employee_id`,
		employee.Name, employee.Position, employee.RoleID, employee.Cost,
	).Scan(&employee.ID)
	return translate(err)
}

func (r *pgEmployeeRepository) ListRoles(ctx context.Context) ([]*model.Role, error) {
	rows, err := r.db.Query(ctx, `SELECT role_id, role_name FROM roles ORDER BY role_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*model.Role
	for rows.Next() {
		ro := &model.Role{}
		if err := rows.Scan(&ro.ID, &ro.Name); err != nil {
			return nil, err
		}
		roles = append(roles, ro)
	}
	return roles, rows.Err()
}

func (r *pgEmployeeRepository) GetRole(ctx context.Context, id int64) (*model.Role, error) {
	ro := &model.Role{}
	err := r.db.QueryRow(ctx, `SELECT role_id, role_name FROM roles WHERE role_id = $1`, id).Scan(&ro.ID, &ro.Name)
	if err != nil {
		return nil, translate(err)
	}
	return ro, nil
}
