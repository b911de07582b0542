package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/costmanagement/backend/internal/model"
	"github.com/shopspring/decimal"
)

type pgProjectRepository struct {
	db querier
}

const projectSelectCols = `project_id, project_name, project_start, project_end, project_status, project_cost`

func scanProject(scan func(...any) error) (*model.Project, error) {
	p := &model.Project{}
	return p, scan(&p.ID, &p.Name, &p.Start, &p.End, &p.Status, &p.Cost)
}

// List はプロジェクト一覧を取得する。ID 指定が名前の部分一致より優先される。
func (r *pgProjectRepository) List(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error) {
	query := `SELECT ` + projectSelectCols + ` FROM projects`
	var args []any
	switch {
	case filter.ID != nil:
		query += ` WHERE project_id = $1`
		args = append(args, *filter.ID)
	case strings.TrimSpace(filter.Name) != "":
		query += ` WHERE project_name ILIKE '%' || $1 || '%'`
		args = append(args, strings.TrimSpace(filter.Name))
	}
	query += ` ORDER BY project_start, project_id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetByID は ID でプロジェクトを取得する
func (r *pgProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	row := r.db.QueryRow(ctx, `SELECT `+projectSelectCols+` FROM projects WHERE project_id = $1`, id)
	p, err := scanProject(row.Scan)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// GetByName は名前の完全一致でプロジェクトを取得する
func (r *pgProjectRepository) GetByName(ctx context.Context, name string) (*model.Project, error) {
	row := r.db.QueryRow(ctx, `SELECT `+projectSelectCols+` FROM projects WHERE project_name = $1`, name)
	p, err := scanProject(row.Scan)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// Create はプロジェクトを作成する。名前が重複する場合は ErrDuplicate を返す。
func (r *pgProjectRepository) Create(ctx context.Context, project *model.Project) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO projects (project_name, project_start, project_end, project_status, project_cost)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING project_id`,
		project.Name, project.Start, project.End, project.Status, project.Cost,
	).Scan(&project.ID)
	return translate(err)
}

// AddCost はランニングトータルに delta を加算する
func (r *pgProjectRepository) AddCost(ctx context.Context, id int64, delta decimal.Decimal) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE projects SET project_cost = project_cost + $1::numeric WHERE project_id = $2`,
		delta, id,
	)
	if err != nil {
		return fmt.Errorf("add project cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMember は従業員をプロジェクトにアサインする。既存の場合は ErrDuplicate。
func (r *pgProjectRepository) AddMember(ctx context.Context, member *model.ProjectMember) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO project_employees (project_id, employee_id)
		 VALUES ($1, $2)
		 RETURNING project_employee_id`,
		member.ProjectID, member.EmployeeID,
	).Scan(&member.ID)
	return translate(err)
}

func (r *pgProjectRepository) IsMember(ctx context.Context, projectID, employeeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM project_employees WHERE project_id = $1 AND employee_id = $2)`,
		projectID, employeeID,
	).Scan(&exists)
	return exists, err
}

// ListMembers はプロジェクトにアサインされた従業員を返す
func (r *pgProjectRepository) ListMembers(ctx context.Context, projectID int64) ([]*model.Employee, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+employeeSelectCols+`
		 FROM employees e
		 JOIN project_employees pe ON pe.employee_id = e.employee_id
		 LEFT JOIN roles ro ON ro.role_id = e.role_id
		 WHERE pe.project_id = $1
		 ORDER BY e.employee_id`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	return collectEmployees(rows)
}
