package repository

import (
	"context"

	"github.com/costmanagement/backend/internal/model"
)

type pgEventRepository struct {
	db querier
}

// Create はイベントを作成する
func (r *pgEventRepository) Create(ctx context.Context, event *model.Event) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO events (event_title, event_description, event_start, event_end, project_id)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5)
		 RETURNING event_id`,
		event.Title, event.Description, event.Start, event.End, event.ProjectID,
	).Scan(&event.ID)
	return translate(err)
}

func (r *pgEventRepository) IsAssigned(ctx context.Context, eventID, employeeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM event_employees WHERE event_id = $1 AND employee_id = $2)`,
		eventID, employeeID,
	).Scan(&exists)
	return exists, err
}

func (r *pgEventRepository) Assign(ctx context.Context, eventID, employeeID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO event_employees (event_id, employee_id) VALUES ($1, $2)`,
		eventID, employeeID,
	)
	return translate(err)
}
