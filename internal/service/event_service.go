package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/costmanagement/backend/internal/model"
	"github.com/costmanagement/backend/internal/repository"
)

// EventService はイベント作成を扱う。イベントはコスト集計の対象外。
type EventService interface {
	Create(ctx context.Context, in model.EventInput) (*model.EventCreated, error)
}

// EventServiceImpl は EventService の実装
type EventServiceImpl struct {
	store repository.Store
}

// NewEventService は EventServiceImpl を生成する
func NewEventService(store repository.Store) EventService {
	return &EventServiceImpl{store: store}
}

// Create inserts the event and assigns the employees in one transaction,
// skipping employees outside the project or already on the event.
func (s *EventServiceImpl) Create(ctx context.Context, in model.EventInput) (*model.EventCreated, error) {
	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.Title == "":
		return nil, fmt.Errorf("%w: event title is required", ErrInvalidInput)
	case in.ProjectID <= 0:
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	case in.Start.IsZero() || in.End.IsZero():
		return nil, fmt.Errorf("%w: event start and end are required", ErrInvalidInput)
	case in.End.Before(in.Start):
		return nil, fmt.Errorf("%w: event end is before start", ErrInvalidInput)
	case len(in.EmployeeIDs) == 0:
		return nil, fmt.Errorf("%w: at least one employee id is required", ErrInvalidInput)
	}

	var out *model.EventCreated
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Projects().GetByID(ctx, in.ProjectID); err != nil {
			return fmt.Errorf("project %d: %w", in.ProjectID, err)
		}
		event := &model.Event{
			Title:       in.Title,
			Description: in.Description,
			Start:       in.Start,
			End:         in.End,
			ProjectID:   in.ProjectID,
		}
		if err := tx.Events().Create(ctx, event); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		res, err := assignBatch(ctx, EventCreatePolicy, in.EmployeeIDs, batchTarget{
			isProjectMember: func(ctx context.Context, id int64) (bool, error) {
				return tx.Projects().IsMember(ctx, in.ProjectID, id)
			},
			isAssigned: func(ctx context.Context, id int64) (bool, error) {
				return tx.Events().IsAssigned(ctx, event.ID, id)
			},
			assign: func(ctx context.Context, id int64) error {
				return tx.Events().Assign(ctx, event.ID, id)
			},
		})
		if err != nil {
			return err
		}
		out = &model.EventCreated{Event: event, Assignment: res}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
