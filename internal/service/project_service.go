package service

import (
	"context"

	"github.com/costmanagement/backend/internal/model"
)

// ProjectService はプロジェクトに関するビジネスロジックのインターフェース
type ProjectService interface {
	List(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error)
	Create(ctx context.Context, project *model.Project) error
	AddMember(ctx context.Context, projectID, employeeID int64) (*model.ProjectMember, error)
	MasterData(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error)
	Modules(ctx context.Context) ([]*model.Module, error)
	ModuleDetail(ctx context.Context, q ModuleDetailQuery) (*model.ProjectModules, error)
}

// ModuleDetailQuery selects a project by id or exact name, optionally
// narrowed to one module.
type ModuleDetailQuery struct {
	ProjectID   *int64
	ProjectName string
	ModuleName  string
}
