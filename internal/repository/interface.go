package repository

import (
	"context"

	"github.com/costmanagement/backend/internal/model"
	"github.com/shopspring/decimal"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// Store はリポジトリ群とトランザクション境界をまとめて注入するためのインターフェース
type Store interface {
	Projects() ProjectRepository
	Modules() ModuleRepository
	Employees() EmployeeRepository
	Events() EventRepository
	// InTx runs fn against a transaction-scoped Store: all writes made through
	// it commit together when fn returns nil, and roll back otherwise.
	InTx(ctx context.Context, fn func(Store) error) error
	// Parallelism is the number of concurrent lookups the store tolerates.
	Parallelism() int
}

// ProjectRepository はプロジェクトとプロジェクトメンバーの永続化
type ProjectRepository interface {
	List(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	GetByName(ctx context.Context, name string) (*model.Project, error)
	Create(ctx context.Context, project *model.Project) error
	// AddCost increments the running total by delta.
	AddCost(ctx context.Context, id int64, delta decimal.Decimal) error
	AddMember(ctx context.Context, member *model.ProjectMember) error
	IsMember(ctx context.Context, projectID, employeeID int64) (bool, error)
	ListMembers(ctx context.Context, projectID int64) ([]*model.Employee, error)
}

// ModuleRepository はモジュールとモジュールアサインの永続化
type ModuleRepository interface {
	List(ctx context.Context) ([]*model.Module, error)
	GetByID(ctx context.Context, id int64) (*model.Module, error)
	ListByProject(ctx context.Context, projectID int64) ([]*model.Module, error)
	ExistsByName(ctx context.Context, projectID int64, name string) (bool, error)
	Create(ctx context.Context, module *model.Module) error
	ListAssignments(ctx context.Context, moduleID int64) ([]*model.Assignment, error)
	IsAssigned(ctx context.Context, moduleID, employeeID int64) (bool, error)
	Assign(ctx context.Context, a *model.Assignment) error
	ListEmployees(ctx context.Context, moduleID int64) ([]*model.Employee, error)
}

// EmployeeRepository は従業員とロール表の永続化
type EmployeeRepository interface {
	List(ctx context.Context) ([]*model.Employee, error)
	GetByID(ctx context.Context, id int64) (*model.Employee, error)
	Create(ctx context.Context, employee *model.Employee) error
	ListRoles(ctx context.Context) ([]*model.Role, error)
	GetRole(ctx context.Context, id int64) (*model.Role, error)
}

// EventRepository はイベントとイベントアサインの永続化
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	IsAssigned(ctx context.Context, eventID, employeeID int64) (bool, error)
	Assign(ctx context.Context, eventID, employeeID int64) error
}
