package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/costmanagement/backend/internal/model"
	"github.com/costmanagement/backend/internal/repository"
)

// EmployeeService は従業員とロール表のビジネスロジック
type EmployeeService interface {
	List(ctx context.Context) ([]*model.Employee, error)
	Create(ctx context.Context, employee *model.Employee) error
	Roles(ctx context.Context) ([]*model.Role, error)
}

// EmployeeServiceImpl は EmployeeService の実装
type EmployeeServiceImpl struct {
	repo repository.EmployeeRepository
}

// NewEmployeeService は EmployeeServiceImpl を生成する
func NewEmployeeService(repo repository.EmployeeRepository) EmployeeService {
	return &EmployeeServiceImpl{repo: repo}
}

func (s *EmployeeServiceImpl) List(ctx context.Context) ([]*model.Employee, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*model.Employee{}
	}
	return list, nil
}

// Create は従業員を登録する。役職は自由記述かロール ID のどちらかが必要。
// ロール ID が指定された場合はロール名を Position に反映する。
func (s *EmployeeServiceImpl) Create(ctx context.Context, employee *model.Employee) error {
	employee.Name = strings.TrimSpace(employee.Name)
	employee.Position = strings.TrimSpace(employee.Position)
	switch {
	case employee.Name == "":
		return fmt.Errorf("%w: employee name is required", ErrInvalidInput)
	case employee.Position == "" && employee.RoleID == nil:
		return fmt.Errorf("%w: position or role id is required", ErrInvalidInput)
	case employee.Cost.IsNegative():
		return fmt.Errorf("%w: daily cost must not be negative", ErrInvalidInput)
	}
	if employee.RoleID != nil {
		role, err := s.repo.GetRole(ctx, *employee.RoleID)
		if err != nil {
			return fmt.Errorf("role %d: %w", *employee.RoleID, err)
		}
		employee.Position = ""
		if err := s.repo.Create(ctx, employee); err != nil {
			return err
		}
		employee.Position = role.Name
		return nil
	}
	return s.repo.Create(ctx, employee)
}

func (s *EmployeeServiceImpl) Roles(ctx context.Context) ([]*model.Role, error) {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []*model.Role{}
	}
	return roles, nil
}
