package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project は原価管理対象のプロジェクト
type Project struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Start  time.Time       `json:"start"`
	End    time.Time       `json:"end"`
	Status int             `json:"status"`
	Cost   decimal.Decimal `json:"cost"` // モジュール作成・更新時に加算されるランニングトータル

	// Transient: master data / list responses
	Modules   []*Module   `json:"modules,omitempty"`
	Employees []*Employee `json:"employees,omitempty"`
}

// ProjectFilter は一覧取得の絞り込み条件。ID が優先される。
type ProjectFilter struct {
	ID   *int64
	Name string // 部分一致
}

// ProjectMember はプロジェクトへの従業員アサイン
type ProjectMember struct {
	ID         int64 `json:"project_employee_id"`
	EmployeeID int64 `json:"employee_id"`
	ProjectID  int64 `json:"project_id"`
}
