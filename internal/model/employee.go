package model

import "github.com/shopspring/decimal"

// Employee は日額コストを持つ従業員。
// 役職は自由記述 (Position) またはロール表への参照 (RoleID) のどちらでもよい。
// RoleID が設定されている場合、リポジトリはロール名を Position に解決して返す。
type Employee struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Position string          `json:"position"`
	RoleID   *int64          `json:"role_id,omitempty"`
	Cost     decimal.Decimal `json:"cost"`
}

// Role is an entry of the role lookup table.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
