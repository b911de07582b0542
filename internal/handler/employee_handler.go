package handler

import (
	"net/http"

	"github.com/costmanagement/backend/internal/model"
	"github.com/costmanagement/backend/internal/service"
	"github.com/shopspring/decimal"
)

// EmployeeHandler は従業員とロールの HTTP ハンドラ
type EmployeeHandler struct {
	employeeService service.EmployeeService
}

// NewEmployeeHandler は EmployeeHandler を生成する
func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

type createEmployeeRequest struct {
	Name     string          `json:"name"`
	Position string          `json:"position"`
	RoleID   *int64          `json:"role_id"`
	Cost     decimal.Decimal `json:"cost"`
}

// List は GET /api/employees を処理する
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.employeeService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Employees retrieved", list)
}

// Create は POST /api/employees を処理する
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	e := &model.Employee{Name: req.Name, Position: req.Position, RoleID: req.RoleID, Cost: req.Cost}
	if err := h.employeeService.Create(r.Context(), e); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Employee created", e)
}

// Roles は GET /api/roles を処理する
func (h *EmployeeHandler) Roles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.employeeService.Roles(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Roles retrieved", roles)
}
