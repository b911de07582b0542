package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/costmanagement/backend/internal/model"
	"github.com/costmanagement/backend/internal/service"
)

// ModuleHandler はモジュール作成・アサイン・コスト照会の HTTP ハンドラ
type ModuleHandler struct {
	costService    service.CostService
	projectService service.ProjectService
}

// NewModuleHandler は ModuleHandler を生成する
func NewModuleHandler(costService service.CostService, projectService service.ProjectService) *ModuleHandler {
	return &ModuleHandler{costService: costService, projectService: projectService}
}

type createModuleRequest struct {
	Name        string  `json:"name"`
	AddDate     string  `json:"add_date"`
	DueDate     string  `json:"due_date"`
	ProjectID   int64   `json:"project_id"`
	EmployeeIDs []int64 `json:"employee_ids"`
	Active      *bool   `json:"module_active"`
}

type employeeIDsRequest struct {
	EmployeeIDs []int64 `json:"employee_ids"`
}

// Create は POST /api/modules を処理する
func (h *ModuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createModuleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	add, err := parseDate("add_date", req.AddDate)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out, err := h.costService.CreateModule(r.Context(), model.ModuleInput{
		Name:        req.Name,
		AddDate:     add,
		DueDate:     due,
		ProjectID:   req.ProjectID,
		EmployeeIDs: req.EmployeeIDs,
		Active:      req.Active,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Module created", out)
}

// AddEmployees は POST /api/modules/{id}/employees を処理する。
// プロジェクト外・アサイン済みの従業員は skipped に入り、エラーにはならない。
func (h *ModuleHandler) AddEmployees(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req employeeIDsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	out, err := h.costService.AssignEmployees(r.Context(), id, req.EmployeeIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Employees added to module", out)
}

// List は GET /api/modules を処理する
func (h *ModuleHandler) List(w http.ResponseWriter, r *http.Request) {
	modules, err := h.projectService.Modules(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Modules retrieved", modules)
}

// Cost は GET /api/modules/{id}/cost を処理する
func (h *ModuleHandler) Cost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	p, err := queryPrecision(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	total, err := h.costService.ModuleCost(r.Context(), id, p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Module cost computed", map[string]any{
		"module_id": id,
		"precision": p.String(),
		"cost":      total,
	})
}

// Detail は GET /api/modules/detail を処理する
func (h *ModuleHandler) Detail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := service.ModuleDetailQuery{
		ProjectName: q.Get("project_name"),
		ModuleName:  q.Get("module_name"),
	}
	if raw := q.Get("project_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeServiceError(w, r, fmt.Errorf("%w: invalid project_id", service.ErrInvalidInput))
			return
		}
		query.ProjectID = &id
	}

	out, err := h.projectService.ModuleDetail(r.Context(), query)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Module detail retrieved", out)
}
