package handler

import (
	"net/http"

	"github.com/costmanagement/backend/internal/model"
	"github.com/costmanagement/backend/internal/service"
)

// ProjectHandler はプロジェクトとマスターデータの HTTP ハンドラ
type ProjectHandler struct {
	projectService service.ProjectService
	costService    service.CostService
}

// NewProjectHandler は ProjectHandler を生成する
func NewProjectHandler(projectService service.ProjectService, costService service.CostService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, costService: costService}
}

type createProjectRequest struct {
	Name   string `json:"name"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Status int    `json:"status"`
}

type addMemberRequest struct {
	EmployeeID int64 `json:"employee_id"`
}

// List は GET /api/projects を処理する。?id= が ?name= より優先される。
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := queryProjectFilter(r, "id", "name")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	projects, err := h.projectService.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Projects retrieved", projects)
}

// Create は POST /api/projects を処理する
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	start, err := parseDate("start", req.Start)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	end, err := parseDate("end", req.End)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	project := &model.Project{Name: req.Name, Start: start, End: end, Status: req.Status}
	if err := h.projectService.Create(r.Context(), project); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Project created", project)
}

// Cost は GET /api/projects/{id}/cost を処理する。全モジュールから再計算する。
func (h *ProjectHandler) Cost(w http.ResponseWriter, r *http.Request) {
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
	total, err := h.costService.RecomputeProjectCost(r.Context(), id, p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Project cost computed", map[string]any{
		"project_id": id,
		"precision":  p.String(),
		"cost":       total,
	})
}

// AddMember は POST /api/projects/{id}/employees を処理する。重複は 409。
func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	member, err := h.projectService.AddMember(r.Context(), id, req.EmployeeID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Employee added to project", member)
}

// Master は GET /api/master を処理する。?project_id= が ?project_name= より優先される。
func (h *ProjectHandler) Master(w http.ResponseWriter, r *http.Request) {
	filter, err := queryProjectFilter(r, "project_id", "project_name")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	tree, err := h.projectService.MasterData(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Master data retrieved", tree)
}
