package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/costmanagement/backend/internal/cost"
	"github.com/costmanagement/backend/internal/model"
	"github.com/costmanagement/backend/internal/service"
	"github.com/shopspring/decimal"
)

// --- service mocks ----------------------------------------------------------

type mockProjectService struct {
	listFunc         func(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error)
	createFunc       func(ctx context.Context, project *model.Project) error
	addMemberFunc    func(ctx context.Context, projectID, employeeID int64) (*model.ProjectMember, error)
	masterDataFunc   func(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error)
	modulesFunc      func(ctx context.Context) ([]*model.Module, error)
	moduleDetailFunc func(ctx context.Context, q service.ModuleDetailQuery) (*model.ProjectModules, error)
}

func (m *mockProjectService) List(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return []*model.Project{}, nil
}

func (m *mockProjectService) Create(ctx context.Context, project *model.Project) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, project)
	}
	return nil
}

func (m *mockProjectService) AddMember(ctx context.Context, projectID, employeeID int64) (*model.ProjectMember, error) {
	if m.addMemberFunc != nil {
		return m.addMemberFunc(ctx, projectID, employeeID)
	}
	return &model.ProjectMember{ProjectID: projectID, EmployeeID: employeeID}, nil
}

func (m *mockProjectService) MasterData(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error) {
	if m.masterDataFunc != nil {
		return m.masterDataFunc(ctx, filter)
	}
	return []*model.Project{}, nil
}

func (m *mockProjectService) Modules(ctx context.Context) ([]*model.Module, error) {
	if m.modulesFunc != nil {
		return m.modulesFunc(ctx)
	}
	return []*model.Module{}, nil
}

func (m *mockProjectService) ModuleDetail(ctx context.Context, q service.ModuleDetailQuery) (*model.ProjectModules, error) {
	if m.moduleDetailFunc != nil {
		return m.moduleDetailFunc(ctx, q)
	}
	return nil, service.ErrNotFound
}

type mockCostService struct {
	moduleCostFunc      func(ctx context.Context, moduleID int64, p cost.Precision) (decimal.Decimal, error)
	assignEmployeesFunc func(ctx context.Context, moduleID int64, ids []int64) (*model.ModuleEmployees, error)
	createModuleFunc    func(ctx context.Context, in model.ModuleInput) (*model.ModuleCreated, error)
	recomputeFunc       func(ctx context.Context, projectID int64, p cost.Precision) (decimal.Decimal, error)
}

func (m *mockCostService) ModuleCost(ctx context.Context, moduleID int64, p cost.Precision) (decimal.Decimal, error) {
	if m.moduleCostFunc != nil {
		return m.moduleCostFunc(ctx, moduleID, p)
	}
	return decimal.Zero, nil
}

func (m *mockCostService) AssignEmployees(ctx context.Context, moduleID int64, ids []int64) (*model.ModuleEmployees, error) {
	if m.assignEmployeesFunc != nil {
		return m.assignEmployeesFunc(ctx, moduleID, ids)
	}
	return &model.ModuleEmployees{}, nil
}

func (m *mockCostService) CreateModule(ctx context.Context, in model.ModuleInput) (*model.ModuleCreated, error) {
	if m.createModuleFunc != nil {
		return m.createModuleFunc(ctx, in)
	}
	return &model.ModuleCreated{}, nil
}

func (m *mockCostService) RecomputeProjectCost(ctx context.Context, projectID int64, p cost.Precision) (decimal.Decimal, error) {
	if m.recomputeFunc != nil {
		return m.recomputeFunc(ctx, projectID, p)
	}
	return decimal.Zero, nil
}

type mockEmployeeService struct {
	listFunc   func(ctx context.Context) ([]*model.Employee, error)
	createFunc func(ctx context.Context, e *model.Employee) error
	rolesFunc  func(ctx context.Context) ([]*model.Role, error)
}

func (m *mockEmployeeService) List(ctx context.Context) ([]*model.Employee, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []*model.Employee{}, nil
}

func (m *mockEmployeeService) Create(ctx context.Context, e *model.Employee) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, e)
	}
	return nil
}

func (m *mockEmployeeService) Roles(ctx context.Context) ([]*model.Role, error) {
	if m.rolesFunc != nil {
		return m.rolesFunc(ctx)
	}
	return []*model.Role{}, nil
}

type mockEventService struct {
	createFunc func(ctx context.Context, in model.EventInput) (*model.EventCreated, error)
}

func (m *mockEventService) Create(ctx context.Context, in model.EventInput) (*model.EventCreated, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return &model.EventCreated{}, nil
}

type mockChartService struct {
	rollupFunc func(ctx context.Context, p cost.Precision) ([]*model.ChartYear, error)
}

func (m *mockChartService) Rollup(ctx context.Context, p cost.Precision) ([]*model.ChartYear, error) {
	if m.rollupFunc != nil {
		return m.rollupFunc(ctx, p)
	}
	return []*model.ChartYear{}, nil
}

// --- helpers ----------------------------------------------------------------

// newTestRouter は未指定のサービスをデフォルトのモックで埋めたルーターを返す
func newTestRouter(svc Services) http.Handler {
	if svc.Project == nil {
		svc.Project = &mockProjectService{}
	}
	if svc.Cost == nil {
		svc.Cost = &mockCostService{}
	}
	if svc.Employee == nil {
		svc.Employee = &mockEmployeeService{}
	}
	if svc.Event == nil {
		svc.Event = &mockEventService{}
	}
	if svc.Chart == nil {
		svc.Chart = &mockChartService{}
	}
	return NewRouter(&mockDB{}, svc, RouterConfig{FrontendURL: "http://localhost:3000", RateLimitPerMinute: 1000})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- router-level behaviour -------------------------------------------------

func TestRouter_RequestIDHeader(t *testing.T) {
	h := newTestRouter(Services{})

	rec := do(t, h, "GET", "/api/health", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("expected incoming request id to be reused, got %q", got)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	rec := do(t, newTestRouter(Services{}), "GET", "/api/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if body := decodeEnvelope(t, rec); body.Status != statusError {
		t.Errorf("expected error envelope, got %+v", body)
	}
}

func TestRouter_Metrics(t *testing.T) {
	h := newTestRouter(Services{})
	do(t, h, "GET", "/api/employees", "")

	rec := do(t, h, "GET", "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "costmanagement_http_requests_total") {
		t.Error("expected request counter in metrics output")
	}
}

func TestRouter_WriteRoutesRateLimited(t *testing.T) {
	h := NewRouter(&mockDB{}, Services{
		Project:  &mockProjectService{},
		Cost:     &mockCostService{},
		Employee: &mockEmployeeService{},
		Event:    &mockEventService{},
		Chart:    &mockChartService{},
	}, RouterConfig{FrontendURL: "http://localhost:3000", RateLimitPerMinute: 1})

	body := `{"name":"A","position":"Dev","cost":1}`
	if rec := do(t, h, "POST", "/api/employees", body); rec.Code != http.StatusCreated {
		t.Fatalf("first write: expected 201, got %d", rec.Code)
	}
	if rec := do(t, h, "POST", "/api/employees", body); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second write: expected 429, got %d", rec.Code)
	}
	// 読み取り系は制限されない
	for i := 0; i < 3; i++ {
		if rec := do(t, h, "GET", "/api/employees", ""); rec.Code != http.StatusOK {
			t.Errorf("read %d: expected 200, got %d", i, rec.Code)
		}
	}
}
