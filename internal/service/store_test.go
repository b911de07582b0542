package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/costmanagement/backend/internal/model"
	"github.com/costmanagement/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// memStore is an in-memory repository.Store with copy-on-transaction semantics
// ---------------------------------------------------------------------------

type pair struct{ a, b int64 }

type memData struct {
	nextID       int64
	projects     map[int64]*model.Project
	members      map[pair]int64 // (project, employee) → project_employee_id
	employees    map[int64]*model.Employee
	roles        map[int64]*model.Role
	modules      map[int64]*model.Module
	assignments  map[int64][]*model.Assignment // module → assignments
	events       map[int64]*model.Event
	eventMembers map[pair]bool
}

func newMemData() *memData {
	return &memData{
		projects:     make(map[int64]*model.Project),
		members:      make(map[pair]int64),
		employees:    make(map[int64]*model.Employee),
		roles:        make(map[int64]*model.Role),
		modules:      make(map[int64]*model.Module),
		assignments:  make(map[int64][]*model.Assignment),
		events:       make(map[int64]*model.Event),
		eventMembers: make(map[pair]bool),
	}
}

func (d *memData) clone() *memData {
	c := newMemData()
	c.nextID = d.nextID
	for k, v := range d.projects {
		p := *v
		c.projects[k] = &p
	}
	for k, v := range d.members {
		c.members[k] = v
	}
	for k, v := range d.employees {
		e := *v
		c.employees[k] = &e
	}
	for k, v := range d.roles {
		c.roles[k] = v
	}
	for k, v := range d.modules {
		c.modules[k] = v
	}
	for k, v := range d.assignments {
		c.assignments[k] = append([]*model.Assignment(nil), v...)
	}
	for k, v := range d.events {
		c.events[k] = v
	}
	for k, v := range d.eventMembers {
		c.eventMembers[k] = v
	}
	return c
}

type memStore struct {
	mu   *sync.Mutex
	data *memData
	inTx bool

	// fault injection
	employeeErr error // returned by Employees().GetByID
	addCostErr  error // returned by Projects().AddCost
	txCount     int
}

func newMemStore() *memStore {
	return &memStore{mu: &sync.Mutex{}, data: newMemData()}
}

func (s *memStore) Projects() repository.ProjectRepository   { return memProjects{s} }
func (s *memStore) Modules() repository.ModuleRepository     { return memModules{s} }
func (s *memStore) Employees() repository.EmployeeRepository { return memEmployees{s} }
func (s *memStore) Events() repository.EventRepository       { return memEvents{s} }
func (s *memStore) Parallelism() int {
	if s.inTx {
		return 1
	}
	return 4
}

func (s *memStore) InTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	s.txCount++
	snapshot := s.data.clone()
	s.mu.Unlock()

	tx := &memStore{mu: s.mu, data: snapshot, inTx: true, employeeErr: s.employeeErr, addCostErr: s.addCostErr}
	if err := fn(tx); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = snapshot
	s.mu.Unlock()
	return nil
}

func (s *memStore) id() int64 {
	s.data.nextID++
	return s.data.nextID
}

// --- seed helpers -----------------------------------------------------------

func (s *memStore) seedProject(name string, start, end string) *model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &model.Project{ID: s.id(), Name: name, Start: mustDate(start), End: mustDate(end), Cost: decimal.Zero}
	s.data.projects[p.ID] = p
	return p
}

func (s *memStore) seedEmployee(name string, rate int64) *model.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &model.Employee{ID: s.id(), Name: name, Position: "Developer", Cost: decimal.NewFromInt(rate)}
	s.data.employees[e.ID] = e
	return e
}

func (s *memStore) seedMember(projectID, employeeID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.members[pair{projectID, employeeID}] = s.id()
}

func (s *memStore) seedModule(projectID int64, name, add, due string, employeeIDs ...int64) *model.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &model.Module{ID: s.id(), Name: name, AddDate: mustDate(add), DueDate: mustDate(due), ProjectID: projectID, Active: true}
	s.data.modules[m.ID] = m
	for _, e := range employeeIDs {
		s.data.assignments[m.ID] = append(s.data.assignments[m.ID], &model.Assignment{EmployeeID: e, ModuleID: m.ID})
	}
	return m
}

func (s *memStore) project(id int64) *model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *s.data.projects[id]
	return &p
}

func (s *memStore) assignmentCount(moduleID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.assignments[moduleID])
}

func (s *memStore) moduleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.modules)
}

// --- projects ---------------------------------------------------------------

type memProjects struct{ s *memStore }

func (r memProjects) List(_ context.Context, f model.ProjectFilter) ([]*model.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Project
	for _, p := range r.s.data.projects {
		if f.ID != nil && p.ID != *f.ID {
			continue
		}
		if f.ID == nil && f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memProjects) GetByID(_ context.Context, id int64) (*model.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r memProjects) GetByName(_ context.Context, name string) (*model.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.data.projects {
		if p.Name == name {
			c := *p
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memProjects) Create(_ context.Context, project *model.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.data.projects {
		if p.Name == project.Name {
			return repository.ErrDuplicate
		}
	}
	project.ID = r.s.id()
	c := *project
	r.s.data.projects[project.ID] = &c
	return nil
}

func (r memProjects) AddCost(_ context.Context, id int64, delta decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.addCostErr != nil {
		return r.s.addCostErr
	}
	p, ok := r.s.data.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Cost = p.Cost.Add(delta)
	return nil
}

func (r memProjects) AddMember(_ context.Context, m *model.ProjectMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := pair{m.ProjectID, m.EmployeeID}
	if _, ok := r.s.data.members[k]; ok {
		return repository.ErrDuplicate
	}
	m.ID = r.s.id()
	r.s.data.members[k] = m.ID
	return nil
}

func (r memProjects) IsMember(_ context.Context, projectID, employeeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.data.members[pair{projectID, employeeID}]
	return ok, nil
}

func (r memProjects) ListMembers(_ context.Context, projectID int64) ([]*model.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Employee
	for k := range r.s.data.members {
		if k.a == projectID {
			if e, ok := r.s.data.employees[k.b]; ok {
				c := *e
				out = append(out, &c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- modules ----------------------------------------------------------------

type memModules struct{ s *memStore }

func (r memModules) GetByID(_ context.Context, id int64) (*model.Module, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.data.modules[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (r memModules) List(_ context.Context) ([]*model.Module, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.Module, 0, len(r.s.data.modules))
	for _, m := range r.s.data.modules {
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProjectID != out[j].ProjectID {
			return out[i].ProjectID < out[j].ProjectID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memModules) ListByProject(_ context.Context, projectID int64) ([]*model.Module, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Module
	for _, m := range r.s.data.modules {
		if m.ProjectID == projectID {
			c := *m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memModules) ExistsByName(_ context.Context, projectID int64, name string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.data.modules {
		if m.ProjectID == projectID && m.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r memModules) Create(_ context.Context, module *model.Module) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	module.ID = r.s.id()
	c := *module
	r.s.data.modules[module.ID] = &c
	return nil
}

func (r memModules) ListAssignments(_ context.Context, moduleID int64) ([]*model.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]*model.Assignment(nil), r.s.data.assignments[moduleID]...), nil
}

func (r memModules) IsAssigned(_ context.Context, moduleID, employeeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.data.assignments[moduleID] {
		if a.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (r memModules) Assign(_ context.Context, a *model.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.data.assignments[a.ModuleID] {
		if x.EmployeeID == a.EmployeeID {
			return repository.ErrDuplicate
		}
	}
	c := *a
	r.s.data.assignments[a.ModuleID] = append(r.s.data.assignments[a.ModuleID], &c)
	return nil
}

func (r memModules) ListEmployees(_ context.Context, moduleID int64) ([]*model.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Employee
	for _, a := range r.s.data.assignments[moduleID] {
		if e, ok := r.s.data.employees[a.EmployeeID]; ok {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

// --- employees --------------------------------------------------------------

type memEmployees struct{ s *memStore }

func (r memEmployees) List(_ context.Context) ([]*model.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Employee
	for _, e := range r.s.data.employees {
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memEmployees) GetByID(_ context.Context, id int64) (*model.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.employeeErr != nil {
		return nil, r.s.employeeErr
	}
	e, ok := r.s.data.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *e
	return &c, nil
}

func (r memEmployees) Create(_ context.Context, e *model.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	c := *e
	r.s.data.employees[e.ID] = &c
	return nil
}

func (r memEmployees) ListRoles(_ context.Context) ([]*model.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Role
	for _, ro := range r.s.data.roles {
		out = append(out, ro)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memEmployees) GetRole(_ context.Context, id int64) (*model.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ro, ok := r.s.data.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return ro, nil
}

// --- events -----------------------------------------------------------------

type memEvents struct{ s *memStore }

func (r memEvents) Create(_ context.Context, e *model.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	c := *e
	r.s.data.events[e.ID] = &c
	return nil
}

func (r memEvents) IsAssigned(_ context.Context, eventID, employeeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.data.eventMembers[pair{eventID, employeeID}], nil
}

func (r memEvents) Assign(_ context.Context, eventID, employeeID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.eventMembers[pair{eventID, employeeID}] = true
	return nil
}
