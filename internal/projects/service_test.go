package projects

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gestor-pm/gestor/internal/platform/httpx"
	"github.com/gestor-pm/gestor/internal/shared"
)

type memoryRepo struct {
	nextID      int64
	projects    map[int64]Project
	assignments map[int64][]Assignment
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, projects: map[int64]Project{}, assignments: map[int64][]Assignment{}}
}

func (m *memoryRepo) Create(_ context.Context, p Project) (int64, error) {
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.projects[p.ID] = p
	return p.ID, nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (*Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (m *memoryRepo) List(_ context.Context, f ListFilter, limit, offset int) ([]Project, int, error) {
	var out []Project
	for _, p := range m.projects {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Update(_ context.Context, p Project) error {
	if _, ok := m.projects[p.ID]; !ok {
		return shared.ErrNotFound
	}
	m.projects[p.ID] = p
	return nil
}

func (m *memoryRepo) Assign(_ context.Context, a Assignment) error {
	for i, existing := range m.assignments[a.ProjectID] {
		if existing.CollaboratorID == a.CollaboratorID {
			m.assignments[a.ProjectID][i] = a
			return nil
		}
	}
	m.assignments[a.ProjectID] = append(m.assignments[a.ProjectID], a)
	return nil
}

func (m *memoryRepo) Unassign(_ context.Context, projectID, collaboratorID int64) error {
	list := m.assignments[projectID]
	for i, a := range list {
		if a.CollaboratorID == collaboratorID {
			m.assignments[projectID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (m *memoryRepo) Assignments(_ context.Context, projectID int64) ([]Assignment, error) {
	return m.assignments[projectID], nil
}

func (m *memoryRepo) Stats(_ context.Context, _ time.Time) (*Stats, error) {
	return &Stats{ByStatus: map[Status]int{}}, nil
}

func newTestService(repo Repository) *Service {
	return &Service{repo: repo, audit: nil, now: func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	}}
}

func createProject(t *testing.T, s *Service) *Project {
	t.Helper()
	p, err := s.Create(context.Background(), CreateProjectRequest{
		ClientID: 1,
		Name:     "Website relaunch",
		Budget:   "15000.00",
		Priority: "HIGH",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func TestCreateStartsInPlanning(t *testing.T) {
	s := newTestService(newMemoryRepo())
	p := createProject(t, s)
	if p.Status != StatusPlanning {
		t.Fatalf("status = %s, want PLANNING", p.Status)
	}
	if p.Progress != 0 {
		t.Fatalf("progress = %d, want 0", p.Progress)
	}
}

func TestChangeStatusHappyPath(t *testing.T) {
	s := newTestService(newMemoryRepo())
	p := createProject(t, s)

	for _, target := range []Status{StatusInProgress, StatusPaused, StatusInProgress, StatusCompleted} {
		var err error
		p, err = s.ChangeStatus(context.Background(), p.ID, 1, target)
		if err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
	}
	if p.CompletedAt == nil {
		t.Fatal("completed project missing completion timestamp")
	}
	if p.Progress != 100 {
		t.Fatalf("progress = %d, want 100 after completion", p.Progress)
	}
}

func TestChangeStatusRejectsIllegalEdges(t *testing.T) {
	cases := []struct {
		from, to Status
	}{
		{StatusPlanning, StatusPaused},
		{StatusPlanning, StatusCompleted},
		{StatusPaused, StatusCompleted},
		{StatusCompleted, StatusInProgress},
		{StatusCancelled, StatusPlanning},
	}
	for _, tc := range cases {
		repo := newMemoryRepo()
		s := newTestService(repo)
		p := createProject(t, s)
		stored := repo.projects[p.ID]
		stored.Status = tc.from
		repo.projects[p.ID] = stored

		if _, err := s.ChangeStatus(context.Background(), p.ID, 1, tc.to); !errors.Is(err, httpx.ErrConflict) {
			t.Fatalf("%s->%s: err = %v, want ErrConflict", tc.from, tc.to, err)
		}
	}
}

func TestUpdateRejectsTerminalProject(t *testing.T) {
	repo := newMemoryRepo()
	s := newTestService(repo)
	p := createProject(t, s)
	stored := repo.projects[p.ID]
	stored.Status = StatusCancelled
	repo.projects[p.ID] = stored

	_, err := s.Update(context.Background(), p.ID, UpdateProjectRequest{
		Name:     "renamed",
		Priority: "LOW",
		Budget:   "1.00",
	})
	if !errors.Is(err, httpx.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestCreateRejectsInvertedDates(t *testing.T) {
	s := newTestService(newMemoryRepo())
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 0, -1)
	_, err := s.Create(context.Background(), CreateProjectRequest{
		ClientID:  1,
		Name:      "backwards",
		Budget:    "10.00",
		StartDate: &start,
		DueDate:   &due,
	})
	if !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestAssignUpdatesExistingAllocation(t *testing.T) {
	repo := newMemoryRepo()
	s := newTestService(repo)
	p := createProject(t, s)

	if err := s.Assign(context.Background(), p.ID, AssignRequest{CollaboratorID: 7, AssignedHours: "40"}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := s.Assign(context.Background(), p.ID, AssignRequest{CollaboratorID: 7, AssignedHours: "60"}); err != nil {
		t.Fatalf("re-assign: %v", err)
	}

	assignments, err := s.Assignments(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("assignments: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("len(assignments) = %d, want 1", len(assignments))
	}
	if assignments[0].AssignedHours.String() != "60" {
		t.Fatalf("assigned hours = %s, want 60", assignments[0].AssignedHours)
	}
}

func TestUpdateProgressBounds(t *testing.T) {
	s := newTestService(newMemoryRepo())
	p := createProject(t, s)

	updated, err := s.UpdateProgress(context.Background(), p.ID, UpdateProgressRequest{Progress: 45, WorkedHours: "12.5"})
	if err != nil {
		t.Fatalf("update progress: %v", err)
	}
	if updated.Progress != 45 {
		t.Fatalf("progress = %d, want 45", updated.Progress)
	}
	if updated.WorkedHours.String() != "12.5" {
		t.Fatalf("worked hours = %s, want 12.5", updated.WorkedHours)
	}
}
