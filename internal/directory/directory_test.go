package directory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/good-yellow-bee/hwportal/internal/models"
	"github.com/good-yellow-bee/hwportal/internal/storage"
)

// mockProjectRepo implements storage.ProjectRepository in memory.
type mockProjectRepo struct {
	projects    map[string]*models.Project
	memberships map[string]map[string]time.Time // project id -> user id -> joined
	createError error
	getError    error
	memberError error
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{
		projects:    make(map[string]*models.Project),
		memberships: make(map[string]map[string]time.Time),
	}
}

func (m *mockProjectRepo) Create(ctx context.Context, project *models.Project, creatorID string) error {
	if m.createError != nil {
		return m.createError
	}
	if _, ok := m.projects[project.ID]; ok {
		return fmt.Errorf("insert project: %w", storage.ErrDuplicateKey)
	}
	m.projects[project.ID] = project
	m.memberships[project.ID] = map[string]time.Time{creatorID: time.Now()}
	return nil
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (m *mockProjectRepo) List(ctx context.Context) ([]*models.Project, error) {
	out := make([]*models.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProjectRepo) AddMember(ctx context.Context, projectID, userID string) error {
	if m.memberError != nil {
		return m.memberError
	}
	if _, ok := m.memberships[projectID]; !ok {
		m.memberships[projectID] = make(map[string]time.Time)
	}
	if _, ok := m.memberships[projectID][userID]; !ok {
		m.memberships[projectID][userID] = time.Now()
	}
	return nil
}

func (m *mockProjectRepo) RemoveMember(ctx context.Context, projectID, userID string) error {
	if m.memberError != nil {
		return m.memberError
	}
	delete(m.memberships[projectID], userID)
	return nil
}

func (m *mockProjectRepo) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	if m.memberError != nil {
		return false, m.memberError
	}
	_, ok := m.memberships[projectID][userID]
	return ok, nil
}

func (m *mockProjectRepo) GetMembers(ctx context.Context, projectID string) ([]*models.ProjectMember, error) {
	if m.memberError != nil {
		return nil, m.memberError
	}
	out := make([]*models.ProjectMember, 0)
	for userID, joined := range m.memberships[projectID] {
		out = append(out, &models.ProjectMember{
			ProjectID: projectID,
			UserID:    userID,
			Username:  userID,
			JoinedAt:  joined,
		})
	}
	return out, nil
}

func (m *mockProjectRepo) GetProjectsForUser(ctx context.Context, userID string) ([]*models.Project, error) {
	out := make([]*models.Project, 0)
	for id, members := range m.memberships {
		if _, ok := members[userID]; ok {
			out = append(out, m.projects[id])
		}
	}
	return out, nil
}

func TestCreate_CreatorBecomesMember(t *testing.T) {
	d := New(newMockProjectRepo())
	ctx := context.Background()

	project, err := d.Create(ctx, "team-7", "Team 7", "capstone", "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if project.ID != "team-7" {
		t.Errorf("id = %q, want team-7", project.ID)
	}

	// Creator can open without joining
	if _, err := d.Open(ctx, "team-7", "alice"); err != nil {
		t.Errorf("creator open: %v", err)
	}
}

func TestCreate_DuplicateID(t *testing.T) {
	d := New(newMockProjectRepo())
	ctx := context.Background()

	if _, err := d.Create(ctx, "team-7", "Team 7", "", "alice"); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := d.Create(ctx, "team-7", "Other", "", "bob")
	var dup *DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateIDError, got %v", err)
	}
	if dup.ID != "team-7" {
		t.Errorf("id = %q, want team-7", dup.ID)
	}
}

func TestCreate_Validation(t *testing.T) {
	d := New(newMockProjectRepo())
	ctx := context.Background()

	cases := []struct {
		name      string
		id        string
		projName  string
	}{
		{"empty id", "", "Team"},
		{"blank id", "   ", "Team"},
		{"empty name", "team-7", ""},
		{"blank name", "team-7", "   "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.Create(ctx, tc.id, tc.projName, "", "alice")
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestJoin_Idempotent(t *testing.T) {
	d := New(newMockProjectRepo())
	ctx := context.Background()

	d.Create(ctx, "team-7", "Team 7", "", "alice")

	if _, err := d.Join(ctx, "team-7", "bob"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := d.Join(ctx, "team-7", "bob"); err != nil {
		t.Fatalf("second join should be a no-op: %v", err)
	}

	members, err := d.Members(ctx, "team-7", "bob")
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("members = %d, want 2", len(members))
	}
}

func TestJoin_NotFound(t *testing.T) {
	d := New(newMockProjectRepo())

	_, err := d.Join(context.Background(), "ghost", "bob")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestLeave_Idempotent(t *testing.T) {
	d := New(newMockProjectRepo())
	ctx := context.Background()

	d.Create(ctx, "team-7", "Team 7", "", "alice")
	d.Join(ctx, "team-7", "bob")

	if _, err := d.Leave(ctx, "team-7", "bob"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	// Leaving again, and leaving without ever joining, are no-ops
	if _, err := d.Leave(ctx, "team-7", "bob"); err != nil {
		t.Fatalf("second leave should be a no-op: %v", err)
	}
	if _, err := d.Leave(ctx, "team-7", "carol"); err != nil {
		t.Fatalf("leave by non-member should be a no-op: %v", err)
	}

	// Bob lost access
	_, err := d.Open(ctx, "team-7", "bob")
	var forbidden *ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ForbiddenError after leave, got %v", err)
	}
}

func TestOpen_MembershipGate(t *testing.T) {
	d := New(newMockProjectRepo())
	ctx := context.Background()

	d.Create(ctx, "team-7", "Team 7", "secret plans", "alice")

	// Non-member is refused
	_, err := d.Open(ctx, "team-7", "bob")
	var forbidden *ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}

	// After joining the same call succeeds
	if _, err := d.Join(ctx, "team-7", "bob"); err != nil {
		t.Fatalf("join: %v", err)
	}
	project, err := d.Open(ctx, "team-7", "bob")
	if err != nil {
		t.Fatalf("open after join: %v", err)
	}
	if project.Description != "secret plans" {
		t.Errorf("description = %q, want secret plans", project.Description)
	}

	// Missing project reports not found, not forbidden
	_, err = d.Open(ctx, "ghost", "bob")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestMembers_Gated(t *testing.T) {
	d := New(newMockProjectRepo())
	ctx := context.Background()

	d.Create(ctx, "team-7", "Team 7", "", "alice")

	_, err := d.Members(ctx, "team-7", "outsider")
	var forbidden *ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
}

func TestListForUser(t *testing.T) {
	d := New(newMockProjectRepo())
	ctx := context.Background()

	d.Create(ctx, "proj-a", "Project A", "", "alice")
	d.Create(ctx, "proj-b", "Project B", "", "bob")
	d.Join(ctx, "proj-b", "alice")

	projects, err := d.ListForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("alice projects = %d, want 2", len(projects))
	}

	projects, _ = d.ListForUser(ctx, "nobody")
	if len(projects) != 0 {
		t.Errorf("nobody projects = %d, want 0", len(projects))
	}
}

func TestStoreFailurePropagates(t *testing.T) {
	repo := newMockProjectRepo()
	repo.getError = errors.New("db down")
	d := New(repo)

	_, err := d.Open(context.Background(), "team-7", "alice")
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
}
