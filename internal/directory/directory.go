// Package directory manages project identity and the user-project
// membership relation. Membership is the portal's authorization rule:
// only members may view a project's detail.
package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/good-yellow-bee/hwportal/internal/models"
	"github.com/good-yellow-bee/hwportal/internal/storage"
)

// Directory is the membership component. It owns project and membership
// mutation; no other component writes to the project registry.
type Directory struct {
	projects storage.ProjectRepository
}

// New creates a Directory over the given project repository.
func New(projects storage.ProjectRepository) *Directory {
	return &Directory{projects: projects}
}

// Create registers a new project with the creator as its first member.
// Returns DuplicateIDError if the id is taken, ValidationError on bad
// input. The duplicate check races are closed by the store's primary key:
// of two concurrent creates with the same id exactly one commits.
func (d *Directory) Create(ctx context.Context, id, name, description, creatorID string) (*models.Project, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return nil, &ValidationError{Message: "project id is required"}
	}
	if name == "" {
		return nil, &ValidationError{Message: "project name is required"}
	}

	project := models.NewProject(id, name, strings.TrimSpace(description))

	if err := d.projects.Create(ctx, project, creatorID); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, &DuplicateIDError{ID: id}
		}
		return nil, &StoreError{Err: err}
	}
	return project, nil
}

// Join adds a user to a project. Joining a project the user already
// belongs to is a no-op, not an error.
func (d *Directory) Join(ctx context.Context, id, userID string) (*models.Project, error) {
	project, err := d.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.projects.AddMember(ctx, id, userID); err != nil {
		return nil, &StoreError{Err: err}
	}
	return project, nil
}

// Leave removes a user from a project. Leaving a project the user does
// not belong to is a no-op, not an error.
func (d *Directory) Leave(ctx context.Context, id, userID string) (*models.Project, error) {
	project, err := d.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.projects.RemoveMember(ctx, id, userID); err != nil {
		return nil, &StoreError{Err: err}
	}
	return project, nil
}

// ListForUser returns the projects the user is a member of.
func (d *Directory) ListForUser(ctx context.Context, userID string) ([]*models.Project, error) {
	projects, err := d.projects.GetProjectsForUser(ctx, userID)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	return projects, nil
}

// Open returns the project detail for a member. Returns ForbiddenError
// if the user has not joined the project.
func (d *Directory) Open(ctx context.Context, id, userID string) (*models.Project, error) {
	project, err := d.get(ctx, id)
	if err != nil {
		return nil, err
	}

	member, err := d.projects.IsMember(ctx, id, userID)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	if !member {
		return nil, &ForbiddenError{ID: id, UserID: userID}
	}
	return project, nil
}

// Members returns the project roster. Gated by membership like Open.
func (d *Directory) Members(ctx context.Context, id, userID string) ([]*models.ProjectMember, error) {
	if _, err := d.Open(ctx, id, userID); err != nil {
		return nil, err
	}

	members, err := d.projects.GetMembers(ctx, id)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	return members, nil
}

func (d *Directory) get(ctx context.Context, id string) (*models.Project, error) {
	project, err := d.projects.GetByID(ctx, id)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	if project == nil {
		return nil, &NotFoundError{ID: id}
	}
	return project, nil
}
