package usecase

import (
	"context"
	"strings"

	"github.com/ybalashov/bimvault/internal/domain"
)

type ProjectUsecase struct {
	projects ProjectRepository
	users    UserRepository
	access   *AccessUsecase
}

func NewProjectUsecase(projects ProjectRepository, users UserRepository, access *AccessUsecase) *ProjectUsecase {
	return &ProjectUsecase{projects: projects, users: users, access: access}
}

// ListForUser returns every project the user created or was granted into,
// annotated with the user's effective level.
func (uc *ProjectUsecase) ListForUser(ctx context.Context, userID uint) ([]domain.ProjectSummary, error) {
	projects, err := uc.projects.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ProjectSummary, 0, len(projects))
	for _, project := range projects {
		level, err := uc.access.EffectiveAccess(ctx, project, userID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, domain.ProjectSummary{Project: project, AccessLevel: level})
	}
	return summaries, nil
}

func (uc *ProjectUsecase) Get(ctx context.Context, callerID, projectID uint) (domain.Project, error) {
	return uc.access.Authorize(ctx, projectID, callerID, domain.AccessView)
}

func (uc *ProjectUsecase) Create(ctx context.Context, creatorID uint, title string) (domain.Project, error) {
	title = strings.TrimSpace(title)
	if len(title) < 3 || len(title) > 100 {
		return domain.Project{}, domain.ValidationError{Message: "title must be between 3 and 100 characters"}
	}

	return uc.projects.Create(ctx, domain.Project{
		CreatorID: creatorID,
		Title:     title,
	})
}

func (uc *ProjectUsecase) Update(ctx context.Context, callerID, projectID uint, title string) error {
	if _, err := uc.access.Authorize(ctx, projectID, callerID, domain.AccessEdit); err != nil {
		return err
	}

	title = strings.TrimSpace(title)
	if len(title) < 3 || len(title) > 100 {
		return domain.ValidationError{Message: "title must be between 3 and 100 characters"}
	}

	return uc.projects.UpdateTitle(ctx, projectID, title)
}

func (uc *ProjectUsecase) Delete(ctx context.Context, callerID, projectID uint) error {
	if _, err := uc.access.Authorize(ctx, projectID, callerID, domain.AccessEdit); err != nil {
		return err
	}

	if err := uc.projects.Delete(ctx, projectID); err != nil {
		return err
	}

	uc.access.Invalidate(projectID)
	return nil
}

// PagedProjects is the browse view of all projects.
type PagedProjects struct {
	Total    int64            `json:"total"`
	Projects []domain.Project `json:"projects"`
}

func (uc *ProjectUsecase) ListAll(ctx context.Context, skip, take int) (PagedProjects, error) {
	if take <= 0 {
		take = 10
	}
	if skip < 0 {
		skip = 0
	}
	projects, total, err := uc.projects.ListAll(ctx, skip, take)
	if err != nil {
		return PagedProjects{}, err
	}
	return PagedProjects{Total: total, Projects: projects}, nil
}

// PagedUsers is the browse view of all registered users.
type PagedUsers struct {
	Total int64         `json:"total"`
	Users []domain.User `json:"users"`
}

func (uc *ProjectUsecase) ListUsers(ctx context.Context, skip, take int) (PagedUsers, error) {
	if take <= 0 {
		take = 10
	}
	if skip < 0 {
		skip = 0
	}
	users, total, err := uc.users.List(ctx, skip, take)
	if err != nil {
		return PagedUsers{}, err
	}
	return PagedUsers{Total: total, Users: users}, nil
}
