package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ybalashov/bimvault/internal/domain"
)

// AccessUsecase is the single authority on who may do what inside a project.
// Every project, file and comment operation routes its decision through here.
type AccessUsecase struct {
	projects ProjectRepository
	ledger   AccessRepository
	cache    *cache.Cache
}

func NewAccessUsecase(projects ProjectRepository, ledger AccessRepository) *AccessUsecase {
	return &AccessUsecase{
		projects: projects,
		ledger:   ledger,
		cache:    cache.New(1*time.Minute, 5*time.Minute),
	}
}

func accessCacheKey(projectID, userID uint) string {
	return fmt.Sprintf("access:%d:%d", projectID, userID)
}

// EffectiveAccess resolves a user's level within a project. The creator is
// Admin unconditionally, regardless of ledger contents. Absent a grant the
// result is AccessNone.
func (uc *AccessUsecase) EffectiveAccess(ctx context.Context, project domain.Project, userID uint) (domain.AccessLevel, error) {
	if project.CreatorID == userID {
		return domain.AccessAdmin, nil
	}

	key := accessCacheKey(project.ID, userID)
	if cached, found := uc.cache.Get(key); found {
		return cached.(domain.AccessLevel), nil
	}

	grant, err := uc.ledger.Get(ctx, project.ID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.cache.Set(key, domain.AccessNone, cache.DefaultExpiration)
			return domain.AccessNone, nil
		}
		return domain.AccessNone, err
	}

	uc.cache.Set(key, grant.AccessLevel, cache.DefaultExpiration)
	return grant.AccessLevel, nil
}

// Authorize loads the project and checks the caller holds at least min.
func (uc *AccessUsecase) Authorize(ctx context.Context, projectID, callerID uint, min domain.AccessLevel) (domain.Project, error) {
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return domain.Project{}, err
	}

	level, err := uc.EffectiveAccess(ctx, project, callerID)
	if err != nil {
		return domain.Project{}, err
	}
	if level == domain.AccessNone || !level.AtLeast(min) {
		return domain.Project{}, domain.ForbiddenError{
			Message: fmt.Sprintf("requires %s access to project %d", min, projectID),
		}
	}

	return project, nil
}

// Grant adds or replaces a user's grant. Creator-only.
func (uc *AccessUsecase) Grant(ctx context.Context, callerID, projectID, userID uint, level domain.AccessLevel) error {
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.CreatorID != callerID {
		return domain.ForbiddenError{Message: "only project creator can manage access"}
	}

	err = uc.ledger.Upsert(ctx, domain.ProjectAccess{
		ProjectID:   projectID,
		UserID:      userID,
		AccessLevel: level,
	})
	if err != nil {
		return err
	}

	uc.cache.Delete(accessCacheKey(projectID, userID))
	return nil
}

// Revoke removes a user's grant. Creator-only. The creator's own effective
// access is implicit and survives any ledger change.
func (uc *AccessUsecase) Revoke(ctx context.Context, callerID, projectID, userID uint) error {
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.CreatorID != callerID {
		return domain.ForbiddenError{Message: "only project creator can manage access"}
	}

	if err := uc.ledger.Delete(ctx, projectID, userID); err != nil {
		return err
	}

	uc.cache.Delete(accessCacheKey(projectID, userID))
	return nil
}

// List returns the explicit grants of a project. Viewing the member list
// requires membership.
func (uc *AccessUsecase) List(ctx context.Context, callerID, projectID uint) ([]domain.ProjectAccess, error) {
	if _, err := uc.Authorize(ctx, projectID, callerID, domain.AccessView); err != nil {
		return nil, err
	}
	return uc.ledger.ListByProject(ctx, projectID)
}

// Invalidate drops any cached decisions for a project after it is deleted.
func (uc *AccessUsecase) Invalidate(projectID uint) {
	prefix := fmt.Sprintf("access:%d:", projectID)
	for key := range uc.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			uc.cache.Delete(key)
		}
	}
}
