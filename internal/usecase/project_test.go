package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybalashov/bimvault/internal/domain"
)

func newProjectFixture(t *testing.T) (*ProjectUsecase, *AccessUsecase) {
	t.Helper()
	ledger := newMemLedger()
	projects := newMemProjects(ledger)
	access := NewAccessUsecase(projects, ledger)
	return NewProjectUsecase(projects, newMemUsers(), access), access
}

func TestProjectCreate(t *testing.T) {
	ctx := context.Background()
	uc, _ := newProjectFixture(t)

	project, err := uc.Create(ctx, 1, "  Riverside Tower  ")
	require.NoError(t, err)
	assert.Equal(t, "Riverside Tower", project.Title)
	assert.Equal(t, uint(1), project.CreatorID)

	_, err = uc.Create(ctx, 1, "ab")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Create(ctx, 1, strings.Repeat("x", 101))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProjectGet(t *testing.T) {
	ctx := context.Background()
	uc, access := newProjectFixture(t)

	project, err := uc.Create(ctx, 1, "Riverside Tower")
	require.NoError(t, err)

	got, err := uc.Get(ctx, 1, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)

	_, err = uc.Get(ctx, 2, project.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, access.Grant(ctx, 1, project.ID, 2, domain.AccessView))
	_, err = uc.Get(ctx, 2, project.ID)
	assert.NoError(t, err)
}

func TestProjectUpdate(t *testing.T) {
	ctx := context.Background()
	uc, access := newProjectFixture(t)

	project, err := uc.Create(ctx, 1, "Riverside Tower")
	require.NoError(t, err)
	require.NoError(t, access.Grant(ctx, 1, project.ID, 2, domain.AccessView))

	// View cannot rename the project.
	err = uc.Update(ctx, 2, project.ID, "New Title")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.Update(ctx, 1, project.ID, "New Title"))

	got, err := uc.Get(ctx, 1, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Title", got.Title)
}

func TestProjectDelete(t *testing.T) {
	ctx := context.Background()
	uc, access := newProjectFixture(t)

	project, err := uc.Create(ctx, 1, "Riverside Tower")
	require.NoError(t, err)
	require.NoError(t, access.Grant(ctx, 1, project.ID, 3, domain.AccessView))

	err = uc.Delete(ctx, 3, project.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.Delete(ctx, 1, project.ID))

	_, err = uc.Get(ctx, 1, project.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListForUser(t *testing.T) {
	ctx := context.Background()
	uc, access := newProjectFixture(t)

	mine, err := uc.Create(ctx, 1, "Mine Alone")
	require.NoError(t, err)
	shared, err := uc.Create(ctx, 2, "Shared With Me")
	require.NoError(t, err)
	_, err = uc.Create(ctx, 3, "Not For Me")
	require.NoError(t, err)

	require.NoError(t, access.Grant(ctx, 2, shared.ID, 1, domain.AccessEdit))

	summaries, err := uc.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	levels := map[uint]domain.AccessLevel{}
	for _, summary := range summaries {
		levels[summary.ID] = summary.AccessLevel
	}
	assert.Equal(t, domain.AccessAdmin, levels[mine.ID])
	assert.Equal(t, domain.AccessEdit, levels[shared.ID])
}

func TestListAllPaging(t *testing.T) {
	ctx := context.Background()
	uc, _ := newProjectFixture(t)

	for i := 0; i < 5; i++ {
		_, err := uc.Create(ctx, 1, strings.Repeat("p", 3+i))
		require.NoError(t, err)
	}

	page, err := uc.ListAll(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Len(t, page.Projects, 2)

	page, err = uc.ListAll(ctx, 4, 2)
	require.NoError(t, err)
	assert.Len(t, page.Projects, 1)

	// Negative skip and zero take fall back to defaults.
	page, err = uc.ListAll(ctx, -1, 0)
	require.NoError(t, err)
	assert.Len(t, page.Projects, 5)
}
