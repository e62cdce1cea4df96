package projects

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRepository_AddAndGet(t *testing.T) {
	repo := NewJSONRepository(t.TempDir())
	ctx := context.Background()

	p := models.NewProject("u-1", "Website Redesign")
	require.NoError(t, repo.Add(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Website Redesign", got.Name)
	assert.Equal(t, models.ProjectStatusActive, got.Status)

	err = repo.Add(ctx, p)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestJSONRepository_GetByID_NotFound(t *testing.T) {
	repo := NewJSONRepository(t.TempDir())

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestJSONRepository_ListByUser(t *testing.T) {
	repo := NewJSONRepository(t.TempDir())
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, models.NewProject("u-1", "Alpha")))
	require.NoError(t, repo.Add(ctx, models.NewProject("u-1", "Beta")))
	require.NoError(t, repo.Add(ctx, models.NewProject("u-2", "Gamma")))

	mine, err := repo.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	empty, err := repo.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestJSONRepository_ExistsWithName(t *testing.T) {
	repo := NewJSONRepository(t.TempDir())
	ctx := context.Background()

	p := models.NewProject("u-1", "Alpha")
	require.NoError(t, repo.Add(ctx, p))

	exists, err := repo.ExistsWithName(ctx, "u-1", "Alpha", "")
	require.NoError(t, err)
	assert.True(t, exists)

	// the project itself is excluded so renaming to the same name is allowed
	exists, err = repo.ExistsWithName(ctx, "u-1", "Alpha", p.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsWithName(ctx, "u-2", "Alpha", "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestJSONRepository_Update(t *testing.T) {
	repo := NewJSONRepository(t.TempDir())
	ctx := context.Background()

	p := models.NewProject("u-1", "Alpha")
	require.NoError(t, repo.Add(ctx, p))

	p.Name = "Alpha v2"
	p.Archive()
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha v2", got.Name)
	assert.True(t, got.IsArchived())

	err = repo.Update(ctx, models.NewProject("u-1", "Ghost"))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestJSONRepository_Delete(t *testing.T) {
	repo := NewJSONRepository(t.TempDir())
	ctx := context.Background()

	p := models.NewProject("u-1", "Alpha")
	require.NoError(t, repo.Add(ctx, p))
	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = repo.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
