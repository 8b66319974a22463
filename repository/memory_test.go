package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediaimport/model"
)

func TestMemoryRepository_AddSourceIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	s := model.NewSource("uuid-A", "plex")
	s.BasePath = "src://uuid-A/"
	_ = s.AddMediaType(model.MediaTypeMovie)

	ok, added, err := repo.AddSource(ctx, s)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, added)

	ok, added, err = repo.AddSource(ctx, s)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, added, "second identical add must report no change")

	sources, err := repo.GetSources(ctx)
	require.NoError(t, err)
	assert.Len(t, sources, 1)
}

func TestMemoryRepository_AddSourceRejectsEmptyIdentifier(t *testing.T) {
	repo := NewMemoryRepository()
	s := &model.Source{}
	ok, added, err := repo.AddSource(context.Background(), s)
	assert.False(t, ok)
	assert.False(t, added)
	assert.Error(t, err)
}

func TestMemoryRepository_ImportsByPathRecursion(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	src := *model.NewSource("uuid-A", "plex")
	src.BasePath = "src://uuid-A/"

	top := model.NewImport("src://uuid-A/", src, model.GroupedMediaTypes{model.MediaTypeMovie}, true)
	nested := model.NewImport("src://uuid-A/box/", src, model.GroupedMediaTypes{model.MediaTypeMovie}, false)

	_, _, err := repo.AddImport(ctx, top)
	require.NoError(t, err)
	_, _, err = repo.AddImport(ctx, nested)
	require.NoError(t, err)

	exact, err := repo.GetImportsByPath(ctx, "src://uuid-A/", false)
	require.NoError(t, err)
	assert.Len(t, exact, 1)

	recursive, err := repo.GetImportsByPath(ctx, "src://uuid-A/", true)
	require.NoError(t, err)
	assert.Len(t, recursive, 2)
}

func TestMemoryRepository_RemoveSourceCascadesImports(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	src := *model.NewSource("uuid-A", "plex")
	imp := model.NewImport("src://uuid-A/", src, model.GroupedMediaTypes{model.MediaTypeMovie}, true)

	_, _, err := repo.AddSource(ctx, &src)
	require.NoError(t, err)
	_, _, err = repo.AddImport(ctx, imp)
	require.NoError(t, err)

	ok, err := repo.RemoveSource(ctx, "uuid-A")
	require.NoError(t, err)
	assert.True(t, ok)

	imports, err := repo.GetImports(ctx)
	require.NoError(t, err)
	assert.Empty(t, imports)
}

func TestMemoryRepository_UpdateLastSyncPropagatesToSource(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	src := *model.NewSource("uuid-A", "plex")
	imp := model.NewImport("src://uuid-A/", src, model.GroupedMediaTypes{model.MediaTypeMovie}, true)

	_, _, err := repo.AddSource(ctx, &src)
	require.NoError(t, err)
	_, _, err = repo.AddImport(ctx, imp)
	require.NoError(t, err)

	imp.LastSynced = imp.LastSynced.Add(1)
	ok, err := repo.UpdateLastSync(ctx, imp)
	require.NoError(t, err)
	assert.True(t, ok)

	got, found, err := repo.GetSource(ctx, "uuid-A")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, imp.LastSynced, got.LastSynced)
}
