package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediaimport/handler"
	"mediaimport/model"
)

type noCancel struct{}

func (noCancel) ShouldCancel(progress, total int) bool { return false }

func TestRunChangeset_FullSetCompleteness(t *testing.T) {
	store := handler.NewMemoryStore()
	h := handler.NewMovieHandler(store)
	handlers := map[model.MediaType]handler.TypeHandler{model.MediaTypeMovie: h}

	src := model.Source{Identifier: "uuid-A", BasePath: "src://uuid-A/"}
	imp := model.NewImport("src://uuid-A/", src, model.GroupedMediaTypes{model.MediaTypeMovie}, true)

	tsk := New(TypeChangeset, imp, handlers, nil)
	tsk.SetLocal(model.MediaTypeMovie, []*model.Item{
		{Path: "src://uuid-A/m0", Title: "Old"},
	})
	tsk.AddItem(model.MediaTypeMovie, &model.Item{Path: "src://uuid-A/m1", Title: "M1"})
	tsk.AddItem(model.MediaTypeMovie, &model.Item{Path: "src://uuid-A/m2", Title: "M2"})

	err := tsk.Do(context.Background(), noCancel{})
	require.NoError(t, err)

	cs := tsk.Changesets()[model.MediaTypeMovie]
	added, changed, removed, none := cs.Counts()
	assert.Equal(t, 2, added)
	assert.Equal(t, 0, changed)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, none, "None entries must never be emitted")
}

func TestRunChangeset_PartialRemovedWithNoMatchIsDropped(t *testing.T) {
	store := handler.NewMemoryStore()
	h := handler.NewMovieHandler(store)
	handlers := map[model.MediaType]handler.TypeHandler{model.MediaTypeMovie: h}

	src := model.Source{Identifier: "uuid-A"}
	imp := model.NewImport("src://uuid-A/", src, model.GroupedMediaTypes{model.MediaTypeMovie}, true)

	tsk := New(TypeChangeset, imp, handlers, nil)
	tsk.SetChangeset(true)
	removed := model.ChangesetRemoved
	tsk.AddItems(model.MediaTypeMovie, []*model.Item{{Path: "src://uuid-A/ghost"}}, &removed)

	err := tsk.Do(context.Background(), noCancel{})
	require.NoError(t, err)

	assert.Empty(t, tsk.Changesets()[model.MediaTypeMovie])
}

func TestRunSynchronisation_AppliesChangesetOfGroupedImport(t *testing.T) {
	store := handler.NewMemoryStore()
	handlers := map[model.MediaType]handler.TypeHandler{
		model.MediaTypeTVShow:  handler.NewTVShowHandler(store),
		model.MediaTypeSeason:  handler.NewSeasonHandler(store),
		model.MediaTypeEpisode: handler.NewEpisodeHandler(store, handler.NewTVShowHandler(store)),
	}
	src := model.Source{Identifier: "uuid-A"}
	imp := model.NewImport("src://uuid-A/", src,
		model.GroupedMediaTypes{model.MediaTypeSeason, model.MediaTypeEpisode}, true)

	tsk := New(TypeSynchronisation, imp, handlers, nil)
	tsk.changesets[model.MediaTypeEpisode] = model.Changeset{
		{Type: model.ChangesetAdded, Item: &model.Item{Path: "src://uuid-A/showx/s01/e01", MediaType: model.MediaTypeEpisode, ShowTitle: "Show X", SeasonNum: 1}},
	}

	err := tsk.Do(context.Background(), noCancel{})
	require.NoError(t, err)
	assert.Len(t, store.Items(model.MediaTypeEpisode), 1)
}
