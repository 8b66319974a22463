package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediaimport/model"
)

func TestSeasonHandler_SynthesisesStubShowWhenMissing(t *testing.T) {
	store := NewMemoryStore()
	h := NewSeasonHandler(store)

	remote := &model.Item{
		MediaType: model.MediaTypeSeason,
		ShowTitle: "Show X",
		Year:      2020,
		SeasonNum: 1,
		Path:      "src://uuid-A/showx/s01/",
	}

	h.PrepareImportedItem(nil, remote, nil)

	require.NotZero(t, remote.ShowID)
	shows := store.Items(model.MediaTypeTVShow)
	require.Len(t, shows, 1)
	assert.Equal(t, "Show X", shows[0].Title)
	assert.Equal(t, 2020, shows[0].Year)
	assert.Equal(t, shows[0].LocalID, remote.ShowID)
}

func TestSeasonHandler_ReusesExistingShow(t *testing.T) {
	store := NewMemoryStore()
	show := store.Put(&model.Item{MediaType: model.MediaTypeTVShow, Title: "Show X"})
	h := NewSeasonHandler(store)

	remote := &model.Item{ShowTitle: "Show X", SeasonNum: 2}
	h.PrepareImportedItem(nil, remote, nil)

	assert.Equal(t, show.LocalID, remote.ShowID)
	assert.Len(t, store.Items(model.MediaTypeTVShow), 1, "must not create a second stub")
}

func TestSeasonHandler_CleanupKeepsSeasonsWithEpisodes(t *testing.T) {
	store := NewMemoryStore()
	season := store.Put(&model.Item{MediaType: model.MediaTypeSeason, ShowID: 1, SeasonNum: 1, Path: "src://a/s1/"})
	store.Put(&model.Item{MediaType: model.MediaTypeEpisode, ShowID: 1, SeasonNum: 1, Path: "src://a/s1/e1"})

	h := NewSeasonHandler(store)
	imp := model.NewImport("src://a/", model.Source{}, model.GroupedMediaTypes{model.MediaTypeSeason}, true)

	err := h.CleanupImportedItems(nil, imp)
	require.NoError(t, err)

	_, found := store.Get(season.LocalID)
	assert.True(t, found, "season with remaining episodes must survive cleanup")
}

func TestSeasonHandler_CleanupRemovesOrphanedSeason(t *testing.T) {
	store := NewMemoryStore()
	season := store.Put(&model.Item{MediaType: model.MediaTypeSeason, ShowID: 1, SeasonNum: 1, Path: "src://a/s1/"})

	h := NewSeasonHandler(store)
	imp := model.NewImport("src://a/", model.Source{}, model.GroupedMediaTypes{model.MediaTypeSeason}, true)

	err := h.CleanupImportedItems(nil, imp)
	require.NoError(t, err)

	_, found := store.Get(season.LocalID)
	assert.False(t, found, "season with no episodes must be pruned")
}
