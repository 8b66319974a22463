package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mediaimport/model"
)

func TestMoviesEqual_IgnoresAutoAddedArtworkAndEmptyRemoteCast(t *testing.T) {
	local := &model.Item{
		Title: "M1", Year: 2020,
		Artwork: map[string]string{"poster": "p.jpg", "set.fanart": "f.jpg"},
		Cast:    []string{"Alice"},
	}
	remote := &model.Item{
		Title: "M1", Year: 2020,
		Artwork: map[string]string{"poster": "p.jpg", "set.fanart": "different.jpg"},
	}
	assert.True(t, moviesEqual(remote, local), "set.* artwork and empty remote cast must not cause a diff")
}

func TestMoviesEqual_DetectsRealArtworkChange(t *testing.T) {
	local := &model.Item{Title: "M1", Artwork: map[string]string{"poster": "p.jpg"}}
	remote := &model.Item{Title: "M1", Artwork: map[string]string{"poster": "p2.jpg"}}
	assert.False(t, moviesEqual(remote, local))
}

func TestMovieHandler_DetermineChangeset(t *testing.T) {
	h := NewMovieHandler(NewMemoryStore())
	remote := &model.Item{Path: "src://a/m1", Title: "M1"}

	assert.Equal(t, model.ChangesetAdded, h.DetermineChangeset(nil, remote, nil))

	local := &model.Item{Path: "src://a/m1", Title: "M1"}
	assert.Equal(t, model.ChangesetNone, h.DetermineChangeset(nil, remote, local))

	local.Title = "Old Title"
	assert.Equal(t, model.ChangesetChanged, h.DetermineChangeset(nil, remote, local))
}
