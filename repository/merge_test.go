package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediaimport/model"
)

func TestMergeSources_UnionsMediaTypesAndMaxLastSynced(t *testing.T) {
	older := time.Unix(1000, 0)
	newer := time.Unix(2000, 0)

	a := model.NewSource("uuid-A", "plex")
	_ = a.AddMediaType(model.MediaTypeMovie)
	a.LastSynced = older

	b := model.NewSource("uuid-A", "plex")
	_ = b.AddMediaType(model.MediaTypeTVShow)
	b.LastSynced = newer

	merged, ok := MergeSource("uuid-A", []*model.Source{a}, []*model.Source{b})
	require.True(t, ok)
	assert.True(t, merged.HasMediaType(model.MediaTypeMovie))
	assert.True(t, merged.HasMediaType(model.MediaTypeTVShow))
	assert.Equal(t, newer, merged.LastSynced)
}

func TestMergeSources_MissingEverywhereReturnsFalse(t *testing.T) {
	_, ok := MergeSource("uuid-missing", []*model.Source{})
	assert.False(t, ok)
}
