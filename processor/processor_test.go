package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mediaimport/task"
)

func TestMergeTaskLists_InsertsAtEarliestValidPosition(t *testing.T) {
	base := []task.Type{task.TypeLocalItemsRetrieval, task.TypeChangeset, task.TypeSynchronisation}
	add := []task.Type{task.TypeImportItemsRetrieval, task.TypeCleanup}

	got := mergeTaskLists(base, add)

	want := []task.Type{
		task.TypeLocalItemsRetrieval,
		task.TypeImportItemsRetrieval,
		task.TypeChangeset,
		task.TypeSynchronisation,
		task.TypeCleanup,
	}
	assert.Equal(t, want, got)
}

func TestMergeTaskLists_NoOpWhenAllPresent(t *testing.T) {
	base := []task.Type{task.TypeLocalItemsRetrieval, task.TypeChangeset}
	got := mergeTaskLists(base, []task.Type{task.TypeChangeset})
	assert.Equal(t, base, got)
}
