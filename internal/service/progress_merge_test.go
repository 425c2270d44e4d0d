package service

import (
	"coursehub_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func remoteSet(ids ...string) []model.CompletedLecture {
	lectures := make([]model.CompletedLecture, 0, len(ids))
	for _, id := range ids {
		lectures = append(lectures, model.CompletedLecture{LectureID: id})
	}
	return lectures
}

func TestMergeCompletedUnion(t *testing.T) {
	local := []string{"L1", "L3"}
	remote := remoteSet("L2")

	merged, missing := MergeCompleted(local, remote)

	assert.ElementsMatch(t, []string{"L1", "L2", "L3"}, merged)
	require.Len(t, missing, 1)
	assert.Equal(t, "L2", missing[0].LectureID)
}

func TestMergeCompletedIsSupersetOfBoth(t *testing.T) {
	local := []string{"L1", "L2"}
	remote := remoteSet("L2", "L4", "L5")

	merged, _ := MergeCompleted(local, remote)

	for _, id := range local {
		assert.Contains(t, merged, id)
	}
	for _, l := range remote {
		assert.Contains(t, merged, l.LectureID)
	}
}

func TestMergeCompletedNeverSubtracts(t *testing.T) {
	// 远端返回旧快照（空集）不会抹掉本地的乐观完成标记
	local := []string{"L1", "L3"}

	merged, missing := MergeCompleted(local, nil)

	assert.Equal(t, local, merged)
	assert.Empty(t, missing)
}

func TestMergeCompletedIdempotent(t *testing.T) {
	local := []string{"L1"}
	remote := remoteSet("L2")

	once, _ := MergeCompleted(local, remote)
	twice, missing := MergeCompleted(once, remote)

	assert.Equal(t, once, twice)
	assert.Empty(t, missing)
}

func TestMergeCompletedDeduplicates(t *testing.T) {
	local := []string{"L1", "L1", "L2"}
	remote := remoteSet("L2", "L2", "L3")

	merged, missing := MergeCompleted(local, remote)

	assert.Equal(t, []string{"L1", "L2", "L3"}, merged)
	require.Len(t, missing, 1)
	assert.Equal(t, "L3", missing[0].LectureID)
}

func TestMergeCompletedPreservesRemoteTimestamps(t *testing.T) {
	completedAt := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	remote := []model.CompletedLecture{{LectureID: "L9", CompletedAt: &completedAt}}

	_, missing := MergeCompleted(nil, remote)

	require.Len(t, missing, 1)
	require.NotNil(t, missing[0].CompletedAt)
	assert.Equal(t, completedAt, *missing[0].CompletedAt)
}
