package service

import (
	"coursehub_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func curriculumFixture() []model.Section {
	return []model.Section{
		{
			ClientID: "s1",
			Title:    "Getting Started",
			Lectures: []model.Lecture{
				{ClientID: "l1", Title: "Welcome", Video: &model.Video{URL: "https://cdn/l1.mp4", Duration: 120}},
				{ClientID: "l2", Title: "Reading List"}, // 没有视频
				{ClientID: "l3", Title: "Setup", Video: &model.Video{URL: "https://cdn/l3.mp4", Duration: 300}},
			},
		},
		{
			ClientID: "s2",
			Title:    "Deep Dive",
			Lectures: []model.Lecture{
				{ClientID: "l4", Title: "Core Concepts", Video: &model.Video{URL: "https://cdn/l4.mp4", Duration: 600}},
			},
		},
	}
}

func TestSelectCurrentLecturePrecedence(t *testing.T) {
	sections := curriculumFixture()

	tests := []struct {
		name   string
		lastID string
		want   string
	}{
		{"remembered lecture still in curriculum", "l3", "l3"},
		{"remembered lecture removed falls back to first", "gone", "l1"},
		{"no memory falls back to first", "", "l1"},
		{"remembered lecture without video falls back", "l2", "l1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectCurrentLecture(sections, tt.lastID))
		})
	}
}

func TestSelectCurrentLectureSkipsVideolessFirstLecture(t *testing.T) {
	sections := []model.Section{
		{
			ClientID: "s1",
			Lectures: []model.Lecture{
				{ClientID: "l1", Title: "Syllabus"},
				{ClientID: "l2", Title: "Intro", Video: &model.Video{URL: "https://cdn/l2.mp4"}},
			},
		},
	}

	assert.Equal(t, "l2", SelectCurrentLecture(sections, ""))
}

func TestSelectCurrentLectureEmptyCurriculum(t *testing.T) {
	assert.Equal(t, "", SelectCurrentLecture(nil, "l1"))
}

func TestNextLectureCrossesSectionBoundary(t *testing.T) {
	sections := curriculumFixture()

	// l3 是第一节最后一个可播放讲座，下一讲跨节到 l4
	next, ok := NextLecture(sections, "l3")
	require.True(t, ok)
	assert.Equal(t, "l4", next)
}

func TestNextLectureSkipsVideolessLectures(t *testing.T) {
	sections := curriculumFixture()

	// l1 之后的 l2 没有视频，跳到 l3
	next, ok := NextLecture(sections, "l1")
	require.True(t, ok)
	assert.Equal(t, "l3", next)
}

func TestNextLectureAfterLastIsNoop(t *testing.T) {
	sections := curriculumFixture()

	_, ok := NextLecture(sections, "l4")
	assert.False(t, ok)
}

func TestWatchSessionVideoEndAdvances(t *testing.T) {
	sections := curriculumFixture()

	session := NewWatchSession()
	assert.Equal(t, StateInitializing, session.State())

	session.Select("l3")
	assert.Equal(t, StateLectureSelected, session.State())

	session.Play()
	assert.Equal(t, StatePlaying, session.State())

	session.Pause()
	assert.Equal(t, StatePaused, session.State())
	session.Play()
	assert.Equal(t, StatePlaying, session.State())

	session.Complete()
	assert.Equal(t, StateCompleted, session.State())

	require.True(t, session.Advance(sections))
	assert.Equal(t, "l4", session.CurrentLecture)
	assert.Equal(t, StateLectureSelected, session.State())
}

func TestWatchSessionLastLectureCompleteStays(t *testing.T) {
	sections := curriculumFixture()

	session := NewWatchSession()
	session.Select("l4")
	session.Play()
	session.Complete()

	// 末节末讲播完：推进是空操作，停留在已完成的当前讲
	assert.False(t, session.Advance(sections))
	assert.Equal(t, "l4", session.CurrentLecture)
	assert.Equal(t, StateCompleted, session.State())
}

func TestWatchSessionPlayWithoutSelectionIsIgnored(t *testing.T) {
	session := NewWatchSession()
	session.Play()
	assert.Equal(t, StateInitializing, session.State())
}

func TestShouldPersistPositionFiveSecondBoundaries(t *testing.T) {
	tests := []struct {
		seconds float64
		want    bool
	}{
		{0, true},
		{4.9, false},
		{5, true},
		{5.7, true}, // floor(5.7) == 5
		{6, false},
		{14.2, false},
		{15.0, true},
		{-3, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ShouldPersistPosition(tt.seconds), "seconds=%v", tt.seconds)
	}
}
