package service

import (
	"coursehub_backend/internal/model"
	"math"
)

type PlaybackState int

const (
	StateInitializing PlaybackState = iota
	StateLectureSelected
	StatePlaying
	StatePaused
	StateCompleted
)

func (s PlaybackState) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateLectureSelected:
		return "lecture_selected"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// WatchSession 一次课程观看会话的状态机：
// Initializing → LectureSelected → Playing ⇄ Paused → Completed → LectureSelected(next)
type WatchSession struct {
	state          PlaybackState
	CurrentLecture string
}

func NewWatchSession() *WatchSession {
	return &WatchSession{state: StateInitializing}
}

func (s *WatchSession) State() PlaybackState {
	return s.state
}

func (s *WatchSession) Select(lectureID string) {
	s.CurrentLecture = lectureID
	s.state = StateLectureSelected
}

func (s *WatchSession) Play() {
	if s.CurrentLecture == "" {
		return
	}
	s.state = StatePlaying
}

func (s *WatchSession) Pause() {
	if s.state == StatePlaying {
		s.state = StatePaused
	}
}

func (s *WatchSession) Complete() {
	if s.CurrentLecture == "" {
		return
	}
	s.state = StateCompleted
}

// Advance 播放结束后推进到课程大纲中的下一讲。末节末讲之后没有下一讲，
// 此时保持在当前讲座不动。
func (s *WatchSession) Advance(sections []model.Section) bool {
	next, ok := NextLecture(sections, s.CurrentLecture)
	if !ok {
		return false
	}
	s.Select(next)
	return true
}

// ShouldPersistPosition 播放位置只在 5 秒边界落盘，
// 换更低的写放大而不是每个 timeupdate 都写。
func ShouldPersistPosition(seconds float64) bool {
	if seconds < 0 {
		return false
	}
	return int(math.Floor(seconds))%5 == 0
}

// SelectCurrentLecture 当前讲座的初始化优先级：
// 记忆的最后观看讲座仍存在于大纲中则用它，否则取第一节的第一讲。
// 没有视频的讲座不能成为播放目标，选择时跳过。
func SelectCurrentLecture(sections []model.Section, lastLectureID string) string {
	if lastLectureID != "" {
		for _, section := range sections {
			for i := range section.Lectures {
				if section.Lectures[i].ClientID == lastLectureID && section.Lectures[i].HasVideo() {
					return lastLectureID
				}
			}
		}
	}
	return firstPlayable(sections)
}

func firstPlayable(sections []model.Section) string {
	for _, section := range sections {
		for i := range section.Lectures {
			if section.Lectures[i].HasVideo() {
				return section.Lectures[i].ClientID
			}
		}
	}
	return ""
}

// NextLecture 按大纲顺序线性扫描，跨小节边界取下一讲。
func NextLecture(sections []model.Section, lectureID string) (string, bool) {
	found := false
	for _, section := range sections {
		for i := range section.Lectures {
			if found && section.Lectures[i].HasVideo() {
				return section.Lectures[i].ClientID, true
			}
			if section.Lectures[i].ClientID == lectureID {
				found = true
			}
		}
	}
	return "", false
}
