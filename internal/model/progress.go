package model

import (
	"encoding/json"
	"time"
)

// LectureCompletion 本地完成镜像，远端进度记录的快速副本
// swagger:model LectureCompletion
type LectureCompletion struct {
	BaseModel
	UserID      uint      `gorm:"index:idx_user_course_lecture,unique"`
	CourseID    string    `gorm:"size:64;index:idx_user_course_lecture,unique"`
	LectureID   string    `gorm:"size:64;index:idx_user_course_lecture,unique"`
	CompletedAt time.Time `json:"completedAt"`
}

func (LectureCompletion) TableName() string {
	return "lecture_completions"
}

type CompletedLecture struct {
	LectureID   string     `json:"lectureId"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// RemoteProgress 远端进度记录。上游有两种响应形态：
// {"completedLectures": ["L1","L2"]} 和
// {"completedLectures": [{"lectureId":"L1","completedAt":"..."}]}
// 解码时统一为 CompletedLecture 列表。
type RemoteProgress struct {
	Completed []CompletedLecture
}

func (p *RemoteProgress) UnmarshalJSON(data []byte) error {
	var envelope struct {
		CompletedLectures []json.RawMessage `json:"completedLectures"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	p.Completed = make([]CompletedLecture, 0, len(envelope.CompletedLectures))
	for _, raw := range envelope.CompletedLectures {
		var id string
		if err := json.Unmarshal(raw, &id); err == nil {
			p.Completed = append(p.Completed, CompletedLecture{LectureID: id})
			continue
		}
		var obj CompletedLecture
		if err := json.Unmarshal(raw, &obj); err != nil {
			return err
		}
		p.Completed = append(p.Completed, obj)
	}
	return nil
}

// CourseProgressView 进度接口的响应体
// swagger:model CourseProgressView
type CourseProgressView struct {
	CourseID          string             `json:"courseId"`
	CompletedLectures []string           `json:"completedLectures"`
	LastLectureID     string             `json:"lastLectureId,omitempty"`
	PlaybackSeconds   map[string]float64 `json:"playbackSeconds,omitempty"`
	RemoteDegraded    bool               `json:"remoteDegraded"`
}
