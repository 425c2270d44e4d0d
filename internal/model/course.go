package model

import (
	"encoding/json"
	"time"
)

type CourseLevel string

const (
	LevelAll          CourseLevel = "all-levels"
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelExpert       CourseLevel = "expert"
)

// BasicInfo 课程基础信息，来自目录服务，已发布课程的 Title/Category 一定非空
// swagger:model BasicInfo
type BasicInfo struct {
	Title            string      `json:"title"`
	Subtitle         string      `json:"subtitle"`
	Category         string      `json:"category"`
	SubCategory      string      `json:"subCategory"`
	Level            CourseLevel `json:"level"`
	DurationValue    int         `json:"durationValue"`
	DurationUnit     string      `json:"durationUnit"`
	PrimaryLanguage  string      `json:"primaryLanguage"`
	SubtitleLanguage string      `json:"subtitleLanguage,omitempty"`
}

type Price struct {
	Amount float64 `json:"amount"`
}

// CourseSummary 目录列表中的一行
// swagger:model CourseSummary
type CourseSummary struct {
	ID        string    `json:"_id"`
	BasicInfo BasicInfo `json:"basicInfo"`
	Price     Price     `json:"price"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

type Video struct {
	URL      string  `json:"url"`
	Duration float64 `json:"duration"`
}

type FileRef struct {
	URL string `json:"url"`
}

type Attachment struct {
	Title string  `json:"title"`
	File  FileRef `json:"file"`
}

// Lecture 没有 Video.URL 的讲座不能成为播放目标
// swagger:model Lecture
type Lecture struct {
	ClientID    string       `json:"clientId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Video       *Video       `json:"video,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// HasVideo 讲座是否可作为播放目标
func (l *Lecture) HasVideo() bool {
	return l.Video != nil && l.Video.URL != ""
}

type Section struct {
	ClientID string    `json:"clientId"`
	Title    string    `json:"title"`
	Lectures []Lecture `json:"lectures"`
}

type Curriculum struct {
	Sections []Section `json:"sections"`
}

type AdvancedInfo struct {
	Description      string   `json:"description"`
	WhatYouWillLearn []string `json:"whatYouWillLearn"`
	Requirements     []string `json:"requirements"`
	TargetAudience   []string `json:"targetAudience"`
	ThumbnailURL     string   `json:"thumbnailUrl,omitempty"`
	TrailerURL       string   `json:"trailerUrl,omitempty"`
}

// Instructor 上游返回裸 id 字符串或展开对象两种形态，入口处统一规整为本结构。
// Expanded 为 false 时仅 ID 有效。
type Instructor struct {
	ID        string `json:"_id"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	Email     string `json:"email,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Expanded  bool   `json:"-"`
}

func (i *Instructor) UnmarshalJSON(data []byte) error {
	var ref string
	if err := json.Unmarshal(data, &ref); err == nil {
		i.ID = ref
		i.Expanded = false
		return nil
	}

	type expanded Instructor
	var obj expanded
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*i = Instructor(obj)
	i.Expanded = true
	return nil
}

// CourseDetail CourseSummary 的超集
// swagger:model CourseDetail
type CourseDetail struct {
	CourseSummary
	AdvancedInfo AdvancedInfo `json:"advancedInfo"`
	Curriculum   Curriculum   `json:"curriculum"`
	Instructor   Instructor   `json:"instructor"`
}
