package service

import (
	"context"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	remoteSyncTimeout = 10 * time.Second
	syncFailedTTL     = time.Hour
)

// ProgressService 进度追踪。本地镜像（MySQL + Redis 热键）是本会话的乐观事实源，
// 远端进度记录是最终事实源，两者用并集对账：本地标记过完成的讲座
// 不会被返回旧快照的远端读抹掉。
type ProgressService struct {
	Completions *repository.CompletionRepository
	Directory   DirectoryAPI
	Redis       *redis.Client
}

func NewProgressService(completions *repository.CompletionRepository, directory DirectoryAPI, rdb *redis.Client) *ProgressService {
	return &ProgressService{
		Completions: completions,
		Directory:   directory,
		Redis:       rdb,
	}
}

// MergeCompleted 并集对账：合并集 ⊇ 本地集且 ⊇ 远端集，幂等，只增不减。
// 返回远端有而本地缺失的部分，调用方回写镜像。
func MergeCompleted(local []string, remote []model.CompletedLecture) ([]string, []model.CompletedLecture) {
	seen := make(map[string]bool, len(local))
	merged := make([]string, 0, len(local)+len(remote))
	for _, id := range local {
		if seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, id)
	}

	var missing []model.CompletedLecture
	for _, l := range remote {
		if seen[l.LectureID] {
			continue
		}
		seen[l.LectureID] = true
		merged = append(merged, l.LectureID)
		missing = append(missing, l)
	}
	return merged, missing
}

// CourseProgress 加载进度：本地镜像 ∪ 远端记录，并集落回镜像。
// 远端读失败降级为仅本地数据。
func (s *ProgressService) CourseProgress(ctx context.Context, userToken string, userID uint, courseID string) (*model.CourseProgressView, error) {
	local, err := s.Completions.CompletedLectureIDs(userID, courseID)
	if err != nil {
		return nil, err
	}

	view := &model.CourseProgressView{
		CourseID:          courseID,
		CompletedLectures: local,
	}

	remote, err := s.Directory.FetchProgress(ctx, userToken, courseID)
	if err != nil {
		logger.Log.Warn("Remote progress fetch failed, serving local mirror",
			zap.String("courseId", courseID), zap.Error(err))
		view.RemoteDegraded = true
	} else {
		merged, missing := MergeCompleted(local, remote.Completed)
		view.CompletedLectures = merged
		if err := s.Completions.MarkManyCompleted(userID, courseID, missing); err != nil {
			logger.Log.Error("Mirror backfill failed", zap.Error(err))
		}
	}

	if lastID, err := s.Redis.Get(ctx, s.lastLectureKey(userID, courseID)).Result(); err == nil && lastID != "" {
		view.LastLectureID = lastID
		if val, err := s.Redis.Get(ctx, s.lectureTimeKey(userID, courseID, lastID)).Result(); err == nil {
			if seconds, err := strconv.ParseFloat(val, 64); err == nil {
				view.PlaybackSeconds = map[string]float64{lastID: seconds}
			}
		}
	}

	return view, nil
}

// ToggleLecture 完成切换：同步写本地镜像，异步写远端。两者从不要求事务一致，
// 远端失败只记录并打同步失败标记供前端提示。
func (s *ProgressService) ToggleLecture(ctx context.Context, userToken string, userID uint, courseID, lectureID string, completed bool) error {
	if completed {
		if err := s.Completions.MarkCompleted(userID, courseID, lectureID, time.Now()); err != nil {
			return err
		}
	} else {
		if err := s.Completions.Unmark(userID, courseID, lectureID); err != nil {
			return err
		}
	}

	// 本地写成功即失效进度缓存
	s.Redis.Del(ctx, s.completedKey(userID, courseID))

	go s.syncRemote(userToken, userID, courseID, lectureID, completed)

	return nil
}

func (s *ProgressService) syncRemote(userToken string, userID uint, courseID, lectureID string, completed bool) {
	bgCtx, cancel := context.WithTimeout(context.Background(), remoteSyncTimeout)
	defer cancel()

	if err := s.Directory.UpdateLectureProgress(bgCtx, userToken, courseID, lectureID, completed); err != nil {
		logger.Log.Error("Remote progress sync failed",
			zap.String("courseId", courseID),
			zap.String("lectureId", lectureID),
			zap.Error(err))
		s.Redis.Set(bgCtx, s.syncFailedKey(userID, courseID), lectureID, syncFailedTTL)
		return
	}
	s.Redis.Del(bgCtx, s.syncFailedKey(userID, courseID))
}

// RecordPosition 播放位置上报。最后观看讲座每次都记，
// 秒数只在 5 秒边界落盘，返回本次是否持久化。
func (s *ProgressService) RecordPosition(ctx context.Context, userID uint, courseID, lectureID string, seconds float64) (bool, error) {
	if err := s.Redis.Set(ctx, s.lastLectureKey(userID, courseID), lectureID, 0).Err(); err != nil {
		return false, err
	}

	if !ShouldPersistPosition(seconds) {
		return false, nil
	}

	key := s.lectureTimeKey(userID, courseID, lectureID)
	if err := s.Redis.Set(ctx, key, strconv.FormatFloat(seconds, 'f', -1, 64), 0).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// AdvanceResult 播放结束处理的结果
// swagger:model AdvanceResult
type AdvanceResult struct {
	CompletedLecture string `json:"completedLecture"`
	NextLecture      string `json:"nextLecture,omitempty"`
	Advanced         bool   `json:"advanced"`
}

// VideoEnded 视频播完：未完成则自动标记完成，然后按大纲顺序推进到下一讲。
// 末节末讲播完时推进是空操作，停在已完成的当前讲。
func (s *ProgressService) VideoEnded(ctx context.Context, userToken string, userID uint, courseID, lectureID string) (*AdvanceResult, error) {
	course, err := s.Directory.FetchCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	sections := course.Curriculum.Sections
	if !lectureExists(sections, lectureID) {
		return nil, util.ErrLectureNotFound
	}

	done, err := s.Completions.IsCompleted(userID, courseID, lectureID)
	if err != nil {
		return nil, err
	}
	if !done {
		if err := s.Completions.MarkCompleted(userID, courseID, lectureID, time.Now()); err != nil {
			return nil, err
		}
		s.Redis.Del(ctx, s.completedKey(userID, courseID))
		go s.syncRemote(userToken, userID, courseID, lectureID, true)
	}

	session := NewWatchSession()
	session.Select(lectureID)
	session.Complete()

	result := &AdvanceResult{CompletedLecture: lectureID}
	if session.Advance(sections) {
		result.NextLecture = session.CurrentLecture
		result.Advanced = true
		if err := s.Redis.Set(ctx, s.lastLectureKey(userID, courseID), session.CurrentLecture, 0).Err(); err != nil {
			logger.Log.Warn("Last-lecture memory write failed", zap.Error(err))
		}
	}

	return result, nil
}

// ResumeView 观看页恢复态
// swagger:model ResumeView
type ResumeView struct {
	CurrentLecture   string  `json:"currentLecture,omitempty"`
	PlaybackSeconds  float64 `json:"playbackSeconds"`
	RemoteSyncFailed bool    `json:"remoteSyncFailed"`
}

// Resume 观看页初始化：记忆的最后讲座仍在大纲中则恢复到它，否则落到第一节第一讲。
func (s *ProgressService) Resume(ctx context.Context, userID uint, courseID string, sections []model.Section) (*ResumeView, error) {
	lastID, err := s.Redis.Get(ctx, s.lastLectureKey(userID, courseID)).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	current := SelectCurrentLecture(sections, lastID)
	view := &ResumeView{CurrentLecture: current}

	if current != "" {
		if val, err := s.Redis.Get(ctx, s.lectureTimeKey(userID, courseID, current)).Result(); err == nil {
			if seconds, err := strconv.ParseFloat(val, 64); err == nil {
				view.PlaybackSeconds = seconds
			}
		}
	}

	if _, err := s.Redis.Get(ctx, s.syncFailedKey(userID, courseID)).Result(); err == nil {
		view.RemoteSyncFailed = true
	}

	return view, nil
}

// ResumeCourse 拉取大纲后计算恢复态，观看页入口用
func (s *ProgressService) ResumeCourse(ctx context.Context, userID uint, courseID string) (*ResumeView, error) {
	course, err := s.Directory.FetchCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.Resume(ctx, userID, courseID, course.Curriculum.Sections)
}

// Redis 键保持目录契约中的 course_{id}_* 形态，按用户加前缀

func (s *ProgressService) completedKey(userID uint, courseID string) string {
	return fmt.Sprintf("progress:%d:course_%s_completed", userID, courseID)
}

func (s *ProgressService) lastLectureKey(userID uint, courseID string) string {
	return fmt.Sprintf("progress:%d:course_%s_last_lecture", userID, courseID)
}

func (s *ProgressService) lectureTimeKey(userID uint, courseID, lectureID string) string {
	return fmt.Sprintf("progress:%d:course_%s_lecture_%s_time", userID, courseID, lectureID)
}

func (s *ProgressService) syncFailedKey(userID uint, courseID string) string {
	return fmt.Sprintf("progress:%d:course_%s_sync_failed", userID, courseID)
}

func lectureExists(sections []model.Section, lectureID string) bool {
	for _, section := range sections {
		for i := range section.Lectures {
			if section.Lectures[i].ClientID == lectureID {
				return true
			}
		}
	}
	return false
}
