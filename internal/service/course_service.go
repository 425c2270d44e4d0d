package service

import (
	"context"
	"coursehub_backend/internal/client"
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/pkg/logger"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	relatedCourseLimit = 3
	autoOpenLatchTTL   = 24 * time.Hour
	enrollFlagTTL      = 24 * time.Hour
)

type CourseService struct {
	Directory DirectoryAPI
	Redis     *redis.Client
	Cfg       *config.Config
}

func NewCourseService(directory DirectoryAPI, rdb *redis.Client, cfg *config.Config) *CourseService {
	return &CourseService{
		Directory: directory,
		Redis:     rdb,
		Cfg:       cfg,
	}
}

// CourseView 详情页的单一渲染态：主读 + 相关课程 + 报名状态
// swagger:model CourseView
type CourseView struct {
	Course          *model.CourseDetail   `json:"course"`
	Related         []model.CourseSummary `json:"related"`
	Enrolled        bool                  `json:"enrolled"`
	EnrollmentKnown bool                  `json:"enrollmentKnown"`
	// 首节自动展开只在首次加载时下发，之后不再覆盖用户的手动折叠
	InitialOpenSection string `json:"initialOpenSection,omitempty"`
}

// GetCourseView 聚合三路独立远程读。主读失败是终态（404，不重试）；
// 相关课程读失败降级为空列表；报名状态读只在登录时发起，失败按未知处理。
// 次读和三读在主读出分类后并发执行。
func (s *CourseService) GetCourseView(ctx context.Context, viewerKey, userToken string, userID uint, courseID string) (*CourseView, error) {
	course, err := s.Directory.FetchCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	view := &CourseView{
		Course:  course,
		Related: []model.CourseSummary{},
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		related, err := s.Directory.FetchPublishedCourses(ctx, client.DirectoryQuery{
			Category: course.BasicInfo.Category,
			Limit:    relatedCourseLimit + 1,
		})
		if err != nil {
			// 相关课程是非关键路径，失败不影响主视图
			logger.Log.Warn("Related courses fetch failed",
				zap.String("courseId", courseID), zap.Error(err))
			return
		}
		picked := make([]model.CourseSummary, 0, relatedCourseLimit)
		for _, c := range related {
			if c.ID == courseID {
				continue
			}
			picked = append(picked, c)
			if len(picked) == relatedCourseLimit {
				break
			}
		}
		view.Related = picked
	}()

	if userToken != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			enrolled, err := s.Directory.CheckEnrollment(ctx, userToken, courseID)
			if err != nil {
				logger.Log.Warn("Enrollment check failed",
					zap.String("courseId", courseID), zap.Error(err))
				return
			}
			view.Enrolled = enrolled
			view.EnrollmentKnown = true
		}()
	}

	wg.Wait()

	// 乐观报名标记覆盖慢一拍的远端读
	if userID != 0 && !view.Enrolled {
		if val, err := s.Redis.Get(ctx, enrollFlagKey(userID, courseID)).Result(); err == nil && val == "1" {
			view.Enrolled = true
			view.EnrollmentKnown = true
		}
	}

	view.InitialOpenSection = s.autoOpenSection(ctx, viewerKey, course)

	return view, nil
}

// autoOpenSection 首节自动展开的一次性闩锁，按 (viewer, course) 作用域
func (s *CourseService) autoOpenSection(ctx context.Context, viewerKey string, course *model.CourseDetail) string {
	if len(course.Curriculum.Sections) == 0 {
		return ""
	}

	key := fmt.Sprintf("course_%s_autoopen:%s", course.ID, viewerKey)
	set, err := s.Redis.SetNX(ctx, key, "1", autoOpenLatchTTL).Result()
	if err != nil {
		logger.Log.Warn("Auto-open latch failed", zap.Error(err))
		return ""
	}
	if !set {
		return ""
	}
	return course.Curriculum.Sections[0].ClientID
}

// Enroll 先走远端报名，成功后立即落乐观标记，再后台对账一次报名状态。
// 未登录请求在路由层就被拒绝，不会走到这里。
func (s *CourseService) Enroll(ctx context.Context, userToken string, userID uint, courseID string) error {
	if err := s.Directory.Enroll(ctx, userToken, courseID); err != nil {
		return err
	}

	flagKey := enrollFlagKey(userID, courseID)
	if err := s.Redis.Set(ctx, flagKey, "1", enrollFlagTTL).Err(); err != nil {
		logger.Log.Warn("Optimistic enroll flag write failed", zap.Error(err))
	}

	// 后台对账与请求生命周期无关，用独立的 context
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		enrolled, err := s.Directory.CheckEnrollment(bgCtx, userToken, courseID)
		if err != nil {
			logger.Log.Warn("Enrollment reconcile fetch failed",
				zap.String("courseId", courseID), zap.Error(err))
			return
		}
		if !enrolled {
			s.Redis.Del(bgCtx, flagKey)
		}
	}()

	return nil
}

func enrollFlagKey(userID uint, courseID string) string {
	return fmt.Sprintf("enroll_%d_%s", userID, courseID)
}
