package service

import (
	"context"
	"coursehub_backend/internal/client"
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/monitoring"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DirectoryAPI 目录服务契约，按本服务实际消费的操作收敛
type DirectoryAPI interface {
	FetchPublishedCourses(ctx context.Context, q client.DirectoryQuery) ([]model.CourseSummary, error)
	FetchCourse(ctx context.Context, id string) (*model.CourseDetail, error)
	CheckEnrollment(ctx context.Context, userToken, courseID string) (bool, error)
	Enroll(ctx context.Context, userToken, courseID string) error
	FetchProgress(ctx context.Context, userToken, courseID string) (*model.RemoteProgress, error)
	UpdateLectureProgress(ctx context.Context, userToken, courseID, lectureID string, completed bool) error
}

const (
	catalogCacheKey = "catalog:published"
	// 一次批量拉取的上限，过滤/排序/分页都在这份全量列表上做
	directoryBulkLimit = 1000
)

type CatalogService struct {
	Directory DirectoryAPI
	Redis     *redis.Client
	Cfg       *config.Config
}

func NewCatalogService(directory DirectoryAPI, rdb *redis.Client, cfg *config.Config) *CatalogService {
	return &CatalogService{
		Directory: directory,
		Redis:     rdb,
		Cfg:       cfg,
	}
}

type BrowseRequest struct {
	Filter  model.CatalogFilter
	Sort    model.SortKey
	Page    int
	Refresh bool
}

// Browse 目录管线：全量列表（缓存）→ 过滤 → 排序 → 分页
func (s *CatalogService) Browse(ctx context.Context, req BrowseRequest) (model.CatalogPage, error) {
	courses, err := s.publishedCourses(ctx, req.Refresh)
	if err != nil {
		return model.CatalogPage{}, err
	}

	filtered := FilterCourses(courses, req.Filter)
	sorted := SortCourses(filtered, req.Sort)
	return PaginateCourses(sorted, req.Page, s.Cfg.CatalogSettings().PageSize), nil
}

// InvalidateCache 删除全量列表缓存，下一次浏览会直接打到目录服务
func (s *CatalogService) InvalidateCache(ctx context.Context) error {
	return s.Redis.Del(ctx, catalogCacheKey).Err()
}

func (s *CatalogService) publishedCourses(ctx context.Context, refresh bool) ([]model.CourseSummary, error) {
	if !refresh {
		val, err := s.Redis.Get(ctx, catalogCacheKey).Result()
		if err == nil {
			var courses []model.CourseSummary
			if err := json.Unmarshal([]byte(val), &courses); err == nil {
				monitoring.CatalogCacheCounter.WithLabelValues("hit").Inc()
				return courses, nil
			}
			logger.Log.Warn("Corrupt catalog cache entry, refetching", zap.Error(err))
		} else if err != redis.Nil {
			logger.Log.Warn("Catalog cache read failed", zap.Error(err))
		}
	}

	monitoring.CatalogCacheCounter.WithLabelValues("miss").Inc()

	courses, err := s.Directory.FetchPublishedCourses(ctx, client.DirectoryQuery{
		Page:  1,
		Limit: directoryBulkLimit,
	})
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(courses); err == nil {
		ttl := time.Duration(s.Cfg.CatalogSettings().CacheTTLMins) * time.Minute
		if err := s.Redis.Set(ctx, catalogCacheKey, data, ttl).Err(); err != nil {
			logger.Log.Warn("Catalog cache write failed", zap.Error(err))
		}
	}

	return courses, nil
}
