package controller

import (
	"context"
	"coursehub_backend/internal/util"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// DirectoryPinger 目录服务探活
type DirectoryPinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Directory DirectoryPinger
}

func NewHealthController(db *gorm.DB, rdb *redis.Client, directory DirectoryPinger) *HealthController {
	return &HealthController{DB: db, Redis: rdb, Directory: directory}
}

// HealthCheck godoc
// @Summary 健康检查
// @Description 检查数据库、Redis与课程目录服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	if err := sqlDB.Ping(); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	redisStatus := "up"
	if err := c.Redis.Ping(ctx.Request.Context()).Err(); err != nil {
		redisStatus = "down"
	}

	// 目录服务不可用只降级目录相关功能，不拉低整体健康状态
	directoryStatus := "up"
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()
	if err := c.Directory.Ping(pingCtx); err != nil {
		directoryStatus = "down"
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"database":  "up",
			"redis":     redisStatus,
			"directory": directoryStatus,
		},
	})
}
