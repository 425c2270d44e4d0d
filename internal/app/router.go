package app

import (
	"coursehub_backend/docs"
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/middleware"
	"coursehub_backend/internal/model"

	"coursehub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公开目录：游客可浏览，登录用户附带身份（报名状态、缓存刷新权限）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/courses", middleware.TryAuthMiddleware(cfg), c.catalog.BrowseCourses)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(cfg), c.course.GetCourse)
	}

	// 2. 需要登录的操作：未认证请求在这里就被拒绝，不会触发任何目录服务调用
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.POST("/courses/:id/enroll", c.course.Enroll)

		authGroup.GET("/courses/:id/progress", c.progress.GetCourseProgress)
		authGroup.POST("/courses/:id/lectures/:lectureId/progress", c.progress.ToggleLectureProgress)

		authGroup.GET("/courses/:id/watch", c.progress.ResumeWatch)
		authGroup.POST("/courses/:id/watch/position", c.progress.RecordPosition)
		authGroup.POST("/courses/:id/watch/ended", c.progress.VideoEnded)

		authGroup.GET("/wishlist", c.wishlist.ListWishlist)
		authGroup.POST("/wishlist", c.wishlist.AddToWishlist)
		authGroup.DELETE("/wishlist/:courseId", c.wishlist.RemoveFromWishlist)
	}

	// 3. 管理操作
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		adminGroup.POST("/catalog/refresh", c.catalog.RefreshCatalog)
	}
}
