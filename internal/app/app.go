package app

import (
	"context"
	"coursehub_backend/internal/client"
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/controller"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/service"
	"coursehub_backend/pkg/database"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/monitoring"
	"coursehub_backend/pkg/security"
	"coursehub_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 显式装配的应用上下文：会话期创建，退出时拆除，
// 所有依赖注入传递，不走包级单例。
type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	completion *repository.CompletionRepository
	wishlist   *repository.WishlistRepository
}

type services struct {
	catalog  *service.CatalogService
	course   *service.CourseService
	progress *service.ProgressService
	wishlist *service.WishlistService
}

type controllers struct {
	catalog  *controller.CatalogController
	course   *controller.CourseController
	progress *controller.ProgressController
	wishlist *controller.WishlistController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 热更新运行期可生效的配置项。服务层持有同一个 Config 指针，
// 这里只覆盖无需重建组件的字段。
func (a *App) ApplyConfig(newCfg *config.Config) {
	a.Config.SetCatalogSettings(newCfg.CatalogSettings())

	for _, callback := range a.configCallbacks {
		callback(newCfg)
	}
	logger.Log.Info("Configuration reloaded",
		zap.Int("catalog_page_size", newCfg.Catalog.PageSize),
		zap.Int("catalog_cache_ttl_minutes", newCfg.Catalog.CacheTTLMins))
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		completion: repository.NewCompletionRepository(db),
		wishlist:   repository.NewWishlistRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client, directory *client.DirectoryClient) *services {
	return &services{
		catalog:  service.NewCatalogService(directory, rdb, cfg),
		course:   service.NewCourseService(directory, rdb, cfg),
		progress: service.NewProgressService(repos.completion, directory, rdb),
		wishlist: service.NewWishlistService(repos.wishlist),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client, directory *client.DirectoryClient) *controllers {
	return &controllers{
		catalog:  controller.NewCatalogController(s.catalog),
		course:   controller.NewCourseController(s.course),
		progress: controller.NewProgressController(s.progress),
		wishlist: controller.NewWishlistController(s.wishlist),
		health:   controller.NewHealthController(db, rdb, directory),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	directory := client.NewDirectoryClient(cfg.Directory)

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb, directory)
	controllers := app.initControllers(services, db, rdb, directory)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("course-marketplace", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
