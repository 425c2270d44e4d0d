// @title CourseHub BFF API
// @version 1.0
// @description Catalog, course-detail and progress-tracking service for the course marketplace web client.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"coursehub_backend/internal/app"
	"coursehub_backend/internal/config"
	"coursehub_backend/pkg/configwatcher"
	"coursehub_backend/pkg/logger"
	"flag"
	"log"
	"path/filepath"
)

func main() {
	configPath := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 配置热加载：目录分页、缓存 TTL 等运行期参数改动无需重启
	go configwatcher.WatchConfig(filepath.Join(*configPath, "config.yaml"), cfg, func(newCfg interface{}) {
		if reloaded, ok := newCfg.(*config.Config); ok {
			application.ApplyConfig(reloaded)
		}
	})

	application.Run()
}
