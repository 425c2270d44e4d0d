package configwatcher

import (
	"coursehub_backend/internal/config"
	"coursehub_backend/pkg/logger"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, path string, pageSize int) {
	t.Helper()
	content := fmt.Sprintf(`server:
  port: "8080"
  mode: "debug"

directory:
  base_url: "http://localhost:9000/api"

catalog:
  page_size: %d
  cache_ttl_minutes: 5
`, pageSize)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func awaitReload(t *testing.T, reloads <-chan *config.Config) *config.Config {
	t.Helper()
	select {
	case cfg := <-reloads:
		return cfg
	case <-time.After(10 * time.Second):
		t.Fatal("config write did not trigger a reload")
		return nil
	}
}

// 配置加载走全局 viper，单个测试内串行验证重载、重复重载与突发写合并
func TestWatchConfigReloadsOnWrite(t *testing.T) {
	logger.Log = zap.NewNop()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, 12)

	reloads := make(chan *config.Config, 16)
	go WatchConfig(path, nil, func(newCfg interface{}) {
		if cfg, ok := newCfg.(*config.Config); ok {
			reloads <- cfg
		}
	})

	// 等 watcher 完成注册
	time.Sleep(300 * time.Millisecond)

	writeConfig(t, path, 24)
	cfg := awaitReload(t, reloads)
	assert.Equal(t, 24, cfg.Catalog.PageSize)

	// 第二次改动同样触发：防抖计时器复位后可以再次到期
	writeConfig(t, path, 36)
	cfg = awaitReload(t, reloads)
	assert.Equal(t, 36, cfg.Catalog.PageSize)

	// 连续快写合并为一次重载，读到的是最后一次内容
	for i := 0; i < 5; i++ {
		writeConfig(t, path, 40+i)
		time.Sleep(50 * time.Millisecond)
	}

	cfg = awaitReload(t, reloads)
	assert.Equal(t, 44, cfg.Catalog.PageSize)

	select {
	case extra := <-reloads:
		t.Fatalf("burst writes produced a second reload (page_size=%d)", extra.Catalog.PageSize)
	case <-time.After(2 * time.Second):
	}
}
