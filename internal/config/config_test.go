package config

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogSettingsRoundTrip(t *testing.T) {
	cfg := &Config{Catalog: CatalogConfig{PageSize: 12, CacheTTLMins: 5}}

	assert.Equal(t, 12, cfg.CatalogSettings().PageSize)

	cfg.SetCatalogSettings(CatalogConfig{PageSize: 24, CacheTTLMins: 10})
	assert.Equal(t, 24, cfg.CatalogSettings().PageSize)
	assert.Equal(t, 10, cfg.CatalogSettings().CacheTTLMins)
}

// 热重载回调和请求处理并发读写目录配置，-race 下必须干净
func TestCatalogSettingsConcurrentReload(t *testing.T) {
	cfg := &Config{Catalog: CatalogConfig{PageSize: 12, CacheTTLMins: 5}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				settings := cfg.CatalogSettings()
				assert.Positive(t, settings.PageSize)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 1000; j++ {
			cfg.SetCatalogSettings(CatalogConfig{PageSize: 12 + j%2, CacheTTLMins: 5})
		}
	}()

	wg.Wait()
	assert.Positive(t, cfg.CatalogSettings().PageSize)
}

func TestDirectoryTimeoutDefault(t *testing.T) {
	d := DirectoryConfig{}
	assert.Equal(t, "10s", d.Timeout().String())

	d.TimeoutSecs = 3
	assert.Equal(t, "3s", d.Timeout().String())
}
