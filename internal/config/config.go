package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Directory DirectoryConfig `mapstructure:"directory"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Catalog 支持热重载，读写都走 CatalogSettings/SetCatalogSettings
	mu sync.RWMutex
}

// CatalogSettings 目录配置的并发安全快照
func (c *Config) CatalogSettings() CatalogConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Catalog
}

// SetCatalogSettings 热重载回调用，替换运行期目录配置
func (c *Config) SetCatalogSettings(catalog CatalogConfig) {
	c.mu.Lock()
	c.Catalog = catalog
	c.mu.Unlock()
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

// DirectoryConfig 远程课程目录服务的访问配置
type DirectoryConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	ServiceToken string `mapstructure:"service_token"`
	TimeoutSecs  int    `mapstructure:"timeout_seconds"`
}

type CatalogConfig struct {
	PageSize     int `mapstructure:"page_size"`
	CacheTTLMins int `mapstructure:"cache_ttl_minutes"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func (c *DirectoryConfig) Timeout() time.Duration {
	if c.TimeoutSecs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSecs) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("COURSEHUB")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// 课程目录服务
	viper.BindEnv("directory.base_url", "DIRECTORY_BASE_URL")
	viper.BindEnv("directory.service_token", "DIRECTORY_SERVICE_TOKEN")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Directory.BaseURL == "" {
		return nil, fmt.Errorf("directory.base_url is required")
	}

	if cfg.Catalog.PageSize <= 0 {
		cfg.Catalog.PageSize = 12
	}
	if cfg.Catalog.CacheTTLMins <= 0 {
		cfg.Catalog.CacheTTLMins = 5
	}

	return &cfg, nil
}
