package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DBDriver         string // postgres / sqlite
	DatabaseURL      string // あれば最優先（postgres）
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	SQLitePath       string // sqliteのファイル（file::memory:も可）

	LocalStorageDriver string        // gorm / redis / memory
	LocalStorageTTL    time.Duration // redisのキー寿命（0なら無期限）
	QueryCacheDriver   string        // memory / redis
	QueryCacheTTL      time.Duration // バックエンド応答のキャッシュ寿命
	RedisAddr          string        // redis（localhost:6379）

	KafkaBrokers []string // 空ならイベントは監査ログのみ
	KafkaTopic   string

	BackendBaseURL string // 外部REST API

	JWTSecret      string        // 端末トークンの署名シークレット
	DeviceTokenTTL time.Duration // 端末トークンの寿命

	PortalOrigins []string // CORSで許可するポータル

	WorkspaceIdleTTL       time.Duration // 端末の状態をメモリに置いておく時間（0なら無期限）
	WorkspaceSweepInterval time.Duration
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := atoiDefault("QUERY_CACHE_TTL_SECONDS", 30)
	if err != nil {
		return Config{}, err
	}
	storageTTL, err := durationDefault("LOCAL_STORAGE_TTL", 0)
	if err != nil {
		return Config{}, err
	}
	tokenTTL, err := durationDefault("DEVICE_TOKEN_TTL", 30*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	idleTTL, err := durationDefault("WORKSPACE_IDLE_TTL", 30*time.Minute)
	if err != nil {
		return Config{}, err
	}
	sweep, err := durationDefault("WORKSPACE_SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8081"),

		DBDriver:         getenv("DB_DRIVER", "postgres"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "fooddash"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		SQLitePath:       getenv("SQLITE_PATH", "fooddash.db"),

		LocalStorageDriver: getenv("LOCAL_STORAGE_DRIVER", "gorm"),
		LocalStorageTTL:    storageTTL,
		QueryCacheDriver:   getenv("QUERY_CACHE_DRIVER", "memory"),
		QueryCacheTTL:      time.Duration(cacheTTL) * time.Second,
		RedisAddr:          getenv("REDIS_ADDR", "localhost:6379"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "portal-events"),

		BackendBaseURL: strings.TrimRight(getenv("BACKEND_BASE_URL", "http://localhost:8080"), "/"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		DeviceTokenTTL: tokenTTL,

		PortalOrigins: splitList(getenv("PORTAL_ORIGINS", "http://localhost:3000,http://localhost:3001,http://localhost:3002")),

		WorkspaceIdleTTL:       idleTTL,
		WorkspaceSweepInterval: sweep,
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or sqlite: %q", cfg.DBDriver)
	}
	switch cfg.LocalStorageDriver {
	case "gorm", "redis", "memory":
	default:
		return Config{}, fmt.Errorf("LOCAL_STORAGE_DRIVER must be gorm, redis or memory: %q", cfg.LocalStorageDriver)
	}
	switch cfg.QueryCacheDriver {
	case "memory", "redis":
	default:
		return Config{}, fmt.Errorf("QUERY_CACHE_DRIVER must be memory or redis: %q", cfg.QueryCacheDriver)
	}
	if cfg.WorkspaceIdleTTL > 0 && cfg.WorkspaceSweepInterval <= 0 {
		return Config{}, fmt.Errorf("WORKSPACE_SWEEP_INTERVAL must be positive")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return Config{}, fmt.Errorf("KAFKA_TOPIC is required")
	}

	return cfg, nil
}

// redisを使う設定か
func (c Config) UsesRedis() bool {
	return c.LocalStorageDriver == "redis" || c.QueryCacheDriver == "redis"
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

// カンマ区切り
func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
