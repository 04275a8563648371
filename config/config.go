/*
Package config 配置管理包

项目结构说明：
================

	/
	├── main.go              # 程序入口（serve / migrate / collect / sources 命令）
	├── config/              # 配置、日志、数据库
	├── server/              # HTTP服务器
	├── routes/              # API路由注册
	├── handles/             # 请求处理层
	├── services/            # 业务层（分类树、媒体、目录、互动、列表查询、发布、采集）
	├── models/              # 数据库模型
	├── middleware/          # 中间件（日志、管理员认证、用户身份）
	└── utils/               # 工具函数（分页参数、统一响应、播放地址解析）

数据流向：
1. main.go -> 加载 .env 和配置 -> 初始化日志和数据库 -> 启动server
2. server -> 组装services -> 注册routes -> handles处理请求
3. handles -> 调用services -> 操作models（数据库）

运行方式：
1. 服务器:   ./mediacms serve --port=8080
2. 迁移:     ./mediacms migrate
3. 采集:     ./mediacms collect --source=hhzy --mode=today
*/
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort string

	DBDriver     string // sqlite / mysql
	DatabasePath string
	DatabaseDSN  string

	LogLevel  string
	LogFormat string

	AdminToken   string
	SystemUserID uint

	StorageDriver string // local / s3
	MediaRoot     string
	MediaURL      string
	S3Bucket      string
	S3Region      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MenuCacheTTL  time.Duration

	AIAPIURL  string
	AIAPIKey  string
	AIModel   string
	AITimeout time.Duration

	PublishContentMaxSize int64
	PublishVideoMaxSize   int64

	SourceConfig string
}

var AppConfig *Config

// LoadEnvFile 加载 .env 文件（文件不存在不算错误）
func LoadEnvFile(files ...string) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("加载 .env 文件失败")
	}
}

// LoadConfig 加载配置
func LoadConfig() *Config {
	AppConfig = &Config{
		ServerPort:   getEnv("PORT", "8080"),
		DBDriver:     getEnv("DB_DRIVER", "sqlite"),
		DatabasePath: getEnv("DB_PATH", "mediacms.db"),
		DatabaseDSN:  getEnv("DB_DSN", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		AdminToken:   getEnv("ADMIN_TOKEN", "mediacms_admin_2025"),
		SystemUserID: uint(getEnvInt("SYSTEM_USER_ID", 1)),

		StorageDriver: getEnv("STORAGE_DRIVER", "local"),
		MediaRoot:     getEnv("MEDIA_ROOT", "media"),
		MediaURL:      getEnv("MEDIA_URL", "/media/"),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		MenuCacheTTL:  getEnvDuration("MENU_CACHE_TTL", 10*time.Minute),

		AIAPIURL:  getEnv("AI_API_URL", ""),
		AIAPIKey:  getEnv("AI_API_KEY", ""),
		AIModel:   getEnv("AI_MODEL", "gpt-3.5-turbo"),
		AITimeout: getEnvDuration("AI_TIMEOUT", 15*time.Second),

		PublishContentMaxSize: getEnvBytes("PUBLISH_CONTENT_MAX_SIZE", 100*humanize.MiByte),
		PublishVideoMaxSize:   getEnvBytes("PUBLISH_VIDEO_MAX_SIZE", 500*humanize.MiByte),

		SourceConfig: getEnv("SOURCE_CONFIG", "sources_config.json"),
	}
	return AppConfig
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		log.WithField("key", key).Warnf("无效的整数配置 %q，使用默认值 %d", value, defaultValue)
		return defaultValue
	}
	return i
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.WithField("key", key).Warnf("无效的时长配置 %q，使用默认值 %s", value, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvBytes 支持 "100MB"、"512MiB" 这类写法
func getEnvBytes(key string, defaultValue uint64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return int64(defaultValue)
	}
	n, err := humanize.ParseBytes(value)
	if err != nil {
		log.WithField("key", key).Warnf("无效的大小配置 %q，使用默认值 %s", value, humanize.IBytes(defaultValue))
		return int64(defaultValue)
	}
	return int64(n)
}
