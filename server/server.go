package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"mediacms/config"
	"mediacms/middleware"
	"mediacms/routes"
	"mediacms/services"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Server struct {
	Port   string
	router *gin.Engine
	svc    *services.Services
	cfg    *config.Config
}

// NewServices 按配置组装业务服务（存储、菜单缓存、AI简介）
func NewServices(ctx context.Context, cfg *config.Config, db *gorm.DB) (*services.Services, error) {
	deps := services.Deps{
		Limits: services.PublishLimits{
			ContentMaxSize: cfg.PublishContentMaxSize,
			VideoMaxSize:   cfg.PublishVideoMaxSize,
		},
		SystemUserID: cfg.SystemUserID,
	}

	switch cfg.StorageDriver {
	case "s3":
		storage, err := services.NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			return nil, errors.Wrap(err, "初始化S3存储失败")
		}
		deps.Storage = storage
	case "local", "":
		deps.Storage = services.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL)
	default:
		return nil, fmt.Errorf("不支持的存储驱动: %s", cfg.StorageDriver)
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("Redis 连接失败，菜单缓存仍会尝试使用")
		}
		deps.MenuCache = services.NewRedisMenuCache(client, cfg.MenuCacheTTL)
	}

	if cfg.AIAPIURL != "" {
		deps.Describer = services.NewOpenAIDescriber(cfg.AIAPIURL, cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout)
	}

	return services.New(db, deps), nil
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config, svc *services.Services) *Server {
	if log.GetLevel() < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())
	router.MaxMultipartMemory = 32 << 20

	if prefix := strings.TrimRight(cfg.MediaURL, "/"); prefix != "" && (cfg.StorageDriver == "local" || cfg.StorageDriver == "") {
		router.Static(prefix, cfg.MediaRoot)
	}

	routes.SetupRoutes(router, svc, routes.Options{
		AdminToken:   cfg.AdminToken,
		SourceConfig: cfg.SourceConfig,
	})

	return &Server{
		Port:   cfg.ServerPort,
		router: router,
		svc:    svc,
		cfg:    cfg,
	}
}

// Handler 供测试使用
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 启动服务器
func (s *Server) Start() error {
	// 同步数据源到数据库
	configs, err := services.LoadSourceConfig(s.cfg.SourceConfig)
	if err != nil {
		log.WithError(err).Warn("读取数据源配置失败")
	} else if _, _, err := s.svc.Sources.SyncSources(context.Background(), configs); err != nil {
		log.WithError(err).Warn("同步数据源失败")
	}

	log.Infof("服务器启动在端口: %s", s.Port)
	if err := s.router.Run(":" + s.Port); err != nil {
		return fmt.Errorf("服务器启动失败: %w", err)
	}
	return nil
}
