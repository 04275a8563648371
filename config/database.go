package config

import (
	"fmt"
	"time"

	"mediacms/models"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// AllModels 需要自动迁移的模型
func AllModels() []interface{} {
	return []interface{}{
		&models.Category{},
		&models.TagCategory{},
		&models.Tag{},
		&models.VideoMedia{},
		&models.VideoMediaFile{},
		&models.EncodeProfile{},
		&models.Encoding{},
		&models.ImageResource{},
		&models.Video{},
		&models.VideoCategory{},
		&models.VideoTag{},
		&models.SeriesVideo{},
		&models.Actor{},
		&models.Director{},
		&models.VideoActor{},
		&models.VideoDirector{},
		&models.Comment{},
		&models.Danmaku{},
		&models.Rating{},
		&models.VideoCache{},
		&models.HotSearch{},
		&models.Music{},
		&models.Album{},
		&models.Playlist{},
		&models.PlaylistMusic{},
		&models.ThirdPartySource{},
		&models.CollectionLog{},
	}
}

// Migrate 自动迁移表结构
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return errors.Wrap(err, "数据库迁移失败")
	}
	return nil
}

// OpenDatabase 按配置打开数据库连接
func OpenDatabase(cfg *Config) (*gorm.DB, error) {
	// gorm 日志统一输出到 logrus
	newLogger := logger.New(
		log.StandardLogger(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		if cfg.DatabaseDSN == "" {
			return nil, fmt.Errorf("DB_DRIVER=mysql 时必须设置 DB_DSN")
		}
		dialector = mysql.Open(cfg.DatabaseDSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DatabasePath + "?_foreign_keys=on")
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "连接数据库失败")
	}
	return db, nil
}

// InitDatabase 初始化数据库
func InitDatabase(cfg *Config) error {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}

	if err := Migrate(db); err != nil {
		return err
	}

	DB = db
	log.WithField("driver", cfg.DBDriver).Info("数据库初始化成功")
	return nil
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return DB
}

func gormLogLevel() logger.LogLevel {
	switch log.GetLevel() {
	case log.DebugLevel, log.TraceLevel:
		return logger.Info
	case log.InfoLevel, log.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}
