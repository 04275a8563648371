package config

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// InitLogger 初始化日志
func InitLogger(level, format string) {
	log.SetOutput(os.Stdout)

	if format == "json" {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.WithError(err).Warnf("无效的日志级别 %q，使用 info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
