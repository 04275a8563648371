package main

import (
	"os"

	"mediacms/config"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func main() {
	config.LoadEnvFile()
	cfg := config.LoadConfig()
	config.InitLogger(cfg.LogLevel, cfg.LogFormat)

	app := cli.NewApp()
	app.Name = "mediacms"
	app.Usage = "媒体内容管理后端"
	app.Version = "1.0.0"
	configure(app, cfg)

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("运行失败")
	}
}

func configure(app *cli.App, cfg *config.Config) {
	app.Commands = []cli.Command{
		makeServeCMD(cfg),
		makeMigrateCMD(cfg),
		makeCollectCMD(cfg),
		makeImportCMD(cfg),
		makeSourcesCMD(cfg),
	}
}
