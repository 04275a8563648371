package main

import (
	"context"
	"fmt"
	"strings"

	"mediacms/config"
	"mediacms/server"
	"mediacms/services"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func makeServeCMD(cfg *config.Config) cli.Command {
	return cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serves HTTP API",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "port, p",
				Usage: "listening port",
				Value: cfg.ServerPort,
			},
		},
		Action: func(c *cli.Context) error {
			cfg.ServerPort = c.String("port")
			svc, err := setup(cfg)
			if err != nil {
				return err
			}
			return server.NewServer(cfg, svc).Start()
		},
	}
}

func makeMigrateCMD(cfg *config.Config) cli.Command {
	return cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrates database",
		Action: func(c *cli.Context) error {
			if err := config.InitDatabase(cfg); err != nil {
				return err
			}
			log.Info("数据库迁移完成")
			return nil
		},
	}
}

func makeCollectCMD(cfg *config.Config) cli.Command {
	return cli.Command{
		Name:    "collect",
		Aliases: []string{"c"},
		Usage:   "Collects videos from third-party sources",
		Flags: []cli.Flag{
			cli.StringSliceFlag{
				Name:  "source",
				Usage: "source key, repeatable (default: all active sources)",
			},
			cli.StringFlag{
				Name:  "mode",
				Usage: "today, week, month or all",
				Value: string(services.CollectToday),
			},
			cli.IntFlag{
				Name:  "max-pages",
				Usage: "page limit per source, 0 means no limit",
				Value: 5,
			},
		},
		Action: func(c *cli.Context) error {
			mode, err := services.ParseCollectMode(c.String("mode"))
			if err != nil {
				return err
			}
			svc, err := setup(cfg)
			if err != nil {
				return err
			}

			logs, err := svc.Import.CollectSources(context.Background(), c.StringSlice("source"), mode, c.Int("max-pages"))
			for _, l := range logs {
				fmt.Printf("%-10s %-8s 新增 %d  更新 %d  失败 %d  耗时 %s\n",
					l.SourceKey, l.Status, l.CreatedCount, l.UpdatedCount, l.ErrorCount, l.Duration)
			}
			return err
		},
	}
}

func makeImportCMD(cfg *config.Config) cli.Command {
	return cli.Command{
		Name:  "import",
		Usage: "Imports a saved AppleCMS JSON file",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "source", Usage: "source key"},
			cli.StringFlag{Name: "file", Usage: "json file, defaults to <source>_vod.json"},
		},
		Action: func(c *cli.Context) error {
			key := c.String("source")
			if key == "" {
				return cli.NewExitError("必须指定 --source", 1)
			}
			file := c.String("file")
			if file == "" {
				file = key + "_vod.json"
			}
			svc, err := setup(cfg)
			if err != nil {
				return err
			}
			stats, err := svc.Import.ImportFile(context.Background(), key, file)
			if err != nil {
				return err
			}
			if len(stats.Message) > 0 {
				fmt.Println(strings.Join(stats.Message, "\n"))
			}
			return nil
		},
	}
}

func makeSourcesCMD(cfg *config.Config) cli.Command {
	syncCmd := cli.Command{
		Name:  "sync",
		Usage: "Syncs sources from the config file",
		Action: func(c *cli.Context) error {
			svc, err := setup(cfg)
			if err != nil {
				return err
			}
			configs, err := services.LoadSourceConfig(cfg.SourceConfig)
			if err != nil {
				return err
			}
			created, updated, err := svc.Sources.SyncSources(context.Background(), configs)
			if err != nil {
				return err
			}
			fmt.Printf("数据源同步完成: 新增 %d 个，更新 %d 个\n", created, updated)
			return nil
		},
	}
	listCmd := cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Lists sources",
		Action: func(c *cli.Context) error {
			svc, err := setup(cfg)
			if err != nil {
				return err
			}
			sources, err := svc.Sources.ListSources(context.Background(), false)
			if err != nil {
				return err
			}
			for _, s := range sources {
				status := "启用"
				if !s.IsActive {
					status = "停用"
				}
				fmt.Printf("%-10s %-12s %s  %s\n", s.Key, s.Name, status, s.BaseURL)
			}
			return nil
		},
	}
	return cli.Command{
		Name:        "sources",
		Usage:       "Manages third-party sources",
		Subcommands: []cli.Command{syncCmd, listCmd},
	}
}

// setup 初始化数据库并组装服务
func setup(cfg *config.Config) (*services.Services, error) {
	if err := config.InitDatabase(cfg); err != nil {
		return nil, err
	}
	return server.NewServices(context.Background(), cfg, config.GetDB())
}
