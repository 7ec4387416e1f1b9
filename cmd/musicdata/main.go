package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/shiroemons/go-musicdata/internal/musicdata/app"
	"github.com/shiroemons/go-musicdata/internal/musicdata/config"
	"github.com/shiroemons/go-musicdata/pkg/musicdb"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCLI().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "エラー: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:    "musicdata",
		Usage:   "IIDX music database (music_data.bin) tool",
		Version: config.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", TakesFile: true, Usage: "YAML config file path", EnvVars: []string{"MUSICDATA_CONFIG"}},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "Set log level (panic, fatal, error, warn, info, debug, trace)", EnvVars: []string{"LOG_LEVEL"}},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "Debug mode (same as --log-level debug)"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Do everything except writing output files"},
			&cli.StringFlag{Name: "backup-suffix", Usage: "Keep the replaced output file with this suffix, e.g. .bak"},
		},
		Commands: []*cli.Command{
			extractCommand(),
			createCommand(),
			convertCommand(),
			mergeCommand(),
			inspectCommand(),
			lookupCommand(),
		},
	}
}

// loadConfig はデフォルト値、設定ファイル、フラグの順に設定を重ねます
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("backup-suffix") {
		cfg.BackupSuffix = c.String("backup-suffix")
	}
	cfg.DebugMode = c.Bool("debug")
	cfg.DryRun = c.Bool("dry-run")
	return cfg, nil
}

// newApp は設定とロガーを用意してAppを作成します
func newApp(c *cli.Context) (*app.App, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	if c.IsSet("data-version") {
		v, err := parseVersion(c.String("data-version"))
		if err != nil {
			return nil, nil, err
		}
		cfg.DataVersion = v
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.WithFields(logrus.Fields{
		"version":  config.Version,
		"command":  c.Command.Name,
		"dry_run":  cfg.DryRun,
		"registry": fmt.Sprintf("%#x", musicdb.DefaultRegistry().Versions()),
	}).Debug("musicdata を開始します")

	return app.NewWithOptions(cfg, app.Options{Logger: logger}), cfg, nil
}

// parseVersion は 25 や 0x19 の形式のバージョンを読み取ります
func parseVersion(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("不正なデータバージョンです: %q", s)
	}
	return uint32(v), nil
}
