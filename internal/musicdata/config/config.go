// Package config はmusicdataコマンドの設定管理を行います
package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/shiroemons/go-musicdata/pkg/musicdb"
)

const Version = "0.1.0"

// Config はアプリケーションの設定を保持します
type Config struct {
	// DataVersion はドキュメントにバージョンがない場合に使うスキーマバージョン
	DataVersion uint32 `yaml:"data_version"`
	// LogLevel はlogrusのログレベル
	LogLevel string `yaml:"log_level"`
	// BackupSuffix が空でなければ、上書き前のファイルを退避します
	BackupSuffix string `yaml:"backup_suffix"`
	// Indent はJSON出力のインデント
	Indent string `yaml:"indent"`

	DebugMode bool `yaml:"-"`
	DryRun    bool `yaml:"-"`
}

// Default はデフォルトの設定を返します
func Default() *Config {
	return &Config{
		DataVersion: musicdb.Version19,
		LogLevel:    "info",
		Indent:      "    ",
	}
}

// Load はデフォルト値に path のYAMLを重ねた設定を返します。path が空の場合はデフォルト値のみです。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParseConfig, path, err)
	}
	return cfg, nil
}

// NewLogger は設定に従ったロガーを作成します。DebugMode の場合は LogLevel に関わらずdebugになります。
func NewLogger(cfg *Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(os.Stderr)

	if cfg.DebugMode {
		logger.SetLevel(logrus.DebugLevel)
		return logger, nil
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLogLevel, err)
	}
	logger.SetLevel(level)
	return logger, nil
}
