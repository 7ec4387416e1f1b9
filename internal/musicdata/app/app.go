// Package app はmusicdataコマンドのメインロジックを実装します
package app

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/shiroemons/go-musicdata/internal/musicdata/config"
	"github.com/shiroemons/go-musicdata/internal/musicdata/document"
	"github.com/shiroemons/go-musicdata/internal/musicdata/fileutil"
	"github.com/shiroemons/go-musicdata/internal/musicdata/interfaces"
	"github.com/shiroemons/go-musicdata/pkg/musicdb"
)

// App はデータベースファイルとJSONドキュメントの相互変換を管理します
type App struct {
	config   *config.Config
	logger   interfaces.Logger
	fs       interfaces.FileSystem
	registry *musicdb.Registry
}

// Options はAppの設定オプション
type Options struct {
	FileSystem interfaces.FileSystem
	Logger     interfaces.Logger
	Registry   *musicdb.Registry
}

// Summary は Inspect の結果です
type Summary struct {
	Path           string
	SchemaVersion  uint32
	RecordSize     int
	PopulatedCount int
	SlotCount      uint32
	Reserved       uint16
	OccupiedSlots  int
	DuplicateIDs   []uint32
	Digest         string
}

// New は新しいAppを作成します
func New(cfg *config.Config) *App {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions は新しいAppをオプション付きで作成します
func NewWithOptions(cfg *config.Config, opts Options) *App {
	fs := opts.FileSystem
	if fs == nil {
		fs = fileutil.NewOSFileSystem()
	}

	var logger interfaces.Logger = logrus.StandardLogger()
	if opts.Logger != nil {
		logger = opts.Logger
	}

	registry := opts.Registry
	if registry == nil {
		registry = musicdb.DefaultRegistry()
	}

	return &App{
		config:   cfg,
		logger:   logger,
		fs:       fs,
		registry: registry,
	}
}

// Extract はデータベースファイル in をJSONドキュメントとして out に書き出します。
// legacy が true の場合は旧ツール互換のレイアウトで出力します。
func (a *App) Extract(ctx context.Context, in, out string, legacy bool) error {
	c, _, err := a.loadContainer(ctx, in)
	if err != nil {
		return err
	}

	doc := &document.Document{SchemaVersion: c.SchemaVersion, Records: c.Records}
	data, err := document.Marshal(doc, a.config.Indent, legacy)
	if err != nil {
		return err
	}

	a.logger.Infof("%s から %d 曲を読み込みました (version 0x%x)", in, len(c.Records), c.SchemaVersion)
	return a.save(out, data)
}

// Create はJSONドキュメント in からデータベースファイルを生成して out に書き出します。
// ドキュメントにバージョンがない場合は設定の DataVersion を使います。
func (a *App) Create(ctx context.Context, in, out string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	raw, err := a.fs.ReadFile(in)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReadFile, in, err)
	}
	doc, err := document.Unmarshal(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	version := doc.SchemaVersion
	if version == 0 {
		version = a.config.DataVersion
		a.logger.Debugf("ドキュメントにバージョンがないため 0x%x を使用します", version)
	}
	if version == 0 {
		return ErrNoDataVersion
	}

	data, err := a.encode(version, doc.Records)
	if err != nil {
		return err
	}
	return a.save(out, data)
}

// Convert はデータベースファイル in を target のスキーマで out に書き出します。
// source が 0 の場合はファイルのヘッダーのバージョンを変換元とします。
func (a *App) Convert(ctx context.Context, in, out string, source, target uint32) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	raw, err := a.fs.ReadFile(in)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReadFile, in, err)
	}
	if source == 0 {
		if source, err = musicdb.PeekVersion(raw); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrConvert, in, err)
		}
	}

	var buf bytes.Buffer
	if err := musicdb.Convert(&buf, bytes.NewReader(raw), source, target, a.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConvert, in, err)
	}

	a.logger.Infof("0x%x から 0x%x に変換しました", source, target)
	return a.save(out, buf.Bytes())
}

// Merge は patch のレコードを base に統合して out に書き出します。
// song_id が重複する場合は base のレコードを残し、出力のバージョンは base に合わせます。
func (a *App) Merge(ctx context.Context, patch, base, out string) error {
	var older, newer *musicdb.Container

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, _, err := a.loadContainer(gctx, patch)
		older = c
		return err
	})
	g.Go(func() error {
		c, _, err := a.loadContainer(gctx, base)
		newer = c
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	merged := musicdb.Merge(older.Records, newer.Records)
	a.logger.Infof("%d 曲を追加しました (合計 %d 曲)", len(merged)-len(newer.Records), len(merged))

	data, err := a.encode(newer.SchemaVersion, merged)
	if err != nil {
		return err
	}
	return a.save(out, data)
}

// Lookup はデータベースファイル path から song_id が id の楽曲を返します
func (a *App) Lookup(ctx context.Context, path string, id uint32) (musicdb.Record, error) {
	c, _, err := a.loadContainer(ctx, path)
	if err != nil {
		return musicdb.Record{}, err
	}

	rec, ok := musicdb.Lookup(c.Records, id)
	if !ok {
		return musicdb.Record{}, fmt.Errorf("%w: song_id %d", ErrSongNotFound, id)
	}
	return rec, nil
}

// Inspect はデータベースファイル path のヘッダー情報とダイジェストを返します
func (a *App) Inspect(ctx context.Context, path string) (*Summary, error) {
	c, raw, err := a.loadContainer(ctx, path)
	if err != nil {
		return nil, err
	}

	codec, err := a.registry.Lookup(c.SchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return &Summary{
		Path:           path,
		SchemaVersion:  c.SchemaVersion,
		RecordSize:     codec.RecordSize(),
		PopulatedCount: c.PopulatedCount(),
		SlotCount:      c.SlotCount,
		Reserved:       c.Reserved,
		OccupiedSlots:  len(c.OccupiedSlots()),
		DuplicateIDs:   musicdb.DuplicateSongIDs(c.Records),
		Digest:         fileutil.HashBytes(raw),
	}, nil
}

// loadContainer はデータベースファイルを読み込んでデコードします。元のバイト列も返します。
func (a *App) loadContainer(ctx context.Context, path string) (*musicdb.Container, []byte, error) {
	// コンテキストのキャンセルチェック
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	default:
	}

	raw, err := a.fs.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrReadFile, path, err)
	}

	c, err := musicdb.NewDecoder(a.registry).Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	a.logger.Debugf("%s: version=0x%x populated=%d slots=%d", path, c.SchemaVersion, c.PopulatedCount(), c.SlotCount)
	return c, raw, nil
}

// encode は重複を警告してからコンテナを生成します
func (a *App) encode(version uint32, records []musicdb.Record) ([]byte, error) {
	if dups := musicdb.DuplicateSongIDs(records); len(dups) > 0 {
		a.logger.Warnf("song_id が重複しています: %v", dups)
	}

	data, err := musicdb.NewEncoder(a.registry).Marshal(&musicdb.Container{
		SchemaVersion: version,
		Records:       records,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return data, nil
}

// save は出力ファイルを書き込みます。DryRun の場合は何も書き込みません。
func (a *App) save(path string, data []byte) error {
	if a.config.DryRun {
		a.logger.Infof("ドライラン: %s (%d バイト) は書き込みません", path, len(data))
		return nil
	}

	if err := fileutil.WriteFileAtomic(a.fs, path, data, a.config.BackupSuffix); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFile, err)
	}

	a.logger.Infof("データを %s に保存しました", path)
	a.logger.Debugf("%s blake3=%s", path, fileutil.HashBytes(data))
	return nil
}
