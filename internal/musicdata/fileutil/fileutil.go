// Package fileutil はファイル操作のユーティリティ関数を提供します
package fileutil

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"lukechampine.com/blake3"

	"github.com/shiroemons/go-musicdata/internal/musicdata/interfaces"
)

// defaultFileMode は新規に作成する出力ファイルのパーミッション
const defaultFileMode = 0644

// WriteFileAtomic は同じディレクトリの一時ファイルに書き込んでから outputPath にリネームします。
// 失敗した場合、既存の outputPath はそのまま残ります。既存ファイルのパーミッションは引き継ぎます。
// backupSuffix が空でなければ、置き換え前の既存ファイルを outputPath+backupSuffix に退避します。
func WriteFileAtomic(fs interfaces.FileSystem, outputPath string, data []byte, backupSuffix string) (err error) {
	dir := filepath.Dir(outputPath)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateDirectory, errors.Wrap(err, dir))
	}

	tmp, err := fs.CreateTemp(dir, ".musicdata-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreateFile, errors.Wrap(err, dir))
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = fs.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteContent, errors.Wrap(err, "write temp file"))
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteContent, errors.Wrap(err, "sync temp file"))
	}
	mode := uint32(defaultFileMode)
	if m, err := fs.FileMode(outputPath); err == nil {
		mode = m
	}
	if err := tmp.Chmod(os.FileMode(mode)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteContent, errors.Wrap(err, "chmod temp file"))
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteContent, errors.Wrap(err, "close temp file"))
	}

	backupPath := ""
	if backupSuffix != "" && fs.FileExists(outputPath) {
		backupPath = outputPath + backupSuffix
		if err := fs.Rename(outputPath, backupPath); err != nil {
			return fmt.Errorf("%w: %w", ErrReplaceFile, errors.Wrap(err, "create backup"))
		}
	}

	if err := fs.Rename(tmpPath, outputPath); err != nil {
		if backupPath != "" {
			if rerr := fs.Rename(backupPath, outputPath); rerr != nil {
				return fmt.Errorf("%w: %w", ErrReplaceFile, errors.Wrapf(err, "rename temp file (backup left at %s: %v)", backupPath, rerr))
			}
		}
		return fmt.Errorf("%w: %w", ErrReplaceFile, errors.Wrap(err, "rename temp file"))
	}

	success = true
	return nil
}

// HashBytes はblake3-256のダイジェストを16進文字列で返します
func HashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
