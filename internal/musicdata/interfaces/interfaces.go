// Package interfaces はmusicdataコマンドで使用するインターフェースを定義します
package interfaces

import (
	"io"
	"os"
)

// FileSystem はファイルシステム操作のインターフェース
type FileSystem interface {
	FileExists(filename string) bool
	// FileMode は既存ファイルのパーミッションを返します
	FileMode(filename string) (uint32, error)
	ReadFile(filename string) ([]byte, error)
	MkdirAll(path string, perm uint32) error
	CreateTemp(dir, pattern string) (File, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

// File は書き込み用に開いたファイルのインターフェース
type File interface {
	io.Writer
	Name() string
	Sync() error
	Chmod(mode os.FileMode) error
	Close() error
}

// Logger はログ出力のインターフェース。*logrus.Logger と *logrus.Entry が満たします。
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}
