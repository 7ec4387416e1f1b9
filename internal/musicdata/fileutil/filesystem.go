package fileutil

import (
	"os"

	"github.com/shiroemons/go-musicdata/internal/musicdata/interfaces"
)

// OSFileSystem は実際のOSファイルシステムを使用する実装
type OSFileSystem struct{}

// NewOSFileSystem は新しいOSFileSystemを作成します
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// FileExists はファイルが存在するか確認します
func (fs *OSFileSystem) FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// FileMode は既存ファイルのパーミッションを返します
func (fs *OSFileSystem) FileMode(filename string) (uint32, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return 0, err
	}
	return uint32(info.Mode().Perm()), nil
}

// ReadFile はファイルを読み込みます
func (fs *OSFileSystem) ReadFile(filename string) ([]byte, error) {
	return os.ReadFile(filename)
}

// MkdirAll はディレクトリを作成します
func (fs *OSFileSystem) MkdirAll(path string, perm uint32) error {
	return os.MkdirAll(path, os.FileMode(perm))
}

// CreateTemp は dir に一時ファイルを作成します
func (fs *OSFileSystem) CreateTemp(dir, pattern string) (interfaces.File, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Rename はファイルを移動します
func (fs *OSFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Remove はファイルを削除します
func (fs *OSFileSystem) Remove(name string) error {
	return os.Remove(name)
}
