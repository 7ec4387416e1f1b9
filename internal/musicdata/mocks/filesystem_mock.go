// Package mocks はテスト用のモック実装を提供します
package mocks

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shiroemons/go-musicdata/internal/musicdata/interfaces"
)

// MockFileSystem はテスト用のインメモリファイルシステム
type MockFileSystem struct {
	Files map[string][]byte
	Dirs  map[string]bool
	// Error が設定されている場合、すべての操作がこのエラーを返します
	Error error
	// WriteError は一時ファイルへの書き込みで返すエラー
	WriteError error
	// RenameError は Rename で返すエラー
	RenameError error
	// RenameErrorIf が設定されている場合、nil 以外を返した Rename を失敗させます
	RenameErrorIf func(oldpath, newpath string) error
	// Modes はファイルごとのパーミッション。未設定のファイルは 0644 とみなします。
	Modes map[string]uint32

	tempSeq int
}

// NewMockFileSystem は新しいMockFileSystemを作成します
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files: make(map[string][]byte),
		Dirs:  make(map[string]bool),
		Modes: make(map[string]uint32),
	}
}

// FileExists はファイルが存在するか確認します
func (fs *MockFileSystem) FileExists(filename string) bool {
	_, exists := fs.Files[filename]
	return exists
}

// FileMode はファイルのパーミッションを返します
func (fs *MockFileSystem) FileMode(filename string) (uint32, error) {
	if _, exists := fs.Files[filename]; !exists {
		return 0, errors.New("file not found")
	}
	if mode, ok := fs.Modes[filename]; ok {
		return mode, nil
	}
	return 0644, nil
}

// ReadFile はファイルを読み込みます
func (fs *MockFileSystem) ReadFile(filename string) ([]byte, error) {
	if fs.Error != nil {
		return nil, fs.Error
	}
	data, exists := fs.Files[filename]
	if !exists {
		return nil, errors.New("file not found")
	}
	return data, nil
}

// MkdirAll はディレクトリを作成します
func (fs *MockFileSystem) MkdirAll(path string, perm uint32) error {
	if fs.Error != nil {
		return fs.Error
	}
	fs.Dirs[path] = true
	return nil
}

// CreateTemp は一時ファイルを作成します。内容は Close 時に Files に反映されます。
func (fs *MockFileSystem) CreateTemp(dir, pattern string) (interfaces.File, error) {
	if fs.Error != nil {
		return nil, fs.Error
	}
	fs.tempSeq++
	name := filepath.Join(dir, strings.Replace(pattern, "*", fmt.Sprint(fs.tempSeq), 1))
	fs.Files[name] = nil
	return &MockFile{fs: fs, name: name}, nil
}

// Rename はファイルを移動します
func (fs *MockFileSystem) Rename(oldpath, newpath string) error {
	if fs.Error != nil {
		return fs.Error
	}
	if fs.RenameError != nil {
		return fs.RenameError
	}
	if fs.RenameErrorIf != nil {
		if err := fs.RenameErrorIf(oldpath, newpath); err != nil {
			return err
		}
	}
	data, exists := fs.Files[oldpath]
	if !exists {
		return errors.New("file not found")
	}
	fs.Files[newpath] = data
	delete(fs.Files, oldpath)
	if mode, ok := fs.Modes[oldpath]; ok {
		fs.Modes[newpath] = mode
		delete(fs.Modes, oldpath)
	} else {
		delete(fs.Modes, newpath)
	}
	return nil
}

// Remove はファイルを削除します
func (fs *MockFileSystem) Remove(name string) error {
	if _, exists := fs.Files[name]; !exists {
		return errors.New("file not found")
	}
	delete(fs.Files, name)
	delete(fs.Modes, name)
	return nil
}

// TempFiles は残っている一時ファイルの名前を返します
func (fs *MockFileSystem) TempFiles() []string {
	var names []string
	for name := range fs.Files {
		if strings.HasSuffix(name, ".tmp") {
			names = append(names, name)
		}
	}
	return names
}

// MockFile はMockFileSystemの一時ファイル
type MockFile struct {
	fs     *MockFileSystem
	name   string
	buf    bytes.Buffer
	closed bool
}

// Write はバッファに書き込みます
func (f *MockFile) Write(p []byte) (int, error) {
	if f.fs.WriteError != nil {
		return 0, f.fs.WriteError
	}
	return f.buf.Write(p)
}

// Name はファイル名を返します
func (f *MockFile) Name() string {
	return f.name
}

// Sync は何もしません
func (f *MockFile) Sync() error {
	return nil
}

// Chmod はパーミッションを記録します
func (f *MockFile) Chmod(mode os.FileMode) error {
	f.fs.Modes[f.name] = uint32(mode.Perm())
	return nil
}

// Close はバッファの内容をファイルシステムに反映します
func (f *MockFile) Close() error {
	if f.closed {
		return errors.New("file already closed")
	}
	f.closed = true
	if _, exists := f.fs.Files[f.name]; exists {
		f.fs.Files[f.name] = bytes.Clone(f.buf.Bytes())
	}
	return nil
}
