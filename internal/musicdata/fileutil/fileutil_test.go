package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shiroemons/go-musicdata/internal/musicdata/mocks"
)

func TestWriteFileAtomic(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "nested", "music_data.bin")

	fs := NewOSFileSystem()
	if err := WriteFileAtomic(fs, outputPath, []byte("first"), ""); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if err := WriteFileAtomic(fs, outputPath, []byte("second"), ".bak"); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q; want %q", data, "second")
	}

	backup, err := os.ReadFile(outputPath + ".bak")
	if err != nil {
		t.Fatalf("Failed to read backup: %v", err)
	}
	if string(backup) != "first" {
		t.Errorf("backup = %q; want %q", backup, "first")
	}

	// 一時ファイルが残っていないこと
	entries, err := os.ReadDir(filepath.Dir(outputPath))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 files, got %d", len(entries))
	}
}

func TestWriteFileAtomic_WithMockFS(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*mocks.MockFileSystem)
		wantErr error
	}{
		{
			name: "成功",
		},
		{
			name: "書き込み失敗",
			setup: func(fs *mocks.MockFileSystem) {
				fs.WriteError = errors.New("disk full")
			},
			wantErr: ErrWriteContent,
		},
		{
			name: "リネーム失敗",
			setup: func(fs *mocks.MockFileSystem) {
				fs.RenameError = errors.New("permission denied")
			},
			wantErr: ErrReplaceFile,
		},
		{
			name: "ディレクトリ作成失敗",
			setup: func(fs *mocks.MockFileSystem) {
				fs.Error = errors.New("read-only")
			},
			wantErr: ErrCreateDirectory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mocks.NewMockFileSystem()
			fs.Files["/out/data.bin"] = []byte("previous")
			if tt.setup != nil {
				tt.setup(fs)
			}

			err := WriteFileAtomic(fs, "/out/data.bin", []byte("new"), "")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if got := string(fs.Files["/out/data.bin"]); got != "previous" {
					t.Errorf("existing file was modified: %q", got)
				}
			} else {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if got := string(fs.Files["/out/data.bin"]); got != "new" {
					t.Errorf("content = %q; want new", got)
				}
			}

			if temps := fs.TempFiles(); len(temps) != 0 {
				t.Errorf("temp files left behind: %v", temps)
			}
		})
	}
}

func TestHashBytes(t *testing.T) {
	a := HashBytes([]byte("IIDX"))
	if len(a) != 64 {
		t.Errorf("digest length = %d; want 64", len(a))
	}
	if a == HashBytes([]byte("IIDY")) {
		t.Error("different inputs produced the same digest")
	}
	if a != HashBytes([]byte("IIDX")) {
		t.Error("digest is not deterministic")
	}
}

func TestWriteFileAtomic_KeepsFileMode(t *testing.T) {
	tmpDir := t.TempDir()
	existing := filepath.Join(tmpDir, "music_data.bin")
	if err := os.WriteFile(existing, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(existing, 0640); err != nil {
		t.Fatal(err)
	}

	fs := NewOSFileSystem()
	if err := WriteFileAtomic(fs, existing, []byte("new"), ""); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	info, err := os.Stat(existing)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0640 {
		t.Errorf("mode = %o; want 640", got)
	}

	// 新規ファイルは 0644
	created := filepath.Join(tmpDir, "created.bin")
	if err := WriteFileAtomic(fs, created, []byte("new"), ""); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	info, err = os.Stat(created)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0644 {
		t.Errorf("mode = %o; want 644", got)
	}
}

func TestWriteFileAtomic_KeepsFileModeWithMockFS(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.Files["/out/data.bin"] = []byte("previous")
	fs.Modes["/out/data.bin"] = 0600

	if err := WriteFileAtomic(fs, "/out/data.bin", []byte("new"), ".bak"); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if got := fs.Modes["/out/data.bin"]; got != 0600 {
		t.Errorf("mode = %o; want 600", got)
	}
	if got := fs.Modes["/out/data.bin.bak"]; got != 0600 {
		t.Errorf("backup mode = %o; want 600", got)
	}
}

func TestWriteFileAtomic_RestoresBackup(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.Files["/out/data.bin"] = []byte("previous")
	fs.RenameErrorIf = func(oldpath, newpath string) error {
		if strings.HasSuffix(oldpath, ".tmp") {
			return errors.New("permission denied")
		}
		return nil
	}

	err := WriteFileAtomic(fs, "/out/data.bin", []byte("new"), ".bak")
	if !errors.Is(err, ErrReplaceFile) {
		t.Fatalf("expected ErrReplaceFile, got %v", err)
	}
	if got := string(fs.Files["/out/data.bin"]); got != "previous" {
		t.Errorf("content = %q; want previous", got)
	}
	if _, ok := fs.Files["/out/data.bin.bak"]; ok {
		t.Error("backup was not moved back")
	}
	if temps := fs.TempFiles(); len(temps) != 0 {
		t.Errorf("temp files left behind: %v", temps)
	}
}
