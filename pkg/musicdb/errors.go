package musicdb

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic は先頭の4バイトが "IIDX" ではない場合のエラー
	ErrBadMagic = errors.New("bad magic")

	// ErrUnsupportedSchemaVersion はスキーマバージョンに対応するコーデックが登録されていない場合のエラー
	ErrUnsupportedSchemaVersion = errors.New("unsupported schema version")

	// ErrTruncatedContainer はヘッダまたはインデックステーブルの途中でデータが終わった場合のエラー
	ErrTruncatedContainer = errors.New("truncated container")

	// ErrTruncatedRecord はレコードの途中でデータが終わった場合のエラー
	ErrTruncatedRecord = errors.New("truncated record")

	// ErrEncoding は文字列を Shift-JIS で表現できない場合のエラー
	ErrEncoding = errors.New("text cannot be encoded as shift-jis")

	// ErrDuplicateSongID は同じ song_id を持つレコードが複数ある場合のエラー
	ErrDuplicateSongID = errors.New("duplicate song id")

	// ErrSongIDOutOfRange は song_id がインデックステーブルのスロット数を超えている場合のエラー
	ErrSongIDOutOfRange = errors.New("song id out of slot range")

	// ErrTooManyRecords はレコード数がヘッダの u16 に収まらない場合のエラー
	ErrTooManyRecords = errors.New("too many records")

	// ErrSchemaMismatch はファイルのスキーマバージョンが指定された変換元と一致しない場合のエラー
	ErrSchemaMismatch = errors.New("schema version mismatch")

	// ErrBlockWidth は16進表現のブロックが規定の長さと一致しない場合のエラー
	ErrBlockWidth = errors.New("opaque block has wrong width")
)

// FieldError はレコード内の特定フィールドで発生したエラー
type FieldError struct {
	Field string // フィールド名
	Err   error  // 元のエラー
}

// Error はエラーメッセージを返します
func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

// Unwrap は元のエラーを返します
func (e *FieldError) Unwrap() error {
	return e.Err
}
