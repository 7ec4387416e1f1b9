package musicdb

import (
	"encoding/hex"
	"fmt"
)

const (
	// TextWidth は曲名・ジャンル・アーティストのフィールド幅（バイト）
	TextWidth = 0x40
	// BGAFilenameWidth はBGAファイル名のフィールド幅（バイト）
	BGAFilenameWidth = 0x20
	// AFPDataCount はAFPデータブロックの数
	AFPDataCount = 10
)

// texture_refs の並び
const (
	TextureTitle = iota
	TextureArtist
	TextureGenre
	TextureLoad
	TextureList
)

// folder_flags の並び
const (
	FolderOther = iota
	FolderBemani
	FolderSplittableDiff
)

// Record は1曲分のメタデータです。
// 固定長フィールドはすべて配列で保持するため、ゼロ値はオールゼロのレコードと一致し、== で比較できます。
type Record struct {
	Title      string `json:"title"`
	TitleASCII string `json:"title_ascii"`
	Genre      string `json:"genre"`
	Artist     string `json:"artist"`

	TextureRefs [5]uint32 `json:"texture_refs"`
	FontIndex   uint32    `json:"font_index"`
	GameVersion uint16    `json:"game_version"`
	FolderFlags [3]uint16 `json:"folder_flags"`

	Difficulties [8]uint8 `json:"difficulties"`
	OpaqueBlock1 Blob160  `json:"opaque_block_1"`

	SongID          uint32   `json:"song_id"`
	Volume          uint32   `json:"volume"`
	FileIdentifiers [8]uint8 `json:"file_identifiers"`

	BGADelay     int16  `json:"bga_delay"`
	OpaqueBlock2 Blob2  `json:"opaque_block_2"`
	BGAFilename  string `json:"bga_filename"`

	AFPFlag uint32               `json:"afp_flag"`
	AFPData [AFPDataCount]Blob32 `json:"afp_data"`
}

// Blob160 は意味不明の160バイト領域で、そのまま保持します
type Blob160 [0xa0]byte

// Blob32 はAFPデータ1件分の32バイト領域
type Blob32 [0x20]byte

// Blob2 は意味不明の2バイト領域
type Blob2 [2]byte

// MarshalText は16進文字列に変換します
func (b Blob160) MarshalText() ([]byte, error) { return marshalHex(b[:]) }

// UnmarshalText は16進文字列から復元します
func (b *Blob160) UnmarshalText(text []byte) error { return unmarshalHex(b[:], text) }

// MarshalText は16進文字列に変換します
func (b Blob32) MarshalText() ([]byte, error) { return marshalHex(b[:]) }

// UnmarshalText は16進文字列から復元します
func (b *Blob32) UnmarshalText(text []byte) error { return unmarshalHex(b[:], text) }

// MarshalText は16進文字列に変換します
func (b Blob2) MarshalText() ([]byte, error) { return marshalHex(b[:]) }

// UnmarshalText は16進文字列から復元します
func (b *Blob2) UnmarshalText(text []byte) error { return unmarshalHex(b[:], text) }

func marshalHex(b []byte) ([]byte, error) {
	out := make([]byte, hex.EncodedLen(len(b)))
	hex.Encode(out, b)
	return out, nil
}

// unmarshalHex は空文字列をオールゼロとして扱います
func unmarshalHex(dst []byte, text []byte) error {
	if len(text) == 0 {
		clear(dst)
		return nil
	}
	if hex.DecodedLen(len(text)) != len(dst) {
		return fmt.Errorf("%w: got %d hex chars, want %d", ErrBlockWidth, len(text), hex.EncodedLen(len(dst)))
	}
	if _, err := hex.Decode(dst, text); err != nil {
		return fmt.Errorf("invalid hex block: %w", err)
	}
	return nil
}
