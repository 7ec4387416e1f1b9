package musicdb

import (
	"fmt"
	"slices"
)

// SlotPolicy はインデックステーブルの構成です。データからは導出せず、スキーマごとの定数です。
type SlotPolicy struct {
	// Count はインデックステーブルの総スロット数
	Count uint32
	// CurrentStyleStart 以降の空きスロットは 0x0000、それより前の空きスロットは 0xFFFF になります
	CurrentStyleStart uint32
}

// Codec はスキーマバージョンごとのレコードレイアウトを表すインターフェース
type Codec interface {
	// Version はスキーマバージョンを返します
	Version() uint32

	// RecordSize は1レコードの固定バイト長を返します
	RecordSize() int

	// Slots はインデックステーブルの構成を返します
	Slots() SlotPolicy

	// DecodeRecord は RecordSize バイトを1レコードに変換します
	DecodeRecord(b []byte) (Record, error)

	// EncodeRecord はレコードを RecordSize バイトに変換します
	EncodeRecord(r Record) ([]byte, error)
}

// Registry はスキーマバージョンからコーデックを引く不変のテーブルです
type Registry struct {
	codecs map[uint32]Codec
}

// NewRegistry は codecs から Registry を作成します。同じバージョンが2回現れた場合はエラーです。
func NewRegistry(codecs ...Codec) (*Registry, error) {
	m := make(map[uint32]Codec, len(codecs))
	for _, c := range codecs {
		if _, ok := m[c.Version()]; ok {
			return nil, fmt.Errorf("schema version 0x%x registered twice", c.Version())
		}
		m[c.Version()] = c
	}
	return &Registry{codecs: m}, nil
}

// DefaultRegistry はサポートしている全スキーマを登録した Registry を返します
func DefaultRegistry() *Registry {
	return &Registry{codecs: map[uint32]Codec{
		Version19: recordV19{},
	}}
}

// Lookup はバージョンに対応するコーデックを返します
func (r *Registry) Lookup(version uint32) (Codec, error) {
	c, ok := r.codecs[version]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%x", ErrUnsupportedSchemaVersion, version)
	}
	return c, nil
}

// Versions は登録済みのバージョンを昇順で返します
func (r *Registry) Versions() []uint32 {
	versions := make([]uint32, 0, len(r.codecs))
	for v := range r.codecs {
		versions = append(versions, v)
	}
	slices.Sort(versions)
	return versions
}
