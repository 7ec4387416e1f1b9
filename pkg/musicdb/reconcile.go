package musicdb

import (
	"fmt"
	"io"
)

// Convert は r のコンテナを source のレイアウトでデコードし、target のレイアウトで w に書き出します。
// ファイルのスキーマバージョンが source と異なる場合は ErrSchemaMismatch を返します。
// target に存在しないフィールドは target のコーデックが書き出さないため失われます。
func Convert(w io.Writer, r io.Reader, source, target uint32, registry *Registry) error {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if _, err := registry.Lookup(source); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if _, err := registry.Lookup(target); err != nil {
		return fmt.Errorf("target: %w", err)
	}

	c, err := NewDecoder(registry).Decode(r)
	if err != nil {
		return err
	}
	if c.SchemaVersion != source {
		return fmt.Errorf("%w: file is 0x%x, expected 0x%x", ErrSchemaMismatch, c.SchemaVersion, source)
	}

	c.SchemaVersion = target
	return NewEncoder(registry).EncodeContainer(w, c)
}

// Merge は newer を優先して older と統合します。
// 結果は newer の全レコード（元の順序）に続けて、song_id が newer に存在しない older のレコード（元の順序）です。
// 衝突はレコード単位で解決し、フィールド単位の統合はしません。
func Merge(older, newer []Record) []Record {
	exists := make(map[uint32]struct{}, len(newer))
	for _, rec := range newer {
		exists[rec.SongID] = struct{}{}
	}

	merged := make([]Record, 0, len(newer)+len(older))
	merged = append(merged, newer...)
	for _, rec := range older {
		if _, ok := exists[rec.SongID]; ok {
			continue
		}
		merged = append(merged, rec)
	}
	return merged
}

// Lookup は song_id が一致する最初のレコードを返します
func Lookup(records []Record, songID uint32) (Record, bool) {
	for _, rec := range records {
		if rec.SongID == songID {
			return rec, true
		}
	}
	return Record{}, false
}

// DuplicateSongIDs は2回以上現れる song_id を最初に重複した順で返します
func DuplicateSongIDs(records []Record) []uint32 {
	seen := make(map[uint32]int, len(records))
	var dups []uint32
	for _, rec := range records {
		seen[rec.SongID]++
		if seen[rec.SongID] == 2 {
			dups = append(dups, rec.SongID)
		}
	}
	return dups
}
