package musicdb

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	a1 := Record{SongID: 1000, Title: "old 1000"}
	a2 := Record{SongID: 1001, Title: "old 1001"}
	a3 := Record{SongID: 1002, Title: "old 1002"}
	b1 := Record{SongID: 2001, Title: "new 2001"}
	b2 := Record{SongID: 1001, Title: "new 1001"}
	b3 := Record{SongID: 2000, Title: "new 2000"}

	tests := []struct {
		name  string
		older []Record
		newer []Record
		want  []Record
	}{
		{
			name:  "重複なし",
			older: []Record{a1, a3},
			newer: []Record{b1, b3},
			want:  []Record{b1, b3, a1, a3},
		},
		{
			name:  "重複はnewerが優先",
			older: []Record{a1, a2, a3},
			newer: []Record{b1, b2},
			want:  []Record{b1, b2, a1, a3},
		},
		{
			name:  "olderが空",
			older: nil,
			newer: []Record{b2, b1},
			want:  []Record{b2, b1},
		},
		{
			name:  "newerが空",
			older: []Record{a2, a1},
			newer: nil,
			want:  []Record{a2, a1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			olderCopy := append([]Record(nil), tt.older...)
			newerCopy := append([]Record(nil), tt.newer...)

			got := Merge(tt.older, tt.newer)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, olderCopy, tt.older, "older must not be modified")
			assert.Equal(t, newerCopy, tt.newer, "newer must not be modified")
		})
	}
}

func TestMerge_DisjointCount(t *testing.T) {
	var older, newer []Record
	for i := uint32(0); i < 50; i++ {
		older = append(older, Record{SongID: i})
		newer = append(newer, Record{SongID: 100 + i})
	}
	got := Merge(older, newer)
	require.Len(t, got, len(older)+len(newer))
	assert.Equal(t, newer, got[:len(newer)])
	assert.Equal(t, older, got[len(newer):])
}

func TestConvert_SameVersionIsIdentity(t *testing.T) {
	records := []Record{fullRecord(1000), fullRecord(1001), {SongID: 25010, Title: "予約範囲"}}
	var src bytes.Buffer
	require.NoError(t, NewEncoder(nil).EncodeContainer(&src, &Container{
		SchemaVersion: Version19,
		Reserved:      3,
		Records:       records,
	}))

	var dst bytes.Buffer
	require.NoError(t, Convert(&dst, bytes.NewReader(src.Bytes()), Version19, Version19, nil))
	assert.Equal(t, src.Bytes(), dst.Bytes())
}

func TestConvert_ToOtherSchema(t *testing.T) {
	reg := testRegistry(t)
	var src bytes.Buffer
	require.NoError(t, NewEncoder(reg).Encode(&src, Version19, []Record{fullRecord(3), fullRecord(7)}))

	var dst bytes.Buffer
	require.NoError(t, Convert(&dst, &src, Version19, 0x7f, reg))

	c, err := NewDecoder(reg).Decode(&dst)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x7f), c.SchemaVersion)
	// スタブのスキーマに存在しないフィールドは失われる
	assert.Equal(t, []Record{{SongID: 3, Volume: 100}, {SongID: 7, Volume: 100}}, c.Records)
}

func TestConvert_Errors(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, NewEncoder(nil).Encode(&src, Version19, []Record{{SongID: 1}}))

	t.Run("未登録の変換先", func(t *testing.T) {
		var dst bytes.Buffer
		err := Convert(&dst, bytes.NewReader(src.Bytes()), Version19, 0x1a, nil)
		assert.ErrorIs(t, err, ErrUnsupportedSchemaVersion)
		assert.Zero(t, dst.Len())
	})

	t.Run("未登録の変換元", func(t *testing.T) {
		var dst bytes.Buffer
		err := Convert(&dst, bytes.NewReader(src.Bytes()), 0x18, Version19, nil)
		assert.ErrorIs(t, err, ErrUnsupportedSchemaVersion)
	})

	t.Run("変換元の不一致", func(t *testing.T) {
		reg := testRegistry(t)
		var dst bytes.Buffer
		err := Convert(&dst, bytes.NewReader(src.Bytes()), 0x7f, Version19, reg)
		assert.ErrorIs(t, err, ErrSchemaMismatch)
		assert.Zero(t, dst.Len())
	})
}

func TestLookup(t *testing.T) {
	records := []Record{
		{SongID: 1, Title: "first"},
		{SongID: 2, Title: "other"},
		{SongID: 1, Title: "second"},
	}

	got, ok := Lookup(records, 1)
	require.True(t, ok)
	assert.Equal(t, "first", got.Title)

	_, ok = Lookup(records, 3)
	assert.False(t, ok)
}

func TestDuplicateSongIDs(t *testing.T) {
	records := []Record{{SongID: 4}, {SongID: 1}, {SongID: 4}, {SongID: 1}, {SongID: 4}, {SongID: 9}}
	assert.Equal(t, []uint32{4, 1}, DuplicateSongIDs(records))
	assert.Empty(t, DuplicateSongIDs([]Record{{SongID: 1}}))
}
