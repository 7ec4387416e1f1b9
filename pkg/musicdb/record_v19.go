package musicdb

import "fmt"

const (
	// Version19 は IIDX 25 CANNON BALLERS のスキーマバージョン
	Version19 uint32 = 0x19

	// RecordSizeV19 は Version19 の1レコードのバイト長
	RecordSizeV19 = 4*TextWidth + // title, title_ascii, genre, artist
		5*4 + // texture_refs
		4 + 2 + // font_index, game_version
		3*2 + // folder_flags
		8 + // difficulties
		len(Blob160{}) +
		4 + 4 + // song_id, volume
		8 + // file_identifiers
		2 + len(Blob2{}) + // bga_delay, opaque_block_2
		BGAFilenameWidth +
		4 + // afp_flag
		AFPDataCount*len(Blob32{})

	maxEntriesV19      = 26000
	curStyleEntriesV19 = maxEntriesV19 - 1000
)

// recordV19 は Version19 のレコードコーデック
type recordV19 struct{}

func (recordV19) Version() uint32 { return Version19 }

func (recordV19) RecordSize() int { return RecordSizeV19 }

func (recordV19) Slots() SlotPolicy {
	return SlotPolicy{Count: maxEntriesV19, CurrentStyleStart: curStyleEntriesV19}
}

// DecodeRecord はフィールド表の順にカーソルを進めながら読み込みます
func (recordV19) DecodeRecord(b []byte) (Record, error) {
	if len(b) < RecordSizeV19 {
		return Record{}, fmt.Errorf("%w: got %d bytes, want %d", ErrTruncatedRecord, len(b), RecordSizeV19)
	}

	var rec Record
	r := newFieldReader(b[:RecordSizeV19])

	rec.Title = r.text(TextWidth, "title")
	rec.TitleASCII = r.text(TextWidth, "title_ascii")
	rec.Genre = r.text(TextWidth, "genre")
	rec.Artist = r.text(TextWidth, "artist")

	for i := range rec.TextureRefs {
		rec.TextureRefs[i] = r.u32("texture_refs")
	}
	rec.FontIndex = r.u32("font_index")
	rec.GameVersion = r.u16("game_version")
	for i := range rec.FolderFlags {
		rec.FolderFlags[i] = r.u16("folder_flags")
	}

	for i := range rec.Difficulties {
		rec.Difficulties[i] = r.u8("difficulties")
	}
	r.bytes(rec.OpaqueBlock1[:], "opaque_block_1")

	rec.SongID = r.u32("song_id")
	rec.Volume = r.u32("volume")
	for i := range rec.FileIdentifiers {
		rec.FileIdentifiers[i] = r.u8("file_identifiers")
	}

	rec.BGADelay = r.i16("bga_delay")
	r.bytes(rec.OpaqueBlock2[:], "opaque_block_2")
	rec.BGAFilename = r.text(BGAFilenameWidth, "bga_filename")

	rec.AFPFlag = r.u32("afp_flag")
	for i := range rec.AFPData {
		r.bytes(rec.AFPData[i][:], "afp_data")
	}

	if r.err != nil {
		return Record{}, r.err
	}
	return rec, nil
}

// EncodeRecord は DecodeRecord と同じ順序・幅で書き込みます
func (recordV19) EncodeRecord(rec Record) ([]byte, error) {
	w := newFieldWriter(RecordSizeV19)

	w.text(rec.Title, TextWidth, "title")
	w.text(rec.TitleASCII, TextWidth, "title_ascii")
	w.text(rec.Genre, TextWidth, "genre")
	w.text(rec.Artist, TextWidth, "artist")

	for _, v := range rec.TextureRefs {
		w.u32(v, "texture_refs")
	}
	w.u32(rec.FontIndex, "font_index")
	w.u16(rec.GameVersion, "game_version")
	for _, v := range rec.FolderFlags {
		w.u16(v, "folder_flags")
	}

	for _, v := range rec.Difficulties {
		w.u8(v, "difficulties")
	}
	w.bytes(rec.OpaqueBlock1[:], "opaque_block_1")

	w.u32(rec.SongID, "song_id")
	w.u32(rec.Volume, "volume")
	for _, v := range rec.FileIdentifiers {
		w.u8(v, "file_identifiers")
	}

	w.i16(rec.BGADelay, "bga_delay")
	w.bytes(rec.OpaqueBlock2[:], "opaque_block_2")
	w.text(rec.BGAFilename, BGAFilenameWidth, "bga_filename")

	w.u32(rec.AFPFlag, "afp_flag")
	for _, blk := range rec.AFPData {
		w.bytes(blk[:], "afp_data")
	}

	out, err := w.finish()
	if err != nil {
		return nil, fmt.Errorf("song %d: %w", rec.SongID, err)
	}
	return out, nil
}
