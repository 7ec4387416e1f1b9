package document

import (
	"encoding/json"
	"fmt"

	"github.com/shiroemons/go-musicdata/pkg/musicdb"
)

// legacyDocument は旧ツールが出力していたJSONのレイアウト
type legacyDocument struct {
	DataVer uint32         `json:"data_ver"`
	Data    []legacyRecord `json:"data"`
}

// legacyRecord はフィールドを展開したフラットなレコード
type legacyRecord struct {
	SongID          uint32           `json:"song_id"`
	Title           string           `json:"title"`
	TitleASCII      string           `json:"title_ascii"`
	Genre           string           `json:"genre"`
	Artist          string           `json:"artist"`
	TextureTitle    uint32           `json:"texture_title"`
	TextureArtist   uint32           `json:"texture_artist"`
	TextureGenre    uint32           `json:"texture_genre"`
	TextureLoad     uint32           `json:"texture_load"`
	TextureList     uint32           `json:"texture_list"`
	FontIdx         uint32           `json:"font_idx"`
	GameVersion     uint16           `json:"game_version"`
	OtherFolder     uint16           `json:"other_folder"`
	BemaniFolder    uint16           `json:"bemani_folder"`
	SplittableDiff  uint16           `json:"splittable_diff"`
	Difficulties    byteList         `json:"difficulties"`
	Volume          uint32           `json:"volume"`
	FileIdentifiers byteList         `json:"file_identifiers"`
	BGAFilename     string           `json:"bga_filename"`
	BGADelay        int16            `json:"bga_delay"`
	AFPFlag         uint32           `json:"afp_flag"`
	AFPData         []musicdb.Blob32 `json:"afp_data"`
	UnkSect1        musicdb.Blob160  `json:"unk_sect1"`
	UnkSect2        musicdb.Blob2    `json:"unk_sect2"`
}

// byteList は []uint8 をbase64ではなく整数の配列としてJSONに変換します
type byteList []uint8

// MarshalJSON は整数の配列に変換します
func (b byteList) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(b))
	for i, v := range b {
		ints[i] = int(v)
	}
	return json.Marshal(ints)
}

// UnmarshalJSON は 0-255 の整数の配列を読み込みます
func (b *byteList) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	out := make(byteList, len(ints))
	for i, v := range ints {
		if v < 0 || v > 0xff {
			return fmt.Errorf("value %d at index %d is out of byte range", v, i)
		}
		out[i] = uint8(v)
	}
	*b = out
	return nil
}

func (lr legacyRecord) toRecord() (musicdb.Record, error) {
	rec := musicdb.Record{
		Title:        lr.Title,
		TitleASCII:   lr.TitleASCII,
		Genre:        lr.Genre,
		Artist:       lr.Artist,
		FontIndex:    lr.FontIdx,
		GameVersion:  lr.GameVersion,
		OpaqueBlock1: lr.UnkSect1,
		SongID:       lr.SongID,
		Volume:       lr.Volume,
		BGADelay:     lr.BGADelay,
		OpaqueBlock2: lr.UnkSect2,
		BGAFilename:  lr.BGAFilename,
		AFPFlag:      lr.AFPFlag,
	}
	rec.TextureRefs = [5]uint32{lr.TextureTitle, lr.TextureArtist, lr.TextureGenre, lr.TextureLoad, lr.TextureList}
	rec.FolderFlags = [3]uint16{lr.OtherFolder, lr.BemaniFolder, lr.SplittableDiff}

	if len(lr.Difficulties) != len(rec.Difficulties) {
		return musicdb.Record{}, fmt.Errorf("song %d: difficulties has %d entries, want %d", lr.SongID, len(lr.Difficulties), len(rec.Difficulties))
	}
	copy(rec.Difficulties[:], lr.Difficulties)

	if len(lr.FileIdentifiers) != len(rec.FileIdentifiers) {
		return musicdb.Record{}, fmt.Errorf("song %d: file_identifiers has %d entries, want %d", lr.SongID, len(lr.FileIdentifiers), len(rec.FileIdentifiers))
	}
	copy(rec.FileIdentifiers[:], lr.FileIdentifiers)

	if len(lr.AFPData) != len(rec.AFPData) {
		return musicdb.Record{}, fmt.Errorf("song %d: afp_data has %d entries, want %d", lr.SongID, len(lr.AFPData), len(rec.AFPData))
	}
	copy(rec.AFPData[:], lr.AFPData)

	return rec, nil
}

func fromRecord(rec musicdb.Record) legacyRecord {
	return legacyRecord{
		SongID:          rec.SongID,
		Title:           rec.Title,
		TitleASCII:      rec.TitleASCII,
		Genre:           rec.Genre,
		Artist:          rec.Artist,
		TextureTitle:    rec.TextureRefs[musicdb.TextureTitle],
		TextureArtist:   rec.TextureRefs[musicdb.TextureArtist],
		TextureGenre:    rec.TextureRefs[musicdb.TextureGenre],
		TextureLoad:     rec.TextureRefs[musicdb.TextureLoad],
		TextureList:     rec.TextureRefs[musicdb.TextureList],
		FontIdx:         rec.FontIndex,
		GameVersion:     rec.GameVersion,
		OtherFolder:     rec.FolderFlags[musicdb.FolderOther],
		BemaniFolder:    rec.FolderFlags[musicdb.FolderBemani],
		SplittableDiff:  rec.FolderFlags[musicdb.FolderSplittableDiff],
		Difficulties:    byteList(append([]uint8(nil), rec.Difficulties[:]...)),
		Volume:          rec.Volume,
		FileIdentifiers: byteList(append([]uint8(nil), rec.FileIdentifiers[:]...)),
		BGAFilename:     rec.BGAFilename,
		BGADelay:        rec.BGADelay,
		AFPFlag:         rec.AFPFlag,
		AFPData:         append([]musicdb.Blob32(nil), rec.AFPData[:]...),
		UnkSect1:        rec.OpaqueBlock1,
		UnkSect2:        rec.OpaqueBlock2,
	}
}

func toLegacy(doc *Document) legacyDocument {
	ld := legacyDocument{DataVer: doc.SchemaVersion, Data: make([]legacyRecord, 0, len(doc.Records))}
	for _, rec := range doc.Records {
		ld.Data = append(ld.Data, fromRecord(rec))
	}
	return ld
}
