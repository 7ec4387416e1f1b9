package musicdb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// Magic はコンテナ先頭のマジックナンバー
	Magic = "IIDX"

	// HeaderSize はマジックナンバーを含むヘッダのバイト長
	HeaderSize = 16

	// EmptySlot は現行スタイル範囲外の空きスロット
	EmptySlot uint16 = 0xFFFF
	// EmptyReservedSlot は現行スタイル範囲内の空きスロット
	EmptyReservedSlot uint16 = 0x0000

	indexChunk = 32 * 1024
	// recordPrealloc はデコード時に事前確保するレコード数の上限
	recordPrealloc = 64
)

// Container はデコード済みの楽曲データベース全体です
type Container struct {
	SchemaVersion uint32
	SlotCount     uint32
	Reserved      uint16
	// Index はファイル上のインデックステーブルそのままです。デコード時のレコード位置の特定には使いません。
	Index   []uint16
	Records []Record
}

// PopulatedCount はレコード数を返します
func (c *Container) PopulatedCount() int {
	return len(c.Records)
}

// OccupiedSlots はインデックステーブル上で曲が割り当てられているスロット番号を返します。
// 位置 0 と範囲内の空き 0x0000 は区別できないため、最初に現れた 0 だけを割り当て済みとみなします。
func (c *Container) OccupiedSlots() []uint32 {
	var slots []uint32
	for i, v := range c.Index {
		if v == EmptySlot || (v == EmptyReservedSlot && len(slots) > 0) {
			continue
		}
		slots = append(slots, uint32(i))
	}
	return slots
}

// PeekVersion は先頭のマジックナンバーとスキーマバージョンだけを読み取ります
func PeekVersion(b []byte) (uint32, error) {
	if len(b) < len(Magic) || string(b[:len(Magic)]) != Magic {
		return 0, ErrBadMagic
	}
	if len(b) < len(Magic)+4 {
		return 0, fmt.Errorf("%w: header", ErrTruncatedContainer)
	}
	return binary.LittleEndian.Uint32(b[len(Magic):]), nil
}

// Decoder はコンテナを読み込みます
type Decoder struct {
	registry *Registry
}

// NewDecoder は新しいDecoderを作成します。registry が nil の場合は DefaultRegistry を使います。
func NewDecoder(registry *Registry) *Decoder {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Decoder{registry: registry}
}

// Decode はヘッダ・インデックステーブル・レコードを順に読み込みます。
// レコードはインデックステーブルを参照せず、出現順に populated_count 件読み込みます。
func (d *Decoder) Decode(r io.Reader) (*Container, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:len(Magic)]); err != nil {
		if isShortRead(err) {
			return nil, fmt.Errorf("%w: missing magic", ErrBadMagic)
		}
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if string(header[:len(Magic)]) != Magic {
		return nil, fmt.Errorf("%w: got %q", ErrBadMagic, header[:len(Magic)])
	}
	if _, err := io.ReadFull(r, header[len(Magic):]); err != nil {
		if isShortRead(err) {
			return nil, fmt.Errorf("%w: header: %w", ErrTruncatedContainer, err)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	version := binary.LittleEndian.Uint32(header[4:])
	populated := binary.LittleEndian.Uint16(header[8:])
	c := &Container{
		SchemaVersion: version,
		SlotCount:     binary.LittleEndian.Uint32(header[10:]),
		Reserved:      binary.LittleEndian.Uint16(header[14:]),
	}

	index, err := readIndex(r, c.SlotCount)
	if err != nil {
		return nil, err
	}
	c.Index = index

	codec, err := d.registry.Lookup(version)
	if err != nil {
		return nil, err
	}

	// populated はヘッダの値なので、実際に読めたレコード分だけ確保する
	c.Records = make([]Record, 0, min(int(populated), recordPrealloc))
	buf := make([]byte, codec.RecordSize())
	for i := 0; i < int(populated); i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			if isShortRead(err) {
				return nil, fmt.Errorf("%w: record %d of %d", ErrTruncatedRecord, i, populated)
			}
			return nil, fmt.Errorf("failed to read record %d: %w", i, err)
		}
		rec, err := codec.DecodeRecord(buf)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		c.Records = append(c.Records, rec)
	}

	return c, nil
}

// readIndex は count 個のエントリを読み込みます。巨大な count でも実データ分しか確保しません。
func readIndex(r io.Reader, count uint32) ([]uint16, error) {
	remaining := int64(count) * 2
	var raw []byte
	chunk := make([]byte, indexChunk)
	for remaining > 0 {
		n := int64(len(chunk))
		if remaining < n {
			n = remaining
		}
		if _, err := io.ReadFull(r, chunk[:n]); err != nil {
			if isShortRead(err) {
				return nil, fmt.Errorf("%w: index table: want %d entries", ErrTruncatedContainer, count)
			}
			return nil, fmt.Errorf("failed to read index table: %w", err)
		}
		raw = append(raw, chunk[:n]...)
		remaining -= n
	}

	index := make([]uint16, count)
	for i := range index {
		index[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return index, nil
}

func isShortRead(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// Encoder はコンテナを書き出します
type Encoder struct {
	registry *Registry
}

// NewEncoder は新しいEncoderを作成します。registry が nil の場合は DefaultRegistry を使います。
func NewEncoder(registry *Registry) *Encoder {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Encoder{registry: registry}
}

// Encode は records を version のレイアウトで書き出します。reserved は 0 になります。
func (e *Encoder) Encode(w io.Writer, version uint32, records []Record) error {
	return e.EncodeContainer(w, &Container{SchemaVersion: version, Records: records})
}

// EncodeContainer は c を書き出します。SlotCount と Index はスキーマの定数とレコードから作り直し、Reserved は引き継ぎます。
// 全体をメモリ上で組み立ててから1回で書き込むため、失敗時は何も書き込みません。
func (e *Encoder) EncodeContainer(w io.Writer, c *Container) error {
	data, err := e.Marshal(c)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write container: %w", err)
	}
	return nil
}

// Marshal は c をバイト列に変換します
func (e *Encoder) Marshal(c *Container) ([]byte, error) {
	codec, err := e.registry.Lookup(c.SchemaVersion)
	if err != nil {
		return nil, err
	}
	if len(c.Records) > 0xFFFF {
		return nil, fmt.Errorf("%w: %d", ErrTooManyRecords, len(c.Records))
	}

	policy := codec.Slots()
	index, err := buildIndex(c.Records, policy)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(index)*2 + len(c.Records)*codec.RecordSize())

	buf.WriteString(Magic)
	buf.Write(binary.LittleEndian.AppendUint32(nil, c.SchemaVersion))
	buf.Write(binary.LittleEndian.AppendUint16(nil, uint16(len(c.Records))))
	buf.Write(binary.LittleEndian.AppendUint32(nil, policy.Count))
	buf.Write(binary.LittleEndian.AppendUint16(nil, c.Reserved))

	for _, v := range index {
		buf.Write(binary.LittleEndian.AppendUint16(nil, v))
	}

	for i, rec := range c.Records {
		b, err := codec.EncodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if len(b) != codec.RecordSize() {
			return nil, fmt.Errorf("record %d: codec 0x%x produced %d bytes, want %d", i, c.SchemaVersion, len(b), codec.RecordSize())
		}
		buf.Write(b)
	}

	return buf.Bytes(), nil
}

// buildIndex は song_id をスロット番号としてインデックステーブルを作ります。
// 割り当て済みスロットの値はそのレコードの出現位置です。
func buildIndex(records []Record, policy SlotPolicy) ([]uint16, error) {
	position := make(map[uint32]uint16, len(records))
	for i, rec := range records {
		if rec.SongID >= policy.Count {
			return nil, fmt.Errorf("%w: song %d (record %d), slot count %d", ErrSongIDOutOfRange, rec.SongID, i, policy.Count)
		}
		if _, ok := position[rec.SongID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateSongID, rec.SongID)
		}
		position[rec.SongID] = uint16(i)
	}

	index := make([]uint16, policy.Count)
	for i := range index {
		slot := uint32(i)
		switch pos, ok := position[slot]; {
		case ok:
			index[i] = pos
		case slot >= policy.CurrentStyleStart:
			index[i] = EmptyReservedSlot
		default:
			index[i] = EmptySlot
		}
	}
	return index, nil
}
