package musicdb

import (
	"encoding/binary"
	"fmt"
)

// fieldReader はレコードのバイト列を先頭から順に読み進めます。
// 最初のエラーを保持し、以降の読み込みはゼロ値を返します。
type fieldReader struct {
	buf []byte
	off int
	err error
}

func newFieldReader(buf []byte) *fieldReader {
	return &fieldReader{buf: buf}
}

// next は n バイトを切り出してオフセットを進めます
func (r *fieldReader) next(n int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = fmt.Errorf("%w: reading %s at offset %d: need %d bytes, have %d",
			ErrTruncatedRecord, what, r.off, n, len(r.buf)-r.off)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *fieldReader) u8(what string) uint8 {
	b := r.next(1, what)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *fieldReader) u16(what string) uint16 {
	b := r.next(2, what)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *fieldReader) i16(what string) int16 {
	return int16(r.u16(what))
}

func (r *fieldReader) u32(what string) uint32 {
	b := r.next(4, what)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// bytes は dst の長さ分だけコピーします
func (r *fieldReader) bytes(dst []byte, what string) {
	if b := r.next(len(dst), what); b != nil {
		copy(dst, b)
	}
}

// text は固定長のShift-JIS文字列を読み込みます
func (r *fieldReader) text(width int, what string) string {
	b := r.next(width, what)
	if b == nil {
		return ""
	}
	s, err := decodeText(b)
	if err != nil {
		r.err = &FieldError{Field: what, Err: err}
		return ""
	}
	return s
}

// fieldWriter は固定長のバッファへ先頭から順に書き込みます
type fieldWriter struct {
	buf []byte
	off int
	err error
}

func newFieldWriter(size int) *fieldWriter {
	return &fieldWriter{buf: make([]byte, size)}
}

// next は書き込み先の n バイトを確保してオフセットを進めます
func (w *fieldWriter) next(n int, what string) []byte {
	if w.err != nil {
		return nil
	}
	if w.off+n > len(w.buf) {
		w.err = fmt.Errorf("writing %s at offset %d: record overflow (size %d)", what, w.off, len(w.buf))
		return nil
	}
	b := w.buf[w.off : w.off+n]
	w.off += n
	return b
}

func (w *fieldWriter) u8(v uint8, what string) {
	if b := w.next(1, what); b != nil {
		b[0] = v
	}
}

func (w *fieldWriter) u16(v uint16, what string) {
	if b := w.next(2, what); b != nil {
		binary.LittleEndian.PutUint16(b, v)
	}
}

func (w *fieldWriter) i16(v int16, what string) {
	w.u16(uint16(v), what)
}

func (w *fieldWriter) u32(v uint32, what string) {
	if b := w.next(4, what); b != nil {
		binary.LittleEndian.PutUint32(b, v)
	}
}

func (w *fieldWriter) bytes(src []byte, what string) {
	if b := w.next(len(src), what); b != nil {
		copy(b, src)
	}
}

func (w *fieldWriter) text(s string, width int, what string) {
	if w.err != nil {
		return
	}
	encoded, err := encodeText(s, width)
	if err != nil {
		w.err = &FieldError{Field: what, Err: err}
		return
	}
	w.bytes(encoded, what)
}

// finish は書き込み済みのバッファを返します。全体が埋まっていない場合はエラーです。
func (w *fieldWriter) finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.off != len(w.buf) {
		return nil, fmt.Errorf("record underflow: wrote %d of %d bytes", w.off, len(w.buf))
	}
	return w.buf, nil
}
