package musicdb

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/japanese"
)

// decodeText は固定長のShift-JISフィールドをUTF-8に変換し、末尾のNULを取り除きます。
// 再エンコードして元のバイト列に戻らない場合（不正なバイト、重複割り当ての符号）は ErrEncoding を返します。
func decodeText(b []byte) (string, error) {
	raw := bytes.TrimRight(b, "\x00")
	s, err := japanese.ShiftJIS.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: % x: %w", ErrEncoding, raw, err)
	}
	back, err := japanese.ShiftJIS.NewEncoder().Bytes(s)
	if err != nil || !bytes.Equal(back, raw) {
		return "", fmt.Errorf("%w: % x is not valid shift-jis", ErrEncoding, raw)
	}
	return string(s), nil
}

// encodeText は文字列をShift-JISに変換し、width バイトにNULパディングします。
// width を超える場合は2バイト文字を分断しない位置で切り詰めます。
func encodeText(s string, width int) ([]byte, error) {
	encoded, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrEncoding, s, err)
	}

	n := fitText(encoded, width)
	out := make([]byte, width)
	copy(out, encoded[:n])
	return out, nil
}

// fitText は width バイトに収まる文字境界までのバイト数を返します
func fitText(b []byte, width int) int {
	if len(b) <= width {
		return len(b)
	}
	i := 0
	for i < len(b) {
		n := 1
		if isLeadByte(b[i]) {
			n = 2
		}
		if i+n > width {
			break
		}
		i += n
	}
	return i
}

// isLeadByte はShift-JISの2バイト文字の先行バイトかどうかを判定します
func isLeadByte(c byte) bool {
	return (c >= 0x81 && c <= 0x9F) || (c >= 0xE0 && c <= 0xFC)
}

// TextFits は文字列が切り詰めなしで width バイトに収まるかを確認します。
// 切り詰めを許容しない呼び出し側はエンコード前にこれで検証します。
func TextFits(s string, width int) (bool, error) {
	encoded, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return false, fmt.Errorf("%w: %q: %w", ErrEncoding, s, err)
	}
	return len(encoded) <= width, nil
}
