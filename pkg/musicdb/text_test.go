package musicdb

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "ASCIIと末尾のNUL",
			input: []byte("Test\x00\x00\x00\x00"),
			want:  "Test",
		},
		{
			name:  "Shift-JISの日本語",
			input: []byte{0x82, 0xa0, 0x82, 0xa2, 0x00, 0x00}, // あい
			want:  "あい",
		},
		{
			name:  "全てNUL",
			input: make([]byte, 8),
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeText(tt.input)
			if err != nil {
				t.Fatalf("decodeText failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("decodeText() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeText_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"0x80", []byte{'A', 0x80, 'B', 0x00}},
		{"0xA0", []byte{'A', 0xa0, 'B', 0x00}},
		{"0xFD", []byte{'A', 0xfd, 'B', 0x00}},
		{"不正な後続バイト", []byte{0x82, 0x20, 0x00, 0x00}},
		{"フィールド末尾の先行バイトのみ", []byte{'A', 'B', 0x00, 0x82}},
		{"NEC特殊文字の重複符号 0x8790", []byte{0x87, 0x90, 0x00, 0x00}},
		{"IBM拡張文字の重複符号 0xFA40", []byte{0xfa, 0x40, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeText(tt.input)
			if !errors.Is(err, ErrEncoding) {
				t.Fatalf("decodeText(% x) = %q, %v; want ErrEncoding", tt.input, got, err)
			}
		})
	}
}

func TestDecodeText_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte("A\x00B\x00\x00\x00"),
		{0x83, 0x5c, 0x83, 0x74, 0x83, 0x67, 0x00, 0x00}, // ソフト
		{0xb1, 0xb2, 0x5c, 0x7e, 0x00, 0x00, 0x00, 0x00},
	}

	for _, input := range inputs {
		s, err := decodeText(input)
		if err != nil {
			t.Fatalf("decodeText(% x) failed: %v", input, err)
		}
		out, err := encodeText(s, len(input))
		if err != nil {
			t.Fatalf("encodeText(%q) failed: %v", s, err)
		}
		if !bytes.Equal(out, input) {
			t.Errorf("round trip = % x; want % x", out, input)
		}
	}
}

func TestEncodeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  []byte
	}{
		{
			name:  "短い文字列はNULで埋める",
			input: "ab",
			width: 4,
			want:  []byte{'a', 'b', 0, 0},
		},
		{
			name:  "ちょうどの長さ",
			input: "abcd",
			width: 4,
			want:  []byte("abcd"),
		},
		{
			name:  "長いASCIIは切り詰める",
			input: "abcdef",
			width: 4,
			want:  []byte("abcd"),
		},
		{
			name:  "2バイト文字を分断しない",
			input: "あいう",
			width: 5,
			want:  []byte{0x82, 0xa0, 0x82, 0xa2, 0x00},
		},
		{
			name:  "半角カナは1バイト",
			input: "ｱｲｳ",
			width: 2,
			want:  []byte{0xb1, 0xb2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeText(tt.input, tt.width)
			if err != nil {
				t.Fatalf("encodeText failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("encodeText() = % x; want % x", got, tt.want)
			}
			if len(got) != tt.width {
				t.Errorf("len = %d; want %d", len(got), tt.width)
			}
		})
	}
}

func TestEncodeText_Unsupported(t *testing.T) {
	_, err := encodeText("title 😀", TextWidth)
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
}

func TestTextFits(t *testing.T) {
	ok, err := TextFits("あいう", 6)
	if err != nil || !ok {
		t.Errorf("TextFits(あいう, 6) = %v, %v; want true, nil", ok, err)
	}
	ok, err = TextFits("あいう", 5)
	if err != nil || ok {
		t.Errorf("TextFits(あいう, 5) = %v, %v; want false, nil", ok, err)
	}
	if _, err := TextFits("😀", 5); !errors.Is(err, ErrEncoding) {
		t.Errorf("expected ErrEncoding, got %v", err)
	}
}
