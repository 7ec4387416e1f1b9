package main

import "testing"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint32
		wantErr bool
	}{
		{"10進数", "25", 0x19, false},
		{"16進数", "0x19", 0x19, false},
		{"数値以外", "v19", 0, true},
		{"範囲外", "0x100000000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseVersion(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseVersion(%q) = %d; want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewCLI_Commands(t *testing.T) {
	want := []string{"extract", "create", "convert", "merge", "inspect", "lookup"}
	app := newCLI()
	for _, name := range want {
		if app.Command(name) == nil {
			t.Errorf("command %q is not registered", name)
		}
	}
}

func TestParseSongID(t *testing.T) {
	tests := []struct {
		name    string
		input   uint64
		want    uint32
		wantErr bool
	}{
		{"通常の値", 1234, 1234, false},
		{"uint32の最大値", 4294967295, 4294967295, false},
		{"uint32を超える値", 4294968530, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSongID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSongID(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseSongID(%d) = %d; want %d", tt.input, got, tt.want)
			}
		})
	}
}
