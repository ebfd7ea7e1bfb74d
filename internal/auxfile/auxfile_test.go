package auxfile

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestDevSetting(t *testing.T) {
	data := DevSetting()

	if len(data) != DevSettingSize {
		t.Fatalf("len = %d, want %d", len(data), DevSettingSize)
	}
	if got := binary.LittleEndian.Uint32(data[0:4]); got != 96 {
		t.Errorf("header value = %d, want 96", got)
	}
	if !bytes.Equal(data[0x04:0x0E], []byte("PIONEER DJ")) {
		t.Errorf("brand string wrong: %q", data[0x04:0x0E])
	}
	if !bytes.Equal(data[0x24:0x2D], []byte("rekordbox")) {
		t.Errorf("app string wrong: %q", data[0x24:0x2D])
	}
	if !bytes.Equal(data[0x44:0x49], []byte("6.8.4")) {
		t.Errorf("version string wrong: %q", data[0x44:0x49])
	}
	if got := binary.LittleEndian.Uint32(data[0x68:]); got != 0x12345678 {
		t.Errorf("magic = %#x, want 0x12345678", got)
	}
	if got := binary.LittleEndian.Uint32(data[0x88:]); got != 0xD016 {
		t.Errorf("tail value = %#x, want 0xd016", got)
	}
}

func TestDJProfile(t *testing.T) {
	data := DJProfile("Test DJ")

	if len(data) != DJProfileSize {
		t.Fatalf("len = %d, want %d", len(data), DJProfileSize)
	}
	if !bytes.Equal(data[0x20:0x27], []byte("Test DJ")) {
		t.Errorf("profile name wrong: %q", data[0x20:0x27])
	}
	if data[0x27] != 0 {
		t.Errorf("profile name not zero-terminated")
	}
	for i := 0; i < 0x20; i++ {
		if data[i] != 0 {
			t.Fatalf("byte %#x before name field is %#x, want 0", i, data[i])
		}
	}
}

func TestDJProfileTruncation(t *testing.T) {
	long := "0123456789012345678901234567890123456789"
	data := DJProfile(long)
	if !bytes.Equal(data[0x20:0x3F], []byte(long[:31])) {
		t.Errorf("long name not truncated to 31 bytes")
	}
	if data[0x3F] != 0 {
		t.Errorf("truncated name field lost its zero terminator")
	}
}

func TestArtworkDir(t *testing.T) {
	if got := ArtworkDir(1); got != "PIONEER/Artwork/00001" {
		t.Errorf("ArtworkDir(1) = %q", got)
	}
	if got := ArtworkDir(250); got != "PIONEER/Artwork/00250" {
		t.Errorf("ArtworkDir(250) = %q", got)
	}
}
