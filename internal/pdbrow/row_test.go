package pdbrow

import (
	"encoding/binary"
	"testing"
)

func TestEncodeTrackFixedLength(t *testing.T) {
	body, refs, err := EncodeTrack(TrackFields{ID: 1, Strings: TrackStrings{Title: "Test"}})
	if err != nil {
		t.Fatalf("EncodeTrack: %v", err)
	}
	if len(refs) != numTrackStrings {
		t.Fatalf("got %d string refs, want %d", len(refs), numTrackStrings)
	}
	if binary.LittleEndian.Uint16(body[0:]) != 0x0024 {
		t.Errorf("magic = %#x, want 0x0024", binary.LittleEndian.Uint16(body[0:]))
	}
	if binary.LittleEndian.Uint32(body[72:]) != 1 {
		t.Errorf("id field = %d, want 1", binary.LittleEndian.Uint32(body[72:]))
	}
}

func TestApplyStringOffsetsPointsInsideHeap(t *testing.T) {
	body, refs, err := EncodeTrack(TrackFields{ID: 2, Strings: TrackStrings{Title: "Hi"}})
	if err != nil {
		t.Fatalf("EncodeTrack: %v", err)
	}
	const heapOffset = 0x28 + 100
	ApplyStringOffsets(body, refs, heapOffset)
	for _, ref := range refs {
		got := binary.LittleEndian.Uint16(body[ref.FieldOffset:])
		want := uint16(heapOffset) + uint16(ref.StringStart)
		if got != want {
			t.Errorf("field at %d = %d, want %d", ref.FieldOffset, got, want)
		}
	}
}

func TestEncodeArtistNameImmediatelyAfterHeader(t *testing.T) {
	body, refs, err := EncodeArtist(5, "Dj")
	if err != nil {
		t.Fatalf("EncodeArtist: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("expected no patchable refs for near-subtype artist row, got %d", len(refs))
	}
	if body[9] != 10 {
		t.Errorf("ofs_name = %d, want 10", body[9])
	}
	if string(body[10+1:]) != "Dj" {
		t.Errorf("name bytes = %q, want %q", body[11:], "Dj")
	}
}

func TestEncodeAlbumOfsNameConstant(t *testing.T) {
	body, err := EncodeAlbum(1, 2, "Album")
	if err != nil {
		t.Fatalf("EncodeAlbum: %v", err)
	}
	if body[21] != 22 {
		t.Errorf("ofs_name = %d, want 22", body[21])
	}
	if len(body) != albumFixedBodyLen+1+len("Album") {
		t.Errorf("row length = %d, want %d", len(body), albumFixedBodyLen+1+len("Album"))
	}
}

func TestEncodePlaylistEntryNoStrings(t *testing.T) {
	body := EncodePlaylistEntry(0, 7, 2)
	if len(body) != 12 {
		t.Fatalf("len = %d, want 12", len(body))
	}
	if binary.LittleEndian.Uint32(body[4:]) != 7 {
		t.Errorf("track_id = %d, want 7", binary.LittleEndian.Uint32(body[4:]))
	}
	if binary.LittleEndian.Uint32(body[8:]) != 2 {
		t.Errorf("playlist_id = %d, want 2", binary.LittleEndian.Uint32(body[8:]))
	}
}

func TestStandardKeysCount(t *testing.T) {
	if len(StandardKeys) != 24 {
		t.Fatalf("len(StandardKeys) = %d, want 24", len(StandardKeys))
	}
}
