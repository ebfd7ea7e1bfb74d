package pdb

import (
	"testing"

	"rekordboxusb/internal/pdbpage"
	"rekordboxusb/pkg/models"
)

func TestBuildEmptyLibrary(t *testing.T) {
	b := NewBuilder()
	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(out) != 21*pdbpage.Size {
		t.Fatalf("len(out) = %d, want %d", len(out), 21*pdbpage.Size)
	}
	if len(out)%pdbpage.Size != 0 {
		t.Errorf("output is not a multiple of %d bytes", pdbpage.Size)
	}
}

func TestBuildSingleTrack(t *testing.T) {
	b := NewBuilder()
	b.AddTrack(models.Track{
		ID:       1,
		Title:    "Test",
		Artist:   "Dj",
		FilePath: "/Contents/test.mp3",
		TempoBPM: 120.0,
	})
	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(out)%pdbpage.Size != 0 {
		t.Fatalf("output is not page-aligned: %d bytes", len(out))
	}
	if len(out) <= 21*pdbpage.Size {
		t.Errorf("expected more than the empty-library page count once a track is present")
	}
}

func TestBuildPlaylistCycleDetected(t *testing.T) {
	b := NewBuilder()
	b.AddPlaylist(models.PlaylistNode{ID: 1, ParentID: 2, Name: "A", IsFolder: true})
	b.AddPlaylist(models.PlaylistNode{ID: 2, ParentID: 1, Name: "B", IsFolder: true})
	if _, err := b.Build(); err != ErrPlaylistCycle {
		t.Fatalf("Build: err = %v, want ErrPlaylistCycle", err)
	}
}

func TestBuildTwoPlaylistsEntries(t *testing.T) {
	b := NewBuilder()
	b.AddTrack(models.Track{ID: 1, Title: "A", Artist: "X", FilePath: "/Contents/a.mp3"})
	b.AddTrack(models.Track{ID: 2, Title: "B", Artist: "X", FilePath: "/Contents/b.mp3"})
	b.AddTrack(models.Track{ID: 3, Title: "C", Artist: "X", FilePath: "/Contents/c.mp3"})
	b.AddPlaylist(models.PlaylistNode{ID: 1, ParentID: 0, Name: "Sets", IsFolder: true})
	b.AddPlaylist(models.PlaylistNode{ID: 2, ParentID: 1, Name: "Warmup", IsFolder: false, TrackIDs: []uint32{1, 2, 3}})
	if _, err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestBuildDuplicateTrackIDFails(t *testing.T) {
	b := NewBuilder()
	b.AddTrack(models.Track{ID: 1, Title: "A", FilePath: "/Contents/a.mp3"})
	b.AddTrack(models.Track{ID: 1, Title: "B", FilePath: "/Contents/b.mp3"})
	if _, err := b.Build(); err == nil {
		t.Fatal("Build: expected an id-conflict error for duplicate track ids")
	}
}
