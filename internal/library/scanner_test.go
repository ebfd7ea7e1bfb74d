package library

import (
	"os"
	"path/filepath"
	"testing"

	"rekordboxusb/internal/idalloc"
)

var formats = []string{".mp3", ".flac", ".wav", ".m4a"}

// writeFile creates a file with junk contents; metadata extraction will
// fall back to the filename path, which is the deterministic case the
// scanner tests exercise.
func writeFile(t *testing.T, path string, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanPlaylistLayout(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Warmup", "alpha.mp3"), "not really audio")
	writeFile(t, filepath.Join(root, "Warmup", "beta.mp3"), "not really audio")
	writeFile(t, filepath.Join(root, "Peak Time", "gamma.mp3"), "not really audio")
	writeFile(t, filepath.Join(root, "loose.mp3"), "not really audio")
	writeFile(t, filepath.Join(root, "notes.txt"), "ignore me")
	writeFile(t, filepath.Join(root, ".hidden.mp3"), "ignore me")

	s := NewScanner(root, formats, idalloc.New(), nil)
	lib, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(lib.Tracks) != 4 {
		t.Fatalf("got %d tracks, want 4", len(lib.Tracks))
	}
	if len(lib.Playlists) != 2 {
		t.Fatalf("got %d playlists, want 2", len(lib.Playlists))
	}

	// Directories are visited in name order: "Peak Time" before "Warmup".
	if lib.Playlists[0].Name != "Peak Time" || lib.Playlists[1].Name != "Warmup" {
		t.Errorf("playlist order: %q, %q", lib.Playlists[0].Name, lib.Playlists[1].Name)
	}
	if len(lib.Playlists[1].TrackIDs) != 2 {
		t.Errorf("Warmup has %d tracks, want 2", len(lib.Playlists[1].TrackIDs))
	}
	if lib.Playlists[0].SortOrder != 1 || lib.Playlists[1].SortOrder != 2 {
		t.Errorf("sort orders: %d, %d", lib.Playlists[0].SortOrder, lib.Playlists[1].SortOrder)
	}

	// Track ids are unique and nonzero.
	seen := make(map[uint32]bool)
	for _, tr := range lib.Tracks {
		if tr.ID == 0 {
			t.Errorf("track %q has id 0", tr.Title)
		}
		if seen[tr.ID] {
			t.Errorf("duplicate track id %d", tr.ID)
		}
		seen[tr.ID] = true
	}
}

func TestScanFallbackMetadata(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Warmup", "My Song.mp3"), "junk bytes")

	s := NewScanner(root, formats, idalloc.New(), nil)
	lib, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(lib.Tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(lib.Tracks))
	}

	tr := lib.Tracks[0]
	if tr.Title != "My Song" {
		t.Errorf("fallback title = %q, want filename stem", tr.Title)
	}
	if tr.Artist != "Unknown Artist" || tr.Album != "Unknown Album" {
		t.Errorf("fallback artist/album = %q/%q", tr.Artist, tr.Album)
	}
	if tr.FilePath != "/Contents/Warmup/My Song.mp3" {
		t.Errorf("usb path = %q", tr.FilePath)
	}
	if tr.FileSize == 0 {
		t.Errorf("file size not recorded")
	}
}

func TestScanSidecarOverride(t *testing.T) {
	root := t.TempDir()
	audio := filepath.Join(root, "Warmup", "raw.mp3")
	writeFile(t, audio, "junk bytes")
	writeFile(t, audio+".json", `{
		"title": "Proper Title",
		"artist": "Proper Artist",
		"bpm": 123.5,
		"key": "Amin",
		"analysis": {
			"beats": [{"beat": 1, "bpm": 123.5, "time_ms": 0}],
			"cues": [{"hot": true, "position_ms": 1500, "slot": 0, "color": 9}]
		}
	}`)

	s := NewScanner(root, formats, idalloc.New(), nil)
	lib, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	tr := lib.Tracks[0]
	if tr.Title != "Proper Title" || tr.Artist != "Proper Artist" {
		t.Errorf("sidecar override missed: %q / %q", tr.Title, tr.Artist)
	}
	if tr.TempoBPM != 123.5 {
		t.Errorf("bpm = %v", tr.TempoBPM)
	}
	if tr.Key != "Amin" {
		t.Errorf("key = %q", tr.Key)
	}
	if len(tr.Analysis.Beats) != 1 || tr.Analysis.Beats[0].TempoX100 != 12350 {
		t.Errorf("beats not carried over: %+v", tr.Analysis.Beats)
	}
	if len(tr.Analysis.Cues) != 1 || tr.Analysis.Cues[0].PositionMs != 1500 {
		t.Errorf("cues not carried over: %+v", tr.Analysis.Cues)
	}
}

func TestScanArtworkDedupByContent(t *testing.T) {
	root := t.TempDir()
	artDir := t.TempDir()
	copy1 := filepath.Join(artDir, "cover-a.jpg")
	copy2 := filepath.Join(artDir, "cover-b.jpg")
	writeFile(t, copy1, "identical jpeg bytes")
	writeFile(t, copy2, "identical jpeg bytes")

	writeFile(t, filepath.Join(root, "Warmup", "a.mp3"), "junk")
	writeFile(t, filepath.Join(root, "Warmup", "a.mp3.json"), `{"artwork": "`+filepath.ToSlash(copy1)+`"}`)
	writeFile(t, filepath.Join(root, "Warmup", "b.mp3"), "junk")
	writeFile(t, filepath.Join(root, "Warmup", "b.mp3.json"), `{"artwork": "`+filepath.ToSlash(copy2)+`"}`)

	s := NewScanner(root, formats, idalloc.New(), nil)
	lib, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(lib.Tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(lib.Tracks))
	}
	if lib.Tracks[0].ArtworkPath != lib.Tracks[1].ArtworkPath {
		t.Errorf("identical artwork contents did not collapse to one path: %q vs %q",
			lib.Tracks[0].ArtworkPath, lib.Tracks[1].ArtworkPath)
	}
}

func TestScanStableIDs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Warmup", "a.mp3"), "junk")
	writeFile(t, filepath.Join(root, "Warmup", "b.mp3"), "junk")

	cachePath := filepath.Join(t.TempDir(), "ids.db")
	cache, err := idalloc.OpenCache(cachePath)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	lib1, err := NewScanner(root, formats, idalloc.NewWithCache(cache), nil).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	cache.Close()

	// Add a file and rescan against the same cache: existing ids hold.
	writeFile(t, filepath.Join(root, "Warmup", "c.mp3"), "junk")
	cache2, err := idalloc.OpenCache(cachePath)
	if err != nil {
		t.Fatalf("OpenCache (reopen): %v", err)
	}
	defer cache2.Close()
	lib2, err := NewScanner(root, formats, idalloc.NewWithCache(cache2), nil).Scan()
	if err != nil {
		t.Fatalf("Scan (rescan): %v", err)
	}

	byPath := make(map[string]uint32)
	for _, tr := range lib1.Tracks {
		byPath[tr.FilePath] = tr.ID
	}
	for _, tr := range lib2.Tracks {
		if want, ok := byPath[tr.FilePath]; ok && tr.ID != want {
			t.Errorf("id for %s changed: %d -> %d", tr.FilePath, want, tr.ID)
		}
	}
	if len(lib2.Tracks) != 3 {
		t.Errorf("rescan found %d tracks, want 3", len(lib2.Tracks))
	}
}
