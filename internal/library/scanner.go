// Package library walks a directory of playlist subfolders and builds
// the Track/PlaylistNode input graph the PDB and ANLZ builders consume.
// One immediate subfolder = one playlist; deeper nesting is not
// recursed into. Audio files at the root belong to no playlist but are
// still added to the tracks table.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rekordboxusb/internal/idalloc"
	"rekordboxusb/pkg/models"

	"github.com/sirupsen/logrus"
)

// Library is the scanned input graph for one build: every track and the
// playlist tree. Each track's artwork source is the ArtworkPath recorded
// on the track itself.
type Library struct {
	Tracks    []models.Track
	Playlists []models.PlaylistNode
}

// Scanner builds a Library from a directory tree.
type Scanner struct {
	root    string
	formats []string
	alloc   *idalloc.Allocator
	logger  *logrus.Logger

	// artworkByDigest canonicalizes artwork paths by content hash, so
	// two copies of the same image dedup to one artwork id downstream.
	artworkByDigest map[string]string
}

// NewScanner creates a scanner rooted at root. alloc supplies track and
// playlist ids; pass an uncached allocator for fresh ids every run.
func NewScanner(root string, supportedFormats []string, alloc *idalloc.Allocator, logger *logrus.Logger) *Scanner {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Scanner{
		root:            root,
		formats:         supportedFormats,
		alloc:           alloc,
		logger:          logger,
		artworkByDigest: make(map[string]string),
	}
}

// IsAudioFile checks if a file is a supported audio format
func (s *Scanner) IsAudioFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, format := range s.formats {
		if ext == format {
			return true
		}
	}
	return false
}

// Scan walks the library root and returns the input graph. Files that
// cannot be read or parsed are logged and skipped rather than failing
// the whole build.
func (s *Scanner) Scan() (*Library, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read library root: %w", err)
	}

	lib := &Library{}

	// Stable order regardless of readdir order: directories and files
	// are both visited sorted by name.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var sortOrder uint32
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		if entry.IsDir() {
			sortOrder++
			if err := s.scanPlaylistDir(lib, name, sortOrder); err != nil {
				s.logger.WithError(err).WithField("playlist", name).Warn("Skipping unreadable playlist folder")
			}
			continue
		}

		if s.IsAudioFile(name) {
			if track, ok := s.scanTrack(name, name); ok {
				lib.Tracks = append(lib.Tracks, track)
			}
		}
	}

	s.logger.WithFields(logrus.Fields{
		"tracks":    len(lib.Tracks),
		"playlists": len(lib.Playlists),
	}).Info("Library scan complete")
	return lib, nil
}

// scanPlaylistDir ingests one playlist folder: its audio files become
// tracks and the folder itself becomes a leaf playlist node.
func (s *Scanner) scanPlaylistDir(lib *Library, dirName string, sortOrder uint32) error {
	full := filepath.Join(s.root, dirName)
	entries, err := os.ReadDir(full)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	node := models.PlaylistNode{
		ID:        s.alloc.IDFor(idalloc.KindPlaylist, dirName),
		ParentID:  0,
		Name:      dirName,
		IsFolder:  false,
		SortOrder: sortOrder,
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !s.IsAudioFile(name) {
			continue
		}
		rel := filepath.Join(dirName, name)
		if track, ok := s.scanTrack(rel, name); ok {
			lib.Tracks = append(lib.Tracks, track)
			node.TrackIDs = append(node.TrackIDs, track.ID)
		}
	}

	lib.Playlists = append(lib.Playlists, node)
	return nil
}

// scanTrack extracts one track's metadata. rel is the library-relative
// path (the id allocator's natural key); base is the bare filename.
func (s *Scanner) scanTrack(rel, base string) (models.Track, bool) {
	full := filepath.Join(s.root, rel)
	id := s.alloc.IDFor(idalloc.KindTrack, filepath.ToSlash(rel))

	track, err := s.extractTrack(full, id)
	if err != nil {
		s.logger.WithError(err).WithField("file_path", full).Warn("Skipping unreadable audio file")
		return models.Track{}, false
	}

	// The USB path under /Contents mirrors the library layout.
	track.FilePath = "/Contents/" + filepath.ToSlash(rel)

	// Sidecar JSON, when present, overrides extracted fields and may
	// supply the analysis payload.
	applySidecar(&track, full, s.logger)

	if track.ArtworkPath != "" {
		track.ArtworkPath = s.canonicalArtworkPath(track.ArtworkPath)
	}

	return track, true
}

// canonicalArtworkPath maps an artwork file to the first-seen path with
// the same content hash, so duplicate copies of one image collapse into
// a single artwork id.
func (s *Scanner) canonicalArtworkPath(path string) string {
	digest, err := idalloc.FileDigest(path)
	if err != nil {
		s.logger.WithError(err).WithField("artwork", path).Warn("Could not hash artwork file")
		return path
	}
	if first, ok := s.artworkByDigest[digest]; ok {
		return first
	}
	s.artworkByDigest[digest] = path
	return path
}
