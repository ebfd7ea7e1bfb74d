// Package export drives one full USB export: scan the library, build
// the PDB and per-track ANLZ blobs via the core writers, and lay the
// results out as the PIONEER/ output tree a CDJ expects. The core
// writers themselves do no I/O; every file write lives here.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"rekordboxusb/internal/anlz"
	"rekordboxusb/internal/auxfile"
	"rekordboxusb/internal/config"
	"rekordboxusb/internal/idalloc"
	"rekordboxusb/internal/library"
	"rekordboxusb/internal/pdb"
	"rekordboxusb/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Exporter performs builds of one configured library into one output
// tree. It may be invoked repeatedly (the --watch loop does); each Run
// is a complete rebuild.
type Exporter struct {
	cfg    *config.Config
	alloc  *idalloc.Allocator
	logger *logrus.Logger
}

// New creates an Exporter. alloc supplies track and playlist ids;
// pass an uncached allocator for fresh ids every run.
func New(cfg *config.Config, alloc *idalloc.Allocator, logger *logrus.Logger) *Exporter {
	return &Exporter{cfg: cfg, alloc: alloc, logger: logger}
}

// Run performs one complete export build.
func (e *Exporter) Run() error {
	scanner := library.NewScanner(e.cfg.Library.Path, e.cfg.Library.SupportedFormats, e.alloc, e.logger)
	lib, err := scanner.Scan()
	if err != nil {
		return fmt.Errorf("library scan failed: %w", err)
	}

	builder := pdb.NewBuilder()
	for _, t := range lib.Tracks {
		builder.AddTrack(t)
	}
	for _, p := range lib.Playlists {
		builder.AddPlaylist(p)
	}

	pdbBytes, err := builder.Build()
	if err != nil {
		return fmt.Errorf("pdb build failed: %w", err)
	}

	if err := e.writeFileAtomic(filepath.Join("PIONEER", "rekordbox", "export.pdb"), pdbBytes); err != nil {
		return err
	}

	if err := e.writeAnalysis(lib.Tracks); err != nil {
		return err
	}
	if err := e.writeAuxiliaries(); err != nil {
		return err
	}
	if err := e.copyArtwork(builder.ArtworkPaths()); err != nil {
		return err
	}

	e.logger.WithFields(logrus.Fields{
		"tracks":    len(lib.Tracks),
		"playlists": len(lib.Playlists),
		"pdb_bytes": len(pdbBytes),
	}).Info("Export complete")
	return nil
}

// writeAnalysis emits every track's ANLZ files. Generation is per-track
// and independent, so it fans out over a bounded worker pool; only PDB
// assembly has to stay serialized.
func (e *Exporter) writeAnalysis(tracks []models.Track) error {
	workers := runtime.NumCPU()
	if workers > len(tracks) {
		workers = len(tracks)
	}
	if workers < 1 {
		return nil
	}

	jobs := make(chan models.Track)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				if err := e.writeTrackAnalysis(t); err != nil {
					setErr(err)
				}
			}
		}()
	}
	for _, t := range tracks {
		jobs <- t
	}
	close(jobs)
	wg.Wait()

	return firstErr
}

// writeTrackAnalysis writes one track's DAT/EXT (and 2EX when
// configured) files under PIONEER/USBANLZ.
func (e *Exporter) writeTrackAnalysis(t models.Track) error {
	shard := anlz.ShardPath(t.ID)
	dir := filepath.Join("PIONEER", "USBANLZ", filepath.FromSlash(shard))

	// PPTH records the DAT path even inside the EXT/2EX variants.
	anlzPath := "/PIONEER/USBANLZ/" + shard + "/ANLZ0000.DAT"

	dat, err := anlz.BuildDAT(anlzPath, t.Analysis)
	if err != nil {
		return fmt.Errorf("track %d: DAT build failed: %w", t.ID, err)
	}
	if err := e.writeFileAtomic(filepath.Join(dir, "ANLZ0000.DAT"), dat); err != nil {
		return err
	}

	ext, err := anlz.BuildEXT(anlzPath, t.Analysis)
	if err != nil {
		return fmt.Errorf("track %d: EXT build failed: %w", t.ID, err)
	}
	if err := e.writeFileAtomic(filepath.Join(dir, "ANLZ0000.EXT"), ext); err != nil {
		return err
	}

	if e.cfg.Output.Emit2EX {
		twoEx, err := anlz.Build2EX(anlzPath, t.Analysis)
		if err != nil {
			return fmt.Errorf("track %d: 2EX build failed: %w", t.ID, err)
		}
		if err := e.writeFileAtomic(filepath.Join(dir, "ANLZ0000.2EX"), twoEx); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeAuxiliaries() error {
	if err := e.writeFileAtomic(filepath.Join("PIONEER", "DEVSETTING.DAT"), auxfile.DevSetting()); err != nil {
		return err
	}
	return e.writeFileAtomic(filepath.Join("PIONEER", "djprofile.nxs"), auxfile.DJProfile(e.cfg.Profile.Name))
}

// copyArtwork places each registered artwork source file into its
// per-id folder, as both the thumbnail and the full image name. The
// blobs are opaque passthrough; no resizing happens here.
func (e *Exporter) copyArtwork(paths []string) error {
	for i, src := range paths {
		artworkID := uint32(i + 1)
		dir := filepath.FromSlash(auxfile.ArtworkDir(artworkID))

		data, err := os.ReadFile(src)
		if err != nil {
			e.logger.WithError(err).WithField("artwork", src).Warn("Skipping unreadable artwork file")
			continue
		}
		if err := e.writeFileAtomic(filepath.Join(dir, auxfile.ArtworkThumbName), data); err != nil {
			return err
		}
		if err := e.writeFileAtomic(filepath.Join(dir, auxfile.ArtworkFullName), data); err != nil {
			return err
		}
	}
	return nil
}

// writeFileAtomic writes data to rel (relative to the output root) via
// a uniquely named temp file and rename, so a crashed build never
// leaves a half-written file a CDJ could choke on.
func (e *Exporter) writeFileAtomic(rel string, data []byte) error {
	path := filepath.Join(e.cfg.Output.Path, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp := path + ".tmp-" + uuid.NewString()
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", rel, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move %s into place: %w", rel, err)
	}
	return nil
}
