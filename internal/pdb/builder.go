// Package pdb assembles a complete export.pdb file from track metadata
// and a playlist tree: it drives the row encoders and table builders of
// internal/pdbrow and internal/pdbtable, then emits the 20-slot file
// header that links everything together.
package pdb

import (
	"encoding/binary"
	"fmt"

	"rekordboxusb/internal/pdbpage"
	"rekordboxusb/internal/pdbrow"
	"rekordboxusb/internal/pdbtable"
	"rekordboxusb/pkg/models"
)

// Builder accumulates tracks, playlists and artwork for one PDB build.
// It is not safe for concurrent use; callers must serialize all writes
// to a single Builder since row id allocation is monotonic.
type Builder struct {
	tracks    []models.Track
	playlists []models.PlaylistNode

	artists nameIDMap
	albums  nameIDMap
	genres  nameIDMap
	labels  nameIDMap
	artwork *nameIDMap // keyed by artwork path

	keyIDs map[string]uint32
}

// NewBuilder returns an empty Builder ready for AddTrack/AddPlaylist.
func NewBuilder() *Builder {
	keyIDs := make(map[string]uint32, len(pdbrow.StandardKeys))
	for i, name := range pdbrow.StandardKeys {
		keyIDs[name] = uint32(i + 1)
	}
	return &Builder{
		artists: *newNameIDMap(),
		albums:  *newNameIDMap(),
		genres:  *newNameIDMap(),
		labels:  *newNameIDMap(),
		artwork: newNameIDMap(),
		keyIDs:  keyIDs,
	}
}

// AddTrack registers a track. Build later deduplicates its
// artist/album/genre/label entities by name across all added tracks.
func (b *Builder) AddTrack(t models.Track) {
	b.tracks = append(b.tracks, t)
}

// AddPlaylist registers a playlist-tree node.
func (b *Builder) AddPlaylist(p models.PlaylistNode) {
	b.playlists = append(b.playlists, p)
}

func (b *Builder) validatePlaylists() error {
	byID := make(map[uint32]models.PlaylistNode, len(b.playlists))
	for _, p := range b.playlists {
		byID[p.ID] = p
	}
	for _, p := range b.playlists {
		visited := make(map[uint32]bool)
		cur := p
		for cur.ParentID != 0 {
			if visited[cur.ID] {
				return ErrPlaylistCycle
			}
			visited[cur.ID] = true
			parent, ok := byID[cur.ParentID]
			if !ok {
				return ErrPlaylistCycle
			}
			cur = parent
		}
	}
	return nil
}

// pageAccumulator lays out table page chains sequentially starting at
// page 1 (page 0 is reserved for the file header) and records each
// table's descriptor fields as it goes.
type pageAccumulator struct {
	pages       [][pdbpage.Size]byte
	nextPageID  uint32
	descriptors [numTables]tableDescriptor
}

type tableDescriptor struct {
	firstPageID    uint32
	emptyCandidate uint32
	lastPageID     uint32
	tableType      uint32
	present        bool
}

func (a *pageAccumulator) add(tableType uint32, flags byte, rows []pdbtable.RowID) error {
	built, err := pdbtable.Build(a.nextPageID, tableType, flags, rows)
	if err != nil {
		return fmt.Errorf("table %d: %w", tableType, err)
	}
	a.pages = append(a.pages, built.Pages...)
	a.nextPageID += uint32(built.PageCount)
	a.descriptors[tableType] = tableDescriptor{
		firstPageID:    built.FirstPageID,
		lastPageID:     built.LastPageID,
		emptyCandidate: built.LastPageID + 1,
		tableType:      tableType,
		present:        true,
	}
	return nil
}

// ArtworkPaths returns the registered artwork source paths in id order
// (index 0 holds artwork id 1). It is populated during Build; callers
// use it to place the artwork files into the output tree afterwards.
func (b *Builder) ArtworkPaths() []string {
	return b.artwork.names()
}

// Build renders the complete export.pdb byte stream.
func (b *Builder) Build() ([]byte, error) {
	if err := b.validatePlaylists(); err != nil {
		return nil, err
	}

	// Pass 1: walk tracks to populate the name-keyed id maps (artists,
	// albums, genres, labels, artwork) before any row is encoded, so
	// every track_row's foreign-key fields resolve to an id that the
	// corresponding table will actually contain.
	for _, t := range b.tracks {
		b.artists.idFor(t.Artist)
		b.albums.idFor(t.Album)
		b.genres.idFor(t.Genre)
		b.labels.idFor(t.Label)
		if t.ArtworkPath != "" {
			b.artwork.idFor(t.ArtworkPath)
		}
	}

	acc := &pageAccumulator{nextPageID: 1}

	if err := b.buildTracks(acc); err != nil {
		return nil, err
	}
	if err := acc.add(TableGenres, pdbpage.FlagGenres, b.genreRows()); err != nil {
		return nil, err
	}
	if err := acc.add(TableArtists, pdbpage.FlagData, b.artistRows()); err != nil {
		return nil, err
	}
	if err := acc.add(TableAlbums, pdbpage.FlagData, b.albumRows()); err != nil {
		return nil, err
	}
	if err := acc.add(TableLabels, pdbpage.FlagData, b.labelRows()); err != nil {
		return nil, err
	}
	// The keys and colors tables carry their full standard row sets
	// whenever the library has any content. A wholly empty library (no
	// tracks, no playlists) instead gets placeholders for every table,
	// matching the 21-page empty export a reference device accepts.
	var keyRows, colorRows []pdbtable.RowID
	if len(b.tracks) > 0 || len(b.playlists) > 0 {
		keyRows, colorRows = b.keyRows(), b.colorRows()
	}
	if err := acc.add(TableKeys, pdbpage.FlagData, keyRows); err != nil {
		return nil, err
	}
	if err := acc.add(TableColors, pdbpage.FlagData, colorRows); err != nil {
		return nil, err
	}
	if err := b.buildPlaylistTree(acc); err != nil {
		return nil, err
	}
	if err := b.buildPlaylistEntries(acc); err != nil {
		return nil, err
	}
	for _, t := range []uint32{TableUnknown9, TableUnknown10} {
		if err := acc.add(t, pdbpage.FlagData, nil); err != nil {
			return nil, err
		}
	}
	for _, t := range []uint32{TableHistoryPlaylists, TableHistoryEntries} {
		if err := acc.add(t, pdbpage.FlagGenres, nil); err != nil {
			return nil, err
		}
	}
	if err := acc.add(TableArtwork, pdbpage.FlagData, b.artworkRows()); err != nil {
		return nil, err
	}
	for _, t := range []uint32{TableUnknown14, TableUnknown15} {
		if err := acc.add(t, pdbpage.FlagData, nil); err != nil {
			return nil, err
		}
	}
	if err := acc.add(TableColumns, pdbpage.FlagData, nil); err != nil {
		return nil, err
	}
	if err := acc.add(TableUnknown17, pdbpage.FlagData, nil); err != nil {
		return nil, err
	}
	if err := acc.add(TableUnknown18, pdbpage.FlagData, nil); err != nil {
		return nil, err
	}
	if err := acc.add(TableHistory, pdbpage.FlagGenres, nil); err != nil {
		return nil, err
	}

	return assembleFile(acc), nil
}

// assembleFile concatenates the file header page with every table's
// pages, in the order they were allocated.
func assembleFile(acc *pageAccumulator) []byte {
	totalPages := 1 + len(acc.pages)
	out := make([]byte, totalPages*pdbpage.Size)

	header := out[:pdbpage.Size]
	binary.LittleEndian.PutUint32(header[0x00:], 0)
	binary.LittleEndian.PutUint32(header[0x04:], pdbpage.Size)
	binary.LittleEndian.PutUint32(header[0x08:], numTables)
	binary.LittleEndian.PutUint32(header[0x0C:], uint32(totalPages))
	binary.LittleEndian.PutUint32(header[0x10:], 5)
	binary.LittleEndian.PutUint32(header[0x14:], 1)
	// 0x18-0x1B: 4 zero bytes (gap), left as-is.

	// Table pointers are written last, overlapping the fixed fields at
	// bytes 0x10-0x17: the format double-books that range, and working
	// exports show the table pointer values are the ones that count.
	for i := 0; i < numTables; i++ {
		d := acc.descriptors[i]
		slot := header[0x10+i*16 : 0x10+i*16+16]
		binary.LittleEndian.PutUint32(slot[0:], d.firstPageID)
		binary.LittleEndian.PutUint32(slot[4:], d.emptyCandidate)
		binary.LittleEndian.PutUint32(slot[8:], d.lastPageID)
		binary.LittleEndian.PutUint32(slot[12:], d.tableType)
	}

	off := pdbpage.Size
	for _, p := range acc.pages {
		copy(out[off:], p[:])
		off += pdbpage.Size
	}
	return out
}
