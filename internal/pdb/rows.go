package pdb

import (
	"fmt"

	"rekordboxusb/internal/pdbrow"
	"rekordboxusb/internal/pdbtable"
)

func (b *Builder) buildTracks(acc *pageAccumulator) error {
	var rows []pdbtable.RowID
	for _, t := range b.tracks {
		fields := pdbrow.TrackFields{
			SampleRate:       t.SampleRate,
			FileSize:         t.FileSize,
			ArtworkID:        b.artworkIDFor(t.ArtworkPath),
			KeyID:            b.keyIDs[t.Key],
			LabelID:          b.labels.idFor(t.Label),
			Bitrate:          t.Bitrate,
			TrackNumber:      t.TrackNumber,
			TempoX100:        uint32(t.TempoBPM * 100),
			GenreID:          b.genres.idFor(t.Genre),
			AlbumID:          b.albums.idFor(t.Album),
			ArtistID:         b.artists.idFor(t.Artist),
			ID:               t.ID,
			DiscNumber:       t.DiscNumber,
			PlayCount:        t.PlayCount,
			Year:             t.Year,
			SampleDepth:      t.SampleDepth,
			Duration:         t.Duration,
			ColorID:          t.ColorSlot,
			Rating:           t.Rating,
			Strings: pdbrow.TrackStrings{
				Title:       t.Title,
				Filename:    baseName(t.FilePath),
				FilePath:    t.FilePath,
				AnalyzePath: anlzPathFor(t.ID),
			},
		}
		body, refs, err := pdbrow.EncodeTrack(fields)
		if err != nil {
			return err
		}
		rows = append(rows, pdbtable.RowID{
			ID:               t.ID,
			Body:             body,
			StringRefs:       refs,
			IndexShiftSetter: pdbrow.SetIndexShift,
		})
	}
	return acc.add(TableTracks, 0x24, rows)
}

func (b *Builder) artworkIDFor(path string) uint32 {
	if path == "" {
		return 0
	}
	return b.artwork.idFor(path)
}

func (b *Builder) genreRows() []pdbtable.RowID {
	var rows []pdbtable.RowID
	for i, name := range b.genres.names() {
		id := uint32(i + 1)
		body, err := pdbrow.EncodeGenre(id, name)
		if err != nil {
			continue
		}
		rows = append(rows, pdbtable.RowID{ID: id, Body: body})
	}
	return rows
}

func (b *Builder) artistRows() []pdbtable.RowID {
	var rows []pdbtable.RowID
	for i, name := range b.artists.names() {
		id := uint32(i + 1)
		body, refs, err := pdbrow.EncodeArtist(id, name)
		if err != nil {
			continue
		}
		rows = append(rows, pdbtable.RowID{
			ID:               id,
			Body:             body,
			StringRefs:       refs,
			IndexShiftSetter: pdbrow.SetArtistIndexShift,
		})
	}
	return rows
}

func (b *Builder) albumRows() []pdbtable.RowID {
	var rows []pdbtable.RowID
	for i, name := range b.albums.names() {
		id := uint32(i + 1)
		// An album's artist_id is the first artist seen with any track
		// on that album; a 0 ("none") album never appears here since
		// idFor skips empty names.
		artistID := b.firstArtistIDForAlbum(name)
		body, err := pdbrow.EncodeAlbum(id, artistID, name)
		if err != nil {
			continue
		}
		rows = append(rows, pdbtable.RowID{
			ID:               id,
			Body:             body,
			IndexShiftSetter: pdbrow.SetAlbumIndexShift,
		})
	}
	return rows
}

func (b *Builder) firstArtistIDForAlbum(album string) uint32 {
	for _, t := range b.tracks {
		if t.Album == album && t.Artist != "" {
			return b.artists.idFor(t.Artist)
		}
	}
	return 0
}

func (b *Builder) labelRows() []pdbtable.RowID {
	var rows []pdbtable.RowID
	for i, name := range b.labels.names() {
		id := uint32(i + 1)
		body, err := pdbrow.EncodeLabel(id, name)
		if err != nil {
			continue
		}
		rows = append(rows, pdbtable.RowID{ID: id, Body: body})
	}
	return rows
}

func (b *Builder) keyRows() []pdbtable.RowID {
	rows := make([]pdbtable.RowID, 0, len(pdbrow.StandardKeys))
	for i, name := range pdbrow.StandardKeys {
		id := uint32(i + 1)
		body, err := pdbrow.EncodeKey(id, name)
		if err != nil {
			continue
		}
		rows = append(rows, pdbtable.RowID{ID: id, Body: body})
	}
	return rows
}

func (b *Builder) colorRows() []pdbtable.RowID {
	rows := make([]pdbtable.RowID, 0, len(pdbrow.StandardColors))
	for _, c := range pdbrow.StandardColors {
		body, err := pdbrow.EncodeColor(c.ID, c.Name)
		if err != nil {
			continue
		}
		rows = append(rows, pdbtable.RowID{ID: uint32(c.ID), Body: body})
	}
	return rows
}

func (b *Builder) artworkRows() []pdbtable.RowID {
	var rows []pdbtable.RowID
	for i, path := range b.artwork.names() {
		id := uint32(i + 1)
		body, err := pdbrow.EncodeArtwork(id, path)
		if err != nil {
			continue
		}
		rows = append(rows, pdbtable.RowID{ID: id, Body: body})
	}
	return rows
}

func (b *Builder) buildPlaylistTree(acc *pageAccumulator) error {
	var rows []pdbtable.RowID
	for _, p := range b.playlists {
		body, err := pdbrow.EncodePlaylistTree(p.ParentID, p.SortOrder, p.ID, p.IsFolder, p.Name)
		if err != nil {
			return err
		}
		rows = append(rows, pdbtable.RowID{ID: p.ID, Body: body})
	}
	return acc.add(TablePlaylistTree, 0x24, rows)
}

func (b *Builder) buildPlaylistEntries(acc *pageAccumulator) error {
	var rows []pdbtable.RowID
	entryID := uint32(0)
	for _, p := range b.playlists {
		if p.IsFolder {
			continue
		}
		for idx, trackID := range p.TrackIDs {
			body := pdbrow.EncodePlaylistEntry(uint32(idx), trackID, p.ID)
			rows = append(rows, pdbtable.RowID{ID: entryID, Body: body})
			entryID++
		}
	}
	return acc.add(TablePlaylistEntries, 0x24, rows)
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}

// anlzPathFor mirrors internal/anlz's sharding formula so the track row
// can record its own analyze_path string without importing internal/anlz
// (which in turn has no need to depend on internal/pdb).
func anlzPathFor(trackID uint32) string {
	shard := (trackID - 1) / 999
	return fmt.Sprintf("/PIONEER/USBANLZ/P%03d/%08x/ANLZ0000.DAT", shard, trackID)
}
