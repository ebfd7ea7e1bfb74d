package pdbrow

import (
	"encoding/binary"

	"rekordboxusb/internal/dsql"
)

// numTrackStrings is the width of the track row's ofs_strings array.
// Only the first 15 slots carry named fields; the remaining slots are
// reserved and emitted as empty DeviceSQL strings so every declared
// slot still decodes successfully.
const numTrackStrings = 21

const trackFixedBodyLen = 94 + numTrackStrings*2

// TrackStrings holds the track row's 15 named string fields in their
// declared on-disk order.
type TrackStrings struct {
	ISRC         string
	Texter       string
	Unknown1     string
	Unknown2     string
	DateAdded    string
	ReleaseDate  string
	MixName      string
	Unknown3     string
	AnalyzePath  string
	AnalyzeDate  string
	Comment      string
	Title        string
	Unknown4     string
	Filename     string
	FilePath     string
}

func (s TrackStrings) ordered() []string {
	return []string{
		s.ISRC, s.Texter, s.Unknown1, s.Unknown2, s.DateAdded, s.ReleaseDate,
		s.MixName, s.Unknown3, s.AnalyzePath, s.AnalyzeDate, s.Comment,
		s.Title, s.Unknown4, s.Filename, s.FilePath,
	}
}

// TrackFields is the full set of fixed-width fields of a track row.
type TrackFields struct {
	SampleRate       uint32
	ComposerID       uint32
	FileSize         uint32
	ArtworkID        uint32
	KeyID            uint32
	OriginalArtistID uint32
	LabelID          uint32
	RemixerID        uint32
	Bitrate          uint32
	TrackNumber      uint32
	TempoX100        uint32
	GenreID          uint32
	AlbumID          uint32
	ArtistID         uint32
	ID               uint32
	DiscNumber       uint16
	PlayCount        uint16
	Year             uint16
	SampleDepth      uint16
	Duration         uint16
	ColorID          uint8
	Rating           uint8
	Strings          TrackStrings
}

// EncodeTrack produces the track_row body and its string patch list.
func EncodeTrack(f TrackFields) ([]byte, []StringRef, error) {
	body := make([]byte, trackFixedBodyLen)

	binary.LittleEndian.PutUint16(body[0:], 0x0024) // magic
	binary.LittleEndian.PutUint16(body[2:], 0)       // index_shift, patched by the table builder
	binary.LittleEndian.PutUint32(body[4:], 0x00100000)
	binary.LittleEndian.PutUint32(body[8:], f.SampleRate)
	binary.LittleEndian.PutUint32(body[12:], f.ComposerID)
	binary.LittleEndian.PutUint32(body[16:], f.FileSize)
	binary.LittleEndian.PutUint32(body[20:], 0)
	binary.LittleEndian.PutUint16(body[24:], 0)
	binary.LittleEndian.PutUint16(body[26:], 0)
	binary.LittleEndian.PutUint32(body[28:], f.ArtworkID)
	binary.LittleEndian.PutUint32(body[32:], f.KeyID)
	binary.LittleEndian.PutUint32(body[36:], f.OriginalArtistID)
	binary.LittleEndian.PutUint32(body[40:], f.LabelID)
	binary.LittleEndian.PutUint32(body[44:], f.RemixerID)
	binary.LittleEndian.PutUint32(body[48:], f.Bitrate)
	binary.LittleEndian.PutUint32(body[52:], f.TrackNumber)
	binary.LittleEndian.PutUint32(body[56:], f.TempoX100)
	binary.LittleEndian.PutUint32(body[60:], f.GenreID)
	binary.LittleEndian.PutUint32(body[64:], f.AlbumID)
	binary.LittleEndian.PutUint32(body[68:], f.ArtistID)
	binary.LittleEndian.PutUint32(body[72:], f.ID)
	binary.LittleEndian.PutUint16(body[76:], f.DiscNumber)
	binary.LittleEndian.PutUint16(body[78:], f.PlayCount)
	binary.LittleEndian.PutUint16(body[80:], f.Year)
	binary.LittleEndian.PutUint16(body[82:], f.SampleDepth)
	binary.LittleEndian.PutUint16(body[84:], f.Duration)
	binary.LittleEndian.PutUint16(body[86:], 41)
	body[88] = f.ColorID
	body[89] = f.Rating
	binary.LittleEndian.PutUint16(body[90:], 1)
	binary.LittleEndian.PutUint16(body[92:], 3)

	named := f.Strings.ordered()
	var refs []StringRef
	for i := 0; i < numTrackStrings; i++ {
		var s string
		if i < len(named) {
			s = named[i]
		}
		enc, err := dsql.Encode(s)
		if err != nil {
			return nil, nil, err
		}
		fieldOffset := 94 + i*2
		var ref StringRef
		body, ref = appendString(body, fieldOffset, enc)
		refs = append(refs, ref)
	}
	return body, refs, nil
}

// SetIndexShift patches the row's index_shift field once its final heap
// offset within the page is known; working exports set it equal to the
// row's in-page heap offset.
func SetIndexShift(body []byte, heapOffset uint32) {
	setIndexShift(body, heapOffset)
}
