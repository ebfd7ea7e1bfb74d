// Package models defines the input entities the core builders consume:
// track metadata, playlist tree nodes, and per-track analysis payloads.
// Nothing in this package performs I/O or touches the DeviceSQL/ANLZ wire
// formats directly.
package models

// Track is the metadata for a single library track. It is read-only to
// the PDB and ANLZ builders; they never mutate or persist it themselves.
type Track struct {
	ID           uint32
	FilePath     string // USB-relative path, e.g. "/Contents/foo.mp3"
	Title        string
	Artist       string
	Album        string
	Genre        string
	Label        string
	Key          string
	ColorSlot    uint8 // 0-8
	TempoBPM     float64
	SampleRate   uint32
	SampleDepth  uint16
	Duration     uint16 // seconds
	Bitrate      uint32
	FileSize     uint32
	PlayCount    uint16
	Rating       uint8
	Year         uint16
	TrackNumber  uint32
	DiscNumber   uint16
	ArtworkID    uint32 // 0 = none
	ArtworkPath  string // optional, opaque passthrough
	Analysis     AnalysisPayload
}

// PlaylistNode is one node of the playlist tree. Leaf playlists (IsFolder
// == false) carry an ordered list of track ids; folders never do.
type PlaylistNode struct {
	ID        uint32
	ParentID  uint32 // 0 = root
	Name      string
	IsFolder  bool
	SortOrder uint32
	TrackIDs  []uint32
}

// Beat is one entry of a beat grid: position within the bar (1-4), tempo
// in BPM*100, and absolute time offset in milliseconds.
type Beat struct {
	BeatInBar uint16
	TempoX100 uint16
	TimeMs    uint32
}

// WaveformPreviewSample is one byte of the 400-sample monochrome preview
// waveform (PWAV): a 5-bit height and a 3-bit whiteness.
type WaveformPreviewSample struct {
	Height    uint8 // 0-31
	Whiteness uint8 // 0-7
}

// WaveformDetailSample is one sample of the per-sample detail color
// waveform (PWV5): 3-bit R/G/B channels and a 5-bit height.
type WaveformDetailSample struct {
	Red    uint8 // 0-7
	Green  uint8 // 0-7
	Blue   uint8 // 0-7
	Height uint8 // 0-31
}

// WaveformColorColumn is one column of the 1200-column color preview
// waveform (PWV4).
type WaveformColorColumn struct {
	Height    uint8
	Luminance uint8
	Red       uint8
	Green     uint8
	Blue      uint8
	Blue2     uint8
}

// CueType distinguishes a hot cue from a memory cue in a CuePoint.
type CueType uint8

const (
	CueTypeMemory CueType = 0
	CueTypeHot    CueType = 1
)

// CuePoint is one saved cue or loop marker.
type CuePoint struct {
	Type       CueType
	PositionMs uint32
	LoopEndMs  uint32 // 0 if not a loop
	Slot       uint8  // hot cue letter A-H as 0-7; ignored for memory cues
	ColorIndex uint8  // index into the 63-entry hot cue palette
}

// AnalysisPayload is the already-computed per-track analysis the core
// turns into ANLZ sections. Any of the slices may be empty; the ANLZ
// writers accept empty beat grids, waveforms and cue lists without error.
type AnalysisPayload struct {
	Beats          []Beat
	Preview        []WaveformPreviewSample // must be exactly 400 when non-empty
	Detail         []WaveformDetailSample
	ThreeBand      []uint8
	ColorPreview   []WaveformColorColumn // must be exactly 1200 when non-empty
	Cues           []CuePoint
}
