package library

import (
	"encoding/json"
	"os"

	"rekordboxusb/pkg/models"

	"github.com/sirupsen/logrus"
)

// sidecar is the optional per-track JSON file (track.mp3.json next to
// track.mp3) supplying fields the tag scan cannot infer, plus the
// already-computed analysis payload from an external analyzer. Every
// field is optional; zero values leave the extracted track untouched.
type sidecar struct {
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Album       string  `json:"album"`
	Genre       string  `json:"genre"`
	Label       string  `json:"label"`
	Key         string  `json:"key"`
	ColorSlot   *uint8  `json:"color"`
	BPM         float64 `json:"bpm"`
	Rating      *uint8  `json:"rating"`
	Year        uint16  `json:"year"`
	PlayCount   uint16  `json:"play_count"`
	ArtworkPath string  `json:"artwork"`

	Analysis *analysisSidecar `json:"analysis"`
}

type analysisSidecar struct {
	Beats []struct {
		BeatInBar uint16  `json:"beat"`
		BPM       float64 `json:"bpm"`
		TimeMs    uint32  `json:"time_ms"`
	} `json:"beats"`
	Cues []struct {
		Hot        bool   `json:"hot"`
		PositionMs uint32 `json:"position_ms"`
		LoopEndMs  uint32 `json:"loop_end_ms"`
		Slot       uint8  `json:"slot"`
		ColorIndex uint8  `json:"color"`
	} `json:"cues"`
}

// applySidecar overlays sidecar JSON onto an extracted track, when a
// sidecar exists. A malformed sidecar is logged and ignored; the scan
// continues with the extracted values.
func applySidecar(track *models.Track, audioPath string, logger *logrus.Logger) {
	path := audioPath + ".json"
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var sc sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		logger.WithError(err).WithField("sidecar", path).Warn("Ignoring malformed sidecar file")
		return
	}

	if sc.Title != "" {
		track.Title = sc.Title
	}
	if sc.Artist != "" {
		track.Artist = sc.Artist
	}
	if sc.Album != "" {
		track.Album = sc.Album
	}
	if sc.Genre != "" {
		track.Genre = sc.Genre
	}
	if sc.Label != "" {
		track.Label = sc.Label
	}
	if sc.Key != "" {
		track.Key = sc.Key
	}
	if sc.ColorSlot != nil && *sc.ColorSlot <= 8 {
		track.ColorSlot = *sc.ColorSlot
	}
	if sc.BPM > 0 {
		track.TempoBPM = sc.BPM
	}
	if sc.Rating != nil {
		track.Rating = *sc.Rating
	}
	if sc.Year > 0 {
		track.Year = sc.Year
	}
	if sc.PlayCount > 0 {
		track.PlayCount = sc.PlayCount
	}
	if sc.ArtworkPath != "" {
		track.ArtworkPath = sc.ArtworkPath
	}

	if sc.Analysis == nil {
		return
	}
	for _, b := range sc.Analysis.Beats {
		track.Analysis.Beats = append(track.Analysis.Beats, models.Beat{
			BeatInBar: b.BeatInBar,
			TempoX100: uint16(b.BPM * 100),
			TimeMs:    b.TimeMs,
		})
	}
	for _, c := range sc.Analysis.Cues {
		cue := models.CuePoint{
			Type:       models.CueTypeMemory,
			PositionMs: c.PositionMs,
			LoopEndMs:  c.LoopEndMs,
			Slot:       c.Slot,
			ColorIndex: c.ColorIndex,
		}
		if c.Hot {
			cue.Type = models.CueTypeHot
		}
		track.Analysis.Cues = append(track.Analysis.Cues, cue)
	}
}
