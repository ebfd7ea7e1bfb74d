package anlz

import (
	"encoding/binary"

	"rekordboxusb/pkg/models"
)

// PQTZ encodes a beat grid: a u32-BE count, then per-beat
// (beat_in_bar, tempo*100, time_ms) records
func PQTZ(beats []models.Beat) []byte {
	extra := make([]byte, 4)
	binary.BigEndian.PutUint32(extra, uint32(len(beats)))

	payload := make([]byte, 8*len(beats))
	for i, beat := range beats {
		off := i * 8
		binary.BigEndian.PutUint16(payload[off:], beat.BeatInBar)
		binary.BigEndian.PutUint16(payload[off+2:], beat.TempoX100)
		binary.BigEndian.PutUint32(payload[off+4:], beat.TimeMs)
	}
	return writeSection("PQTZ", extra, payload)
}
