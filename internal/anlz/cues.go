package anlz

import (
	"encoding/binary"

	"rekordboxusb/pkg/models"
)

// PCOB encodes the legacy cue list: a u32-BE count, then one 16-byte
// entry per cue (type, status, position_ms, loop_end_ms).
// 
func PCOB(cues []models.CuePoint) []byte {
	extra := make([]byte, 4)
	binary.BigEndian.PutUint32(extra, uint32(len(cues)))

	payload := make([]byte, 16*len(cues))
	for i, c := range cues {
		off := i * 16
		binary.BigEndian.PutUint32(payload[off:], uint32(c.Type))
		binary.BigEndian.PutUint32(payload[off+4:], 1) // status: active
		binary.BigEndian.PutUint32(payload[off+8:], c.PositionMs)
		binary.BigEndian.PutUint32(payload[off+12:], c.LoopEndMs)
	}
	return writeSection("PCOB", extra, payload)
}

// PCO2 encodes the extended, color-aware cue list: 4 status bytes, a
// u16-BE count, then 28-byte entries (type, reserved, slot, color_index,
// position_ms, loop_end_ms, 16 B reserved)
func PCO2(cues []models.CuePoint) ([]byte, error) {
	for _, c := range cues {
		if err := ValidatePaletteIndex(c.ColorIndex); err != nil {
			return nil, err
		}
	}

	extra := make([]byte, 6)
	binary.BigEndian.PutUint16(extra[4:], uint16(len(cues)))

	payload := make([]byte, 28*len(cues))
	for i, c := range cues {
		off := i * 28
		payload[off] = byte(c.Type)
		payload[off+1] = 0 // reserved
		payload[off+2] = c.Slot
		payload[off+3] = c.ColorIndex
		binary.BigEndian.PutUint32(payload[off+4:], c.PositionMs)
		binary.BigEndian.PutUint32(payload[off+8:], c.LoopEndMs)
	}
	return writeSection("PCO2", extra, payload), nil
}
