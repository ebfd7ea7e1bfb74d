package anlz

import (
	"encoding/binary"

	"rekordboxusb/pkg/models"
)

// PreviewSampleCount is the fixed sample count of a PWAV section.
const PreviewSampleCount = 400

// ColorPreviewColumnCount is the fixed column count of a PWV4 section.
const ColorPreviewColumnCount = 1200

// PWAV encodes the 400-sample monochrome preview waveform: one byte per
// sample packing a 5-bit height (low) and 3-bit whiteness (high).
func PWAV(samples []models.WaveformPreviewSample) ([]byte, error) {
	if len(samples) != PreviewSampleCount {
		return nil, ErrAnalysisSizeMismatch
	}
	payload := make([]byte, PreviewSampleCount)
	for i, s := range samples {
		payload[i] = (s.Whiteness << 5) | (s.Height & 0x1F)
	}
	return writeSection("PWAV", nil, payload), nil
}

// PWV3 encodes the three-band waveform: one byte per sample, no further
// bit-packing
func PWV3(samples []byte) []byte {
	payload := make([]byte, len(samples))
	copy(payload, samples)
	return writeSection("PWV3", nil, payload)
}

// PWV4 encodes the 1200-column color preview waveform: 6 bytes per
// column (height, luminance, R, G, B, secondary-blue)
func PWV4(columns []models.WaveformColorColumn) ([]byte, error) {
	if len(columns) != ColorPreviewColumnCount {
		return nil, ErrAnalysisSizeMismatch
	}
	payload := make([]byte, 6*ColorPreviewColumnCount)
	for i, c := range columns {
		off := i * 6
		payload[off] = c.Height
		payload[off+1] = c.Luminance
		payload[off+2] = c.Red
		payload[off+3] = c.Green
		payload[off+4] = c.Blue
		payload[off+5] = c.Blue2
	}
	return writeSection("PWV4", nil, payload), nil
}

// PWV5 encodes the detail color waveform: 2 big-endian bytes per sample,
// bit layout RRRGGGBB BHHHHH00 (R/G/B 0-7, height 0-31, low two bits
// zero)
func PWV5(samples []models.WaveformDetailSample) []byte {
	payload := make([]byte, 2*len(samples))
	for i, s := range samples {
		v := uint16(s.Red&0x7)<<13 | uint16(s.Green&0x7)<<10 | uint16(s.Blue&0x7)<<7 | uint16(s.Height&0x1F)<<2
		binary.BigEndian.PutUint16(payload[2*i:], v)
	}
	return writeSection("PWV5", nil, payload)
}
