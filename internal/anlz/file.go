package anlz

import (
	"fmt"

	"rekordboxusb/pkg/models"
)

// PMAI wraps the concatenation of the given sections in the root
// container preamble. Its len_tag equals the whole file length.
func pmai(sections ...[]byte) []byte {
	var payload []byte
	for _, s := range sections {
		payload = append(payload, s...)
	}
	return writeSection("PMAI", nil, payload)
}

// BuildDAT assembles an ANLZ0000.DAT file: PMAI + PPTH + PQTZ + PWAV +
// PWV5. PWAV is omitted when the payload has no preview samples.
func BuildDAT(path string, analysis models.AnalysisPayload) ([]byte, error) {
	ppth := PPTH(path)
	pqtz := PQTZ(analysis.Beats)
	pwv5 := PWV5(analysis.Detail)

	var pwav []byte
	if len(analysis.Preview) > 0 {
		var err error
		pwav, err = PWAV(analysis.Preview)
		if err != nil {
			return nil, err
		}
	}
	return pmai(ppth, pqtz, pwav, pwv5), nil
}

// BuildEXT assembles an ANLZ0000.EXT file: the DAT sections plus PWV3,
// PWV4, PCOB and PCO2. PWAV and PWV4 are omitted when the payload has no
// preview samples or color-preview columns respectively.
func BuildEXT(path string, analysis models.AnalysisPayload) ([]byte, error) {
	ppth := PPTH(path)
	pqtz := PQTZ(analysis.Beats)
	pwv5 := PWV5(analysis.Detail)
	pwv3 := PWV3(analysis.ThreeBand)
	pcob := PCOB(analysis.Cues)

	pco2, err := PCO2(analysis.Cues)
	if err != nil {
		return nil, err
	}

	var pwav []byte
	if len(analysis.Preview) > 0 {
		pwav, err = PWAV(analysis.Preview)
		if err != nil {
			return nil, err
		}
	}

	var pwv4 []byte
	if len(analysis.ColorPreview) > 0 {
		pwv4, err = PWV4(analysis.ColorPreview)
		if err != nil {
			return nil, err
		}
	}

	return pmai(ppth, pqtz, pwav, pwv5, pwv3, pwv4, pcob, pco2), nil
}

// Build2EX assembles an ANLZ0000.2EX file, emitted only for CDJ-3000
// support: identical section layout to .EXT.
func Build2EX(path string, analysis models.AnalysisPayload) ([]byte, error) {
	return BuildEXT(path, analysis)
}

// ShardPath returns the USB-relative directory (without filename) a
// track's ANLZ files live under: P{nnn}/{8-hex-digits}, where nnn is the
// shard (track_id-1)/999 and the hex id is the zero-padded lowercase
// track id.
func ShardPath(trackID uint32) string {
	shard := (trackID - 1) / 999
	return fmt.Sprintf("P%03d/%08x", shard, trackID)
}
