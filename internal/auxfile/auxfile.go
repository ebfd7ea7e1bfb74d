// Package auxfile emits the small fixed-size helper files a CDJ expects
// next to the database: PIONEER/DEVSETTING.DAT and PIONEER/djprofile.nxs.
// Both are constant byte templates; only the DJ profile name is
// caller-supplied.
package auxfile

import (
	"encoding/binary"
	"fmt"
)

// rekordbox version string advertised in DEVSETTING.DAT.
const rekordboxVersion = "6.8.4"

const (
	// DevSettingSize is the fixed size of DEVSETTING.DAT.
	DevSettingSize = 140
	// DJProfileSize is the fixed size of djprofile.nxs.
	DJProfileSize = 160
)

// DevSetting renders the 140-byte DEVSETTING.DAT contents. The file is
// little-endian; all fields are constants.
func DevSetting() []byte {
	data := make([]byte, DevSettingSize)

	// 0x00: header value 0x60.
	binary.LittleEndian.PutUint32(data[0x00:], 96)

	// 0x04: brand string, 28 bytes zero-padded.
	copy(data[0x04:], "PIONEER DJ")

	// 0x24: application string, 32 bytes zero-padded.
	copy(data[0x24:], "rekordbox")

	// 0x44: version string, 32 bytes zero-padded.
	copy(data[0x44:], rekordboxVersion)

	// 0x64: section marker, 0x68: magic, 0x6C: constant 1.
	binary.LittleEndian.PutUint32(data[0x64:], 0x20)
	binary.LittleEndian.PutUint32(data[0x68:], 0x12345678)
	binary.LittleEndian.PutUint32(data[0x6C:], 1)

	// 0x70-0x75: settings flags, all enabled.
	for i := 0x70; i <= 0x75; i++ {
		data[i] = 0x01
	}

	// 0x88: tail value observed in captured exports.
	binary.LittleEndian.PutUint32(data[0x88:], 0xD016)

	return data
}

// DJProfile renders the 160-byte djprofile.nxs contents. name lands at
// offset 0x20 as ASCII, zero-padded to 32 bytes; it is truncated to 31
// bytes so the field always stays zero-terminated.
func DJProfile(name string) []byte {
	data := make([]byte, DJProfileSize)
	if len(name) > 31 {
		name = name[:31]
	}
	copy(data[0x20:], name)
	return data
}

// ArtworkDir returns the USB-relative directory a track's artwork pair
// lives in: one 5-digit zero-padded folder per artwork id.
func ArtworkDir(artworkID uint32) string {
	return fmt.Sprintf("PIONEER/Artwork/%05d", artworkID)
}

// Artwork filenames within an ArtworkDir: the 80x80 thumbnail and the
// 240x240 full image.
const (
	ArtworkThumbName = "a1.jpg"
	ArtworkFullName  = "a1_m.jpg"
)
