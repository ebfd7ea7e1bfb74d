package pdbrow

import (
	"encoding/binary"

	"rekordboxusb/internal/dsql"
)

const artistFixedBodyLen = 10

// EncodeArtist produces the artist_row body. Only the "near" ofs_name
// subtype (0x60) is emitted: the name always immediately follows the
// 10-byte fixed header, which keeps the declared ofs_name constant (10)
// and the subtype code in lockstep, sidestepping the ambiguous "far"
// variant whose geometry is underdocumented.
func EncodeArtist(id uint32, name string) ([]byte, []StringRef, error) {
	body := make([]byte, artistFixedBodyLen)
	binary.LittleEndian.PutUint16(body[0:], 0x60)
	binary.LittleEndian.PutUint16(body[2:], 0) // index_shift, patched later
	binary.LittleEndian.PutUint32(body[4:], id)
	body[8] = 0x03
	body[9] = 10

	enc, err := dsql.Encode(name)
	if err != nil {
		return nil, nil, err
	}
	body = append(body, enc...) // ofs_name is fixed at 10, nothing to patch
	return body, nil, nil
}

// SetArtistIndexShift patches the row's index_shift field.
func SetArtistIndexShift(body []byte, heapOffset uint32) {
	setIndexShift(body, heapOffset)
}
