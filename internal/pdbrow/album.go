package pdbrow

import (
	"encoding/binary"

	"rekordboxusb/internal/dsql"
)

const albumFixedBodyLen = 22

// EncodeAlbum produces the album_row body; name always starts at byte
// 22, matching the declared constant ofs_name value.
func EncodeAlbum(id, artistID uint32, name string) ([]byte, error) {
	body := make([]byte, albumFixedBodyLen)
	binary.LittleEndian.PutUint16(body[0:], 0x80)
	binary.LittleEndian.PutUint16(body[2:], 0) // index_shift, patched later
	binary.LittleEndian.PutUint32(body[4:], 0)
	binary.LittleEndian.PutUint32(body[8:], artistID)
	binary.LittleEndian.PutUint32(body[12:], id)
	binary.LittleEndian.PutUint32(body[16:], 0)
	body[20] = 0x03
	body[21] = 22

	enc, err := dsql.Encode(name)
	if err != nil {
		return nil, err
	}
	return append(body, enc...), nil
}

// SetAlbumIndexShift patches the row's index_shift field.
func SetAlbumIndexShift(body []byte, heapOffset uint32) {
	setIndexShift(body, heapOffset)
}
