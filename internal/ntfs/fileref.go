package ntfs

import "encoding/binary"

// FileRef packs an MFT inode number and its sequence number into the 8-byte
// on-disk reference NTFS uses to point at another MFT entry: 6 bytes of
// inode (u48) followed by a 2-byte sequence number.
type FileRef struct {
	Inode    uint64
	Sequence uint16
}

// ParseFileRef decodes an 8-byte on-disk file reference.
func ParseFileRef(b []byte) FileRef {
	var inodeBytes [8]byte
	copy(inodeBytes[:6], b[0:6])
	return FileRef{
		Inode:    binary.LittleEndian.Uint64(inodeBytes[:]),
		Sequence: binary.LittleEndian.Uint16(b[6:8]),
	}
}
