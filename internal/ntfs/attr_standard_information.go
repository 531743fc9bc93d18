package ntfs

import (
	"encoding/binary"
	"fmt"
)

// StandardInformation decodes $STANDARD_INFORMATION (0x10). The ownership
// fields are only present on NTFS 3.0+ volumes, when the resident payload
// is longer than 0x30 bytes.
type StandardInformation struct {
	Created      Ticks
	Modified     Ticks
	MFTModified  Ticks
	Accessed     Ticks
	DOSPermissions uint32

	HasOwnership bool
	OwnerID      uint32
	SecurityID   uint32
	QuotaCharged uint64
	USN          uint64
}

func decodeStandardInformation(b []byte) (*StandardInformation, error) {
	if len(b) < 0x30 {
		return nil, errMalformed("$STANDARD_INFORMATION", fmt.Errorf("payload too short: %d bytes", len(b)))
	}

	si := &StandardInformation{
		Created:        Ticks(binary.LittleEndian.Uint64(b[0x00:0x08])),
		Modified:       Ticks(binary.LittleEndian.Uint64(b[0x08:0x10])),
		MFTModified:    Ticks(binary.LittleEndian.Uint64(b[0x10:0x18])),
		Accessed:       Ticks(binary.LittleEndian.Uint64(b[0x18:0x20])),
		DOSPermissions: binary.LittleEndian.Uint32(b[0x20:0x24]),
	}

	if len(b) > 0x30 {
		if len(b) >= 0x48 {
			si.HasOwnership = true
			si.OwnerID = binary.LittleEndian.Uint32(b[0x30:0x34])
			si.SecurityID = binary.LittleEndian.Uint32(b[0x34:0x38])
			si.QuotaCharged = binary.LittleEndian.Uint64(b[0x38:0x40])
			si.USN = binary.LittleEndian.Uint64(b[0x40:0x48])
		}
	}
	return si, nil
}
