package ntfs

import (
	"encoding/binary"
	"fmt"
)

// VolumeNameAttr decodes $VOLUME_NAME (0x60), the volume label carried on
// MFT entry 3 ($Volume). Recovered from original_source/'s
// ntfs/__init__.py per SPEC_FULL.md §5.
type VolumeNameAttr struct {
	Name string
}

// VolumeInformationAttr decodes $VOLUME_INFORMATION (0x70): the NTFS
// version of the volume, also carried on $Volume.
type VolumeInformationAttr struct {
	MajorVersion uint8
	MinorVersion uint8
	Flags        uint16
}

func decodeVolumeInformation(b []byte) (*VolumeInformationAttr, error) {
	if len(b) < 0x0C {
		return nil, errMalformed("$VOLUME_INFORMATION", fmt.Errorf("payload too short: %d bytes", len(b)))
	}
	return &VolumeInformationAttr{
		MajorVersion: b[0x08],
		MinorVersion: b[0x09],
		Flags:        binary.LittleEndian.Uint16(b[0x0A:0x0C]),
	}, nil
}
