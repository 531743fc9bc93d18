package ntfs

import (
	"encoding/binary"
	"fmt"
	"log/slog"
)

const (
	mftRecordSignatureFile = "FILE"
	mftRecordSignatureBad  = "BAAD"
)

// MFTEntry is the parsed header of one MFT file-record segment, plus the
// attributes packed after it.
type MFTEntry struct {
	Inode uint64

	Signature       string
	FixupOffset     uint16
	FixupEntryCount uint16
	LSN             uint64
	Sequence        uint16
	LinkCount       uint16
	AttrOffset      uint16
	Flags           uint16
	UsedSize        uint32
	AllocSize       uint32
	BaseRef         FileRef
	NextAttrID      uint16

	Attrs []TypedAttr
}

// InUse reports bit 0 of Flags.
func (e *MFTEntry) InUse() bool { return e.Flags&0x01 != 0 }

// IsDir reports bit 1 of Flags.
func (e *MFTEntry) IsDir() bool { return e.Flags&0x02 != 0 }

// IsFile reports that the entry is exactly a plain in-use file record
// (flags == 0x01, not a directory).
func (e *MFTEntry) IsFile() bool { return e.Flags == 0x01 }

// applyFixUp verifies and substitutes the multi-sector-transfer fix-up
// array in place over a raw MFT record or INDX record buffer. sectorSize
// is the stride between protected sector tails (BootSector.BytesPerSector).
func applyFixUp(data []byte, fixupOffset, fixupEntryCount uint16, sectorSize int) error {
	if sectorSize <= 0 {
		sectorSize = 512
	}
	off := int(fixupOffset)
	count := int(fixupEntryCount)
	if count == 0 {
		return nil
	}
	if off+2*count > len(data) {
		return errMalformed("fix-up array", fmt.Errorf("array extends past record (offset=%d count=%d len=%d)", off, count, len(data)))
	}

	usn := data[off : off+2]
	values := data[off+2 : off+2*count]

	sectors := count - 1
	for i := 0; i < sectors; i++ {
		pos := (i+1)*sectorSize - 2
		if pos+2 > len(data) {
			return errMalformed("fix-up sector tail", fmt.Errorf("sector %d out of bounds", i))
		}
		if data[pos] != usn[0] || data[pos+1] != usn[1] {
			return errMalformed("fix-up sequence mismatch", fmt.Errorf("sector %d", i))
		}
		data[pos], data[pos+1] = values[2*i], values[2*i+1]
	}
	return nil
}

// ParseMFTEntry parses one file-record-segment buffer into an MFTEntry,
// applying its fix-up array to data in place. resolver is used to resolve $ATTRIBUTE_LIST external
// references and to materialise non-resident, non-$DATA attribute
// payloads; it may be nil when parsing in a context that does not need
// those features (e.g. reading the MFT's own entry 0 before the MFT is
// fully built).
func ParseMFTEntry(inode uint64, data []byte, sectorSize int, resolver EntryResolver) (*MFTEntry, error) {
	if len(data) < 0x30 {
		return nil, errMalformed("MFT entry header", fmt.Errorf("record too short: %d bytes", len(data)))
	}

	sig := string(data[0:4])
	if sig != mftRecordSignatureFile {
		if sig == mftRecordSignatureBad {
			return nil, errSignature("MFT entry signature", fmt.Errorf("BAAD record at inode %d", inode))
		}
		return nil, errSignature("MFT entry signature", fmt.Errorf("got %q at inode %d", sig, inode))
	}

	e := &MFTEntry{
		Inode:           inode,
		Signature:       sig,
		FixupOffset:     binary.LittleEndian.Uint16(data[0x04:0x06]),
		FixupEntryCount: binary.LittleEndian.Uint16(data[0x06:0x08]),
		LSN:             binary.LittleEndian.Uint64(data[0x08:0x10]),
		Sequence:        binary.LittleEndian.Uint16(data[0x10:0x12]),
		LinkCount:       binary.LittleEndian.Uint16(data[0x12:0x14]),
		AttrOffset:      binary.LittleEndian.Uint16(data[0x14:0x16]),
		Flags:           binary.LittleEndian.Uint16(data[0x16:0x18]),
		UsedSize:        binary.LittleEndian.Uint32(data[0x18:0x1C]),
		AllocSize:       binary.LittleEndian.Uint32(data[0x1C:0x20]),
		BaseRef:         ParseFileRef(data[0x20:0x28]),
		NextAttrID:      binary.LittleEndian.Uint16(data[0x28:0x2A]),
	}

	if err := applyFixUp(data, e.FixupOffset, e.FixupEntryCount, sectorSize); err != nil {
		return e, err
	}

	if !e.InUse() {
		// Per §4.6: an unused entry carries no attribute parsing attempt.
		return e, nil
	}

	headers, err := parseAttrHeaders(data, int(e.AttrOffset))
	if err != nil {
		return e, err
	}

	// Process in increasing type_id order so $ATTRIBUTE_LIST (0x20) is
	// resolved before attributes that may need the extended set.
	sortHeadersByType(headers)

	attrs := make([]TypedAttr, 0, len(headers))
	for _, h := range headers {
		ta, derr := decodeAttribute(h, data, resolver)
		if derr != nil {
			// MalformedField: drop this attribute, keep parsing siblings.
			slog.Warn("dropping malformed attribute", "inode", inode, "type", h.TypeID.String(), "err", derr)
			continue
		}
		attrs = append(attrs, ta)
	}

	if resolver != nil {
		attrs = resolveAttributeList(e.Inode, attrs, resolver)
	}

	e.Attrs = attrs
	return e, nil
}

func sortHeadersByType(headers []*AttrHeader) {
	for i := 1; i < len(headers); i++ {
		for j := i; j > 0 && headers[j-1].TypeID > headers[j].TypeID; j-- {
			headers[j-1], headers[j] = headers[j], headers[j-1]
		}
	}
}
