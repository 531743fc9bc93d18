package ntfs

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// AttrType identifies an NTFS attribute type_id. The full enumeration goes
// beyond the seven decoders §1 requires; unknown/unimplemented types fall
// through to the raw-bytes catch-all.
type AttrType uint32

const (
	AttrStandardInformation AttrType = 0x10
	AttrAttributeList       AttrType = 0x20
	AttrFileName            AttrType = 0x30
	AttrObjectID            AttrType = 0x40
	AttrSecurityDescriptor  AttrType = 0x50
	AttrVolumeName          AttrType = 0x60
	AttrVolumeInformation   AttrType = 0x70
	AttrData                AttrType = 0x80
	AttrIndexRoot           AttrType = 0x90
	AttrIndexAllocation     AttrType = 0xA0
	AttrBitmap              AttrType = 0xB0
	AttrReparsePoint        AttrType = 0xC0
	AttrEAInformation       AttrType = 0xD0
	AttrEA                  AttrType = 0xE0
	AttrLoggedUtilityStream AttrType = 0x100
	attrEndMarker           AttrType = 0xFFFFFFFF
)

func (t AttrType) String() string {
	switch t {
	case AttrStandardInformation:
		return "$STANDARD_INFORMATION"
	case AttrAttributeList:
		return "$ATTRIBUTE_LIST"
	case AttrFileName:
		return "$FILE_NAME"
	case AttrObjectID:
		return "$OBJECT_ID"
	case AttrSecurityDescriptor:
		return "$SECURITY_DESCRIPTOR"
	case AttrVolumeName:
		return "$VOLUME_NAME"
	case AttrVolumeInformation:
		return "$VOLUME_INFORMATION"
	case AttrData:
		return "$DATA"
	case AttrIndexRoot:
		return "$INDEX_ROOT"
	case AttrIndexAllocation:
		return "$INDEX_ALLOCATION"
	case AttrBitmap:
		return "$BITMAP"
	case AttrReparsePoint:
		return "$REPARSE_POINT"
	case AttrEAInformation:
		return "$EA_INFORMATION"
	case AttrEA:
		return "$EA"
	case AttrLoggedUtilityStream:
		return "$LOGGED_UTILITY_STREAM"
	default:
		return fmt.Sprintf("$UNKNOWN(0x%X)", uint32(t))
	}
}

// AttrHeader is the generic, fixed-size prefix of every attribute, common
// to both resident and non-resident forms.
type AttrHeader struct {
	TypeID      AttrType
	Size        uint32
	NonResident bool
	NameLength  uint8
	NameOffset  uint16
	Flags       uint16
	AttrID      uint16
	Name        string

	// resident form
	AttrLength uint32
	AttrOffset uint16
	IndexFlag  uint8

	// non-resident form
	StartingVCN     uint64
	LastVCN         uint64
	DataRunsOffset  uint16
	CompressionUnit uint16
	AllocatedSize   uint64
	ActualSize      uint64
	CompressedSize  uint64
	VCN             VCN

	start int // byte offset of this header within the owning record buffer
}

// IsNamed reports whether this attribute carries a stream name (e.g. an
// alternate data stream).
func (h *AttrHeader) IsNamed() bool { return h.NameLength > 0 }

// parseAttrHeaders walks the attribute list packed contiguously starting
// at attrOffset and terminated by the sentinel 0xFFFFFFFF.
func parseAttrHeaders(data []byte, attrOffset int) ([]*AttrHeader, error) {
	var headers []*AttrHeader
	p := attrOffset

	for {
		if p+4 > len(data) {
			return headers, errMalformed("attribute list", fmt.Errorf("truncated at %d", p))
		}
		typeID := AttrType(binary.LittleEndian.Uint32(data[p : p+4]))
		if typeID == attrEndMarker {
			break
		}
		if p+0x10 > len(data) {
			return headers, errMalformed("attribute header", fmt.Errorf("truncated at %d", p))
		}

		h := &AttrHeader{
			TypeID:      typeID,
			Size:        binary.LittleEndian.Uint32(data[p+0x04 : p+0x08]),
			NonResident: data[p+0x08] != 0,
			NameLength:  data[p+0x09],
			NameOffset:  binary.LittleEndian.Uint16(data[p+0x0A : p+0x0C]),
			Flags:       binary.LittleEndian.Uint16(data[p+0x0C : p+0x0E]),
			AttrID:      binary.LittleEndian.Uint16(data[p+0x0E : p+0x10]),
			start:       p,
		}
		if h.Size == 0 || p+int(h.Size) > len(data) {
			return headers, errMalformed("attribute size", fmt.Errorf("type=%s size=%d at %d", typeID, h.Size, p))
		}

		if !h.NonResident {
			h.AttrLength = binary.LittleEndian.Uint32(data[p+0x10 : p+0x14])
			h.AttrOffset = binary.LittleEndian.Uint16(data[p+0x14 : p+0x16])
			h.IndexFlag = data[p+0x16]
		} else {
			h.StartingVCN = binary.LittleEndian.Uint64(data[p+0x10 : p+0x18])
			h.LastVCN = binary.LittleEndian.Uint64(data[p+0x18 : p+0x20])
			h.DataRunsOffset = binary.LittleEndian.Uint16(data[p+0x20 : p+0x22])
			h.CompressionUnit = binary.LittleEndian.Uint16(data[p+0x22 : p+0x24])
			h.AllocatedSize = binary.LittleEndian.Uint64(data[p+0x28 : p+0x30])
			h.ActualSize = binary.LittleEndian.Uint64(data[p+0x30 : p+0x38])
			if p+0x40 <= len(data) {
				h.CompressedSize = binary.LittleEndian.Uint64(data[p+0x38 : p+0x40])
			}

			runStart := p + int(h.DataRunsOffset)
			if runStart <= len(data) {
				if _, vcn, err := DecodeDataRuns(data, runStart); err == nil {
					h.VCN = vcn
				}
			}
		}

		if h.NameLength > 0 {
			nameStart := p + int(h.NameOffset)
			nameEnd := nameStart + int(h.NameLength)*2
			if nameEnd <= len(data) {
				h.Name = decodeUTF16LE(data[nameStart:nameEnd])
			}
		}

		headers = append(headers, h)
		p += int(h.Size)
	}
	return headers, nil
}

func decodeUTF16LE(b []byte) string {
	u := make([]uint16, len(b)/2)
	for i := range u {
		u[i] = binary.LittleEndian.Uint16(b[2*i : 2*i+2])
	}
	return string(utf16.Decode(u))
}

// residentPayload returns the resident value bytes for a header, per
// §4.6's buf[start+attr_offset .. start+attr_offset+attr_length] rule.
func residentPayload(h *AttrHeader, data []byte) ([]byte, error) {
	begin := h.start + int(h.AttrOffset)
	end := begin + int(h.AttrLength)
	if begin < 0 || end > len(data) || end < begin {
		return nil, errMalformed("resident attribute payload", fmt.Errorf("type=%s", h.TypeID))
	}
	return data[begin:end], nil
}

// nonResidentPayload materialises the payload of a non-$DATA non-resident
// attribute by concatenating the cluster ranges its VCN describes. $DATA
// is handled separately: its payload is never eagerly read here.
func nonResidentPayload(h *AttrHeader, resolver EntryResolver) ([]byte, error) {
	if resolver == nil {
		return nil, errMalformed("non-resident payload", fmt.Errorf("no cluster reader available for type=%s", h.TypeID))
	}
	cr := resolver.ClusterReader()
	buf, err := materializeRuns(cr, h.VCN, cr.ClusterSize())
	if err != nil {
		return nil, errMalformed("non-resident payload", err)
	}
	if uint64(len(buf)) > h.ActualSize && h.ActualSize > 0 {
		buf = buf[:h.ActualSize]
	}
	return buf, nil
}

// TypedAttr is a tagged union with one variant per decoded attribute type
// plus an Unknown catch-all, per the design notes' "polymorphic attribute"
// guidance.
type TypedAttr struct {
	Header *AttrHeader

	StandardInfo    *StandardInformation
	AttributeList   []AttributeListEntry
	FileName        *FileNameAttr
	Data            *DataAttr
	IndexRoot       *IndexRootAttr
	IndexAllocation *IndexAllocationAttr
	Bitmap          *BitmapAttr
	VolumeName      *VolumeNameAttr
	VolumeInfo      *VolumeInformationAttr
	Unknown         []byte
}

func (a TypedAttr) Type() AttrType { return a.Header.TypeID }
func (a TypedAttr) Name() string   { return a.Header.Name }

// EntryResolver is what an MFTEntry needs from its owning MFT while it is
// being parsed: a way to read clusters for non-resident, non-$DATA
// attributes, and a way to fetch another entry's attributes when resolving
// an $ATTRIBUTE_LIST.
type EntryResolver interface {
	ClusterReader() ClusterReader
	FindEntry(inode uint64) (*MFTEntry, error)
}

// decodeAttribute dispatches on type_id to the matching decoder, in the
// spirit of the design notes' explicit registration table (decoders are
// plain functions keyed by type).
func decodeAttribute(h *AttrHeader, data []byte, resolver EntryResolver) (TypedAttr, error) {
	ta := TypedAttr{Header: h}

	switch h.TypeID {
	case AttrStandardInformation:
		payload, err := attributePayload(h, data, resolver)
		if err != nil {
			return ta, err
		}
		si, err := decodeStandardInformation(payload)
		if err != nil {
			return ta, err
		}
		ta.StandardInfo = si

	case AttrAttributeList:
		payload, err := attributePayload(h, data, resolver)
		if err != nil {
			return ta, err
		}
		entries, err := decodeAttributeList(payload)
		if err != nil {
			return ta, err
		}
		ta.AttributeList = entries

	case AttrFileName:
		payload, err := attributePayload(h, data, resolver)
		if err != nil {
			return ta, err
		}
		fn, err := decodeFileName(payload)
		if err != nil {
			return ta, err
		}
		ta.FileName = fn

	case AttrData:
		ta.Data = decodeData(h, data)

	case AttrIndexRoot:
		payload, err := attributePayload(h, data, resolver)
		if err != nil {
			return ta, err
		}
		ir, err := decodeIndexRoot(payload)
		if err != nil {
			return ta, err
		}
		ta.IndexRoot = ir

	case AttrIndexAllocation:
		ta.IndexAllocation = &IndexAllocationAttr{Header: h}

	case AttrBitmap:
		payload, err := attributePayload(h, data, resolver)
		if err != nil {
			return ta, err
		}
		ta.Bitmap = &BitmapAttr{Bits: payload}

	case AttrVolumeName:
		payload, err := attributePayload(h, data, resolver)
		if err != nil {
			return ta, err
		}
		ta.VolumeName = &VolumeNameAttr{Name: decodeUTF16LE(payload)}

	case AttrVolumeInformation:
		payload, err := attributePayload(h, data, resolver)
		if err != nil {
			return ta, err
		}
		vi, err := decodeVolumeInformation(payload)
		if err != nil {
			return ta, err
		}
		ta.VolumeInfo = vi

	default:
		payload, err := attributePayload(h, data, resolver)
		if err != nil {
			// Unknown + unreadable is still not fatal to the entry.
			ta.Unknown = nil
			return ta, nil
		}
		ta.Unknown = payload
	}

	return ta, nil
}

// attributePayload assembles the raw payload bytes for an attribute per
// §4.6, except for $DATA (handled by decodeData directly, never eagerly
// materialised here).
func attributePayload(h *AttrHeader, data []byte, resolver EntryResolver) ([]byte, error) {
	if !h.NonResident {
		return residentPayload(h, data)
	}
	return nonResidentPayload(h, resolver)
}
