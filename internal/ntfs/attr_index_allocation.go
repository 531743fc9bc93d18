package ntfs

import (
	"encoding/binary"
	"fmt"
)

// IndexAllocationAttr decodes $INDEX_ALLOCATION (0xA0): non-resident, a
// sequence of bytes_per_index_record-sized "INDX" records addressed by
// VCN. The attribute's own VCN (cluster allocation) is kept on Header; an
// individual record is fetched on demand via ReadRecord rather than
// eagerly materialising the whole stream, since a directory walk only
// needs the records reachable from the work-list of child_vcn values.
type IndexAllocationAttr struct {
	Header *AttrHeader
}

// IndexAllocationRecord is one decoded "INDX" record.
type IndexAllocationRecord struct {
	VCN     uint64
	LSN     uint64
	Entries []IndexEntry
}

const indxRecordHeaderSize = 0x18

// ReadRecord fetches and decodes the INDX record for child VCN childVCN,
// applying its fix-up array. bytesPerIndexRecord is
// BootSector.IndexRecordSize(), never a hardcoded 1024 (SPEC_FULL.md §6.3).
func (a *IndexAllocationAttr) ReadRecord(cr ClusterReader, clusterSize, bytesPerIndexRecord, sectorSize uint64, childVCN uint64, indexedAttrType uint32) (*IndexAllocationRecord, error) {
	byteOffset := childVCN * bytesPerIndexRecord
	raw, err := readRuns(cr, a.Header.VCN, clusterSize, byteOffset, bytesPerIndexRecord)
	if err != nil {
		return nil, fmt.Errorf("ntfs: read INDX record at vcn %d: %w", childVCN, err)
	}
	if len(raw) < indxRecordHeaderSize {
		return nil, errMalformed("INDX record", fmt.Errorf("truncated record at vcn %d", childVCN))
	}
	if sig := string(raw[0:4]); sig != "INDX" {
		return nil, errSignature("INDX record signature", fmt.Errorf("got %q at vcn %d", sig, childVCN))
	}

	fixupOffset := binary.LittleEndian.Uint16(raw[0x04:0x06])
	fixupCount := binary.LittleEndian.Uint16(raw[0x06:0x08])
	if err := applyFixUp(raw, fixupOffset, fixupCount, int(sectorSize)); err != nil {
		return nil, err
	}

	rec := &IndexAllocationRecord{
		LSN: binary.LittleEndian.Uint64(raw[0x08:0x10]),
		VCN: binary.LittleEndian.Uint64(raw[0x10:0x18]),
	}

	nodeBase := indxRecordHeaderSize
	if nodeBase+0x10 > len(raw) {
		return rec, errMalformed("INDX node header", fmt.Errorf("truncated at vcn %d", childVCN))
	}
	nodeOffset := binary.LittleEndian.Uint32(raw[nodeBase+0x00 : nodeBase+0x04])
	nodeTotalSize := binary.LittleEndian.Uint32(raw[nodeBase+0x04 : nodeBase+0x08])

	entriesStart := nodeBase + int(nodeOffset)
	entriesEnd := nodeBase + int(nodeTotalSize)
	if entriesEnd > len(raw) {
		entriesEnd = len(raw)
	}
	if entriesStart > entriesEnd || entriesStart < 0 {
		return rec, errMalformed("INDX entries", fmt.Errorf("bad offset/size at vcn %d", childVCN))
	}

	entries, err := parseIndexEntries(raw, entriesStart, entriesEnd, indexedAttrType)
	if err != nil {
		return rec, err
	}
	rec.Entries = entries
	return rec, nil
}

// ChildVCNs returns every child_vcn advertised by this record's entries.
func (r *IndexAllocationRecord) ChildVCNs() []uint64 {
	var out []uint64
	for _, e := range r.Entries {
		if e.ChildVCN != nil {
			out = append(out, *e.ChildVCN)
		}
	}
	return out
}
