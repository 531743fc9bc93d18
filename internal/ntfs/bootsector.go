package ntfs

import (
	"encoding/binary"
	"fmt"
)

// ntfsSignature is the "NTFS    " OEM ID at bytes 3..11, the recogniser
// used by filesystem dispatch.
var ntfsSignature = [8]byte{'N', 'T', 'F', 'S', ' ', ' ', ' ', ' '}

const bootSectorSize = 512

// BootSector is the fixed-layout NTFS boot sector, decoded at the
// documented offsets.
type BootSector struct {
	BytesPerSector     uint16
	SectorsPerCluster  uint8
	TotalSectors       uint64
	MFTCluster         uint64
	MFTMirrCluster     uint64
	RawRecordSize      int8 // clusters_per_file_record_segment, signed raw field
	RawIndexSize       int8 // clusters_per_index_buffer, signed raw field
	VolumeSerial       uint64

	ClusterSize uint64
}

// ParseBootSector decodes a 512-byte boot sector buffer.
func ParseBootSector(data []byte) (*BootSector, error) {
	if len(data) != bootSectorSize {
		return nil, fmt.Errorf("ntfs: boot sector must be %d bytes, got %d", bootSectorSize, len(data))
	}

	var oem [8]byte
	copy(oem[:], data[3:11])
	if oem != ntfsSignature {
		return nil, errSignature("boot sector OEM ID", fmt.Errorf("got %q", oem))
	}

	bs := &BootSector{
		BytesPerSector:    binary.LittleEndian.Uint16(data[0x0B:0x0D]),
		SectorsPerCluster: data[0x0D],
		TotalSectors:      binary.LittleEndian.Uint64(data[0x28:0x30]),
		MFTCluster:        binary.LittleEndian.Uint64(data[0x30:0x38]),
		MFTMirrCluster:    binary.LittleEndian.Uint64(data[0x38:0x40]),
		RawRecordSize:     int8(data[0x40]),
		RawIndexSize:      int8(data[0x44]),
		VolumeSerial:      binary.LittleEndian.Uint64(data[0x48:0x50]),
	}
	bs.ClusterSize = uint64(bs.BytesPerSector) * uint64(bs.SectorsPerCluster)

	if end := binary.LittleEndian.Uint16(data[0x1FE:0x200]); end != 0xAA55 {
		return nil, errSignature("boot sector end marker", fmt.Errorf("got 0x%04X", end))
	}
	return bs, nil
}

// decodeSize converts a signed "clusters or byte-size exponent" boot
// sector field into a byte size: a non-negative value is a cluster count
// (value * clusterSize); a negative value v encodes a byte size of
// 2^(-v), independent of cluster size.
func decodeSize(raw int8, clusterSize uint64) uint64 {
	if raw >= 0 {
		return uint64(raw) * clusterSize
	}
	return uint64(1) << uint(-raw)
}

// FileRecordSegmentSize returns the size in bytes of one MFT file-record
// segment ("FILE" record).
func (b *BootSector) FileRecordSegmentSize() uint64 {
	return decodeSize(b.RawRecordSize, b.ClusterSize)
}

// IndexRecordSize returns the size in bytes of one $INDEX_ALLOCATION INDX
// record (BytesPerIndexRecord).
func (b *BootSector) IndexRecordSize() uint64 {
	return decodeSize(b.RawIndexSize, b.ClusterSize)
}

// ClustersPerFileRecordSegment returns FileRecordSegmentSize expressed in
// whole clusters, as derived from a negative (byte-size) raw field.
func (b *BootSector) ClustersPerFileRecordSegment() uint64 {
	size := b.FileRecordSegmentSize()
	if b.ClusterSize == 0 {
		return 0
	}
	if size < b.ClusterSize {
		return 1
	}
	return size / b.ClusterSize
}

// ClustersPerIndexBuffer returns IndexRecordSize expressed in whole
// clusters.
func (b *BootSector) ClustersPerIndexBuffer() uint64 {
	size := b.IndexRecordSize()
	if b.ClusterSize == 0 {
		return 0
	}
	if size < b.ClusterSize {
		return 1
	}
	return size / b.ClusterSize
}
