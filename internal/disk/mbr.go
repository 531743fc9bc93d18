// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package disk implements the DOS/MBR partition-table walker: recursive
// EBR discovery and unallocated-gap computation, plus the FAT boot-sector
// stub. Filesystem detection on each partition lives in internal/fsdispatch.
package disk

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/scafiti/gofff/internal/bytewindow"
)

const (
	mbrSize             = 512
	mbrSignatureOffset  = 0x1FE
	mbrPartitionTable   = 0x1BE
	mbrPartitionEntries = 4
	mbrSectorSize       = 512
)

// MBRPartitionType is a DOS partition-table type_id byte.
type MBRPartitionType uint8

const (
	PartitionTypeEmpty               MBRPartitionType = 0x00
	PartitionTypeFAT12               MBRPartitionType = 0x01
	PartitionTypeFAT16LessThan32MB   MBRPartitionType = 0x04
	PartitionTypeExtendedCHS         MBRPartitionType = 0x05
	PartitionTypeFAT16GreaterThan32MB MBRPartitionType = 0x06
	PartitionTypeNTFSHPFSexFATQNX    MBRPartitionType = 0x07
	PartitionTypeFAT32CHS            MBRPartitionType = 0x0B
	PartitionTypeFAT32LBA            MBRPartitionType = 0x0C
	PartitionTypeFAT16LBA            MBRPartitionType = 0x0E
	PartitionTypeExtendedLBA         MBRPartitionType = 0x0F
	PartitionTypeLinuxSwap           MBRPartitionType = 0x82
	PartitionTypeLinuxFilesystem     MBRPartitionType = 0x83
	PartitionTypeGPTProtectiveMBR    MBRPartitionType = 0xEE
	PartitionTypeEFISystemPartition  MBRPartitionType = 0xEF
)

// IsExtended reports whether this type_id carries a recursively parsed
// child MBR (EBR), per §4.4.
func (t MBRPartitionType) IsExtended() bool {
	return t == PartitionTypeExtendedCHS || t == PartitionTypeExtendedLBA
}

func (t MBRPartitionType) String() string {
	switch t {
	case PartitionTypeEmpty:
		return "Empty"
	case PartitionTypeFAT12:
		return "FAT12"
	case PartitionTypeFAT16LessThan32MB:
		return "FAT16 (<32MB)"
	case PartitionTypeExtendedCHS:
		return "Extended (CHS)"
	case PartitionTypeFAT16GreaterThan32MB:
		return "FAT16 (>32MB)"
	case PartitionTypeNTFSHPFSexFATQNX:
		return "NTFS/HPFS/exFAT/QNX"
	case PartitionTypeFAT32CHS:
		return "FAT32 (CHS)"
	case PartitionTypeFAT32LBA:
		return "FAT32 (LBA)"
	case PartitionTypeFAT16LBA:
		return "FAT16 (LBA)"
	case PartitionTypeExtendedLBA:
		return "Extended (LBA)"
	case PartitionTypeLinuxSwap:
		return "Linux swap"
	case PartitionTypeLinuxFilesystem:
		return "Linux filesystem"
	case PartitionTypeGPTProtectiveMBR:
		return "GPT Protective MBR"
	case PartitionTypeEFISystemPartition:
		return "EFI System Partition"
	default:
		return fmt.Sprintf("Unknown (0x%02X)", uint8(t))
	}
}

// MBR is a single 512-byte Master Boot Record (or, recursively, an
// Extended Boot Record). number is 0 for the top-level MBR and a
// distinct increasing value for every EBR; index is the stable 1-based
// traversal index assigned by AssignIndices.
type MBR struct {
	window       *bytewindow.ByteWindow
	SectorOffset uint64
	Number       int
	Index        int
	Parent       *MBR

	DiskSignature uint32

	Partitions  []*Partition
	Unallocated []*UnallocatedSpace
	Unused      []*UnusedSlot
}

// UnusedSlot records a partition-table entry whose partition_type == 0.
type UnusedSlot struct {
	Parent *MBR
	Slot   int // 0..3
	Index  int
}

// ParseMBR reads and validates the 512-byte sector at sectorOffset
// within window, recursively descending into every extended partition's
// EBR. counter supplies the next available EBR number across the whole
// recursion (0 is reserved for the top-level MBR).
func ParseMBR(window *bytewindow.ByteWindow, sectorOffset uint64, number int, parent *MBR, counter *int) (*MBR, error) {
	data, err := window.ReadAt(mbrSize, sectorOffset*mbrSectorSize)
	if err != nil {
		return nil, fmt.Errorf("disk: read MBR at sector %d: %w", sectorOffset, err)
	}

	sig := binary.LittleEndian.Uint16(data[mbrSignatureOffset : mbrSignatureOffset+2])
	if sig != 0xAA55 {
		return nil, fmt.Errorf("disk: invalid MBR signature at sector %d: expected 0xAA55, got 0x%04X", sectorOffset, sig)
	}

	m := &MBR{
		window:        window,
		SectorOffset:  sectorOffset,
		Number:        number,
		Parent:        parent,
		DiskSignature: binary.LittleEndian.Uint32(data[0x1B8:0x1BC]),
	}

	for i := 0; i < mbrPartitionEntries; i++ {
		entryOff := mbrPartitionTable + i*16
		entry := data[entryOff : entryOff+16]
		ptype := MBRPartitionType(entry[0x04])

		if ptype == PartitionTypeEmpty {
			m.Unused = append(m.Unused, &UnusedSlot{Parent: m, Slot: i})
			continue
		}

		p := &Partition{
			Parent:        m,
			Number:        i,
			BootIndicator: entry[0x00],
			StartCHS:      parseCHS(entry[0x01:0x04]),
			PartitionType: ptype,
			EndCHS:        parseCHS(entry[0x05:0x08]),
			RelativeLBA:   binary.LittleEndian.Uint32(entry[0x08:0x0C]),
			SectorCount:   binary.LittleEndian.Uint32(entry[0x0C:0x10]),
		}

		if ptype.IsExtended() {
			*counter++
			ebr, err := ParseMBR(window, p.FirstSector(), *counter, m, counter)
			if err != nil {
				return nil, fmt.Errorf("disk: parse EBR for partition %d: %w", i, err)
			}
			p.EBR = ebr
		}

		m.Partitions = append(m.Partitions, p)
		if p.EBR != nil {
			// The EBR's extent is only known once p is linked into m.
			p.EBR.Unallocated = computeUnallocated(p.EBR)
		}
	}

	m.Unallocated = computeUnallocated(m)
	return m, nil
}

// CHS is a decoded Cylinder-Head-Sector address.
type CHS struct {
	Head     uint8
	Sector   uint8
	Cylinder uint16
}

func parseCHS(b []byte) CHS {
	return CHS{
		Head:     b[0],
		Sector:   b[1] & 0x3F,
		Cylinder: (uint16(b[1]&0xC0) << 2) | uint16(b[2]),
	}
}

// lastSector returns the final sector of the extended partition that
// contains this EBR, or 0 when that is not known (always for the top-level
// MBR). Used as the upper bound for the final unallocated filler, so the
// top-level MBR gets no filler after its last partition.
func (m *MBR) lastSector() uint64 {
	if m.Parent == nil {
		return 0 // the disk's sector count is not known here
	}
	for _, p := range m.Parent.Partitions {
		if p.EBR == m {
			return p.LastSector()
		}
	}
	return 0
}

// String renders a short human summary, in the teacher's convention.
func (m *MBR) String() string {
	kind := "MBR"
	if m.Parent != nil {
		kind = "EBR"
	}
	return fmt.Sprintf("%s #%d (sector %d): %d partition(s), %d unallocated gap(s), %d unused slot(s)",
		kind, m.Number, m.SectorOffset, len(m.Partitions), len(m.Unallocated), len(m.Unused))
}

// AssignIndices performs the stable 1-based in-order traversal required
// by §4.4: this MBR, then its partitions and unallocated gaps sorted by
// first_sector (descending into each partition's EBR as it's reached),
// then its unused slots.
func AssignIndices(root *MBR) {
	next := 1
	assignIndices(root, &next)
}

func assignIndices(m *MBR, next *int) {
	m.Index = *next
	*next++

	type entity struct {
		first uint64
		part  *Partition
		gap   *UnallocatedSpace
	}
	var entities []entity
	for _, p := range m.Partitions {
		entities = append(entities, entity{first: p.FirstSector(), part: p})
	}
	for _, u := range m.Unallocated {
		entities = append(entities, entity{first: u.FirstSector, gap: u})
	}
	sort.SliceStable(entities, func(i, j int) bool { return entities[i].first < entities[j].first })

	for _, e := range entities {
		if e.part != nil {
			e.part.Index = *next
			*next++
			if e.part.EBR != nil {
				assignIndices(e.part.EBR, next)
			}
		} else {
			e.gap.Index = *next
			*next++
		}
	}

	for _, u := range m.Unused {
		u.Index = *next
		*next++
	}
}
