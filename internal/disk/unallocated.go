package disk

import (
	"fmt"
	"sort"
)

// UnallocatedSpace is a filler gap between two partitions (or between an
// MBR's reserved sector and its first partition, or after the last
// partition), per §4.4.
type UnallocatedSpace struct {
	Parent *MBR
	Index  int

	FirstSector uint64
	LastSector  uint64
}

// SizeBytes is the gap's extent in bytes, assuming 512-byte sectors.
func (u *UnallocatedSpace) SizeBytes() uint64 {
	if u.LastSector < u.FirstSector {
		return 0
	}
	return (u.LastSector - u.FirstSector + 1) * mbrSectorSize
}

func (u *UnallocatedSpace) String() string {
	return fmt.Sprintf("unallocated index=%d sectors=[%d..%d]", u.Index, u.FirstSector, u.LastSector)
}

// computeUnallocated sorts m's real partitions by first_sector and
// inserts the gaps described by §4.4: the run from the sector right
// after this MBR's own reserved sector to the first partition, each
// inter-partition gap, and (when m is an EBR, i.e. its extent is known
// from its containing partition) the run from the last partition to the
// end of the EBR's own extent.
func computeUnallocated(m *MBR) []*UnallocatedSpace {
	if len(m.Partitions) == 0 {
		return nil
	}

	sorted := make([]*Partition, len(m.Partitions))
	copy(sorted, m.Partitions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FirstSector() < sorted[j].FirstSector() })

	var gaps []*UnallocatedSpace
	addGap := func(first, last uint64) {
		if last < first {
			return
		}
		gaps = append(gaps, &UnallocatedSpace{Parent: m, FirstSector: first, LastSector: last})
	}

	addGap(m.SectorOffset+1, sorted[0].FirstSector()-1)
	for i := 1; i < len(sorted); i++ {
		addGap(sorted[i-1].LastSector()+1, sorted[i].FirstSector()-1)
	}

	if end := m.lastSector(); end > 0 {
		addGap(sorted[len(sorted)-1].LastSector()+1, end)
	}

	return gaps
}
