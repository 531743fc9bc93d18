package ntfs

import (
	"fmt"
	"sync"
)

// MFT is the indexed cache of MFTEntry objects, lazily materialised from
// its own $DATA stream (MFT entry #0 describes the MFT itself). Per §5's
// resource model, the cache is per-NTFS-instance, insert-once, and never
// evicted.
type MFT struct {
	cr          ClusterReader
	runs        VCN
	recordSize  uint64
	clusterSize uint64
	sectorSize  int
	totalBytes  uint64

	mu    sync.Mutex
	cache map[uint64]*MFTEntry
}

// newMFT bootstraps the MFT from a pre-parsed entry #0. entry0 must already
// carry its $DATA attribute's VCN (the MFT's own storage); it is parsed
// without a resolver since the MFT does not exist yet at that point.
func newMFT(cr ClusterReader, entry0 *MFTEntry, bs *BootSector) (*MFT, error) {
	var dataVCN VCN
	var totalBytes uint64
	found := false
	for _, a := range entry0.Attrs {
		if a.Type() == AttrData && a.Name() == "" && a.Data != nil && !a.Data.Resident {
			dataVCN = a.Data.Header.VCN
			totalBytes = a.Data.Header.ActualSize
			found = true
			break
		}
	}
	if !found {
		return nil, errMalformed("MFT $DATA", fmt.Errorf("MFT entry 0 has no non-resident unnamed $DATA"))
	}

	return &MFT{
		cr:          cr,
		runs:        dataVCN,
		recordSize:  bs.FileRecordSegmentSize(),
		clusterSize: bs.ClusterSize,
		sectorSize:  int(bs.BytesPerSector),
		totalBytes:  totalBytes,
		cache:       make(map[uint64]*MFTEntry),
	}, nil
}

// ClusterReader implements EntryResolver.
func (m *MFT) ClusterReader() ClusterReader { return m.cr }

// FindEntry implements EntryResolver.
func (m *MFT) FindEntry(inode uint64) (*MFTEntry, error) { return m.Find(inode) }

// RecordCount returns the number of file-record segments the MFT's own
// $DATA stream covers.
func (m *MFT) RecordCount() uint64 {
	if m.recordSize == 0 {
		return 0
	}
	return m.totalBytes / m.recordSize
}

// Find looks up an MFTEntry by inode, returning the cached value if
// already materialised.
func (m *MFT) Find(inode uint64) (*MFTEntry, error) {
	m.mu.Lock()
	if e, ok := m.cache[inode]; ok {
		m.mu.Unlock()
		return e, nil
	}
	m.mu.Unlock()

	if inode >= m.RecordCount() {
		return nil, errInodeRange(fmt.Sprintf("inode %d past MFT extent (%d records)", inode, m.RecordCount()))
	}

	raw, err := readRuns(m.cr, m.runs, m.clusterSize, inode*m.recordSize, m.recordSize)
	if err != nil {
		return nil, fmt.Errorf("ntfs: read MFT record %d: %w", inode, err)
	}

	entry, err := ParseMFTEntry(inode, raw, m.sectorSize, m)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if cached, ok := m.cache[inode]; ok {
		m.mu.Unlock()
		return cached, nil
	}
	m.cache[inode] = entry
	m.mu.Unlock()
	return entry, nil
}

// FindByName linearly scans for the first entry carrying a $FILE_NAME
// attribute with the exact given filename, in any namespace.
func (m *MFT) FindByName(name string) (*MFTEntry, error) {
	count := m.RecordCount()
	for i := uint64(0); i < count; i++ {
		entry, err := m.Find(i)
		if err != nil {
			continue
		}
		if !entry.InUse() {
			continue
		}
		for _, a := range entry.Attrs {
			if a.FileName != nil && a.FileName.FileName == name {
				return entry, nil
			}
		}
	}
	return nil, nil
}
