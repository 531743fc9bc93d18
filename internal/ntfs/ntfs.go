package ntfs

import (
	"fmt"

	"github.com/scafiti/gofff/internal/bytewindow"
)

// rootInode is the well-known MFT record number of the root directory.
const rootInode = 5

// volumeInode is the well-known MFT record number of $Volume, carrying
// $VOLUME_NAME/$VOLUME_INFORMATION (SPEC_FULL.md §5).
const volumeInode = 3

// NTFS is the facade gluing BootSector, MFT, and root-inode lookup into a
// single filesystem object.
type NTFS struct {
	window *bytewindow.ByteWindow
	boot   *BootSector
	mft    *MFT
}

// Open decodes the boot sector at the start of window, builds the MFT, and
// resolves the root directory.
func Open(window *bytewindow.ByteWindow) (*NTFS, error) {
	raw, err := window.ReadAt(bootSectorSize, 0)
	if err != nil {
		return nil, fmt.Errorf("ntfs: read boot sector: %w", err)
	}
	boot, err := ParseBootSector(raw)
	if err != nil {
		return nil, err
	}

	n := &NTFS{window: window.WithSectors(uint64(boot.BytesPerSector)).WithClusters(boot.ClusterSize), boot: boot}

	mftRecordRaw, err := n.ReadAt(boot.MFTCluster*boot.ClusterSize, boot.FileRecordSegmentSize())
	if err != nil {
		return nil, fmt.Errorf("ntfs: read MFT entry 0: %w", err)
	}
	// ParseMFTEntry applies the fix-up in place, so parse a copy and keep
	// mftRecordRaw untouched for the second parse below.
	entry0, err := ParseMFTEntry(0, append([]byte(nil), mftRecordRaw...), int(boot.BytesPerSector), nil)
	if err != nil {
		return nil, fmt.Errorf("ntfs: parse MFT entry 0: %w", err)
	}

	mft, err := newMFT(n, entry0, boot)
	if err != nil {
		return nil, err
	}
	n.mft = mft

	// Entry 0 was parsed without a resolver (the MFT didn't exist yet);
	// re-parse now so its own $ATTRIBUTE_LIST (if any) resolves correctly
	// and cache it.
	entry0, err = ParseMFTEntry(0, mftRecordRaw, int(boot.BytesPerSector), mft)
	if err == nil {
		mft.cache[0] = entry0
	}

	if _, err := n.Root(); err != nil {
		return nil, fmt.Errorf("ntfs: resolve root directory: %w", err)
	}

	return n, nil
}

// BootSector returns the decoded boot sector.
func (n *NTFS) BootSector() *BootSector { return n.boot }

// ReadAt implements ClusterReader: a raw, clipped read against the
// volume's window, used by File to stitch data runs.
func (n *NTFS) ReadAt(offset, size uint64) ([]byte, error) {
	if offset >= n.window.Size() {
		return nil, nil
	}
	if size > n.window.Size()-offset {
		size = n.window.Size() - offset
	}
	return n.window.ReadAt(size, offset)
}

// ClusterSize implements ClusterReader.
func (n *NTFS) ClusterSize() uint64 { return n.boot.ClusterSize }

// ClusterReader exposes this NTFS instance as the ClusterReader capability
// attribute decoding and file reads need.
func (n *NTFS) ClusterReader() ClusterReader { return n }

// Sectors exposes the volume as a sector-sized DataUnits sequence.
func (n *NTFS) Sectors() *bytewindow.DataUnits { return n.window.Sectors() }

// Clusters exposes the volume as a cluster-sized DataUnits sequence.
func (n *NTFS) Clusters() *bytewindow.DataUnits { return n.window.Clusters() }

// Root returns the root directory (inode 5) wrapped in a File.
func (n *NTFS) Root() (*File, error) { return n.Find(rootInode) }

// Find resolves an inode to a File via the MFT.
func (n *NTFS) Find(inode uint64) (*File, error) {
	entry, err := n.mft.Find(inode)
	if err != nil {
		return nil, err
	}
	return newFile(n, entry), nil
}

// FindByName linearly scans the MFT for the first entry carrying a
// $FILE_NAME attribute matching name exactly.
func (n *NTFS) FindByName(name string) (*File, error) {
	entry, err := n.mft.FindByName(name)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return newFile(n, entry), nil
}

// volumeAttrs returns $Volume's attribute set, used by VolumeName/Version.
func (n *NTFS) volumeAttrs() []TypedAttr {
	entry, err := n.mft.Find(volumeInode)
	if err != nil {
		return nil
	}
	return entry.Attrs
}

// VolumeName returns the volume label from $Volume's $VOLUME_NAME
// attribute, or "" if absent (SPEC_FULL.md §5).
func (n *NTFS) VolumeName() string {
	for _, a := range n.volumeAttrs() {
		if a.VolumeName != nil {
			return a.VolumeName.Name
		}
	}
	return ""
}

// Version returns the NTFS major/minor version from $Volume's
// $VOLUME_INFORMATION attribute (SPEC_FULL.md §5).
func (n *NTFS) Version() (major, minor uint8, ok bool) {
	for _, a := range n.volumeAttrs() {
		if a.VolumeInfo != nil {
			return a.VolumeInfo.MajorVersion, a.VolumeInfo.MinorVersion, true
		}
	}
	return 0, 0, false
}
