package ntfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeEntry builds a minimal in-use MFTEntry carrying the given
// attributes, bypassing raw byte decoding so facade-level behavior (Find,
// FindByName, VolumeName, Version) can be exercised directly.
func fakeEntry(inode uint64, attrs ...TypedAttr) *MFTEntry {
	return &MFTEntry{
		Inode: inode,
		Flags: 0x01,
		Attrs: attrs,
	}
}

func fileNameAttr(parent uint64, name string, namespace Namespace) TypedAttr {
	fn := &FileNameAttr{
		ParentRef: FileRef{Inode: parent},
		FileName:  name,
		Namespace: namespace,
	}
	return TypedAttr{Header: &AttrHeader{TypeID: AttrFileName}, FileName: fn}
}

func volumeNameAttr(name string) TypedAttr {
	return TypedAttr{Header: &AttrHeader{TypeID: AttrVolumeName}, VolumeName: &VolumeNameAttr{Name: name}}
}

func volumeInfoAttr(major, minor uint8) TypedAttr {
	return TypedAttr{
		Header:     &AttrHeader{TypeID: AttrVolumeInformation},
		VolumeInfo: &VolumeInformationAttr{MajorVersion: major, MinorVersion: minor},
	}
}

func newFakeNTFS(entries map[uint64]*MFTEntry) *NTFS {
	mft := &MFT{cache: entries}
	return &NTFS{boot: &BootSector{BytesPerSector: 512, SectorsPerCluster: 8, ClusterSize: 4096}, mft: mft}
}

func TestNTFSFindAndRoot(t *testing.T) {
	root := fakeEntry(rootInode)
	n := newFakeNTFS(map[uint64]*MFTEntry{rootInode: root})

	got, err := n.Find(rootInode)
	require.NoError(t, err)
	require.Equal(t, rootInode, got.Inode())

	r, err := n.Root()
	require.NoError(t, err)
	require.Equal(t, rootInode, r.Inode())
}

func TestNTFSFindByName(t *testing.T) {
	readme := fakeEntry(42, fileNameAttr(rootInode, "README.TXT", NamespaceWin32))
	n := newFakeNTFS(map[uint64]*MFTEntry{42: readme})

	// FindByName delegates straight to MFT.FindByName, which linear-scans
	// the cache up to RecordCount(); with RecordCount()==0 (no MFT $DATA
	// bootstrapped in this fixture) it never iterates. Inodes at or past
	// RecordCount() are never scanned, even when cached.
	got, err := n.mft.FindByName("README.TXT")
	require.NoError(t, err)
	require.Nil(t, got) // RecordCount()==0 short-circuits the scan

	n.mft.recordSize = 1024
	n.mft.totalBytes = 1024 // RecordCount()==1, so inode 0 is scanned, not 42
	got, err = n.mft.FindByName("README.TXT")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestFileNameSelectionPolicy(t *testing.T) {
	// Win32 name wins over a same-entry DOS-only alias.
	e := fakeEntry(5,
		fileNameAttr(5, "LONGFILENAME.TXT~1", NamespaceDOS),
		fileNameAttr(5, "LongFileName.txt", NamespaceWin32),
	)
	f := newFile(newFakeNTFS(nil), e)
	require.Equal(t, "LongFileName.txt", f.Name())
}

func TestFileNameSelectionPolicyDOSOnly(t *testing.T) {
	e := fakeEntry(6, fileNameAttr(5, "DOSNAME.TXT", NamespaceDOS))
	f := newFile(newFakeNTFS(nil), e)
	require.Equal(t, "DOSNAME.TXT", f.Name())
}

func TestFileNameSelectionPolicyNoNames(t *testing.T) {
	e := fakeEntry(5)
	f := newFile(newFakeNTFS(nil), e)
	require.Equal(t, "", f.Name())
}

func TestVolumeNameAndVersion(t *testing.T) {
	vol := fakeEntry(volumeInode, volumeNameAttr("MY VOLUME"), volumeInfoAttr(3, 1))
	n := newFakeNTFS(map[uint64]*MFTEntry{volumeInode: vol})

	require.Equal(t, "MY VOLUME", n.VolumeName())

	major, minor, ok := n.Version()
	require.True(t, ok)
	require.EqualValues(t, 3, major)
	require.EqualValues(t, 1, minor)
}

func TestVolumeNameMissing(t *testing.T) {
	n := newFakeNTFS(map[uint64]*MFTEntry{})
	require.Equal(t, "", n.VolumeName())

	_, _, ok := n.Version()
	require.False(t, ok)
}

func TestParseBootSectorRejectsBadSignature(t *testing.T) {
	buf := make([]byte, bootSectorSize)
	copy(buf[3:11], "FAT32   ")
	buf[0x1FE] = 0x55
	buf[0x1FF] = 0xAA

	_, err := ParseBootSector(buf)
	require.Error(t, err)
}

func TestParseBootSectorRejectsShortBuffer(t *testing.T) {
	_, err := ParseBootSector(make([]byte, 10))
	require.Error(t, err)
}

func TestParentAtRootIsNil(t *testing.T) {
	root := fakeEntry(rootInode)
	n := newFakeNTFS(map[uint64]*MFTEntry{rootInode: root})
	f := newFile(n, root)

	parent, err := f.Parent()
	require.NoError(t, err)
	require.Nil(t, parent)

	path, err := f.FullPath()
	require.NoError(t, err)
	require.Equal(t, "/", path)
}
