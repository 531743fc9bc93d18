package ntfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func dataAttrResident(data []byte) TypedAttr {
	return TypedAttr{
		Header: &AttrHeader{TypeID: AttrData},
		Data:   &DataAttr{Header: &AttrHeader{TypeID: AttrData}, Resident: true, Inline: data},
	}
}

func indexEntry(inode uint64, name string, last bool) IndexEntry {
	var flags uint32
	if last {
		flags = indexEntryFlagLast
	}
	return IndexEntry{
		FileRef:  FileRef{Inode: inode},
		Flags:    flags,
		FileName: &FileNameAttr{FileName: name},
	}
}

func TestFileReadResidentData(t *testing.T) {
	e := fakeEntry(42, dataAttrResident([]byte("hello world")))
	f := newFile(newFakeNTFS(nil), e)

	require.EqualValues(t, 11, f.Size())
	data, err := f.Data()
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))

	partial, err := f.Read(5, 6, 1)
	require.NoError(t, err)
	require.Equal(t, "world", string(partial))
}

func TestFileReadResidentPastEnd(t *testing.T) {
	e := fakeEntry(42, dataAttrResident([]byte("short")))
	f := newFile(newFakeNTFS(nil), e)

	out, err := f.Read(10, 100, 1)
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestFileSlackSpaceNoneForResident(t *testing.T) {
	// Resident streams have no allocated/actual size distinction that
	// could produce slack: AllocatedSize() == Size() == len(Inline).
	e := fakeEntry(42, dataAttrResident([]byte("abc")))
	f := newFile(newFakeNTFS(nil), e)

	slack, err := f.SlackSpace()
	require.NoError(t, err)
	require.Nil(t, slack)
}

func TestFileIsDirAndIsFile(t *testing.T) {
	dir := &File{ntfs: newFakeNTFS(nil), entry: &MFTEntry{Inode: rootInode, Flags: 0x01 | 0x02}}
	require.True(t, dir.IsDir())
	require.False(t, dir.IsFile())

	file := &File{ntfs: newFakeNTFS(nil), entry: &MFTEntry{Inode: 42, Flags: 0x01}}
	require.False(t, file.IsDir())
	require.True(t, file.IsFile())
}

func TestFileListNonDirectoryReturnsNil(t *testing.T) {
	e := fakeEntry(42, dataAttrResident([]byte("x")))
	f := newFile(newFakeNTFS(nil), e)

	children, err := f.List(ListOptions{})
	require.NoError(t, err)
	require.Nil(t, children)
}

func TestFileListWalksIndexRoot(t *testing.T) {
	child1 := fakeEntry(6, fileNameAttr(5, "a.txt", NamespaceWin32))
	child2 := fakeEntry(7, fileNameAttr(5, "b.txt", NamespaceWin32))

	root := &MFTEntry{
		Inode: rootInode,
		Flags: 0x01 | 0x02,
		Attrs: []TypedAttr{
			{
				Header: &AttrHeader{TypeID: AttrIndexRoot, Name: "$I30"},
				IndexRoot: &IndexRootAttr{
					IndexedAttrType: uint32(AttrFileName),
					Entries: []IndexEntry{
						indexEntry(6, "a.txt", false),
						indexEntry(7, "b.txt", false),
						{Flags: indexEntryFlagLast},
					},
				},
			},
		},
	}

	n := newFakeNTFS(map[uint64]*MFTEntry{rootInode: root, 6: child1, 7: child2})
	rf := newFile(n, root)

	children, err := rf.List(ListOptions{})
	require.NoError(t, err)
	require.Len(t, children, 2)
	require.ElementsMatch(t, []string{"a.txt", "b.txt"}, []string{children[0].Name(), children[1].Name()})
}

func TestFileListGlobPattern(t *testing.T) {
	child1 := fakeEntry(6, fileNameAttr(5, "a.txt", NamespaceWin32))
	child2 := fakeEntry(7, fileNameAttr(5, "b.log", NamespaceWin32))

	root := &MFTEntry{
		Inode: rootInode,
		Flags: 0x01 | 0x02,
		Attrs: []TypedAttr{
			{
				Header: &AttrHeader{TypeID: AttrIndexRoot, Name: "$I30"},
				IndexRoot: &IndexRootAttr{
					IndexedAttrType: uint32(AttrFileName),
					Entries: []IndexEntry{
						indexEntry(6, "a.txt", false),
						indexEntry(7, "b.log", false),
						{Flags: indexEntryFlagLast},
					},
				},
			},
		},
	}

	n := newFakeNTFS(map[uint64]*MFTEntry{rootInode: root, 6: child1, 7: child2})
	rf := newFile(n, root)

	children, err := rf.List(ListOptions{Pattern: "*.txt"})
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, "a.txt", children[0].Name())
}

func TestFileMimeType(t *testing.T) {
	e := fakeEntry(6, fileNameAttr(5, "notes.txt", NamespaceWin32))
	f := newFile(newFakeNTFS(nil), e)
	require.Equal(t, "text/plain", f.MimeType())
}

func TestFileStringSummary(t *testing.T) {
	e := fakeEntry(6, fileNameAttr(5, "notes.txt", NamespaceWin32), dataAttrResident([]byte("hi")))
	f := newFile(newFakeNTFS(nil), e)
	require.Contains(t, f.String(), "notes.txt")
	require.Contains(t, f.String(), "inode=6")
}
