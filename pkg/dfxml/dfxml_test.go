package dfxml

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteThenReadFileObjects(t *testing.T) {
	var buf bytes.Buffer
	w := NewDFXMLWriter(&buf)

	require.NoError(t, w.WriteHeader(DFXMLHeader{
		XmlOutput: XmlOutputVersion,
		Metadata:  DefaultMetadata,
		Creator:   Creator{Package: "gofff", Version: "test"},
		Source:    Source{ImageFilename: "image.dd", SectorSize: 512, ImageSize: 1024},
	}))

	objs := []FileObject{
		{Filename: "/a.txt", FileSize: 11, ByteRuns: ByteRuns{Runs: []ByteRun{{Offset: 0, ImgOffset: 4096, Length: 11}}}},
		{Filename: "/sub/b.txt", FileSize: 3, ByteRuns: ByteRuns{Runs: []ByteRun{{Offset: 0, ImgOffset: 8192, Length: 3}}}},
	}
	for _, o := range objs {
		require.NoError(t, w.WriteFileObject(o))
	}
	require.NoError(t, w.Close())

	got, err := ReadFileObjects(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "/a.txt", got[0].Filename)
	require.EqualValues(t, 11, got[0].FileSize)
	require.Equal(t, uint64(4096), got[0].ByteRuns.Runs[0].ImgOffset)
	require.Equal(t, "/sub/b.txt", got[1].Filename)
}
