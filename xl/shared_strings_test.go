package xl

import (
	"encoding/xml"
	"os"
	"testing"

	srw "github.com/adnsv/srw/xml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type xSST struct {
	Count       int `xml:"count,attr"`
	UniqueCount int `xml:"uniqueCount,attr"`
	SI          []struct {
		T string `xml:"t"`
	} `xml:"si"`
}

func TestSharedStrings(t *testing.T) {
	scratch := NewDirStorage(t.TempDir())
	pkg := NewDirStorage(t.TempDir())

	ss, err := NewSharedStrings(scratch, pkg, srw.WriterConfig{Indent: srw.Indent2Spaces})
	require.NoError(t, err)

	for i, test := range []struct {
		text string
		idx  int
	}{
		{"apple", 0},
		{"banana", 1},
		{"apple", 0},
		{"Apple", 2},
		{"a < b & c", 3},
		{"banana", 1},
		{"ctrl\x01", 4},
	} {
		idx, err := ss.WriteString(test.text)
		require.NoError(t, err, "write %d", i)
		assert.Equal(t, test.idx, idx, "write %d", i)
	}
	assert.Equal(t, 7, ss.Count())
	assert.Equal(t, 5, ss.UniqueCount())

	require.NoError(t, ss.Close())
	require.NoError(t, ss.Close())

	_, err = os.Stat(scratch.Path(sharedStringsBody))
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(pkg.Path(sharedStringsPart))
	require.NoError(t, err)

	var sst xSST
	require.NoError(t, xml.Unmarshal(data, &sst))
	assert.Equal(t, 7, sst.Count)
	assert.Equal(t, 5, sst.UniqueCount)
	require.Len(t, sst.SI, 5)
	assert.Equal(t, "apple", sst.SI[0].T)
	assert.Equal(t, "Apple", sst.SI[2].T)
	assert.Equal(t, "a < b & c", sst.SI[3].T)
	assert.Equal(t, "ctrl_x0001_", sst.SI[4].T)

	_, err = ss.WriteString("late")
	assert.True(t, ErrWriterNotOpened.Is(err))
}

func TestSharedStringsEmpty(t *testing.T) {
	scratch := NewDirStorage(t.TempDir())
	pkg := NewDirStorage(t.TempDir())

	ss, err := NewSharedStrings(scratch, pkg, srw.WriterConfig{})
	require.NoError(t, err)
	require.NoError(t, ss.Close())

	data, err := os.ReadFile(pkg.Path(sharedStringsPart))
	require.NoError(t, err)

	var sst xSST
	require.NoError(t, xml.Unmarshal(data, &sst))
	assert.Equal(t, 0, sst.Count)
	assert.Empty(t, sst.SI)
}

func TestSharedStringsDiscard(t *testing.T) {
	scratch := NewDirStorage(t.TempDir())
	pkg := NewDirStorage(t.TempDir())

	ss, err := NewSharedStrings(scratch, pkg, srw.WriterConfig{})
	require.NoError(t, err)
	_, err = ss.WriteString("x")
	require.NoError(t, err)

	ss.discard()

	_, err = os.Stat(scratch.Path(sharedStringsBody))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(pkg.Path(sharedStringsPart))
	assert.True(t, os.IsNotExist(err))
}
