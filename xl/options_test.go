package xl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const optionsYAML = `
use_inline_strings: true
temp_folder: /var/tmp/xlsx
create_new_sheets_automatically: true
app_name: Reports
compact_output: true
strict_comment_authors: true
max_rows_per_sheet: 5000
default_row_style:
  font_name: Calibri
  font_size: 10
  bold: true
  background_color: "#EEEEEE"
  horizontal_align: center
  border:
    bottom:
      style: thin
      color: "000000"
`

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions([]byte(optionsYAML))
	require.NoError(t, err)

	assert.True(t, opts.UseInlineStrings)
	assert.Equal(t, "/var/tmp/xlsx", opts.TempFolder)
	assert.True(t, opts.ShouldCreateNewSheetsAutomatically)
	assert.Equal(t, "Reports", opts.appName())
	assert.True(t, opts.CompactOutput)
	assert.True(t, opts.StrictCommentAuthors)
	assert.Equal(t, 5000, opts.maxRows())

	s := opts.DefaultRowStyle
	require.NotNil(t, s)
	assert.Equal(t, "Calibri", deref(s.FontName))
	assert.Equal(t, 10.0, deref(s.FontSize))
	assert.True(t, deref(s.Bold))
	assert.Nil(t, s.Italic)
	assert.Equal(t, AlignCenter, deref(s.HorizontalAlign))
	require.NotNil(t, s.Border)
	assert.Equal(t, BorderThin, s.Border.Bottom.Style)
	assert.Equal(t, BorderNone, s.Border.Top.Style)
}

func TestOptionsDefaults(t *testing.T) {
	opts, err := ParseOptions([]byte("use_inline_strings: false\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAppName, opts.AppName)
	assert.Equal(t, MaxRowsPerSheet, opts.maxRows())
	assert.Equal(t, logrus.StandardLogger(), opts.logger())

	var zero Options
	assert.Equal(t, DefaultAppName, zero.appName())
	zero.MaxRowsPerSheet = MaxRowsPerSheet + 1
	assert.Equal(t, MaxRowsPerSheet, zero.maxRows())

	_, err = ParseOptions([]byte("max_rows_per_sheet: [1"))
	assert.Error(t, err)
}

func TestLoadOptions(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "xlsx.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(optionsYAML), 0666))

	opts, err := LoadOptions(fn)
	require.NoError(t, err)
	assert.Equal(t, "Reports", opts.AppName)

	_, err = LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, IsIOError(err))
}
