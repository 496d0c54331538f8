package xl

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultAppName is written to docProps/app.xml when Options.AppName is empty.
const DefaultAppName = "go-xlstream"

// MaxRowsPerSheet is the row capacity of a worksheet.
const MaxRowsPerSheet = 1048576

// Options configure a Writer. The zero value is usable: shared strings, the
// system temp folder, Arial 11 and no automatic sheet creation.
type Options struct {
	// UseInlineStrings writes strings inside the cells instead of the
	// shared strings table.
	UseInlineStrings bool `yaml:"use_inline_strings"`

	// TempFolder holds the session working folder.
	TempFolder string `yaml:"temp_folder"`

	// DefaultRowStyle is the workbook default style (style id 0).
	DefaultRowStyle *Style `yaml:"default_row_style"`

	// ShouldCreateNewSheetsAutomatically starts a new sheet when the
	// current one is full.
	ShouldCreateNewSheetsAutomatically bool `yaml:"create_new_sheets_automatically"`

	AppName string `yaml:"app_name"`

	// CompactOutput drops the indentation of generated XML parts.
	CompactOutput bool `yaml:"compact_output"`

	// StrictCommentAuthors leaves unauthored comments out of the author
	// list instead of attributing them to a placeholder author.
	StrictCommentAuthors bool `yaml:"strict_comment_authors"`

	// MaxRowsPerSheet overrides the sheet capacity; 0 means MaxRowsPerSheet.
	MaxRowsPerSheet int `yaml:"max_rows_per_sheet"`

	Logger logrus.FieldLogger `yaml:"-"`
}

// DefaultOptions returns the options used by NewWriter(nil).
func DefaultOptions() *Options {
	return &Options{AppName: DefaultAppName}
}

// ParseOptions reads options from a YAML document. Fields missing from the
// document keep their defaults.
func ParseOptions(data []byte) (*Options, error) {
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// LoadOptions reads options from a YAML file.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrIO.Wrap(err, "read", path)
	}
	return ParseOptions(data)
}

func (o *Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}

func (o *Options) maxRows() int {
	if o.MaxRowsPerSheet <= 0 || o.MaxRowsPerSheet > MaxRowsPerSheet {
		return MaxRowsPerSheet
	}
	return o.MaxRowsPerSheet
}

func (o *Options) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}
