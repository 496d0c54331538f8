package xl

import (
	"strconv"
	"strings"
)

// Font represents font formatting properties for cell content.
// These properties correspond to the OpenXML font element as defined in ECMA-376.
// A Font is the resolved form of a style's font fields: every property holds
// its final value.
type Font struct {
	Name          string        // Font family name
	Size          float64       // Font size in points
	Color         string        // ARGB color
	Bold          bool          // Bold text
	Italic        bool          // Italic text
	Underline     UnderlineType // Underline style
	Strikethrough bool          // Strikethrough text
}

// UnderlineType represents the type of underline formatting.
type UnderlineType string

// Underline type constants as defined in ECMA-376 (ST_UnderlineValues).
const (
	UnderlineNone             UnderlineType = ""                 // No underline (default)
	UnderlineSingle           UnderlineType = "single"           // Single underline
	UnderlineDouble           UnderlineType = "double"           // Double underline
	UnderlineSingleAccounting UnderlineType = "singleAccounting" // Single accounting underline
	UnderlineDoubleAccounting UnderlineType = "doubleAccounting" // Double accounting underline
)

// Default font values
const (
	DefaultFontName  = "Arial"
	DefaultFontSize  = 11.0
	DefaultFontColor = "FF000000"
)

func (f *Font) key() string {
	var sb strings.Builder
	sb.WriteString(f.Name)
	sb.WriteByte('|')
	sb.WriteString(strconv.FormatFloat(f.Size, 'f', -1, 64))
	sb.WriteByte('|')
	sb.WriteString(f.Color)
	sb.WriteByte('|')
	for _, b := range []bool{f.Bold, f.Italic, f.Strikethrough} {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	sb.WriteByte('|')
	sb.WriteString(string(f.Underline))
	return sb.String()
}

// normalizeColor turns "RRGGBB" or "#RRGGBB" into opaque ARGB; other values
// are upper-cased and kept.
func normalizeColor(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(c, "#"))
	if len(c) == 6 {
		return "FF" + c
	}
	return c
}
