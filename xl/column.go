package xl

import (
	"math"
)

// DefaultColumnWidth is written for dimensions whose width is unknown.
const DefaultColumnWidth = 9.1

// ColumnDimension holds the layout of one worksheet column.
type ColumnDimension struct {
	Column       string  // column letters, e.g. "A"
	Width        float64 // in character units; <= 0 when unknown
	AutoSize     bool
	Visible      bool
	OutlineLevel int
	Collapsed    bool
}

// NewColumnDimension creates a visible column dimension.
func NewColumnDimension(column string, width float64, autoSize bool) *ColumnDimension {
	return &ColumnDimension{
		Column:   column,
		Width:    width,
		AutoSize: autoSize,
		Visible:  true,
	}
}

func (d *ColumnDimension) SetOutlineLevel(level int) error {
	if level < 0 || level > 7 {
		return ErrInvalidOutlineLevel.New(level)
	}
	d.OutlineLevel = level
	return nil
}

// pixel width of a column at a given font, measured in Excel
type columnWidthSample struct {
	px    float64
	width float64
}

var defaultColumnWidths = map[string]map[float64]columnWidthSample{
	"Arial": {
		1:  {24, 12.00000000},
		2:  {24, 12.00000000},
		3:  {32, 10.66406250},
		4:  {32, 10.66406250},
		5:  {40, 10.00000000},
		6:  {48, 9.59765625},
		7:  {48, 9.59765625},
		8:  {56, 9.33203125},
		9:  {64, 9.14062500},
		10: {64, 9.14062500},
	},
	"Calibri": {
		1:  {24, 12.00000000},
		2:  {24, 12.00000000},
		3:  {32, 10.66406250},
		4:  {32, 10.66406250},
		5:  {40, 10.00000000},
		6:  {48, 9.59765625},
		7:  {48, 9.59765625},
		8:  {56, 9.33203125},
		9:  {56, 9.33203125},
		10: {64, 9.14062500},
		11: {64, 9.14062500},
	},
	"Verdana": {
		1:  {24, 12.00000000},
		2:  {24, 12.00000000},
		3:  {32, 10.66406250},
		4:  {32, 10.66406250},
		5:  {40, 10.00000000},
		6:  {48, 9.59765625},
		7:  {48, 9.59765625},
		8:  {64, 9.14062500},
		9:  {72, 9.00000000},
		10: {72, 9.00000000},
	},
}

// textWidthPixels approximates the pixel width of n characters, assuming a
// fixed glyph width per font.
func textWidthPixels(n int, f Font) int {
	byWidth, bySize := 8.26, 11.0 // Calibri 11
	switch f.Name {
	case "Arial", "Verdana":
		byWidth, bySize = 8, 10
	}
	px := float64(int(byWidth * float64(n)))
	return int(px * f.Size / bySize)
}

// pixelsToColumnWidth converts a pixel width to column character units.
// Fonts without a measured sample are extrapolated from Calibri 11.
func pixelsToColumnWidth(px int, f Font) float64 {
	if s, ok := defaultColumnWidths[f.Name][f.Size]; ok {
		return float64(px) * s.width / s.px
	}
	s := defaultColumnWidths["Calibri"][11]
	return float64(px) * 11 * s.width / s.px / f.Size
}

// ColumnWidthForLength estimates the width of a column whose longest text
// has n characters in font f. The padding is three "n" glyphs.
func ColumnWidthForLength(n int, f Font) float64 {
	px := textWidthPixels(n, f) + textWidthPixels(1, f)*3
	w := pixelsToColumnWidth(px, f)
	return math.Round(w*1e6) / 1e6
}

// resolveAutoSize assigns widths to auto-size dimensions from the longest
// text seen in each column (keyed by zero-based column index).
func resolveAutoSize(dims []*ColumnDimension, maxLen map[int]int, f Font) {
	for _, d := range dims {
		if !d.AutoSize {
			continue
		}
		col, err := ColumnLettersAsIndex(d.Column)
		if err != nil {
			continue
		}
		n, ok := maxLen[col]
		if !ok {
			continue
		}
		w := ColumnWidthForLength(n, f)
		if w <= 0 {
			w = DefaultColumnWidth
		}
		d.Width = w
	}
}
