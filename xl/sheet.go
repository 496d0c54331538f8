package xl

import (
	"strings"
)

// Sheet describes a worksheet of the workbook being written: its name,
// position, visibility and the layout written when the sheet is closed.
// Sheets are created by the Writer.
type Sheet struct {
	Name    string
	Index   int // zero-based position in the workbook
	Visible bool

	AutoFilter string   // range, e.g. "A1:C1"; empty for none
	Merged     []string // merged ranges, e.g. "A1:B2"
	Comments   []*Comment

	Columns map[int]*ColumnDimension // zero-based column index

	writer *Writer
}

func newSheet(w *Writer, index int, name string) *Sheet {
	return &Sheet{
		Name:    name,
		Index:   index,
		Visible: true,
		Columns: map[int]*ColumnDimension{},
		writer:  w,
	}
}

// SetName renames the sheet. The name must be valid and unique within the
// workbook.
func (s *Sheet) SetName(name string) error {
	if s.writer != nil {
		if err := s.writer.checkSheetName(name, s); err != nil {
			return err
		}
	} else if err := validateSheetName(name); err != nil {
		return err
	}
	s.Name = name
	return nil
}

func (s *Sheet) SetVisible(v bool) *Sheet {
	s.Visible = v
	return s
}

// AddColumnDimension sets the layout of a column, replacing any previous one.
func (s *Sheet) AddColumnDimension(d *ColumnDimension) error {
	col, err := ColumnLettersAsIndex(d.Column)
	if err != nil {
		return err
	}
	if d.OutlineLevel < 0 || d.OutlineLevel > 7 {
		return ErrInvalidOutlineLevel.New(d.OutlineLevel)
	}
	d.Column = ColumnIndexAsLetters(col)
	s.Columns[col] = d
	return nil
}

// SetColumnWidth fixes the width of a column. A width <= 0 removes the
// dimension.
func (s *Sheet) SetColumnWidth(column string, w float64) error {
	col, err := ColumnLettersAsIndex(column)
	if err != nil {
		return err
	}
	if w <= 0.0 {
		delete(s.Columns, col)
	} else {
		c, exists := s.Columns[col]
		if !exists {
			c = NewColumnDimension(ColumnIndexAsLetters(col), w, false)
		} else {
			c.Width = w
			c.AutoSize = false
		}
		s.Columns[col] = c
	}
	return nil
}

// SetColumnAutoSize makes the width of the given columns follow their
// longest text. Widths are computed when the sheet is closed.
func (s *Sheet) SetColumnAutoSize(columns ...string) error {
	for _, column := range columns {
		col, err := ColumnLettersAsIndex(column)
		if err != nil {
			return err
		}
		c, exists := s.Columns[col]
		if !exists {
			c = NewColumnDimension(ColumnIndexAsLetters(col), -1, true)
			s.Columns[col] = c
		}
		c.AutoSize = true
	}
	return nil
}

// ColumnDimensions returns the dimensions in column order.
func (s *Sheet) ColumnDimensions() []*ColumnDimension {
	dims := make([]*ColumnDimension, 0, len(s.Columns))
	enumerate(s.Columns, func(_ int, d *ColumnDimension) error {
		dims = append(dims, d)
		return nil
	})
	return dims
}

// MergeCells merges a range such as "A1:C1".
func (s *Sheet) MergeCells(ref string) error {
	if err := validateRange(ref); err != nil {
		return err
	}
	s.Merged = append(s.Merged, ref)
	return nil
}

// SetAutoFilter places an auto-filter on a range; an empty ref removes it.
func (s *Sheet) SetAutoFilter(ref string) error {
	if ref != "" {
		if err := validateRange(ref); err != nil {
			return err
		}
	}
	s.AutoFilter = ref
	return nil
}

func (s *Sheet) AddComment(c *Comment) error {
	if err := c.validate(); err != nil {
		return err
	}
	s.Comments = append(s.Comments, c)
	return nil
}

func validateRange(ref string) error {
	from, to, ok := strings.Cut(ref, ":")
	if !ok {
		return ErrInvalidCoord.New(ref, "expected a range such as A1:B2")
	}
	if _, _, err := ParseCoord(from); err != nil {
		return err
	}
	_, _, err := ParseCoord(to)
	return err
}
