package xl

import (
	"strconv"
	"strings"
)

type Row struct {
	Cells []*Cell

	// Style applies to every cell of the row; cell styles take precedence
	// field by field. A Height set here becomes the row height.
	Style *Style
}

func NewRow(cells ...*Cell) *Row {
	return &Row{Cells: cells}
}

// NewRowFromValues builds a row with one auto-typed cell per value.
func NewRowFromValues(values ...any) *Row {
	r := &Row{Cells: make([]*Cell, 0, len(values))}
	for _, v := range values {
		r.Cells = append(r.Cells, NewCell(v))
	}
	return r
}

func (r *Row) AddCell(c *Cell) *Row {
	r.Cells = append(r.Cells, c)
	return r
}

func (r *Row) SetStyle(s *Style) *Row {
	r.Style = s
	return r
}

// IsEmpty reports whether the row has nothing to write: no cells at all, or a
// single empty cell.
func (r *Row) IsEmpty() bool {
	if r == nil || len(r.Cells) == 0 {
		return true
	}
	return len(r.Cells) == 1 && r.Cells[0].isEmpty()
}

// ColumnIndexAsLetters converts a zero-based column index into its letters:
// 0 is "A", 25 is "Z", 26 is "AA".
func ColumnIndexAsLetters(n int) string {
	if n < 0 {
		panic("invalid column index")
	}
	var buf [8]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('A' + n%26)
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	return string(buf[i:])
}

// ColumnLettersAsIndex is the inverse of ColumnIndexAsLetters. Lower case
// letters are accepted.
func ColumnLettersAsIndex(s string) (int, error) {
	if s == "" {
		return 0, ErrInvalidCoord.New(s, "missing column letters")
	}
	n := 0
	for _, r := range strings.ToUpper(s) {
		if r < 'A' || r > 'Z' {
			return 0, ErrInvalidCoord.New(s, "column letters must range from A to Z")
		}
		n = n*26 + int(r-'A') + 1
	}
	return n - 1, nil
}

// CellCoordAsString formats a zero-based column index and a 1-based row number
// as an "A1" style coordinate.
func CellCoordAsString(col, row int) string {
	if row < 1 {
		panic("invalid row number")
	}
	return ColumnIndexAsLetters(col) + strconv.Itoa(row)
}

// ParseCoord splits an "A1" style coordinate into a zero-based column index and
// a 1-based row number. Absolute markers ("$A$1") are accepted; ranges are not.
func ParseCoord(s string) (col, row int, err error) {
	switch {
	case s == "":
		return 0, 0, ErrInvalidCoord.New(s, "cell coordinate can not be zero-length string")
	case strings.ContainsAny(s, ":,"):
		return 0, 0, ErrInvalidCoord.New(s, "cell coordinate string can not be a range of cells")
	}

	t := strings.TrimPrefix(s, "$")
	split := strings.IndexFunc(t, func(r rune) bool { return r == '$' || (r >= '0' && r <= '9') })
	if split < 1 || split > 3 {
		return 0, 0, ErrInvalidCoord.New(s, "expected 1 to 3 column letters")
	}
	letters, digits := t[:split], strings.TrimPrefix(t[split:], "$")
	if len(digits) == 0 || len(digits) > 7 {
		return 0, 0, ErrInvalidCoord.New(s, "expected 1 to 7 row digits")
	}
	for _, r := range letters {
		if r < 'A' || r > 'Z' {
			return 0, 0, ErrInvalidCoord.New(s, "column letters must be upper case A to Z")
		}
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, 0, ErrInvalidCoord.New(s, "row must be numeric")
		}
	}

	col, err = ColumnLettersAsIndex(letters)
	if err != nil {
		return 0, 0, err
	}
	row, err = strconv.Atoi(digits)
	if err != nil || row < 1 {
		return 0, 0, ErrInvalidCoord.New(s, "row numbers start at 1")
	}
	return col, row, nil
}
