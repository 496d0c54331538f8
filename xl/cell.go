package xl

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Cell struct {
	Style *Style

	typ     CellType
	v       string    // value in its OOXML text form
	t       time.Time // date cells
	formula string
	cached  *Cell // display value of a formula cell
	invalid any   // value NewCell could not classify
}

// CellType is the type of cell value type.
type CellType int

// Cell value types enumeration.
const (
	CellTypeEmpty CellType = iota
	CellTypeString
	CellTypeNumber
	CellTypeBool
	CellTypeDate
	CellTypeFormula

	// internal
	cellTypeUnsupported
)

func (t CellType) String() string {
	switch t {
	case CellTypeEmpty:
		return "empty"
	case CellTypeString:
		return "string"
	case CellTypeNumber:
		return "number"
	case CellTypeBool:
		return "bool"
	case CellTypeDate:
		return "date"
	case CellTypeFormula:
		return "formula"
	}
	return fmt.Sprintf("CellType(%d)", int(t))
}

func NewEmptyCell() *Cell {
	return &Cell{typ: CellTypeEmpty}
}

func NewStringCell(v string) *Cell {
	return &Cell{typ: CellTypeString, v: v}
}

func NewNumberCell(v float64) *Cell {
	c := &Cell{typ: CellTypeNumber, v: strconv.FormatFloat(v, 'f', -1, 64)}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.invalid = v
	}
	return c
}

func NewIntCell(v int64) *Cell {
	return &Cell{typ: CellTypeNumber, v: strconv.FormatInt(v, 10)}
}

func NewDecimalCell(v decimal.Decimal) *Cell {
	return &Cell{typ: CellTypeNumber, v: v.String()}
}

func NewBoolCell(v bool) *Cell {
	c := &Cell{typ: CellTypeBool, v: "0"}
	if v {
		c.v = "1"
	}
	return c
}

// NewDateCell stores t as an Excel serial date. The wall clock of t is kept;
// its location is not converted.
func NewDateCell(t time.Time) *Cell {
	return &Cell{typ: CellTypeDate, t: t, v: strconv.FormatFloat(excelSerial(t), 'f', -1, 64)}
}

// NewFormulaCell creates a formula cell with its cached display value. The
// cached value is typed the way NewCell types values; dates and nested formulas
// are not valid cached values.
func NewFormulaCell(formula string, cached any) *Cell {
	c := &Cell{typ: CellTypeFormula, formula: formula, cached: NewCell(cached)}
	switch c.cached.typ {
	case CellTypeEmpty, CellTypeString, CellTypeNumber, CellTypeBool:
		c.v = c.cached.v
	default:
		c.invalid = cached
	}
	return c
}

// NewCell creates a cell typed after the dynamic type of v. Values of other
// types produce a cell that AddRow rejects with ErrUnsupportedCellType.
func NewCell(v any) *Cell {
	switch x := v.(type) {
	case nil:
		return NewEmptyCell()
	case *Cell:
		if x == nil {
			return NewEmptyCell()
		}
		return x
	case string:
		return NewStringCell(x)
	case []byte:
		return NewStringCell(string(x))
	case decimal.Decimal:
		return NewDecimalCell(x)
	case time.Time:
		return NewDateCell(x)
	case bool:
		return NewBoolCell(x)
	case int:
		return NewIntCell(int64(x))
	case int8:
		return NewIntCell(int64(x))
	case int16:
		return NewIntCell(int64(x))
	case int32:
		return NewIntCell(int64(x))
	case int64:
		return NewIntCell(x)
	case uint:
		return &Cell{typ: CellTypeNumber, v: strconv.FormatUint(uint64(x), 10)}
	case uint8:
		return NewIntCell(int64(x))
	case uint16:
		return NewIntCell(int64(x))
	case uint32:
		return NewIntCell(int64(x))
	case uint64:
		return &Cell{typ: CellTypeNumber, v: strconv.FormatUint(x, 10)}
	case float32:
		return NewNumberCell(float64(x))
	case float64:
		return NewNumberCell(x)
	case fmt.Stringer:
		return NewStringCell(x.String())
	}
	return &Cell{typ: cellTypeUnsupported, invalid: v}
}

func (c *Cell) SetStyle(s *Style) *Cell {
	c.Style = s
	return c
}

func (c *Cell) Type() CellType {
	if c == nil {
		return CellTypeEmpty
	}
	return c.typ
}

// Value returns the value in the form it is written to the sheet: strings
// verbatim, numbers and dates as decimal text, booleans as "1" or "0". For a
// formula cell it is the cached value.
func (c *Cell) Value() string {
	return c.v
}

// Formula returns the formula text of a formula cell.
func (c *Cell) Formula() string {
	return c.formula
}

// Time returns the value of a date cell.
func (c *Cell) Time() time.Time {
	return c.t
}

// isEmpty reports whether c holds no value; an empty string is no value.
func (c *Cell) isEmpty() bool {
	switch c.Type() {
	case CellTypeEmpty:
		return true
	case CellTypeString:
		return c.v == ""
	}
	return false
}

func (c *Cell) IsString() bool {
	return c.Type() == CellTypeString
}
