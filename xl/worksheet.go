package xl

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/adnsv/srw/xml"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// MaxCharactersPerCell is the longest string a cell can hold.
const MaxCharactersPerCell = 32767

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const sheetHeader = xmlHeader +
	`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"` +
	` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`

type worksheetState int

const (
	worksheetUnopened worksheetState = iota
	worksheetOpen
	worksheetClosed
)

// worksheet streams the rows of one Sheet. Rows go to a scratch body file;
// close assembles the sheet part around it once the column layout is known.
type worksheet struct {
	sheet   *Sheet
	id      int // 1-based part number
	styles  *StyleRegistry
	strings *SharedStrings // nil when strings are inlined
	cfg     xml.WriterConfig
	scratch *DirStorage
	pkg     *DirStorage
	log     logrus.FieldLogger

	strictAuthors bool

	state   worksheetState
	f       *os.File
	bw      *bufio.Writer
	lastRow int         // 1-based index of the last row added, skipped rows included
	written int         // rows actually written
	maxLen  map[int]int // longest text per zero-based column
}

func (ws *worksheet) bodyName() string {
	return fmt.Sprintf("sheet%d.body", ws.id)
}

func (ws *worksheet) partName() string {
	return fmt.Sprintf("xl/worksheets/sheet%d.xml", ws.id)
}

func (ws *worksheet) start() error {
	if ws.state != worksheetUnopened {
		return nil
	}
	f, err := ws.scratch.Create(ws.bodyName())
	if err != nil {
		return err
	}
	ws.f = f
	ws.bw = bufio.NewWriter(f)
	ws.maxLen = map[int]int{}
	ws.state = worksheetOpen
	ws.log.WithField("sheet", ws.sheet.Name).Debug("sheet started")
	return nil
}

// addRow writes a row at the next row index. Empty rows only advance the
// index. A row that fails validation is not written and does not advance it.
func (ws *worksheet) addRow(row *Row) error {
	if ws.state != worksheetOpen {
		return ErrWriterNotOpened.New()
	}
	r := ws.lastRow + 1
	if !row.IsEmpty() {
		lengths := map[int]int{}
		frag, err := ws.rowXML(row, r, lengths)
		if err != nil {
			return err
		}
		if _, err = ws.bw.Write(frag); err != nil {
			return ErrIO.Wrap(err, "write", ws.f.Name())
		}
		for col, n := range lengths {
			if n > ws.maxLen[col] {
				ws.maxLen[col] = n
			}
		}
		ws.written++
	}
	ws.lastRow = r
	return nil
}

func validateCell(c *Cell, ref string) error {
	switch c.Type() {
	case cellTypeUnsupported:
		return ErrUnsupportedCellType.New(fmt.Sprintf("%T", c.invalid))
	case CellTypeString:
		if !utf8.ValidString(c.v) {
			return ErrInvalidString.New("cell "+ref, c.v)
		}
		if utf8.RuneCountInString(c.v) > MaxCharactersPerCell {
			return ErrCellValueTooLong.New(MaxCharactersPerCell)
		}
	case CellTypeNumber:
		if c.invalid != nil {
			return ErrInvalidNumber.New(ref, c.invalid)
		}
	case CellTypeFormula:
		if c.invalid != nil {
			return ErrUnsupportedCellType.New(fmt.Sprintf("%T", c.invalid))
		}
		if !utf8.ValidString(c.formula) {
			return ErrInvalidString.New("formula of cell "+ref, c.formula)
		}
		return validateCell(c.cached, ref)
	}
	return nil
}

// rowXML renders a complete <row> element. Cells are validated first so a
// rejected row leaves no trace in the registry or the string table.
func (ws *worksheet) rowXML(row *Row, r int, lengths map[int]int) ([]byte, error) {
	for i, c := range row.Cells {
		if err := validateCell(c, CellCoordAsString(i, r)); err != nil {
			return nil, err
		}
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, ws.cfg)

	x.OTag("+row")
	x.Attr("r", r)
	x.Attr("spans", "1:"+strconv.Itoa(len(row.Cells)))
	if row.Style != nil && deref(row.Style.Height) > 0 {
		x.Attr("ht", formatFloat(*row.Style.Height))
		x.Attr("customHeight", 1)
	}
	for i, c := range row.Cells {
		if err := ws.writeCell(x, c, row.Style, i, r, lengths); err != nil {
			return nil, err
		}
	}
	x.CTag()

	return bb.Bytes(), nil
}

func (ws *worksheet) writeCell(x *xml.Writer, c *Cell, rowStyle *Style, col, r int, lengths map[int]int) error {
	var cellStyle *Style
	if c != nil {
		cellStyle = c.Style
	}
	style := ws.styles.applyExtraStyles(c, cellStyle.Merge(rowStyle))
	id := ws.styles.Register(style)
	ref := CellCoordAsString(col, r)

	if c.isEmpty() {
		if ws.styles.ShouldRenderEmptyCell(id) {
			x.OTag("c").Attr("r", ref).Attr("s", id).CTag()
		}
		return nil
	}

	x.OTag("c").Attr("r", ref).Attr("s", id)
	switch c.Type() {
	case CellTypeString:
		if ws.strings == nil {
			x.Attr("t", "inlineStr")
			x.OTag("is")
			x.OTag("t").Attr("xml:space", "preserve").String(escapeControlChars(c.v)).CTag()
			x.CTag()
		} else {
			i, err := ws.strings.WriteString(c.v)
			if err != nil {
				return err
			}
			x.Attr("t", "s")
			x.OTag("v").String(strconv.Itoa(i)).CTag()
		}
	case CellTypeNumber, CellTypeDate:
		x.Attr("t", "n")
		x.OTag("v").String(c.v).CTag()
	case CellTypeBool:
		x.Attr("t", "b")
		x.OTag("v").String(c.v).CTag()
	case CellTypeFormula:
		switch c.cached.Type() {
		case CellTypeString:
			x.Attr("t", "str")
		case CellTypeBool:
			x.Attr("t", "b")
		}
		x.OTag("f").String(escapeControlChars(strings.TrimPrefix(c.formula, "="))).CTag()
		if c.cached.Type() != CellTypeEmpty {
			x.OTag("v").String(escapeControlChars(c.v)).CTag()
		}
	}
	x.CTag()

	if n := displayLength(c.v); n > lengths[col] {
		lengths[col] = n
	}
	return nil
}

// displayLength is the length of the longest line of v.
func displayLength(v string) int {
	n := 0
	for _, line := range strings.Split(v, "\n") {
		if l := utf8.RuneCountInString(line); l > n {
			n = l
		}
	}
	return n
}

// close writes the sheet part and the comment parts of the sheet. Closing a
// worksheet that is not open is a no-op.
func (ws *worksheet) close() error {
	if ws.state != worksheetOpen {
		return nil
	}
	ws.state = worksheetClosed

	if err := ws.release(); err != nil {
		return err
	}

	dims := ws.sheet.ColumnDimensions()
	resolveAutoSize(dims, ws.maxLen, ws.styles.Font(0))

	out, err := ws.pkg.Create(ws.partName())
	if err != nil {
		return err
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	w.WriteString(sheetHeader)
	if len(dims) > 0 {
		w.Write(colsXML(dims, ws.sheet.AutoFilter != "", ws.cfg))
	}
	w.WriteString("\n<sheetData>")
	if err = ws.scratch.AppendFile(w, ws.bodyName()); err != nil {
		return err
	}
	w.WriteString("\n</sheetData>")
	w.Write(ws.tailXML())
	w.WriteString("\n</worksheet>\n")
	if err = w.Flush(); err != nil {
		return ErrIO.Wrap(err, "write", out.Name())
	}
	if err = out.Close(); err != nil {
		return ErrIO.Wrap(err, "close", out.Name())
	}
	if err = ws.scratch.Remove(ws.bodyName()); err != nil {
		return err
	}

	if len(ws.sheet.Comments) > 0 {
		if err = ws.writeComments(); err != nil {
			return err
		}
	}

	if st, err := os.Stat(out.Name()); err == nil {
		ws.log.WithFields(logrus.Fields{
			"sheet": ws.sheet.Name,
			"rows":  ws.written,
			"size":  humanize.Bytes(uint64(st.Size())),
		}).Debug("sheet closed")
	}
	return nil
}

// discard drops the rows written so far.
func (ws *worksheet) discard() {
	if ws.state != worksheetOpen {
		return
	}
	ws.state = worksheetClosed
	ws.release()
	ws.scratch.Remove(ws.bodyName())
}

func (ws *worksheet) release() error {
	if ws.f == nil {
		return nil
	}
	f := ws.f
	ws.f = nil
	if err := ws.bw.Flush(); err != nil {
		f.Close()
		return ErrIO.Wrap(err, "write", f.Name())
	}
	if err := f.Close(); err != nil {
		return ErrIO.Wrap(err, "close", f.Name())
	}
	return nil
}

func colsXML(dims []*ColumnDimension, autoFilter bool, cfg xml.WriterConfig) []byte {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, cfg)
	x.OTag("+cols")
	for _, d := range dims {
		col, err := ColumnLettersAsIndex(d.Column)
		if err != nil {
			continue
		}
		w := d.Width
		if w <= 0 {
			w = DefaultColumnWidth
		}
		if autoFilter {
			w += 2
		}
		x.OTag("+col")
		x.Attr("min", col+1)
		x.Attr("max", col+1)
		x.Attr("width", formatFloat(w))
		x.Attr("customWidth", "true")
		if !d.Visible {
			x.Attr("hidden", "true")
		}
		if d.AutoSize {
			x.Attr("bestFit", "true")
		}
		if d.Collapsed {
			x.Attr("collapsed", "true")
		}
		if d.OutlineLevel > 0 {
			x.Attr("outlineLevel", d.OutlineLevel)
		}
		x.CTag()
	}
	x.CTag()
	return bb.Bytes()
}

// tailXML renders the elements following <sheetData>.
func (ws *worksheet) tailXML() []byte {
	sh := ws.sheet
	bb := bytes.Buffer{}
	if sh.AutoFilter != "" {
		x := xml.NewWriter(&bb, ws.cfg)
		x.OTag("+autoFilter").Attr("ref", sh.AutoFilter).CTag()
	}
	if len(sh.Merged) > 0 {
		x := xml.NewWriter(&bb, ws.cfg)
		x.OTag("+mergeCells").Attr("count", len(sh.Merged))
		for _, ref := range sh.Merged {
			x.OTag("+mergeCell").Attr("ref", ref).CTag()
		}
		x.CTag()
	}
	if len(sh.Comments) > 0 {
		x := xml.NewWriter(&bb, ws.cfg)
		x.OTag("+legacyDrawing").Attr("r:id", ws.vmlRelID()).CTag()
	}
	return bb.Bytes()
}

func (ws *worksheet) vmlRelID() string {
	return fmt.Sprintf("rId_comments_vml%d", ws.id)
}

func (ws *worksheet) commentsRelID() string {
	return fmt.Sprintf("rId_comments%d", ws.id)
}

func (ws *worksheet) commentsPart() string {
	return fmt.Sprintf("xl/comments%d.xml", ws.id)
}

func (ws *worksheet) vmlPart() string {
	return fmt.Sprintf("xl/drawings/vmlDrawing%d.vml", ws.id)
}

// writeComments writes the comments, the VML drawing and the relationships
// linking them to the sheet.
func (ws *worksheet) writeComments() error {
	blob, err := commentsXML(ws.sheet.Comments, ws.strictAuthors, ws.cfg)
	if err != nil {
		return err
	}
	if err = ws.pkg.WriteBlob(ws.commentsPart(), blob); err != nil {
		return err
	}

	blob, err = vmlDrawingXML(ws.sheet.Comments, ws.cfg)
	if err != nil {
		return err
	}
	if err = ws.pkg.WriteBlob(ws.vmlPart(), blob); err != nil {
		return err
	}

	rels := map[string]RelInfo{
		ws.vmlRelID(): {
			Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/vmlDrawing",
			Target: fmt.Sprintf("../drawings/vmlDrawing%d.vml", ws.id),
		},
		ws.commentsRelID(): {
			Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments",
			Target: fmt.Sprintf("../comments%d.xml", ws.id),
		},
	}
	return writeRels(ws.pkg, fmt.Sprintf("xl/worksheets/_rels/sheet%d.xml.rels", ws.id), rels, ws.cfg)
}
