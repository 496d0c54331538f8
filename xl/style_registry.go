package xl

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adnsv/srw/xml"
)

// Number format codes applied to date cells that carry no number format.
const (
	DateFormatCode     = "yyyy-mm-dd"
	DateTimeFormatCode = "yyyy-mm-dd hh:mm:ss"
)

// first id available for custom number formats
const firstCustomNumFmtID = 164

var builtinNumFmts = map[string]int{
	"General":       0,
	"0":             1,
	"0.00":          2,
	"#,##0":         3,
	"#,##0.00":      4,
	"0%":            9,
	"0.00%":         10,
	"0.00E+00":      11,
	"# ?/?":         12,
	"# ??/??":       13,
	"mm-dd-yy":      14,
	"d-mmm-yy":      15,
	"d-mmm":         16,
	"mmm-yy":        17,
	"h:mm AM/PM":    18,
	"h:mm:ss AM/PM": 19,
	"h:mm":          20,
	"h:mm:ss":       21,
	"m/d/yy h:mm":   22,
	"mm:ss":         45,
	"[h]:mm:ss":     46,
	"mmss.0":        47,
	"##0.0E+0":      48,
	"@":             49,
}

// resolvedStyle holds the final value of every attribute that reaches
// styles.xml. Two styles with equal fingerprints share one cellXfs record.
type resolvedStyle struct {
	style  *Style // merged over the default
	font   Font
	fill   string // ARGB background, empty for no fill
	border Border
	numFmt string // empty for General
	hAlign HorizontalAlignment
	vAlign VerticalAlignment
	wrap   bool
	shrink bool
}

func resolveStyle(s, defaultStyle *Style) resolvedStyle {
	m := s.Merge(defaultStyle)
	r := resolvedStyle{
		style:  m,
		font:   m.font(),
		numFmt: deref(m.NumberFormat),
		hAlign: deref(m.HorizontalAlign),
		vAlign: deref(m.VerticalAlign),
		wrap:   deref(m.WrapText),
		shrink: deref(m.ShrinkToFit),
	}
	if m.BackgroundColor != nil && *m.BackgroundColor != "" {
		r.fill = normalizeColor(*m.BackgroundColor)
	}
	if m.Border != nil {
		r.border = *m.Border
		for _, e := range r.border.edges() {
			e.Color = normalizeColor(e.Color)
		}
	}
	if r.numFmt == "General" {
		r.numFmt = ""
	}
	return r
}

func (b *Border) edges() []*BorderEdge {
	return []*BorderEdge{&b.Left, &b.Right, &b.Top, &b.Bottom}
}

func (b Border) isEmpty() bool {
	return b.Left.Style == BorderNone && b.Right.Style == BorderNone &&
		b.Top.Style == BorderNone && b.Bottom.Style == BorderNone
}

func (b Border) key() string {
	var sb strings.Builder
	for _, e := range b.edges() {
		if e.Style == BorderNone {
			sb.WriteString("-;")
			continue
		}
		fmt.Fprintf(&sb, "%s:%s;", e.Style, e.Color)
	}
	return sb.String()
}

func (r *resolvedStyle) hasAlignment() bool {
	return r.hAlign != "" || r.vAlign != "" || r.wrap || r.shrink
}

func (r *resolvedStyle) fingerprint() string {
	return fmt.Sprintf("%s|%q|%s|%q|%s|%s|%t|%t",
		r.font.key(), r.fill, r.border.key(), r.numFmt, r.hAlign, r.vAlign, r.wrap, r.shrink)
}

// StyleRegistry deduplicates the styles used by a workbook and assigns them
// stable ids in registration order. Id 0 is the workbook default style.
type StyleRegistry struct {
	defaultStyle *Style
	ids          map[string]int
	styles       []resolvedStyle
}

// NewStyleRegistry creates a registry whose default style is defaultStyle
// completed with the built-in font defaults.
func NewStyleRegistry(defaultStyle *Style) *StyleRegistry {
	r := &StyleRegistry{
		defaultStyle: defaultStyle.Merge(builtinDefaultStyle()),
		ids:          map[string]int{},
	}
	r.Register(nil)
	return r
}

// DefaultStyle returns the fully resolved default style (id 0).
func (r *StyleRegistry) DefaultStyle() *Style {
	return r.defaultStyle
}

// Register returns the id of s, registering it when no equal style exists
// yet. A nil style is the default style.
func (r *StyleRegistry) Register(s *Style) int {
	rs := resolveStyle(s, r.defaultStyle)
	fp := rs.fingerprint()
	if id, ok := r.ids[fp]; ok {
		return id
	}
	id := len(r.styles)
	r.ids[fp] = id
	r.styles = append(r.styles, rs)
	return id
}

// Len returns the number of registered styles, the default included.
func (r *StyleRegistry) Len() int {
	return len(r.styles)
}

// Style returns a registered style merged over the default style.
func (r *StyleRegistry) Style(id int) *Style {
	return r.styles[id].style.Clone()
}

// Font returns the resolved font of a registered style.
func (r *StyleRegistry) Font(id int) Font {
	return r.styles[id].font
}

// ShouldRenderEmptyCell reports whether an empty cell with the given style
// must still be written for its formatting to show.
func (r *StyleRegistry) ShouldRenderEmptyCell(id int) bool {
	return id != 0
}

// applyExtraStyles completes the style of a cell the way spreadsheet users
// expect: multi-line strings wrap unless wrapping was set explicitly, and
// dates get a date format unless a number format was set. The returned style
// is a copy when anything changed.
func (r *StyleRegistry) applyExtraStyles(c *Cell, s *Style) *Style {
	switch c.Type() {
	case CellTypeString:
		if s.WrapText == nil && strings.Contains(c.v, "\n") {
			s = s.Clone()
			s.WrapText = ptr(true)
		}
	case CellTypeDate:
		if s.NumberFormat == nil {
			s = s.Clone()
			if hasClockTime(c.t) {
				s.NumberFormat = ptr(DateTimeFormatCode)
			} else {
				s.NumberFormat = ptr(DateFormatCode)
			}
		}
	}
	return s
}

// indexer assigns section-local indices to records in first-use order.
type indexer struct {
	ids  map[string]int
	keys []string
}

func newIndexer(reserved ...string) *indexer {
	ix := &indexer{ids: map[string]int{}}
	for _, k := range reserved {
		ix.index(k)
	}
	return ix
}

func (ix *indexer) index(key string) int {
	if id, ok := ix.ids[key]; ok {
		return id
	}
	id := len(ix.keys)
	ix.ids[key] = id
	ix.keys = append(ix.keys, key)
	return id
}

// stylesXML renders the styles.xml part. Fonts, fills, borders and number
// formats each get their own indices; cellXfs is ordered by style id.
func (r *StyleRegistry) stylesXML(cfg xml.WriterConfig) []byte {
	type xf struct{ numFmt, font, fill, border int }

	fonts, fontIx := []Font{}, newIndexer()
	fills, fillIx := []string{}, newIndexer("none", "gray125")
	borders, borderIx := []Border{}, newIndexer(Border{}.key())
	numFmts, numFmtIx := []string{}, map[string]int{}

	xfs := make([]xf, len(r.styles))
	for i := range r.styles {
		rs := &r.styles[i]

		fi := fontIx.index(rs.font.key())
		if fi == len(fonts) {
			fonts = append(fonts, rs.font)
		}
		xfs[i].font = fi

		if rs.fill != "" {
			li := fillIx.index(rs.fill)
			if li == len(fills)+2 {
				fills = append(fills, rs.fill)
			}
			xfs[i].fill = li
		}

		if !rs.border.isEmpty() {
			bi := borderIx.index(rs.border.key())
			if bi == len(borders)+1 {
				borders = append(borders, rs.border)
			}
			xfs[i].border = bi
		}

		if rs.numFmt != "" {
			id, ok := builtinNumFmts[rs.numFmt]
			if !ok {
				id, ok = numFmtIx[rs.numFmt]
				if !ok {
					id = firstCustomNumFmtID + len(numFmts)
					numFmtIx[rs.numFmt] = id
					numFmts = append(numFmts, rs.numFmt)
				}
			}
			xfs[i].numFmt = id
		}
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, cfg)
	x.XmlStandaloneDecl()

	x.OTag("styleSheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")

	if len(numFmts) > 0 {
		x.OTag("+numFmts").Attr("count", len(numFmts))
		for i, code := range numFmts {
			x.OTag("+numFmt").Attr("numFmtId", firstCustomNumFmtID+i).Attr("formatCode", code).CTag()
		}
		x.CTag()
	}

	x.OTag("+fonts").Attr("count", len(fonts))
	for _, f := range fonts {
		x.OTag("+font")
		if f.Bold {
			x.OTag("b").CTag()
		}
		if f.Italic {
			x.OTag("i").CTag()
		}
		if f.Strikethrough {
			x.OTag("strike").CTag()
		}
		switch f.Underline {
		case UnderlineNone:
		case UnderlineSingle:
			x.OTag("u").CTag()
		default:
			x.OTag("u").Attr("val", string(f.Underline)).CTag()
		}
		x.OTag("sz").Attr("val", formatFloat(f.Size)).CTag()
		x.OTag("color").Attr("rgb", f.Color).CTag()
		x.OTag("name").Attr("val", f.Name).CTag()
		x.CTag() // font
	}
	x.CTag() // fonts

	x.OTag("+fills").Attr("count", len(fills)+2)
	x.OTag("+fill")
	x.OTag("patternFill").Attr("patternType", "none").CTag()
	x.CTag()
	x.OTag("+fill")
	x.OTag("patternFill").Attr("patternType", "gray125").CTag()
	x.CTag()
	for _, color := range fills {
		x.OTag("+fill")
		x.OTag("patternFill").Attr("patternType", "solid")
		x.OTag("fgColor").Attr("rgb", color).CTag()
		x.OTag("bgColor").Attr("indexed", 64).CTag()
		x.CTag() // patternFill
		x.CTag() // fill
	}
	x.CTag() // fills

	x.OTag("+borders").Attr("count", len(borders)+1)
	x.OTag("+border")
	x.OTag("left").CTag()
	x.OTag("right").CTag()
	x.OTag("top").CTag()
	x.OTag("bottom").CTag()
	x.OTag("diagonal").CTag()
	x.CTag()
	for _, b := range borders {
		x.OTag("+border")
		writeBorderEdge(x, "left", b.Left)
		writeBorderEdge(x, "right", b.Right)
		writeBorderEdge(x, "top", b.Top)
		writeBorderEdge(x, "bottom", b.Bottom)
		x.OTag("diagonal").CTag()
		x.CTag()
	}
	x.CTag() // borders

	x.OTag("+cellStyleXfs").Attr("count", 1)
	x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", 0).Attr("fillId", 0).Attr("borderId", 0).CTag()
	x.CTag()

	x.OTag("+cellXfs").Attr("count", len(xfs))
	for i, f := range xfs {
		rs := &r.styles[i]
		x.OTag("+xf")
		x.Attr("numFmtId", f.numFmt)
		x.Attr("fontId", f.font)
		x.Attr("fillId", f.fill)
		x.Attr("borderId", f.border)
		x.Attr("xfId", 0)
		if f.numFmt != 0 {
			x.Attr("applyNumberFormat", 1)
		}
		if f.font != 0 {
			x.Attr("applyFont", 1)
		}
		if f.fill != 0 {
			x.Attr("applyFill", 1)
		}
		if f.border != 0 {
			x.Attr("applyBorder", 1)
		}
		if rs.hasAlignment() {
			x.Attr("applyAlignment", 1)
			x.OTag("alignment")
			if rs.hAlign != "" {
				x.Attr("horizontal", string(rs.hAlign))
			}
			if rs.vAlign != "" {
				x.Attr("vertical", string(rs.vAlign))
			}
			if rs.wrap {
				x.Attr("wrapText", 1)
			}
			if rs.shrink {
				x.Attr("shrinkToFit", 1)
			}
			x.CTag()
		}
		x.CTag() // xf
	}
	x.CTag() // cellXfs

	x.OTag("+cellStyles").Attr("count", 1)
	x.OTag("+cellStyle").Attr("name", "Normal").Attr("xfId", 0).Attr("builtinId", 0).CTag()
	x.CTag()

	x.CTag() // styleSheet

	return bb.Bytes()
}

func writeBorderEdge(x *xml.Writer, side string, e BorderEdge) {
	x.OTag(xml.NameString(side))
	if e.Style != BorderNone {
		x.Attr("style", string(e.Style))
		if e.Color != "" {
			x.OTag("color").Attr("rgb", e.Color).CTag()
		} else {
			x.OTag("color").Attr("auto", 1).CTag()
		}
	}
	x.CTag()
}
