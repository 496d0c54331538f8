package xl

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/adnsv/srw/xml"
)

// Comment defaults, in VML units.
const (
	DefaultCommentWidth      = "96pt"
	DefaultCommentHeight     = "55.5pt"
	DefaultCommentMarginLeft = "59.25pt"
	DefaultCommentMarginTop  = "1.5pt"
	DefaultCommentBackground = "#FFFFE1"
)

// placeholder listed for comments without an author
const anonymousAuthor = "Author"

// Comment is a note anchored to a single cell.
type Comment struct {
	Cell   string // anchor coordinate, e.g. "B2"
	Author string // empty for an unauthored comment
	Text   string

	// Style supplies the font name and size of the text runs and the
	// background color of the note.
	Style *Style

	Width      string
	Height     string
	MarginLeft string
	MarginTop  string
	Visible    bool
}

// NewComment creates a hidden comment with the default layout.
func NewComment(cell, text string) *Comment {
	return &Comment{
		Cell:       cell,
		Text:       text,
		Width:      DefaultCommentWidth,
		Height:     DefaultCommentHeight,
		MarginLeft: DefaultCommentMarginLeft,
		MarginTop:  DefaultCommentMarginTop,
	}
}

func (c *Comment) SetAuthor(author string) *Comment {
	c.Author = author
	return c
}

func (c *Comment) SetStyle(s *Style) *Comment {
	c.Style = s
	return c
}

func (c *Comment) SetVisible(v bool) *Comment {
	c.Visible = v
	return c
}

func (c *Comment) font() (name string, size float64) {
	name, size = DefaultFontName, DefaultFontSize
	if c.Style == nil {
		return
	}
	if n := deref(c.Style.FontName); n != "" {
		name = n
	}
	if sz := deref(c.Style.FontSize); sz > 0 {
		size = sz
	}
	return
}

// vmlColor returns the background as a "#RRGGBB" VML color.
func (c *Comment) vmlColor() string {
	if c.Style == nil || deref(c.Style.BackgroundColor) == "" {
		return DefaultCommentBackground
	}
	argb := normalizeColor(*c.Style.BackgroundColor)
	if len(argb) == 8 {
		argb = argb[2:]
	}
	return "#" + argb
}

// commentAuthors lists the authors in order of first appearance. Unless
// strict, unauthored comments are attributed to a placeholder author.
func commentAuthors(comments []*Comment, strict bool) []string {
	seen := map[string]bool{}
	authors := []string{}
	for _, c := range comments {
		a := c.Author
		if a == "" {
			if strict {
				continue
			}
			a = anonymousAuthor
		}
		if !seen[a] {
			seen[a] = true
			authors = append(authors, a)
		}
	}
	return authors
}

// validate checks the anchor and that the author and text are valid UTF-8.
func (c *Comment) validate() error {
	if _, _, err := ParseCoord(c.Cell); err != nil {
		return err
	}
	if !utf8.ValidString(c.Author) {
		return ErrInvalidString.New("author of comment "+c.Cell, c.Author)
	}
	if !utf8.ValidString(c.Text) {
		return ErrInvalidString.New("comment "+c.Cell, c.Text)
	}
	return nil
}

// commentsXML renders the xl/commentsN.xml part of a sheet.
func commentsXML(comments []*Comment, strict bool, cfg xml.WriterConfig) ([]byte, error) {
	for _, c := range comments {
		if err := c.validate(); err != nil {
			return nil, err
		}
	}

	authors := commentAuthors(comments, strict)
	authorIDs := make(map[string]int, len(authors))
	for i, a := range authors {
		authorIDs[a] = i
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, cfg)
	x.XmlStandaloneDecl()

	x.OTag("comments")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")

	if len(authors) > 0 {
		x.OTag("+authors")
		for _, a := range authors {
			x.OTag("+author").String(escapeControlChars(a)).CTag()
		}
		x.CTag()
	}

	x.OTag("+commentList")
	for _, c := range comments {
		author := c.Author
		if author == "" && !strict {
			author = anonymousAuthor
		}
		id, hasID := authorIDs[author]

		x.OTag("+comment").Attr("ref", c.Cell)
		if hasID {
			x.Attr("authorId", id)
		}
		if c.Text != "" {
			name, size := c.font()
			x.OTag("text")
			if hasID && author != anonymousAuthor {
				x.OTag("r")
				writeCommentRunProps(x, name, size, true)
				x.OTag("t").Attr("xml:space", "preserve").String(escapeControlChars(author) + ":").CTag()
				x.CTag() // r
			}
			x.OTag("r")
			writeCommentRunProps(x, name, size, false)
			x.OTag("t").Attr("xml:space", "preserve").String(escapeControlChars(c.Text)).CTag()
			x.CTag() // r
			x.CTag() // text
		}
		x.CTag() // comment
	}
	x.CTag() // commentList

	x.CTag() // comments

	return bb.Bytes(), nil
}

func writeCommentRunProps(x *xml.Writer, fontName string, fontSize float64, bold bool) {
	x.OTag("rPr")
	if bold {
		x.OTag("b").CTag()
	}
	x.OTag("sz").Attr("val", formatFloat(fontSize)).CTag()
	x.OTag("rFont").Attr("val", fontName).CTag()
	x.OTag("charset").Attr("val", 0).CTag()
	x.CTag()
}

// vmlShapeID numbers the note shapes of a drawing from 1025, the first id
// of the block reserved by <o:idmap data="1">.
func vmlShapeID(i int) string {
	return "_x0000_s" + strconv.Itoa(1025+i)
}

// vmlDrawingXML renders the xl/drawings/vmlDrawingN.vml part holding one
// note shape per comment.
func vmlDrawingXML(comments []*Comment, cfg xml.WriterConfig) ([]byte, error) {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, cfg)
	x.XmlStandaloneDecl()

	x.OTag("xml")
	x.Attr("xmlns:v", "urn:schemas-microsoft-com:vml")
	x.Attr("xmlns:o", "urn:schemas-microsoft-com:office:office")
	x.Attr("xmlns:x", "urn:schemas-microsoft-com:office:excel")

	x.OTag("+o:shapelayout").Attr("v:ext", "edit")
	x.OTag("+o:idmap").Attr("v:ext", "edit").Attr("data", "1").CTag()
	x.CTag()

	x.OTag("+v:shapetype")
	x.Attr("id", "_x0000_t202")
	x.Attr("coordsize", "21600,21600")
	x.Attr("o:spt", "202")
	x.Attr("path", "m,l,21600r21600,l21600,xe")
	x.OTag("+v:stroke").Attr("joinstyle", "miter").CTag()
	x.OTag("+v:path").Attr("gradientshapeok", "t").Attr("o:connecttype", "rect").CTag()
	x.CTag()

	for i, c := range comments {
		col, row, err := ParseCoord(c.Cell)
		if err != nil {
			return nil, err
		}

		visibility := "hidden"
		if c.Visible {
			visibility = "visible"
		}
		style := strings.Join([]string{
			"position:absolute; margin-left:" + c.MarginLeft,
			"margin-top:" + c.MarginTop,
			"width:" + c.Width,
			"height:" + c.Height,
			"z-index:1; visibility:" + visibility,
		}, ";")
		color := c.vmlColor()

		x.OTag("+v:shape")
		x.Attr("id", vmlShapeID(i))
		x.Attr("type", "#_x0000_t202")
		x.Attr("style", style)
		x.Attr("fillcolor", color)
		x.Attr("o:insetmode", "auto")

		x.OTag("+v:fill").Attr("color2", color).CTag()
		x.OTag("+v:shadow").Attr("on", "t").Attr("color", "black").Attr("obscured", "t").CTag()
		x.OTag("+v:path").Attr("o:connecttype", "none").CTag()
		x.OTag("+v:textbox").Attr("style", "mso-direction-alt:auto")
		x.OTag("+div").Attr("style", "text-align:left").CTag()
		x.CTag() // v:textbox

		x.OTag("+x:ClientData").Attr("ObjectType", "Note")
		x.OTag("+x:MoveWithCells").CTag()
		x.OTag("+x:SizeWithCells").CTag()
		x.OTag("+x:AutoFill").String("False").CTag()
		x.OTag("+x:Row").String(strconv.Itoa(row - 1)).CTag()
		x.OTag("+x:Column").String(strconv.Itoa(col)).CTag()
		x.CTag() // x:ClientData

		x.CTag() // v:shape
	}

	x.CTag() // xml

	return bb.Bytes(), nil
}
