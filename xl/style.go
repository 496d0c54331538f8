package xl

// Style describes the formatting of a cell or a row. Every property is
// optional: a nil field was never set and falls through to the row style, then
// to the workbook default, when the style is merged and registered.
//
// A Style handed to the writer is never modified by it.
type Style struct {
	FontName      *string        `yaml:"font_name,omitempty"`
	FontSize      *float64       `yaml:"font_size,omitempty"`
	FontColor     *string        `yaml:"font_color,omitempty"`
	Bold          *bool          `yaml:"bold,omitempty"`
	Italic        *bool          `yaml:"italic,omitempty"`
	Underline     *UnderlineType `yaml:"underline,omitempty"`
	Strikethrough *bool          `yaml:"strikethrough,omitempty"`

	WrapText        *bool                `yaml:"wrap_text,omitempty"`
	ShrinkToFit     *bool                `yaml:"shrink_to_fit,omitempty"`
	HorizontalAlign *HorizontalAlignment `yaml:"horizontal_align,omitempty"`
	VerticalAlign   *VerticalAlignment   `yaml:"vertical_align,omitempty"`

	BackgroundColor *string `yaml:"background_color,omitempty"` // ARGB or RGB
	NumberFormat    *string `yaml:"number_format,omitempty"`    // format code, e.g. "0.00"
	Border          *Border `yaml:"border,omitempty"`

	// Height is only used on row styles.
	Height *float64 `yaml:"height,omitempty"`
}

type HorizontalAlignment string

const (
	AlignGeneral HorizontalAlignment = "general"
	AlignLeft    HorizontalAlignment = "left"
	AlignCenter  HorizontalAlignment = "center"
	AlignRight   HorizontalAlignment = "right"
	AlignFill    HorizontalAlignment = "fill"
	AlignJustify HorizontalAlignment = "justify"
)

type VerticalAlignment string

const (
	AlignTop    VerticalAlignment = "top"
	AlignMiddle VerticalAlignment = "center"
	AlignBottom VerticalAlignment = "bottom"
)

// BorderStyle values are the ST_BorderStyle names of ECMA-376.
type BorderStyle string

const (
	BorderNone         BorderStyle = ""
	BorderThin         BorderStyle = "thin"
	BorderMedium       BorderStyle = "medium"
	BorderThick        BorderStyle = "thick"
	BorderDashed       BorderStyle = "dashed"
	BorderMediumDashed BorderStyle = "mediumDashed"
	BorderDotted       BorderStyle = "dotted"
	BorderDouble       BorderStyle = "double"
	BorderHair         BorderStyle = "hair"
)

type BorderEdge struct {
	Style BorderStyle `yaml:"style"`
	Color string      `yaml:"color,omitempty"` // ARGB or RGB, empty for automatic
}

type Border struct {
	Left   BorderEdge `yaml:"left,omitempty"`
	Right  BorderEdge `yaml:"right,omitempty"`
	Top    BorderEdge `yaml:"top,omitempty"`
	Bottom BorderEdge `yaml:"bottom,omitempty"`
}

// NewBorder applies the same edge to all four sides.
func NewBorder(style BorderStyle, color string) *Border {
	e := BorderEdge{Style: style, Color: color}
	return &Border{Left: e, Right: e, Top: e, Bottom: e}
}

func NewStyle() *Style {
	return &Style{}
}

func ptr[T any](v T) *T {
	return &v
}

func (s *Style) SetFontName(name string) *Style {
	s.FontName = &name
	return s
}

func (s *Style) SetFontSize(size float64) *Style {
	s.FontSize = &size
	return s
}

func (s *Style) SetFontColor(argb string) *Style {
	s.FontColor = &argb
	return s
}

func (s *Style) SetFontBold() *Style {
	s.Bold = ptr(true)
	return s
}

func (s *Style) SetFontItalic() *Style {
	s.Italic = ptr(true)
	return s
}

func (s *Style) SetFontStrikethrough() *Style {
	s.Strikethrough = ptr(true)
	return s
}

func (s *Style) SetShouldWrapText(v bool) *Style {
	s.WrapText = &v
	return s
}

func (s *Style) SetShrinkToFit(v bool) *Style {
	s.ShrinkToFit = &v
	return s
}

func (s *Style) SetBackgroundColor(c string) *Style {
	s.BackgroundColor = &c
	return s
}

func (s *Style) SetNumberFormat(code string) *Style {
	s.NumberFormat = &code
	return s
}

func (s *Style) SetBorder(b *Border) *Style {
	s.Border = b
	return s
}

func (s *Style) SetHeight(h float64) *Style {
	s.Height = &h
	return s
}

func (s *Style) SetFontUnderline(u UnderlineType) *Style {
	if u == UnderlineNone {
		u = UnderlineSingle
	}
	s.Underline = &u
	return s
}

func (s *Style) SetHorizontalAlign(a HorizontalAlignment) *Style {
	s.HorizontalAlign = &a
	return s
}

func (s *Style) SetVerticalAlign(a VerticalAlignment) *Style {
	s.VerticalAlign = &a
	return s
}

// Clone returns a shallow copy; field values are shared, which is safe since
// the writer never mutates through them.
func (s *Style) Clone() *Style {
	if s == nil {
		return &Style{}
	}
	c := *s
	return &c
}

// Merge returns a new style holding every field set on s, with the fields s
// leaves unset taken from base. Neither s nor base is modified.
func (s *Style) Merge(base *Style) *Style {
	m := s.Clone()
	if base == nil {
		return m
	}
	fill(&m.FontName, base.FontName)
	fill(&m.FontSize, base.FontSize)
	fill(&m.FontColor, base.FontColor)
	fill(&m.Bold, base.Bold)
	fill(&m.Italic, base.Italic)
	fill(&m.Underline, base.Underline)
	fill(&m.Strikethrough, base.Strikethrough)
	fill(&m.WrapText, base.WrapText)
	fill(&m.ShrinkToFit, base.ShrinkToFit)
	fill(&m.HorizontalAlign, base.HorizontalAlign)
	fill(&m.VerticalAlign, base.VerticalAlign)
	fill(&m.BackgroundColor, base.BackgroundColor)
	fill(&m.NumberFormat, base.NumberFormat)
	fill(&m.Border, base.Border)
	fill(&m.Height, base.Height)
	return m
}

func fill[T any](dst **T, src *T) {
	if *dst == nil {
		*dst = src
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// builtinDefaultStyle is the base every session default is merged over.
func builtinDefaultStyle() *Style {
	return &Style{
		FontName:  ptr(DefaultFontName),
		FontSize:  ptr(DefaultFontSize),
		FontColor: ptr(DefaultFontColor),
	}
}

// font returns the resolved font of a style whose font fields are all set.
func (s *Style) font() Font {
	f := Font{
		Name:          deref(s.FontName),
		Size:          deref(s.FontSize),
		Color:         normalizeColor(deref(s.FontColor)),
		Bold:          deref(s.Bold),
		Italic:        deref(s.Italic),
		Underline:     deref(s.Underline),
		Strikethrough: deref(s.Strikethrough),
	}
	if f.Name == "" {
		f.Name = DefaultFontName
	}
	if f.Size <= 0 {
		f.Size = DefaultFontSize
	}
	if f.Color == "" {
		f.Color = DefaultFontColor
	}
	return f
}
