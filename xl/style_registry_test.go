package xl

import (
	"encoding/xml"
	"testing"
	"time"

	srw "github.com/adnsv/srw/xml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDeduplicates(t *testing.T) {
	reg := NewStyleRegistry(nil)
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, 0, reg.Register(nil))
	assert.Equal(t, 0, reg.Register(NewStyle()))

	// explicitly setting the default values is the default style
	assert.Equal(t, 0, reg.Register(NewStyle().SetFontName("Arial").SetFontSize(11)))

	bold := reg.Register(NewStyle().SetFontBold())
	assert.Equal(t, 1, bold)
	assert.Equal(t, bold, reg.Register(NewStyle().SetFontBold()))

	red := reg.Register(NewStyle().SetFontBold().SetFontColor("#ff0000"))
	assert.Equal(t, 2, red)
	assert.Equal(t, red, reg.Register(NewStyle().SetFontColor("FFFF0000").SetFontBold()))

	// height is a row property
	assert.Equal(t, bold, reg.Register(NewStyle().SetFontBold().SetHeight(30)))

	assert.Equal(t, 3, reg.Len())
	assert.True(t, reg.Font(bold).Bold)
	assert.Equal(t, "FFFF0000", reg.Font(red).Color)
	assert.True(t, deref(reg.Style(bold).Bold))
}

func TestRegistryDefaultStyle(t *testing.T) {
	reg := NewStyleRegistry(NewStyle().SetFontName("Calibri").SetFontSize(12))
	assert.Equal(t, "Calibri", reg.Font(0).Name)
	assert.Equal(t, 12.0, reg.Font(0).Size)
	assert.Equal(t, DefaultFontColor, reg.Font(0).Color)
	assert.Equal(t, "Calibri", deref(reg.DefaultStyle().FontName))

	assert.False(t, reg.ShouldRenderEmptyCell(0))
	assert.True(t, reg.ShouldRenderEmptyCell(reg.Register(NewStyle().SetBackgroundColor("FFFF00"))))
}

func TestMergeDoesNotMutate(t *testing.T) {
	cell := NewStyle().SetFontBold()
	row := NewStyle().SetFontItalic().SetFontBold()
	row.Bold = ptr(false)

	m := cell.Merge(row)
	assert.True(t, deref(m.Bold))
	assert.True(t, deref(m.Italic))
	assert.Nil(t, cell.Italic)
	assert.False(t, deref(row.Bold))

	var nilStyle *Style
	assert.True(t, deref(nilStyle.Merge(row).Italic))
}

func TestApplyExtraStyles(t *testing.T) {
	reg := NewStyleRegistry(nil)

	s := reg.applyExtraStyles(NewStringCell("one\ntwo"), NewStyle())
	assert.True(t, deref(s.WrapText))

	explicit := NewStyle().SetShouldWrapText(false)
	s = reg.applyExtraStyles(NewStringCell("one\ntwo"), explicit)
	assert.False(t, deref(s.WrapText))
	assert.Same(t, explicit, s)

	s = reg.applyExtraStyles(NewStringCell("single"), NewStyle())
	assert.Nil(t, s.WrapText)

	s = reg.applyExtraStyles(NewDateCell(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), NewStyle())
	assert.Equal(t, DateFormatCode, deref(s.NumberFormat))

	s = reg.applyExtraStyles(NewDateCell(time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)), NewStyle())
	assert.Equal(t, DateTimeFormatCode, deref(s.NumberFormat))

	s = reg.applyExtraStyles(NewDateCell(time.Now()), NewStyle().SetNumberFormat("d-mmm"))
	assert.Equal(t, "d-mmm", deref(s.NumberFormat))
}

type xStyleSheet struct {
	NumFmts struct {
		Count  int `xml:"count,attr"`
		NumFmt []struct {
			ID   int    `xml:"numFmtId,attr"`
			Code string `xml:"formatCode,attr"`
		} `xml:"numFmt"`
	} `xml:"numFmts"`
	Fonts struct {
		Count int `xml:"count,attr"`
		Font  []struct {
			B    *struct{} `xml:"b"`
			Name struct {
				Val string `xml:"val,attr"`
			} `xml:"name"`
		} `xml:"font"`
	} `xml:"fonts"`
	Fills struct {
		Count int `xml:"count,attr"`
		Fill  []struct {
			PatternFill struct {
				Type    string `xml:"patternType,attr"`
				FgColor struct {
					RGB string `xml:"rgb,attr"`
				} `xml:"fgColor"`
			} `xml:"patternFill"`
		} `xml:"fill"`
	} `xml:"fills"`
	Borders struct {
		Count  int `xml:"count,attr"`
		Border []struct {
			Left struct {
				Style string `xml:"style,attr"`
			} `xml:"left"`
		} `xml:"border"`
	} `xml:"borders"`
	CellXfs struct {
		Count int `xml:"count,attr"`
		Xf    []struct {
			NumFmtID  int `xml:"numFmtId,attr"`
			FontID    int `xml:"fontId,attr"`
			FillID    int `xml:"fillId,attr"`
			BorderID  int `xml:"borderId,attr"`
			Alignment *struct {
				Horizontal string `xml:"horizontal,attr"`
				WrapText   string `xml:"wrapText,attr"`
			} `xml:"alignment"`
		} `xml:"xf"`
	} `xml:"cellXfs"`
}

func TestStylesXML(t *testing.T) {
	reg := NewStyleRegistry(nil)
	bold := reg.Register(NewStyle().SetFontBold())
	yellow := reg.Register(NewStyle().SetBackgroundColor("FFFF00"))
	boldYellow := reg.Register(NewStyle().SetFontBold().SetBackgroundColor("#ffff00"))
	money := reg.Register(NewStyle().SetNumberFormat("#,##0.00 €"))
	twoDecimals := reg.Register(NewStyle().SetNumberFormat("0.00"))
	boxed := reg.Register(NewStyle().SetBorder(NewBorder(BorderThin, "000000")))
	centered := reg.Register(NewStyle().SetHorizontalAlign(AlignCenter).SetShouldWrapText(true))

	for _, cfg := range []srw.WriterConfig{{}, {Indent: srw.Indent2Spaces}} {
		var ss xStyleSheet
		require.NoError(t, xml.Unmarshal(reg.stylesXML(cfg), &ss))

		assert.Equal(t, 1, ss.NumFmts.Count)
		require.Len(t, ss.NumFmts.NumFmt, 1)
		assert.Equal(t, 164, ss.NumFmts.NumFmt[0].ID)
		assert.Equal(t, "#,##0.00 €", ss.NumFmts.NumFmt[0].Code)

		require.Len(t, ss.Fonts.Font, 2)
		assert.Equal(t, 2, ss.Fonts.Count)
		assert.Nil(t, ss.Fonts.Font[0].B)
		assert.NotNil(t, ss.Fonts.Font[1].B)
		assert.Equal(t, "Arial", ss.Fonts.Font[0].Name.Val)

		require.Len(t, ss.Fills.Fill, 3)
		assert.Equal(t, "none", ss.Fills.Fill[0].PatternFill.Type)
		assert.Equal(t, "gray125", ss.Fills.Fill[1].PatternFill.Type)
		assert.Equal(t, "solid", ss.Fills.Fill[2].PatternFill.Type)
		assert.Equal(t, "FFFFFF00", ss.Fills.Fill[2].PatternFill.FgColor.RGB)

		require.Len(t, ss.Borders.Border, 2)
		assert.Equal(t, "thin", ss.Borders.Border[1].Left.Style)

		xfs := ss.CellXfs.Xf
		require.Len(t, xfs, reg.Len())
		assert.Equal(t, reg.Len(), ss.CellXfs.Count)
		assert.Equal(t, 1, xfs[bold].FontID)
		assert.Equal(t, 2, xfs[yellow].FillID)
		assert.Equal(t, 0, xfs[yellow].FontID)
		assert.Equal(t, 1, xfs[boldYellow].FontID)
		assert.Equal(t, 2, xfs[boldYellow].FillID)
		assert.Equal(t, 164, xfs[money].NumFmtID)
		assert.Equal(t, 2, xfs[twoDecimals].NumFmtID)
		assert.Equal(t, 1, xfs[boxed].BorderID)
		assert.Nil(t, xfs[bold].Alignment)
		require.NotNil(t, xfs[centered].Alignment)
		assert.Equal(t, "center", xfs[centered].Alignment.Horizontal)
		assert.Equal(t, "1", xfs[centered].Alignment.WrapText)
	}
}
