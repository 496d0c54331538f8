package xl

import (
	"bytes"
	"fmt"
	"slices"
	"time"

	"github.com/adnsv/srw/xml"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

// Content types of the package parts.
const (
	ctRelationships  = "application/vnd.openxmlformats-package.relationships+xml"
	ctWorkbook       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ctWorksheet      = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	ctStyles         = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	ctSharedStrings  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	ctComments       = "application/vnd.openxmlformats-officedocument.spreadsheetml.comments+xml"
	ctVMLDrawing     = "application/vnd.openxmlformats-officedocument.vmlDrawing"
	ctCoreProperties = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtProperties  = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

// Relationship types.
const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProperties = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtProperties  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relWorksheet      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relSharedStrings  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
)

// Parts added to the archive ahead of the rest of the package, in this order.
var leadingParts = []string{
	"[Content_Types].xml",
	"xl/workbook.xml",
	"xl/styles.xml",
}

// packageWriter writes the package-level parts (properties, workbook,
// relationships and content types) and records what each part needs in
// the relationship and content-type tables.
type packageWriter struct {
	out *DirStorage
	cfg xml.WriterConfig

	GlobalRels          map[string]RelInfo // maps id to package-relative target
	WorkbookRels        map[string]RelInfo // maps id to workbook-relative target
	DefaultContentTypes map[string]string  // maps path extension to content-type
	PartContentTypes    map[string]string  // maps path partname to content-type
}

type RelInfo struct {
	Type   string // url to schema type
	Target string // relative path
}

func newPackageWriter(s *DirStorage, cfg xml.WriterConfig) *packageWriter {
	w := &packageWriter{
		out:                 s,
		cfg:                 cfg,
		GlobalRels:          map[string]RelInfo{},
		WorkbookRels:        map[string]RelInfo{},
		DefaultContentTypes: map[string]string{},
		PartContentTypes:    map[string]string{},
	}

	w.DefaultContentTypes["xml"] = "application/xml"
	w.DefaultContentTypes["rels"] = ctRelationships
	w.DefaultContentTypes["vml"] = ctVMLDrawing

	return w
}

// writeFixedParts writes the parts known when the session opens: the
// document properties and the package relationships.
func (w *packageWriter) writeFixedParts(appName string, now time.Time) error {
	w.PartContentTypes["/xl/workbook.xml"] = ctWorkbook
	w.GlobalRels["rIdWorkbook"] = RelInfo{Type: relOfficeDocument, Target: "xl/workbook.xml"}

	err := w.writeCoreProperties(now)
	if err != nil {
		return err
	}
	err = w.writeExtendedProperties(appName)
	if err != nil {
		return err
	}
	return writeRels(w.out, "/_rels/.rels", w.GlobalRels, w.cfg)
}

func (w *packageWriter) writeCoreProperties(now time.Time) error {
	relpath := "docProps/core.xml"
	abspath := "/" + relpath

	w.PartContentTypes[abspath] = ctCoreProperties
	w.GlobalRels["rIdCore"] = RelInfo{
		Type:   relCoreProperties,
		Target: relpath,
	}

	stamp := now.UTC().Format(time.RFC3339)

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, w.cfg)

	x.XmlStandaloneDecl()
	x.OTag("cp:coreProperties")
	x.Attr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	x.Attr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	x.Attr("xmlns:dcterms", "http://purl.org/dc/terms/")
	x.Attr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	x.Attr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	x.OTag("+dcterms:created")
	x.Attr("xsi:type", "dcterms:W3CDTF")
	x.Write(stamp)
	x.CTag()

	x.OTag("+dcterms:modified")
	x.Attr("xsi:type", "dcterms:W3CDTF")
	x.Write(stamp)
	x.CTag()

	x.OTag("+cp:revision").String("0").CTag()

	x.CTag()

	return w.out.WriteBlob(abspath, bb.Bytes())
}

func (w *packageWriter) writeExtendedProperties(appname string) error {
	relpath := "docProps/app.xml"
	abspath := "/" + relpath

	w.PartContentTypes[abspath] = ctExtProperties
	w.GlobalRels["rIdApp"] = RelInfo{
		Type:   relExtProperties,
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, w.cfg)
	x.XmlStandaloneDecl()

	x.OTag("Properties")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	x.Attr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")

	if appname != "" {
		x.OTag("+Application").String(appname).CTag()
	}
	x.OTag("+TotalTime").String("0").CTag()

	x.CTag()

	return w.out.WriteBlob(abspath, bb.Bytes())
}

func (w *packageWriter) writeStyles(reg *StyleRegistry) error {
	relpath := "styles.xml"
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = ctStyles
	w.WorkbookRels["rIdStyles"] = RelInfo{
		Type:   relStyles,
		Target: relpath,
	}

	return w.out.WriteBlob(abspath, reg.stylesXML(w.cfg))
}

// addSharedStrings records the shared strings part, which SharedStrings
// writes on its own.
func (w *packageWriter) addSharedStrings() {
	w.PartContentTypes["/"+sharedStringsPart] = ctSharedStrings
	w.WorkbookRels["rIdSharedStrings"] = RelInfo{
		Type:   relSharedStrings,
		Target: "sharedStrings.xml",
	}
}

func sheetRelID(id int) string {
	return fmt.Sprintf("rIdSheet%d", id)
}

// addWorksheet records the parts written by a closed worksheet.
func (w *packageWriter) addWorksheet(ws *worksheet) {
	w.PartContentTypes["/"+ws.partName()] = ctWorksheet
	w.WorkbookRels[sheetRelID(ws.id)] = RelInfo{
		Type:   relWorksheet,
		Target: fmt.Sprintf("worksheets/sheet%d.xml", ws.id),
	}
	if len(ws.sheet.Comments) > 0 {
		w.PartContentTypes["/"+ws.commentsPart()] = ctComments
	}
}

func (w *packageWriter) writeWorkbook(worksheets []*worksheet) error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, w.cfg)
	x.XmlStandaloneDecl()

	x.OTag("workbook")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	x.OTag("+sheets")
	for _, ws := range worksheets {
		state := "visible"
		if !ws.sheet.Visible {
			state = "hidden"
		}
		x.OTag("+sheet")
		x.Attr("name", escapeControlChars(ws.sheet.Name))
		x.Attr("sheetId", ws.id)
		x.Attr("r:id", sheetRelID(ws.id))
		x.Attr("state", state)
		x.CTag()
	}
	x.CTag()

	x.OTag("+calcPr")
	x.Attr("calcId", "999999")
	x.Attr("calcMode", "auto")
	x.Attr("calcCompleted", "1")
	x.Attr("fullCalcOnLoad", "0")
	x.Attr("forceFullCalc", "0")
	x.CTag()

	x.CTag()

	return w.out.WriteBlob("/xl/workbook.xml", bb.Bytes())
}

func (w *packageWriter) writeWorkbookRels() error {
	return writeRels(w.out, "/xl/_rels/workbook.xml.rels", w.WorkbookRels, w.cfg)
}

func (w *packageWriter) writeContentTypes() error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, w.cfg)

	x.XmlStandaloneDecl()
	x.OTag("Types")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")
	enumerate(w.DefaultContentTypes, func(ext, ctype string) error {
		x.OTag("+Default").Attr("Extension", ext).Attr("ContentType", ctype).CTag()
		return nil
	})
	enumerate(w.PartContentTypes, func(abspath, ctype string) error {
		x.OTag("+Override").Attr("PartName", abspath).Attr("ContentType", ctype).CTag()
		return nil
	})

	x.CTag()

	return w.out.WriteBlob("[Content_Types].xml", bb.Bytes())
}

func writeRels(out *DirStorage, fn string, rels map[string]RelInfo, cfg xml.WriterConfig) error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, cfg)
	x.XmlStandaloneDecl()
	x.OTag("Relationships")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
	enumerate(rels, func(id string, r RelInfo) error {
		x.OTag("+Relationship").Attr("Id", id).Attr("Type", r.Type).Attr("Target", r.Target).CTag()
		return nil
	})
	x.CTag()
	return out.WriteBlob(fn, bb.Bytes())
}

// enumerate visits the entries of m in key order, stopping at the first error.
func enumerate[M ~map[K]V, K constraints.Ordered, V any](m M, callback func(k K, v V) error) error {
	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		if err := callback(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}
