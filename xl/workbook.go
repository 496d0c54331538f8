package xl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adnsv/srw/xml"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
)

// Writer streams rows into an XLSX workbook. Rows are appended to the
// current sheet and written to disk as they arrive; Close assembles the
// package and copies it to the output.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	opts *Options
	log  logrus.FieldLogger
	cfg  xml.WriterConfig

	out     io.Writer
	file    *os.File // opened by OpenFile
	session *DirStorage
	pkg     *DirStorage
	parts   *packageWriter
	styles  *StyleRegistry
	strings *SharedStrings

	worksheets []*worksheet
	current    *worksheet
	names      map[string]*Sheet // case-folded name
	fold       cases.Caser

	opened bool
	closed bool
}

// NewWriter creates a writer. A nil opts uses DefaultOptions.
func NewWriter(opts *Options) *Writer {
	if opts == nil {
		opts = DefaultOptions()
	}
	w := &Writer{
		opts:  opts,
		log:   opts.logger(),
		names: map[string]*Sheet{},
		fold:  cases.Fold(),
	}
	if !opts.CompactOutput {
		w.cfg = xml.WriterConfig{Indent: xml.Indent2Spaces}
	}
	return w
}

// Open starts a session writing to out and makes a first sheet current.
func (w *Writer) Open(out io.Writer) error {
	if w.opened {
		return ErrWriterAlreadyOpened.New()
	}

	session, err := newSessionStorage(w.opts.TempFolder)
	if err != nil {
		return err
	}
	pkg, err := session.Sub("package")
	if err != nil {
		session.RemoveAll()
		return err
	}

	w.session = session
	w.pkg = pkg
	w.out = out
	w.opened = true
	w.log.WithField("folder", session.Dir).Debug("xlsx session started")

	if err = w.init(); err != nil {
		w.closed = true
		w.cleanup()
		return err
	}
	return nil
}

func (w *Writer) init() error {
	w.parts = newPackageWriter(w.pkg, w.cfg)
	if err := w.parts.writeFixedParts(w.opts.appName(), time.Now()); err != nil {
		return err
	}

	w.styles = NewStyleRegistry(w.opts.DefaultRowStyle)

	if !w.opts.UseInlineStrings {
		ss, err := NewSharedStrings(w.session, w.pkg, w.cfg)
		if err != nil {
			return err
		}
		w.strings = ss
	}

	_, err := w.AddNewSheet()
	return err
}

// OpenFile starts a session writing to the file at path, which is created
// or truncated. The file is closed by Close and removed by Abort.
func (w *Writer) OpenFile(path string) error {
	if w.opened {
		return ErrWriterAlreadyOpened.New()
	}
	f, err := os.Create(path)
	if err != nil {
		return ErrIO.Wrap(err, "create", path)
	}
	if err = w.Open(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	w.file = f
	return nil
}

func (w *Writer) checkOpen() error {
	if !w.opened || w.closed {
		return ErrWriterNotOpened.New()
	}
	return nil
}

// AddRow appends a row to the current sheet. When the sheet is full, a new
// sheet is started if the options allow it; otherwise ErrMaxRowsReached is
// returned.
func (w *Writer) AddRow(row *Row) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if limit := w.opts.maxRows(); w.current.lastRow >= limit {
		if !w.opts.ShouldCreateNewSheetsAutomatically {
			return ErrMaxRowsReached.New(w.current.sheet.Name, limit)
		}
		if _, err := w.AddNewSheet(); err != nil {
			return err
		}
	}
	return w.current.addRow(row)
}

// AddRows appends rows in order, stopping at the first error.
func (w *Writer) AddRows(rows []*Row) error {
	for _, row := range rows {
		if err := w.AddRow(row); err != nil {
			return err
		}
	}
	return nil
}

// AddNewSheet creates a sheet with the next free default name ("Sheet1",
// "Sheet2", ...) and makes it current.
func (w *Writer) AddNewSheet() (*Sheet, error) {
	if err := w.checkOpen(); err != nil {
		return nil, err
	}
	n := len(w.worksheets) + 1
	name := fmt.Sprintf("Sheet%d", n)
	for w.names[w.fold.String(name)] != nil {
		n++
		name = fmt.Sprintf("Sheet%d", n)
	}
	return w.AddSheet(name)
}

// AddSheet creates a named sheet and makes it current.
func (w *Writer) AddSheet(name string) (*Sheet, error) {
	if err := w.checkOpen(); err != nil {
		return nil, err
	}
	if err := w.checkSheetName(name, nil); err != nil {
		return nil, err
	}

	sheet := newSheet(w, len(w.worksheets), name)
	ws := &worksheet{
		sheet:         sheet,
		id:            len(w.worksheets) + 1,
		styles:        w.styles,
		strings:       w.strings,
		cfg:           w.cfg,
		scratch:       w.session,
		pkg:           w.pkg,
		log:           w.log,
		strictAuthors: w.opts.StrictCommentAuthors,
	}
	if err := ws.start(); err != nil {
		return nil, err
	}

	w.worksheets = append(w.worksheets, ws)
	w.names[w.fold.String(name)] = sheet
	w.current = ws
	return sheet, nil
}

// SetCurrentSheet makes a sheet of this workbook the target of AddRow.
func (w *Writer) SetCurrentSheet(s *Sheet) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	ws := w.worksheetFor(s)
	if ws == nil {
		name := ""
		if s != nil {
			name = s.Name
		}
		return ErrSheetNotFound.New(name)
	}
	w.current = ws
	return nil
}

func (w *Writer) CurrentSheet() (*Sheet, error) {
	if err := w.checkOpen(); err != nil {
		return nil, err
	}
	return w.current.sheet, nil
}

// Sheets returns the sheets in workbook order.
func (w *Writer) Sheets() []*Sheet {
	sheets := make([]*Sheet, len(w.worksheets))
	for i, ws := range w.worksheets {
		sheets[i] = ws.sheet
	}
	return sheets
}

func (w *Writer) worksheetFor(s *Sheet) *worksheet {
	if s == nil || s.writer != w {
		return nil
	}
	for _, ws := range w.worksheets {
		if ws.sheet == s {
			return ws
		}
	}
	return nil
}

// checkSheetName validates name for sheet s (nil for a new sheet).
func (w *Writer) checkSheetName(name string, s *Sheet) error {
	if err := validateSheetName(name); err != nil {
		return err
	}
	key := w.fold.String(name)
	if other, exists := w.names[key]; exists && other != s {
		return ErrInvalidSheetName.New(name, "the sheet name must be unique within the workbook")
	}
	if s != nil {
		delete(w.names, w.fold.String(s.Name))
		w.names[key] = s
	}
	return nil
}

func validateSheetName(s string) error {
	if !utf8.ValidString(s) {
		return ErrInvalidSheetName.New(s, "the sheet name is not valid UTF-8")
	}
	n := utf8.RuneCountInString(s)
	if n == 0 || strings.TrimSpace(s) == "" {
		return ErrInvalidSheetName.New(s, "empty sheet name is not allowed")
	} else if n > 31 {
		return ErrInvalidSheetName.New(s, "the sheet name is too long")
	}
	if strings.HasPrefix(s, "'") || strings.HasSuffix(s, "'") {
		return ErrInvalidSheetName.New(s, "the first or last character of the sheet name can not be a single quote")
	}
	if strings.ContainsAny(s, ":\\/?*[]") {
		return ErrInvalidSheetName.New(s, "the sheet can not contain any of the characters :\\/?*[]")
	}
	return nil
}

// Close finishes every sheet, assembles the package and writes it to the
// output. The session folder is removed and a file opened by OpenFile is
// closed whether or not Close succeeds. Closing twice is a no-op.
func (w *Writer) Close() error {
	if !w.opened || w.closed {
		return nil
	}
	w.closed = true
	defer w.cleanup()

	err := w.finish()
	if w.file != nil {
		if cerr := w.file.Close(); cerr != nil && err == nil {
			err = ErrIO.Wrap(cerr, "close", w.file.Name())
		}
		w.file = nil
	}
	return err
}

func (w *Writer) finish() error {
	for _, ws := range w.worksheets {
		if err := ws.close(); err != nil {
			return err
		}
		w.parts.addWorksheet(ws)
	}

	if err := w.parts.writeStyles(w.styles); err != nil {
		return err
	}
	if w.strings != nil {
		if err := w.strings.Close(); err != nil {
			return err
		}
		w.parts.addSharedStrings()
	}
	if err := w.parts.writeWorkbook(w.worksheets); err != nil {
		return err
	}
	if err := w.parts.writeWorkbookRels(); err != nil {
		return err
	}
	if err := w.parts.writeContentTypes(); err != nil {
		return err
	}
	return w.writeArchive()
}

// writeArchive zips the package into the session folder, then copies the
// archive to the output.
func (w *Writer) writeArchive() error {
	const name = "package.zip"

	f, err := w.session.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	zs := NewZipStorage(bw)
	for _, part := range leadingParts {
		if err = zs.AddFile(w.pkg, part); err != nil {
			return err
		}
	}
	if err = zs.AddFolder(w.pkg); err != nil {
		return err
	}
	if err = zs.Close(); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return ErrIO.Wrap(err, "write", f.Name())
	}

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return ErrIO.Wrap(err, "read", f.Name())
	}
	n, err := io.Copy(w.out, f)
	if err != nil {
		return ErrIO.Wrap(err, "stream", "archive")
	}
	w.log.WithField("size", humanize.Bytes(uint64(n))).Debug("xlsx archive written")
	return nil
}

// Abort discards the session: rows written so far are dropped, the session
// folder is removed and a file opened by OpenFile is deleted.
func (w *Writer) Abort() {
	if !w.opened || w.closed {
		return
	}
	w.closed = true
	w.cleanup()
	if w.file != nil {
		w.file.Close()
		os.Remove(w.file.Name())
		w.file = nil
	}
}

func (w *Writer) cleanup() {
	for _, ws := range w.worksheets {
		ws.discard()
	}
	if w.strings != nil {
		w.strings.discard()
	}
	if w.session == nil {
		return
	}
	if err := w.session.RemoveAll(); err != nil {
		w.log.WithError(err).Warn("unable to remove xlsx session folder")
		return
	}
	w.log.WithField("folder", w.session.Dir).Debug("xlsx session removed")
	w.session = nil
}
