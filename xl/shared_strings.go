package xl

import (
	"bufio"
	"bytes"
	"os"
	"strconv"

	"github.com/adnsv/srw/xml"
)

const (
	sharedStringsPart = "xl/sharedStrings.xml"
	sharedStringsBody = "sharedStrings.body"
)

// SharedStrings collects the distinct strings of a workbook. Each new string
// is appended as an <si> record to a scratch file, so memory holds only the
// index.
type SharedStrings struct {
	scratch *DirStorage
	pkg     *DirStorage
	cfg     xml.WriterConfig

	index  map[string]int
	count  int
	f      *os.File
	bw     *bufio.Writer
	closed bool
}

// NewSharedStrings stages the body in scratch; Close writes the final part
// into pkg.
func NewSharedStrings(scratch, pkg *DirStorage, cfg xml.WriterConfig) (*SharedStrings, error) {
	f, err := scratch.Create(sharedStringsBody)
	if err != nil {
		return nil, err
	}
	return &SharedStrings{
		scratch: scratch,
		pkg:     pkg,
		cfg:     cfg,
		index:   map[string]int{},
		f:       f,
		bw:      bufio.NewWriter(f),
	}, nil
}

// WriteString returns the index of text, recording it on first use.
func (ss *SharedStrings) WriteString(text string) (int, error) {
	if ss.closed {
		return 0, ErrWriterNotOpened.New()
	}
	ss.count++
	if i, ok := ss.index[text]; ok {
		return i, nil
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, ss.cfg)
	x.OTag("+si")
	x.OTag("t").Attr("xml:space", "preserve").String(escapeControlChars(text)).CTag()
	x.CTag()

	if _, err := ss.bw.Write(bb.Bytes()); err != nil {
		ss.count--
		return 0, ErrIO.Wrap(err, "write", ss.f.Name())
	}
	i := len(ss.index)
	ss.index[text] = i
	return i, nil
}

// Count is the number of references written so far.
func (ss *SharedStrings) Count() int { return ss.count }

// UniqueCount is the number of distinct strings.
func (ss *SharedStrings) UniqueCount() int { return len(ss.index) }

// Close assembles xl/sharedStrings.xml and removes the scratch body.
// Closing twice is a no-op.
func (ss *SharedStrings) Close() error {
	if ss.closed {
		return nil
	}
	ss.closed = true

	if err := ss.release(); err != nil {
		return err
	}

	out, err := ss.pkg.Create(sharedStringsPart)
	if err != nil {
		return err
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	w.WriteString(xmlHeader)
	w.WriteString(`<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="`)
	w.WriteString(strconv.Itoa(ss.count))
	w.WriteString(`" uniqueCount="`)
	w.WriteString(strconv.Itoa(len(ss.index)))
	w.WriteString(`">`)
	if err = ss.scratch.AppendFile(w, sharedStringsBody); err != nil {
		return err
	}
	w.WriteString("\n</sst>\n")
	if err = w.Flush(); err != nil {
		return ErrIO.Wrap(err, "write", out.Name())
	}
	if err = out.Close(); err != nil {
		return ErrIO.Wrap(err, "close", out.Name())
	}
	return ss.scratch.Remove(sharedStringsBody)
}

// release flushes and closes the scratch body.
func (ss *SharedStrings) release() error {
	if ss.f == nil {
		return nil
	}
	f := ss.f
	ss.f = nil
	if err := ss.bw.Flush(); err != nil {
		f.Close()
		return ErrIO.Wrap(err, "write", f.Name())
	}
	if err := f.Close(); err != nil {
		return ErrIO.Wrap(err, "close", f.Name())
	}
	return nil
}

// discard drops the strings without writing the part.
func (ss *SharedStrings) discard() {
	ss.closed = true
	ss.release()
	ss.scratch.Remove(sharedStringsBody)
}
