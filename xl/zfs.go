package xl

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// DirStorage writes package parts to a directory structure on disk.
// The writer stages the whole package in a DirStorage before zipping it.
type DirStorage struct {
	Dir string // Root directory path
}

// NewDirStorage creates a directory-based storage rooted at dir. Folders are
// created as parts are written.
func NewDirStorage(dir string) *DirStorage {
	return &DirStorage{
		Dir: dir,
	}
}

// newSessionStorage creates a uniquely named working folder under parent
// (the system temp folder when empty).
func newSessionStorage(parent string) (*DirStorage, error) {
	if parent == "" {
		parent = os.TempDir()
	}
	dir := filepath.Join(parent, "xlsx"+uuid.NewString())
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, ErrIO.Wrap(err, "create folder", dir)
	}
	return NewDirStorage(dir), nil
}

// Path returns the file system path of a part.
func (ds *DirStorage) Path(path string) string {
	return filepath.Join(ds.Dir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
}

// Sub returns a storage rooted at a sub folder, creating it.
func (ds *DirStorage) Sub(path string) (*DirStorage, error) {
	fn := ds.Path(path)
	if err := os.MkdirAll(fn, 0777); err != nil {
		return nil, ErrIO.Wrap(err, "create folder", fn)
	}
	return NewDirStorage(fn), nil
}

// WriteBlob writes a file part to the directory structure.
// Creates any necessary parent directories automatically.
func (ds *DirStorage) WriteBlob(path string, blob []byte) error {
	fn := ds.Path(path)
	err := os.MkdirAll(filepath.Dir(fn), 0777)
	if err != nil {
		return ErrIO.Wrap(err, "create folder", filepath.Dir(fn))
	}
	if err = os.WriteFile(fn, blob, 0666); err != nil {
		return ErrIO.Wrap(err, "write", fn)
	}
	return nil
}

// Create opens a part for streaming, truncating any previous content.
func (ds *DirStorage) Create(path string) (*os.File, error) {
	fn := ds.Path(path)
	if err := os.MkdirAll(filepath.Dir(fn), 0777); err != nil {
		return nil, ErrIO.Wrap(err, "create folder", filepath.Dir(fn))
	}
	f, err := os.Create(fn)
	if err != nil {
		return nil, ErrIO.Wrap(err, "create", fn)
	}
	return f, nil
}

// AppendFile copies the content of the part at path to w.
func (ds *DirStorage) AppendFile(w io.Writer, path string) error {
	fn := ds.Path(path)
	f, err := os.Open(fn)
	if err != nil {
		return ErrIO.Wrap(err, "open", fn)
	}
	defer f.Close()
	if _, err = io.Copy(w, f); err != nil {
		return ErrIO.Wrap(err, "copy", fn)
	}
	return nil
}

func (ds *DirStorage) Remove(path string) error {
	fn := ds.Path(path)
	if err := os.Remove(fn); err != nil && !os.IsNotExist(err) {
		return ErrIO.Wrap(err, "remove", fn)
	}
	return nil
}

// RemoveAll deletes the storage folder and everything in it.
func (ds *DirStorage) RemoveAll() error {
	if err := os.RemoveAll(ds.Dir); err != nil {
		return ErrIO.Wrap(err, "remove folder", ds.Dir)
	}
	return nil
}

// ZipStorage writes package parts to a ZIP archive. Each entry is written at
// most once; later writes of an existing path are ignored.
type ZipStorage struct {
	z     *zip.Writer
	added map[string]bool
}

// NewZipStorage creates a new ZIP-based storage that writes to the given writer.
func NewZipStorage(out io.Writer) *ZipStorage {
	return &ZipStorage{z: zip.NewWriter(out), added: map[string]bool{}}
}

// AddFile copies the part at path of src into the archive.
func (zs *ZipStorage) AddFile(src *DirStorage, path string) error {
	path = strings.TrimPrefix(path, "/")
	if zs.added[path] {
		return nil
	}
	f, err := zs.z.CreateHeader(&zip.FileHeader{Name: path, Method: zip.Deflate})
	if err != nil {
		return ErrIO.Wrap(err, "add", path)
	}
	zs.added[path] = true
	return src.AppendFile(f, path)
}

// AddFolder adds every file of src in lexical path order, skipping the
// entries already in the archive.
func (zs *ZipStorage) AddFolder(src *DirStorage) error {
	var paths []string
	err := filepath.WalkDir(src.Dir, func(fn string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src.Dir, fn)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return ErrIO.Wrap(err, "read folder", src.Dir)
	}
	slices.Sort(paths)
	for _, p := range paths {
		if err := zs.AddFile(src, p); err != nil {
			return err
		}
	}
	return nil
}

// Close finalizes the ZIP archive. Must be called after all writes are complete.
// Failure to call Close will result in an invalid/corrupted Excel file.
func (zs *ZipStorage) Close() error {
	if err := zs.z.Close(); err != nil {
		return ErrIO.Wrap(err, "finalize", "archive")
	}
	return nil
}
