package zipclean

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/sirupsen/logrus"
)

// Entry is one archive member held in memory while an archive is rewritten.
type Entry struct {
	Name     string
	Data     []byte
	Modified time.Time
}

// IsDir reports whether the entry is a directory marker.
func (e Entry) IsDir() bool {
	return isDirName(e.Name)
}

func isDirName(name string) bool {
	return strings.HasSuffix(name, "/")
}

func deflateCompressor(w io.Writer) (io.WriteCloser, error) {
	return flate.NewWriter(w, flate.DefaultCompression)
}

func deflateDecompressor(r io.Reader) io.ReadCloser {
	return flate.NewReader(r)
}

// openArchive opens a ZIP file for reading. Any failure to parse the
// container is reported as ErrInvalidArchive.
func openArchive(path string) (*zip.ReadCloser, error) {
	r, err := zip.OpenReader(path)
	if errors.Is(err, zip.ErrInsecurePath) && r != nil {
		// entry names are sanitized and confined before anything is written
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}
	r.RegisterDecompressor(zip.Deflate, deflateDecompressor)
	return r, nil
}

func newArchiveWriter(w io.Writer) *zip.Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, deflateCompressor)
	return zw
}

// readEntry returns the decompressed content of an archive member.
func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// addEntry stores content under name. Directory markers are stored without
// data and r is not read.
func addEntry(zw *zip.Writer, name string, modified time.Time, r io.Reader) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	}
	if isDirName(name) {
		header.Method = zip.Store
		_, err := zw.CreateHeader(header)
		return err
	}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, r)
	return err
}

// WriteArchive writes entries to w as a ZIP archive, in order.
func WriteArchive(w io.Writer, entries []Entry) error {
	zw := newArchiveWriter(w)
	for _, e := range entries {
		var r io.Reader
		if !e.IsDir() {
			r = bytes.NewReader(e.Data)
		}
		if err := addEntry(zw, e.Name, e.Modified, r); err != nil {
			_ = zw.Close()
			return err
		}
	}
	return zw.Close()
}

// closeWithLog closes c and logs any error with the given context.
func closeWithLog(log logrus.FieldLogger, c io.Closer, context string) {
	if err := c.Close(); err != nil {
		log.WithError(err).Errorf("Error closing %s", context)
	}
}
