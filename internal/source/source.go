// Package source turns caller-supplied files into data URLs.
package source

import (
	"bytes"
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ironsheep/image-resize-mcp/internal/dataurl"
)

// File is an opaque, read-only blob with a media type, the shape of a
// browser File object.
type File interface {
	// Name is the base name of the file, informational only.
	Name() string
	// Type is the declared MIME type. It may be empty.
	Type() string
	// Open returns a fresh reader over the whole content.
	Open() (io.ReadCloser, error)
}

// ReadAsDataURL reads f in full and returns it as a base64 data URL.
//
// No size or type validation happens here. When f declares no type the
// MIME type is sniffed from the content. Open and read failures are
// returned verbatim.
func ReadAsDataURL(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	typ := f.Type()
	if typ == "" {
		typ = mimetype.Detect(data).String()
	}
	return dataurl.Encode(typ, data), nil
}

// DiskFile is a File backed by a path on the local filesystem.
type DiskFile struct {
	path string
	typ  string
}

// Open returns a DiskFile for path. The type is derived from the extension,
// the way browsers fill File.type; unknown extensions leave it empty. The
// file itself is not touched until ReadAsDataURL opens it.
func Open(path string) *DiskFile {
	return &DiskFile{
		path: path,
		typ:  typeByExtension(filepath.Ext(path)),
	}
}

// Name is the base name of the path.
func (f *DiskFile) Name() string { return filepath.Base(f.path) }

// Type is the MIME type derived from the extension, or empty.
func (f *DiskFile) Type() string { return f.typ }

// Open opens the file for reading.
func (f *DiskFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// Blob is an in-memory File.
type Blob struct {
	name string
	typ  string
	data []byte
}

// NewBlob wraps data. The slice must not be modified afterwards.
func NewBlob(name, typ string, data []byte) *Blob {
	return &Blob{name: name, typ: typ, data: data}
}

// Name is the name given to NewBlob.
func (b *Blob) Name() string { return b.name }

// Type is the MIME type given to NewBlob.
func (b *Blob) Type() string { return b.typ }

// Open returns a reader over the blob's bytes.
func (b *Blob) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

// typeByExtension maps an extension to a MIME type without parameters.
func typeByExtension(ext string) string {
	if ext == "" {
		return ""
	}
	typ := mime.TypeByExtension(ext)
	if typ == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(typ); err == nil {
		return mt
	}
	return typ
}
