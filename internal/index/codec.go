// ABOUTME: Binary persistence for the flat index using bintly and afs
// ABOUTME: Payload is followed by a HighwayHash checksum verified on load
package index

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/docqa/internal/util"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/bintly"
)

// ErrIndexCorrupt is returned when a persisted index fails validation
var ErrIndexCorrupt = errors.New("index file is corrupt")

const (
	magic         = "DOCQA-FLAT-L2"
	formatVersion = 1
	checksumSize  = 8
)

var fs = afs.New()

// Encode serializes the index. The trailing 8 bytes are a big-endian checksum of the rest.
func (f *Flat) Encode() ([]byte, error) {
	writers := bintly.NewWriters()
	w := writers.Get()
	defer writers.Put(w)

	w.String(magic)
	w.Int(formatVersion)
	w.Int(f.dim)
	w.Int(f.rows)
	for _, v := range f.data {
		w.Float32(v)
	}
	payload := append([]byte(nil), w.Bytes()...)

	sum, err := util.Hash64(payload)
	if err != nil {
		return nil, err
	}
	return binary.BigEndian.AppendUint64(payload, sum), nil
}

// Decode parses bytes produced by Encode
func Decode(data []byte) (idx *Flat, err error) {
	if len(data) < checksumSize {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrIndexCorrupt, len(data))
	}
	payload, trailer := data[:len(data)-checksumSize], data[len(data)-checksumSize:]
	sum, err := util.Hash64(payload)
	if err != nil {
		return nil, err
	}
	if sum != binary.BigEndian.Uint64(trailer) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrIndexCorrupt)
	}

	// bintly panics on short reads
	defer func() {
		if r := recover(); r != nil {
			idx, err = nil, fmt.Errorf("%w: %v", ErrIndexCorrupt, r)
		}
	}()

	readers := bintly.NewReaders()
	r := readers.Get()
	defer readers.Put(r)
	if err := r.FromBytes(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexCorrupt, err)
	}

	var (
		gotMagic  string
		version   int
		dim, rows int
	)
	r.String(&gotMagic)
	if gotMagic != magic {
		return nil, fmt.Errorf("%w: unexpected header %q", ErrIndexCorrupt, gotMagic)
	}
	r.Int(&version)
	if version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrIndexCorrupt, version)
	}
	r.Int(&dim)
	r.Int(&rows)
	if dim < 0 || rows < 0 || (rows > 0 && dim == 0) {
		return nil, fmt.Errorf("%w: invalid shape %dx%d", ErrIndexCorrupt, rows, dim)
	}

	values := make([]float32, dim*rows)
	for i := range values {
		r.Float32(&values[i])
	}
	return &Flat{dim: dim, rows: rows, data: values}, nil
}

// Checksum returns the hex checksum of the encoded index, as recorded in the manifest
func (f *Flat) Checksum() (string, error) {
	data, err := f.Encode()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", binary.BigEndian.Uint64(data[len(data)-checksumSize:])), nil
}

// Persist writes the encoded index to URL and returns its checksum
func (f *Flat) Persist(ctx context.Context, URL string) (string, error) {
	data, err := f.Encode()
	if err != nil {
		return "", fmt.Errorf("encoding index: %w", err)
	}
	if err := ensureLocalDir(URL); err != nil {
		return "", err
	}
	if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("writing index %s: %w", URL, err)
	}
	return fmt.Sprintf("%016x", binary.BigEndian.Uint64(data[len(data)-checksumSize:])), nil
}

// Load reads an index written by Persist
func Load(ctx context.Context, URL string) (*Flat, error) {
	exists, err := fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("checking index %s: %w", URL, err)
	}
	if !exists {
		return nil, fmt.Errorf("index %s not found: %w", URL, os.ErrNotExist)
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("reading index %s: %w", URL, err)
	}
	idx, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("loading index %s: %w", URL, err)
	}
	return idx, nil
}

// ensureLocalDir creates the parent directory of plain filesystem paths
func ensureLocalDir(URL string) error {
	if strings.Contains(URL, "://") {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(URL), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", URL, err)
	}
	return nil
}
