// Package imagestore holds uploaded retinal images for the duration of a
// single request. A stored image is owned by exactly one request and is
// removed via Release on every exit path once inference has consumed it.
package imagestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNoFile         = errors.New("no image file provided")
	ErrTooLarge       = errors.New("image exceeds maximum allowed size")
	ErrContentType    = errors.New("content type is not an accepted image type")
	ErrAlreadyRelease = errors.New("image already released")
)

// AllowedContentTypes lists the accepted upload MIME types.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// StoredImage is a transient on-disk upload. It must be released exactly
// once; Release is idempotent so deferring it on every path is safe.
type StoredImage struct {
	ID   string // opaque image identifier derived from the stored filename
	Path string
	Size int64

	once     sync.Once
	released bool
}

// Bytes reads the full image content from disk.
func (img *StoredImage) Bytes() ([]byte, error) {
	if img.released {
		return nil, ErrAlreadyRelease
	}
	data, err := os.ReadFile(img.Path)
	if err != nil {
		return nil, fmt.Errorf("read stored image: %w", err)
	}
	return data, nil
}

// Release removes the stored file. Safe to call more than once; only the
// first call removes anything.
func (img *StoredImage) Release() error {
	var err error
	img.once.Do(func() {
		img.released = true
		if rmErr := os.Remove(img.Path); rmErr != nil && !os.IsNotExist(rmErr) {
			err = fmt.Errorf("remove stored image: %w", rmErr)
		}
	})
	return err
}

// DiskStore writes uploads into a directory with size and MIME validation.
type DiskStore struct {
	dir      string
	maxBytes int64
}

// NewDiskStore creates the upload directory if needed and returns a store
// that rejects files larger than maxBytes.
func NewDiskStore(dir string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
	}
	return &DiskStore{dir: dir, maxBytes: maxBytes}, nil
}

// Save validates and writes one upload to disk, assigning it a unique image
// identifier. The caller owns the returned StoredImage and must Release it.
func (s *DiskStore) Save(filename, contentType string, content io.Reader) (*StoredImage, error) {
	if filename == "" || content == nil {
		return nil, ErrNoFile
	}
	if !AllowedContentTypes[contentType] {
		return nil, fmt.Errorf("%w: %s", ErrContentType, contentType)
	}

	id := uuid.New().String()
	ext := filepath.Ext(filename)
	path := filepath.Join(s.dir, id+ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(content, s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write upload: %w", err)
	}
	if n > s.maxBytes {
		os.Remove(path)
		return nil, ErrTooLarge
	}

	return &StoredImage{ID: id, Path: path, Size: n}, nil
}
