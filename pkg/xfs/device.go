package xfs

import (
	"os"

	"github.com/pkg/errors"
)

// Device is the external read capability this package is built against:
// a positioned read of an exact byte count from an absolute offset. It
// never returns a short read; a device unable to serve the full length
// must fail instead. Implementations must tolerate concurrent calls from
// distinct goroutines with no implied ordering between them.
type Device interface {
	ReadAt(offset, length uint64) ([]byte, error)
}

// FileDevice is the batteries-included Device backed by a *os.File (a
// raw block device node or a plain image file). os.File.ReadAt is
// already safe under concurrent positional reads, so no locking is
// needed here.
type FileDevice struct {
	f    *os.File
	name string
}

// Open opens path as a FileDevice. The caller is responsible for
// calling Close when done.
func Open(path string) (*FileDevice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return &FileDevice{f: f, name: path}, nil
}

// ReadAt implements Device.
func (d *FileDevice) ReadAt(offset, length uint64) ([]byte, error) {
	buf := make([]byte, length)
	n, err := d.f.ReadAt(buf, int64(offset))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: read %d bytes at %d", d.name, length, offset)
	}
	if uint64(n) != length {
		return nil, errors.Errorf("%s: short read at %d: got %d of %d bytes", d.name, offset, n, length)
	}
	return buf, nil
}

// Close closes the underlying file.
func (d *FileDevice) Close() error {
	return d.f.Close()
}
