// Package file opens the numbered output files and guards their handles
// against double-close. During a failed rotation the handle being retired may
// end up with two owners wanting to close it; only the first Close counts.
package file

import (
	"os"
	"sync"
)

// File is an output file whose Close is effective at most once.
type File struct {
	once sync.Once
	*os.File
}

// OpenFile opens the named file for writing stream data.
func OpenFile(name string, flag int, perm os.FileMode) (*File, error) {
	f, err := openFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &File{File: f}, nil
}

// Close closes the underlying file. Only the first call can report an error;
// later calls are no-ops.
func (f *File) Close() error {
	var err error
	f.once.Do(func() {
		err = f.File.Close()
	})
	return err
}
