package rotee

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/vext01/rotee/internal/file"
	"github.com/vext01/rotee/internal/sigblock"
)

// createOutput opens a fresh, truncated output file at index 0.
func createOutput(cfg Config) (*file.File, error) {
	path := outputPath(cfg.FilePrefix, 0)
	f, err := file.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(cfg.FileMode))
	if err != nil {
		return nil, fmt.Errorf("rotee: failed to create %s: %w", path, err)
	}
	return f, nil
}

// rotate closes the filled-up file, shifts the window one slot up and hands
// back a fresh index-0 file. The whole sequence runs with termination
// signals deferred: a kill landing between the close and the create would
// otherwise leave the window without a current file.
func rotate(cfg Config, old *file.File) (*file.File, error) {
	mask := sigblock.Block()
	defer mask.Restore()

	if err := old.Close(); err != nil {
		// The bytes already reached the file; a close error does not make
		// the shift any less safe.
		log.Warnf("closing %s: %v", old.Name(), err)
	}
	if err := shiftWindow(cfg); err != nil {
		return nil, err
	}
	f, err := createOutput(cfg)
	if err != nil {
		return nil, err
	}
	log.Debugf("rotated, writing to %s", f.Name())
	return f, nil
}

// shiftWindow renames {prefix}i to {prefix}i+1 for every index that exists,
// walking from NumFiles-2 down to 0. The downward order is the invariant
// that makes the shift safe: each rename target has either just been vacated
// by the previous iteration or holds the file being evicted, so no retained
// file is ever overwritten. Walking upward would clobber the whole window.
//
//	e.g. prefix "log.", NumFiles 4
//	- log.2 > log.3 (evicts old log.3) | log.1 > log.2 | log.0 > log.1
//	- log.2 > log.3                    |               | log.0 > log.1
//	-                                  | log.1 > log.2 | log.0 > log.1
func shiftWindow(cfg Config) error {
	for i := cfg.NumFiles - 2; i >= 0; i-- {
		oldPath := outputPath(cfg.FilePrefix, i)
		if _, err := os.Stat(oldPath); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("rotee: failed to stat %s: %w", oldPath, err)
		}
		newPath := outputPath(cfg.FilePrefix, i+1)
		if err := os.Rename(oldPath, newPath); err != nil {
			return fmt.Errorf("rotee: failed to rename %s to %s: %w", oldPath, newPath, err)
		}
	}
	return nil
}
