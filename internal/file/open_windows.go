package file

import (
	"os"

	"github.com/kei2100/filesharedelete"
)

// Rotation renames files that a reader may still hold open. Opening with
// delete/rename sharing enabled lets those renames go through.
func openFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return filesharedelete.OpenFile(name, flag, perm)
}
