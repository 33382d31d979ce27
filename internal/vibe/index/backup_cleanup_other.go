//go:build !windows

package index

import (
	"errors"
	"os"
)

// removeBackup deletes a replaced snapshot directory.
func removeBackup(path string) error {
	err := os.RemoveAll(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
