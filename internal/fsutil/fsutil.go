// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package fsutil provides the file writing discipline shared by the
// metadata store and the intermediate codec: writes go to a temporary
// file in the destination directory and are renamed into place, so
// readers observe either the old or the new whole file.
package fsutil

import (
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to path via temp file and rename.
// The destination directory is created if necessary.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err = os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
