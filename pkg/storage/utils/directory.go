package utils

import (
	"os"
	"path/filepath"
)

// Directory is a helper that hands out paths below a base directory and creates them on demand.
type Directory struct {
	path string
}

// NewDirectory creates a new Directory for the given path. If createIfMissing is set, the directory is created.
func NewDirectory(path string, createIfMissing ...bool) *Directory {
	d := &Directory{
		path: path,
	}

	if len(createIfMissing) > 0 && createIfMissing[0] {
		if err := os.MkdirAll(path, 0o700); err != nil {
			panic(err)
		}
	}

	return d
}

func (d *Directory) Path(relativePathElements ...string) string {
	return filepath.Join(append([]string{d.path}, relativePathElements...)...)
}

// PathWithCreate returns the path of the given child directory and creates it if it does not exist yet.
func (d *Directory) PathWithCreate(relativePathElements ...string) string {
	path := d.Path(relativePathElements...)
	if err := os.MkdirAll(path, 0o700); err != nil {
		panic(err)
	}

	return path
}
