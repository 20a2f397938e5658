// Package loader reads configuration sources into nested maps.
//
// Sources are TOML files and COMPOSER_ environment variables. Maps from
// several sources are combined with DeepMerge, later sources winning.
package loader

import (
	"io/fs"
	"os"
)

// Loader reads configuration from a source. A missing source yields
// nil, nil.
type Loader interface {
	Load() (map[string]any, error)
}

// FileSystem is the file access a loader needs.
type FileSystem interface {
	fs.FS
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}
