package fsops

import (
	"io/fs"
)

// FileSystem defines the primitive filesystem calls the operations layer is
// built on. Decoupling from the os package keeps the failure branches that a
// real filesystem cannot produce on demand (permission denied while running
// as root, network-share timeouts, symlink loops) testable through the mock.
type FileSystem interface {
	// ReadFile reads the named file and returns the contents.
	ReadFile(name string) ([]byte, error)

	// WriteFile writes data to the named file, creating it if necessary.
	// If the file exists it is truncated before writing.
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Stat returns a FileInfo describing the named file.
	Stat(name string) (fs.FileInfo, error)

	// MkdirAll creates a directory named path along with any necessary
	// parents. It returns nil if path is already a directory.
	MkdirAll(path string, perm fs.FileMode) error

	// ReadDir reads the named directory and returns its entries.
	ReadDir(name string) ([]fs.DirEntry, error)

	// Remove removes the named file or (empty) directory.
	Remove(name string) error
}
