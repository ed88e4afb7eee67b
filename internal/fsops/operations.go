// Package fsops provides the file-system operations layer: a façade over the
// host file system with consistent, descriptive failures and idempotent
// semantics where repetition is harmless, plus pure workspace-relative path
// resolution for the .kiro directory layout.
package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"

	"github.com/kirotools/kirofs/internal/workspace"
)

// Workspace-relative directory names resolved by the path accessors.
const (
	kiroDirName       = ".kiro"
	steeringDirName   = "steering"
	specsDirName      = "specs"
	settingsDirName   = "settings"
	metadataDirName   = ".metadata"
	frameworksDirName = "frameworks"
)

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
)

// Sentinel errors for the path accessors. The message text is part of the
// accessor contract; callers match on it when presenting failures.
var (
	// ErrNoWorkspace is returned by FrameworksPath when no workspace folder
	// is open.
	ErrNoWorkspace = errors.New("No workspace open")

	// ErrNoKiroDirectory is returned by the .kiro-nested accessors when no
	// workspace folder is open.
	ErrNoKiroDirectory = errors.New("No workspace open or .kiro directory not found")
)

// Operations is the file-system operations façade. It holds no mutable state
// between calls; every call is independent, and concurrent calls interleave
// with last-writer-wins semantics on the underlying file system. No retries
// are performed at this layer.
type Operations struct {
	host workspace.Host
	fs   FileSystem
}

// New creates an Operations façade over the given workspace host and
// filesystem primitives.
func New(host workspace.Host, filesystem FileSystem) *Operations {
	return &Operations{host: host, fs: filesystem}
}

// NewDefault creates an Operations façade over the real OS filesystem.
func NewDefault(host workspace.Host) *Operations {
	return New(host, NewRealFileSystem())
}

// EnsureDirectory creates the directory and all missing ancestors. It
// succeeds silently if the directory already exists; concurrent creations of
// the same path all succeed.
func (o *Operations) EnsureDirectory(path string) error {
	err := o.fs.MkdirAll(path, dirPerm)
	if err == nil {
		return nil
	}
	if Classify(err) == CategoryExists {
		return nil
	}
	return fmt.Errorf("Failed to create directory %s: %w", path, err)
}

// DirectoryExists reports whether path exists and is a directory. A path that
// exists but is a regular file yields false. Stat failures other than
// not-found propagate to the caller.
func (o *Operations) DirectoryExists(path string) (bool, error) {
	info, err := o.fs.Stat(path)
	if err != nil {
		if Classify(err) == CategoryNotFound {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// FileExists reports whether path exists and is a regular file. A path that
// exists but is a directory yields false. Stat failures other than not-found
// propagate to the caller.
func (o *Operations) FileExists(path string) (bool, error) {
	info, err := o.fs.Stat(path)
	if err != nil {
		if Classify(err) == CategoryNotFound {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ListFiles returns the bare names of the file entries directly within
// directoryPath, in the enumeration order of the underlying filesystem.
// Subdirectories are not included and the listing is not recursive. If
// pattern is non-empty it is compiled as a regular expression and only
// matching names are returned. A missing directory yields an empty slice,
// not an error.
func (o *Operations) ListFiles(directoryPath string, pattern string) ([]string, error) {
	var re *regexp.Regexp
	if pattern != "" {
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
		}
	}

	entries, err := o.fs.ReadDir(directoryPath)
	if err != nil {
		if Classify(err) == CategoryNotFound {
			return []string{}, nil
		}
		return nil, fmt.Errorf("Failed to list files in %s: %w", directoryPath, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if re != nil && !re.MatchString(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// ReadFile reads the file at path as UTF-8 text.
func (o *Operations) ReadFile(path string) (string, error) {
	data, err := o.fs.ReadFile(path)
	if err != nil {
		if Classify(err) == CategoryNotFound {
			return "", fmt.Errorf("File not found: %s", path)
		}
		return "", fmt.Errorf("Failed to read file %s: %w", path, err)
	}
	return string(data), nil
}

// WriteFile writes content to path, creating the parent directory chain if
// needed and overwriting any existing content.
func (o *Operations) WriteFile(path string, content string) error {
	if err := o.fs.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		if Classify(err) == CategoryPermission {
			return fmt.Errorf("Permission denied writing to %s: %w", path, err)
		}
		return fmt.Errorf("Failed to write file %s: %w", path, err)
	}
	if err := o.fs.WriteFile(path, []byte(content), filePerm); err != nil {
		if Classify(err) == CategoryPermission {
			return fmt.Errorf("Permission denied writing to %s: %w", path, err)
		}
		return fmt.Errorf("Failed to write file %s: %w", path, err)
	}
	return nil
}

// CopyFile copies the file at sourcePath to destinationPath, creating the
// destination's parent directory chain if needed.
func (o *Operations) CopyFile(sourcePath string, destinationPath string) error {
	data, err := o.fs.ReadFile(sourcePath)
	if err != nil {
		if Classify(err) == CategoryNotFound {
			return fmt.Errorf("Source file not found: %s", sourcePath)
		}
		return fmt.Errorf("Failed to copy file from %s to %s: %w", sourcePath, destinationPath, err)
	}
	if err := o.fs.MkdirAll(filepath.Dir(destinationPath), dirPerm); err != nil {
		return fmt.Errorf("Failed to copy file from %s to %s: %w", sourcePath, destinationPath, err)
	}
	if err := o.fs.WriteFile(destinationPath, data, filePerm); err != nil {
		return fmt.Errorf("Failed to copy file from %s to %s: %w", sourcePath, destinationPath, err)
	}
	return nil
}

// DeleteFile removes the file at path. A path that is already absent is not
// an error.
func (o *Operations) DeleteFile(path string) error {
	err := o.fs.Remove(path)
	if err == nil {
		return nil
	}
	if Classify(err) == CategoryNotFound {
		return nil
	}
	return fmt.Errorf("Failed to delete file %s: %w", path, err)
}

// WorkspacePath returns the absolute path of the first open workspace folder.
// The second return value is false when no workspace is open. Additional
// folders of a multi-root workspace are ignored. Performs no I/O.
func (o *Operations) WorkspacePath() (string, bool) {
	folders := o.host.Folders()
	if len(folders) == 0 {
		return "", false
	}
	return folders[0], true
}

// KiroPath returns the .kiro directory path under the workspace root. The
// second return value is false when no workspace is open; unlike the nested
// accessors below, absence of a workspace is not an error here. Performs no
// I/O and never fails because the directory does not exist on disk.
func (o *Operations) KiroPath() (string, bool) {
	root, ok := o.WorkspacePath()
	if !ok {
		return "", false
	}
	return filepath.Join(root, kiroDirName), true
}

// SteeringPath returns the .kiro/steering directory path, or
// ErrNoKiroDirectory when no workspace is open.
func (o *Operations) SteeringPath() (string, error) {
	return o.kiroSubpath(steeringDirName)
}

// SpecsPath returns the .kiro/specs directory path, or ErrNoKiroDirectory
// when no workspace is open.
func (o *Operations) SpecsPath() (string, error) {
	return o.kiroSubpath(specsDirName)
}

// SettingsPath returns the .kiro/settings directory path, or
// ErrNoKiroDirectory when no workspace is open.
func (o *Operations) SettingsPath() (string, error) {
	return o.kiroSubpath(settingsDirName)
}

// MetadataPath returns the .kiro/.metadata directory path, or
// ErrNoKiroDirectory when no workspace is open.
func (o *Operations) MetadataPath() (string, error) {
	return o.kiroSubpath(metadataDirName)
}

// FrameworksPath returns the workspace-level frameworks directory path (not
// nested under .kiro), or ErrNoWorkspace when no workspace is open.
func (o *Operations) FrameworksPath() (string, error) {
	root, ok := o.WorkspacePath()
	if !ok {
		return "", ErrNoWorkspace
	}
	return filepath.Join(root, frameworksDirName), nil
}

func (o *Operations) kiroSubpath(name string) (string, error) {
	kiro, ok := o.KiroPath()
	if !ok {
		return "", ErrNoKiroDirectory
	}
	return filepath.Join(kiro, name), nil
}
