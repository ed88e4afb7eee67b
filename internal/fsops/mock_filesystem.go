package fsops

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"
)

// MockFileSystem implements the FileSystem interface for testing purposes.
// It keeps files and directories in memory and supports per-path error
// injection, so failure branches that cannot be produced deterministically on
// a real filesystem (permission denied while running as root, network-share
// timeouts, symlink loops) are still reachable in tests.
type MockFileSystem struct {
	mu               sync.RWMutex
	files            map[string][]byte
	fileInfos        map[string]fs.FileInfo
	readErrorPaths   map[string]error
	statErrorPaths   map[string]error
	writeErrorPaths  map[string]error
	listErrorPaths   map[string]error
	removeErrorPaths map[string]error
	mkdirErrorPaths  map[string]error

	writeCalls  map[string]int
	removeCalls map[string]int
	mkdirCalls  map[string]int
}

// NewMockFileSystem creates a new instance of MockFileSystem, ready for use.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:            make(map[string][]byte),
		fileInfos:        make(map[string]fs.FileInfo),
		readErrorPaths:   make(map[string]error),
		statErrorPaths:   make(map[string]error),
		writeErrorPaths:  make(map[string]error),
		listErrorPaths:   make(map[string]error),
		removeErrorPaths: make(map[string]error),
		mkdirErrorPaths:  make(map[string]error),
		writeCalls:       make(map[string]int),
		removeCalls:      make(map[string]int),
		mkdirCalls:       make(map[string]int),
	}
}

// --- mockFileInfo / mockDirEntry helpers ---

type mockFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
	isDir   bool
}

func (mfi *mockFileInfo) Name() string       { return mfi.name }
func (mfi *mockFileInfo) Size() int64        { return mfi.size }
func (mfi *mockFileInfo) Mode() os.FileMode  { return mfi.mode }
func (mfi *mockFileInfo) ModTime() time.Time { return mfi.modTime }
func (mfi *mockFileInfo) IsDir() bool        { return mfi.isDir }
func (mfi *mockFileInfo) Sys() interface{}   { return nil }

type mockDirEntry struct {
	fs.FileInfo
}

func (m *mockDirEntry) Type() fs.FileMode {
	return m.Mode().Type()
}

func (m *mockDirEntry) Info() (fs.FileInfo, error) {
	return m.FileInfo, nil
}

// --- Helper methods for setting up the mock state ---

// AddFile adds a file with content to the mock filesystem, creating parent
// directory entries implicitly.
func (mfs *MockFileSystem) AddFile(path string, content []byte) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	absPath, _ := filepath.Abs(path)
	mfs.addDirLocked(filepath.Dir(absPath))
	mfs.files[absPath] = content
	mfs.fileInfos[absPath] = &mockFileInfo{
		name:    filepath.Base(absPath),
		size:    int64(len(content)),
		modTime: time.Now(),
		mode:    0o644,
		isDir:   false,
	}
}

// AddDir adds a directory entry (and its ancestors) to the mock filesystem.
func (mfs *MockFileSystem) AddDir(path string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	absPath, _ := filepath.Abs(path)
	mfs.addDirLocked(absPath)
}

func (mfs *MockFileSystem) addDirLocked(absPath string) {
	for p := absPath; ; p = filepath.Dir(p) {
		if _, exists := mfs.fileInfos[p]; !exists {
			mfs.fileInfos[p] = &mockFileInfo{
				name:    filepath.Base(p),
				modTime: time.Now(),
				mode:    0o755 | os.ModeDir,
				isDir:   true,
			}
		}
		if p == filepath.Dir(p) {
			return
		}
	}
}

// --- Helper methods for simulating errors ---

func (mfs *MockFileSystem) SimulateReadError(path string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	absPath, _ := filepath.Abs(path)
	mfs.readErrorPaths[absPath] = err
}

func (mfs *MockFileSystem) SimulateStatError(path string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	absPath, _ := filepath.Abs(path)
	mfs.statErrorPaths[absPath] = err
}

func (mfs *MockFileSystem) SimulateWriteError(path string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	absPath, _ := filepath.Abs(path)
	mfs.writeErrorPaths[absPath] = err
}

func (mfs *MockFileSystem) SimulateListError(path string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	absPath, _ := filepath.Abs(path)
	mfs.listErrorPaths[absPath] = err
}

func (mfs *MockFileSystem) SimulateRemoveError(path string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	absPath, _ := filepath.Abs(path)
	mfs.removeErrorPaths[absPath] = err
}

func (mfs *MockFileSystem) SimulateMkdirError(path string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	absPath, _ := filepath.Abs(path)
	mfs.mkdirErrorPaths[absPath] = err
}

// --- Call-count accessors for assertions ---

// WriteCallCount returns how many times WriteFile was invoked for path.
func (mfs *MockFileSystem) WriteCallCount(path string) int {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	absPath, _ := filepath.Abs(path)
	return mfs.writeCalls[absPath]
}

// RemoveCallCount returns how many times Remove was invoked for path.
func (mfs *MockFileSystem) RemoveCallCount(path string) int {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	absPath, _ := filepath.Abs(path)
	return mfs.removeCalls[absPath]
}

// MkdirCallCount returns how many times MkdirAll was invoked for path.
func (mfs *MockFileSystem) MkdirCallCount(path string) int {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	absPath, _ := filepath.Abs(path)
	return mfs.mkdirCalls[absPath]
}

// --- FileSystem interface implementation ---

// ReadFile simulates reading a file from the mock filesystem.
func (mfs *MockFileSystem) ReadFile(name string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	absPath, _ := filepath.Abs(name)
	if err, ok := mfs.readErrorPaths[absPath]; ok {
		return nil, err
	}
	content, exists := mfs.files[absPath]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}
	return content, nil
}

// WriteFile simulates writing a file to the mock filesystem.
func (mfs *MockFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	absPath, _ := filepath.Abs(name)
	mfs.writeCalls[absPath]++
	if err, ok := mfs.writeErrorPaths[absPath]; ok {
		return err
	}
	mfs.files[absPath] = data
	mfs.fileInfos[absPath] = &mockFileInfo{
		name:    filepath.Base(absPath),
		size:    int64(len(data)),
		modTime: time.Now(),
		mode:    perm,
		isDir:   false,
	}
	return nil
}

// Stat simulates getting file info from the mock filesystem.
func (mfs *MockFileSystem) Stat(name string) (fs.FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	absPath, _ := filepath.Abs(name)
	if err, ok := mfs.statErrorPaths[absPath]; ok {
		return nil, err
	}
	info, exists := mfs.fileInfos[absPath]
	if !exists {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: os.ErrNotExist}
	}
	return info, nil
}

// MkdirAll simulates creating a directory chain in the mock filesystem.
func (mfs *MockFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	absPath, _ := filepath.Abs(path)
	mfs.mkdirCalls[absPath]++
	if err, ok := mfs.mkdirErrorPaths[absPath]; ok {
		return err
	}
	if info, exists := mfs.fileInfos[absPath]; exists && !info.IsDir() {
		return &fs.PathError{Op: "mkdir", Path: path, Err: syscall.ENOTDIR}
	}
	mfs.addDirLocked(absPath)
	return nil
}

// ReadDir simulates listing the direct children of a directory.
func (mfs *MockFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	absPath, _ := filepath.Abs(name)
	if err, ok := mfs.listErrorPaths[absPath]; ok {
		return nil, err
	}
	dirInfo, exists := mfs.fileInfos[absPath]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}
	if !dirInfo.IsDir() {
		return nil, &fs.PathError{Op: "readdirent", Path: name, Err: os.ErrInvalid}
	}

	var entries []fs.DirEntry
	prefix := absPath + string(filepath.Separator)
	for p, info := range mfs.fileInfos {
		if !strings.HasPrefix(p, prefix) || p == absPath {
			continue
		}
		// Direct children only.
		if strings.ContainsRune(p[len(prefix):], filepath.Separator) {
			continue
		}
		entries = append(entries, &mockDirEntry{FileInfo: info})
	}
	// os.ReadDir sorts by name; mirror that for deterministic listings.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// Remove simulates removing a file from the mock filesystem.
func (mfs *MockFileSystem) Remove(name string) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	absPath, _ := filepath.Abs(name)
	mfs.removeCalls[absPath]++
	if err, ok := mfs.removeErrorPaths[absPath]; ok {
		return err
	}
	if _, exists := mfs.fileInfos[absPath]; !exists {
		return &fs.PathError{Op: "remove", Path: name, Err: os.ErrNotExist}
	}
	delete(mfs.files, absPath)
	delete(mfs.fileInfos, absPath)
	return nil
}
