package fsops

import (
	"errors"
	"io/fs"
	"syscall"
)

// ErrorCategory classifies an underlying filesystem failure into one of a
// small closed set of semantic causes. Per-operation logic branches on the
// category only, never on raw platform error codes, so idempotence decisions
// and message formatting stay declarative and portable.
type ErrorCategory int

const (
	// CategoryNotFound indicates the target path does not exist (ENOENT).
	CategoryNotFound ErrorCategory = iota

	// CategoryExists indicates the target path already exists (EEXIST).
	CategoryExists

	// CategoryPermission indicates access denied or a read-only filesystem
	// (EACCES, EPERM, EROFS).
	CategoryPermission

	// CategoryBusy indicates the target is locked or in use by another
	// process or handle (EBUSY, EAGAIN, ETXTBSY).
	CategoryBusy

	// CategoryNetwork indicates a network-drive failure: unreachable host,
	// timeout, refused or reset connection, or a vanished device.
	CategoryNetwork

	// CategoryPathStructural indicates a structural path problem: name too
	// long, circular symlink, or the wrong node type along the path.
	CategoryPathStructural

	// CategoryOther is the fallback for unclassified errors.
	CategoryOther
)

// String returns the category name.
func (c ErrorCategory) String() string {
	names := []string{
		"not-found",
		"already-exists",
		"permission",
		"busy",
		"network",
		"path-structural",
		"other",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return "other"
}

var busyErrnos = []syscall.Errno{
	syscall.EBUSY,
	syscall.EAGAIN,
	syscall.ETXTBSY,
}

var networkErrnos = []syscall.Errno{
	syscall.ETIMEDOUT,
	syscall.ENETUNREACH,
	syscall.EHOSTDOWN,
	syscall.EHOSTUNREACH,
	syscall.ECONNREFUSED,
	syscall.ECONNRESET,
	syscall.ENODEV,
	syscall.ENXIO,
}

var pathStructuralErrnos = []syscall.Errno{
	syscall.ELOOP,
	syscall.ENAMETOOLONG,
	syscall.ENOTDIR,
	syscall.EISDIR,
}

// Classify maps err to its semantic category. A nil error has no category;
// callers must not pass one.
func Classify(err error) ErrorCategory {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return CategoryNotFound
	case errors.Is(err, fs.ErrExist):
		return CategoryExists
	case errors.Is(err, fs.ErrPermission) || isErrno(err, syscall.EROFS):
		// fs.ErrPermission covers both EACCES and EPERM.
		return CategoryPermission
	case isErrno(err, busyErrnos...):
		return CategoryBusy
	case isErrno(err, networkErrnos...):
		return CategoryNetwork
	case isErrno(err, pathStructuralErrnos...):
		return CategoryPathStructural
	default:
		return CategoryOther
	}
}

func isErrno(err error, targets ...syscall.Errno) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	for _, t := range targets {
		if errno == t {
			return true
		}
	}
	return false
}
