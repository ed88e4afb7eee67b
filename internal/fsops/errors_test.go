package fsops

import (
	"errors"
	"io/fs"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"ENOENT", pathErr("open", "/x", syscall.ENOENT), CategoryNotFound},
		{"ErrNotExist", fs.ErrNotExist, CategoryNotFound},
		{"EEXIST", pathErr("mkdir", "/x", syscall.EEXIST), CategoryExists},
		{"EACCES", pathErr("open", "/x", syscall.EACCES), CategoryPermission},
		{"EPERM", pathErr("remove", "/x", syscall.EPERM), CategoryPermission},
		{"EROFS", pathErr("open", "/x", syscall.EROFS), CategoryPermission},
		{"EBUSY", pathErr("remove", "/x", syscall.EBUSY), CategoryBusy},
		{"EAGAIN", pathErr("open", "/x", syscall.EAGAIN), CategoryBusy},
		{"ETXTBSY", pathErr("open", "/x", syscall.ETXTBSY), CategoryBusy},
		{"ETIMEDOUT", pathErr("open", "/x", syscall.ETIMEDOUT), CategoryNetwork},
		{"ENETUNREACH", pathErr("open", "/x", syscall.ENETUNREACH), CategoryNetwork},
		{"EHOSTDOWN", pathErr("open", "/x", syscall.EHOSTDOWN), CategoryNetwork},
		{"EHOSTUNREACH", pathErr("open", "/x", syscall.EHOSTUNREACH), CategoryNetwork},
		{"ECONNREFUSED", pathErr("open", "/x", syscall.ECONNREFUSED), CategoryNetwork},
		{"ECONNRESET", pathErr("read", "/x", syscall.ECONNRESET), CategoryNetwork},
		{"ENODEV", pathErr("open", "/x", syscall.ENODEV), CategoryNetwork},
		{"ENXIO", pathErr("open", "/x", syscall.ENXIO), CategoryNetwork},
		{"ELOOP", pathErr("stat", "/x", syscall.ELOOP), CategoryPathStructural},
		{"ENAMETOOLONG", pathErr("open", "/x", syscall.ENAMETOOLONG), CategoryPathStructural},
		{"ENOTDIR", pathErr("mkdir", "/x", syscall.ENOTDIR), CategoryPathStructural},
		{"EISDIR", pathErr("open", "/x", syscall.EISDIR), CategoryPathStructural},
		{"PlainError", errors.New("something else entirely"), CategoryOther},
		{"ENOSPC", pathErr("write", "/x", syscall.ENOSPC), CategoryOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
}

func TestErrorCategoryString(t *testing.T) {
	assert.Equal(t, "not-found", CategoryNotFound.String())
	assert.Equal(t, "permission", CategoryPermission.String())
	assert.Equal(t, "other", CategoryOther.String())
	assert.Equal(t, "other", ErrorCategory(42).String())
}
