// Package workspace models the host environment's notion of "open workspace
// folders" as an explicit, injectable value instead of ambient global state,
// so path resolution can be exercised against arbitrary workspace
// configurations in tests.
package workspace

// Host provides the absolute paths of the currently open workspace folders.
// An empty slice means no workspace is open. Implementations must not perform
// I/O; the folder list reflects host state, not filesystem state.
type Host interface {
	Folders() []string
}

// StaticHost is a Host backed by a fixed folder list. It serves both as the
// CLI adapter (a single folder derived from a flag or the working directory)
// and as the test double.
type StaticHost struct {
	Roots []string
}

// NewStaticHost creates a StaticHost over the given folder paths.
func NewStaticHost(roots ...string) *StaticHost {
	return &StaticHost{Roots: roots}
}

// Folders returns the configured folder paths.
func (h *StaticHost) Folders() []string {
	return h.Roots
}
