// Package fs abstracts the file system operations used by the resolver so
// that resolution logic can be exercised against an in-memory tree in tests
// without touching disk.
package fs

import (
	"errors"
	"strconv"
)

// ErrNotExist is returned by ReadFile and Stat when the path does not exist.
// Callers compare against this with errors.Is rather than relying on a
// particular FS implementation's underlying error type.
var ErrNotExist = errors.New("file does not exist")

type EntryKind uint8

const (
	FileEntry EntryKind = iota + 1
	DirEntry
)

// ModKey is an opaque fingerprint of a file's on-disk state. Two reads of the
// same path produce an equal ModKey if and only if the file has not changed,
// which is what package.json and file-info caches use to decide whether to
// reparse.
type ModKey struct {
	size    int64
	modTime int64 // unix nanoseconds
}

// String renders a ModKey as a stable opaque token, used as the mtime
// component of an asset's cache_key (§3: "[canonical_path, mtime]").
func (k ModKey) String() string {
	return strconv.FormatInt(k.size, 10) + ":" + strconv.FormatInt(k.modTime, 10)
}

// FS is the file system surface the resolver depends on. Paths passed in and
// returned are always absolute and slash-normalized on the caller's side;
// the FS layer itself is free to use host path separators internally.
type FS interface {
	// ReadFile returns the file contents along with a ModKey that changes
	// whenever the file's size or modification time changes.
	ReadFile(path string) (contents string, key ModKey, err error)

	// ReadDir lists the immediate children of a directory. The returned map
	// is keyed by base name and must not be mutated by callers.
	ReadDir(path string) (map[string]EntryKind, error)

	// Stat reports whether path exists and what kind of entry it is.
	Stat(path string) (EntryKind, error)

	Abs(path string) (string, error)
	Dir(path string) string
	Base(path string) string
	Join(parts ...string) string
	Rel(base, target string) (string, bool)
	Cwd() string
}

// IsNotExist reports whether err indicates a missing file or directory.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}
