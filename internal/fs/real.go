package fs

import (
	"os"
	"path/filepath"
	"sync"
)

// realFS talks to the actual operating system file system. Directory
// listings are cached for the lifetime of the process; there is no
// invalidation because the resolver is documented to assume a stable
// file system for the duration of a single resolution call (see the
// concurrency section of the design), and mtime-based ModKeys already let
// callers detect changes between calls.
type realFS struct {
	mu      sync.RWMutex
	entries map[string]map[string]EntryKind
	cwd     string
}

func RealFS() FS {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	}
	return &realFS{
		entries: make(map[string]map[string]EntryKind),
		cwd:     cwd,
	}
}

func (f *realFS) ReadFile(path string) (string, ModKey, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ModKey{}, ErrNotExist
		}
		return "", ModKey{}, err
	}
	if info.IsDir() {
		return "", ModKey{}, &os.PathError{Op: "read", Path: path, Err: os.ErrInvalid}
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return "", ModKey{}, err
	}
	return string(contents), ModKey{size: info.Size(), modTime: info.ModTime().UnixNano()}, nil
}

func (f *realFS) ReadDir(dir string) (map[string]EntryKind, error) {
	f.mu.RLock()
	cached, ok := f.entries[dir]
	f.mu.RUnlock()
	if ok {
		return cached, nil
	}

	names, err := func() ([]string, error) {
		handle, err := os.Open(dir)
		if err != nil {
			return nil, err
		}
		defer handle.Close()
		return handle.Readdirnames(-1)
	}()

	entries := make(map[string]EntryKind)
	if err == nil {
		for _, name := range names {
			info, statErr := os.Stat(filepath.Join(dir, name))
			if statErr != nil {
				continue
			}
			if info.IsDir() {
				entries[name] = DirEntry
			} else {
				entries[name] = FileEntry
			}
		}
	}

	f.mu.Lock()
	f.entries[dir] = entries
	f.mu.Unlock()

	if err != nil {
		if os.IsNotExist(err) {
			return entries, ErrNotExist
		}
		return entries, err
	}
	return entries, nil
}

func (f *realFS) Stat(path string) (EntryKind, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotExist
		}
		return 0, err
	}
	if info.IsDir() {
		return DirEntry, nil
	}
	return FileEntry, nil
}

func (f *realFS) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

func (f *realFS) Dir(path string) string  { return filepath.Dir(path) }
func (f *realFS) Base(path string) string { return filepath.Base(path) }

func (f *realFS) Join(parts ...string) string {
	return filepath.Clean(filepath.Join(parts...))
}

func (f *realFS) Rel(base, target string) (string, bool) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (f *realFS) Cwd() string { return f.cwd }
