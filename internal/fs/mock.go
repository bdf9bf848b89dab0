package fs

import (
	"path"
	"strings"
)

// mockFS is an in-memory file tree used by resolver tests. It never touches
// disk and uses forward slashes unconditionally, which keeps test fixtures
// portable.
type mockFS struct {
	files map[string]string
	dirs  map[string]map[string]EntryKind
	cwd   string
	keys  map[string]ModKey
	nextV int64
}

// MockFS builds a file system from a flat map of absolute path -> contents.
// Parent directories are synthesized automatically.
func MockFS(files map[string]string) FS {
	m := &mockFS{
		files: make(map[string]string),
		dirs:  make(map[string]map[string]EntryKind),
		keys:  make(map[string]ModKey),
		cwd:   "/",
	}
	for p, contents := range files {
		m.files[p] = contents
		m.nextV++
		m.keys[p] = ModKey{size: int64(len(contents)), modTime: m.nextV}

		child := p
		for {
			parent := path.Dir(child)
			if parent == child {
				break
			}
			if m.dirs[parent] == nil {
				m.dirs[parent] = make(map[string]EntryKind)
			}
			base := path.Base(child)
			if child == p {
				m.dirs[parent][base] = FileEntry
			} else {
				m.dirs[parent][base] = DirEntry
			}
			child = parent
		}
	}
	return m
}

func (m *mockFS) ReadFile(p string) (string, ModKey, error) {
	contents, ok := m.files[p]
	if !ok {
		return "", ModKey{}, ErrNotExist
	}
	return contents, m.keys[p], nil
}

// WriteFile mutates a fixture in place and bumps its ModKey, letting tests
// exercise cache invalidation on mtime change.
func (m *mockFS) WriteFile(p string, contents string) {
	m.files[p] = contents
	m.nextV++
	m.keys[p] = ModKey{size: int64(len(contents)), modTime: m.nextV}
}

func (m *mockFS) ReadDir(dir string) (map[string]EntryKind, error) {
	entries, ok := m.dirs[dir]
	if !ok {
		return nil, ErrNotExist
	}
	return entries, nil
}

func (m *mockFS) Stat(p string) (EntryKind, error) {
	if _, ok := m.files[p]; ok {
		return FileEntry, nil
	}
	if _, ok := m.dirs[p]; ok {
		return DirEntry, nil
	}
	return 0, ErrNotExist
}

func (m *mockFS) Abs(p string) (string, error) {
	if strings.HasPrefix(p, "/") {
		return path.Clean(p), nil
	}
	return path.Clean(path.Join(m.cwd, p)), nil
}

func (m *mockFS) Dir(p string) string  { return path.Dir(p) }
func (m *mockFS) Base(p string) string { return path.Base(p) }

func (m *mockFS) Join(parts ...string) string {
	return path.Clean(path.Join(parts...))
}

func splitOnSlash(p string) (string, string) {
	if i := strings.IndexByte(p, '/'); i != -1 {
		return p[:i], p[i+1:]
	}
	return p, ""
}

func (m *mockFS) Rel(base, target string) (string, bool) {
	base = strings.TrimPrefix(base, "/")
	target = strings.TrimPrefix(target, "/")
	if base == target {
		return ".", true
	}
	for {
		bHead, bTail := splitOnSlash(base)
		tHead, tTail := splitOnSlash(target)
		if bHead != tHead || (base == "" || target == "") {
			break
		}
		base, target = bTail, tTail
	}
	if base == "" {
		return target, true
	}
	up := strings.Repeat("../", strings.Count(base, "/")+1)
	if target == "" {
		return strings.TrimSuffix(up, "/"), true
	}
	return up + target, true
}

func (m *mockFS) Cwd() string { return m.cwd }
