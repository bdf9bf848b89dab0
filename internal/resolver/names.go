package resolver

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/nodekit-build/jsresolve/internal/fs"
)

// IsAbsolute reports whether a require string names an absolute path.
// Absolute requires are always rejected (§1 Non-goals).
func IsAbsolute(require string) bool {
	return strings.HasPrefix(require, "/")
}

// IsRelative reports whether a require string is relative ("./" or "../").
func IsRelative(require string) bool {
	return strings.HasPrefix(require, "./") || strings.HasPrefix(require, "../")
}

// DisambiguateModuleName rewrites "." to "_DOT_" in the substring before
// the first "/", so that e.g. "object.assign/index.js" and
// "object-assign/index.js" never collide.
func DisambiguateModuleName(name string) string {
	head, rest, found := strings.Cut(name, "/")
	head = strings.ReplaceAll(head, ".", "_DOT_")
	if !found {
		return head
	}
	return head + "/" + rest
}

// ResourceNameForFile computes the §4.1 resource_name for an absolute
// file path: the longest package root that prefixes it wins and yields a
// "node_modules/..." name; otherwise the file is relativized under
// projectDir, failing with FilesOutsideProject if it isn't contained.
func ResourceNameForFile(fsys fs.FS, file string, packageRoots []string, projectDir string) (string, error) {
	var best string
	for _, root := range packageRoots {
		if isUnderRoot(fsys, root, file) && len(root) > len(best) {
			best = root
		}
	}
	if best != "" {
		rel, ok := fsys.Rel(best, file)
		if !ok {
			return "", newErr(FilesOutsideProject, "file", file)
		}
		rel = toSlash(rel)
		rel = DisambiguateModuleName(rel)
		return "node_modules/" + rel, nil
	}

	rel, ok := fsys.Rel(projectDir, file)
	if !ok || strings.HasPrefix(rel, "../") || rel == ".." {
		return "", newErr(FilesOutsideProject, "file", file)
	}
	return toSlash(rel), nil
}

func isUnderRoot(fsys fs.FS, root, file string) bool {
	rel, ok := fsys.Rel(root, file)
	if !ok {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// NSForResourceName derives the "ns" symbol from a resource_name: strip
// the extension, join path segments with "$", normalize remaining "-" and
// "." to "_", and rewrite "#" to "_HASH_", prefixed with "module$".
func NSForResourceName(resourceName string) string {
	name := resourceName
	if i := strings.LastIndexByte(name, '.'); i != -1 && !strings.ContainsRune(name[i:], '/') {
		name = name[:i]
	}
	segments := strings.Split(name, "/")
	joined := strings.Join(segments, "$")
	joined = strings.ReplaceAll(joined, "-", "_")
	joined = strings.ReplaceAll(joined, ".", "_")
	joined = strings.ReplaceAll(joined, "#", "_HASH_")
	return "module$" + joined
}

// OutputNameFor derives the output_name: ns + ".js", unless resourceName
// exceeds 127 bytes, in which case a hashed placeholder is used instead so
// that generated filenames stay within common filesystem limits.
func OutputNameFor(resourceName, ns string) string {
	if len(resourceName) > 127 {
		sum := md5.Sum([]byte(resourceName))
		return "module$too_long_" + hex.EncodeToString(sum[:]) + ".js"
	}
	return ns + ".js"
}

// FlatFilename flattens a resource name into a single path segment, used
// only for asset output names where a hierarchical name isn't meaningful.
func FlatFilename(resourceName string) string {
	return strings.ReplaceAll(strings.ReplaceAll(resourceName, "/", "_"), "\\", "_")
}

// sha1Hex hashes JS source for the JS cache_key component (§3).
func sha1Hex(source string) string {
	sum := sha1.Sum([]byte(source))
	return hex.EncodeToString(sum[:])
}
