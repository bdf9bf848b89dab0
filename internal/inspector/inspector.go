// Package inspector implements the external collaborator the resolver
// treats as opaque (spec §4.7/§6): given a filename and its source text,
// report the require/import/dynamic-import strings it declares and
// whether it references the global `Buffer`/`process` identifiers. The
// resolver only depends on the Inspector interface; this package's
// tree-sitter-based TreeSitter is one implementation of it, not a hard
// dependency of the resolver core.
package inspector

// Info is the schema an Inspector returns for one source file.
type Info struct {
	JSRequires        []string
	JSImports         []string
	JSDynamicImports  []string
	JSInvalidRequires []string
	JSErrors          []string
	JSWarnings        []string
	JSLanguage        string
	UsesGlobalBuffer  bool
	UsesGlobalProcess bool
}

// Inspector parses one file's source and reports its module references.
type Inspector interface {
	Inspect(filename, source string) (Info, error)
}

// CacheKey identifies this package's implementation and version for the
// resolver's cache_key contribution (§6: "a tool upgrade invalidates all
// caches"). Bump it whenever Inspect's output for a given input could
// change.
const CacheKey = "jsresolve-inspector-treesitter-js@1"
