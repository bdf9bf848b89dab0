package resolver

import "github.com/nodekit-build/jsresolve/internal/pkgjson"

// ExportsMatch is the match value stored in PackageRecord.ExportsExact and
// in each ExportsPrefix and ExportsWildcard entry.
type ExportsMatch = pkgjson.Value

// ExportsPrefixEntry is one entry of PackageRecord.ExportsPrefix: an
// ordered {prefix, match} pair, prefix ending in "/".
type ExportsPrefixEntry struct {
	Prefix string
	Match  ExportsMatch
}

// ExportsWildcardEntry is one entry of PackageRecord.ExportsWildcard, split
// from a key containing exactly one "*". Suffix is nil iff "*" was the
// final character of the key.
type ExportsWildcardEntry struct {
	Prefix string
	Suffix *string
	Match  ExportsMatch
}

// PackageRecord is the normalized in-memory view of a package.json and its
// location on disk. It is immutable after construction except for cache
// insertion performed by the owning Service.
type PackageRecord struct {
	PackageName string
	PackageID   string // "{absolute-package-dir}@{version}"
	PackageDir  string // absolute
	PackageJSON pkgjson.Value
	Version     string
	Dependencies map[string]struct{}

	Browser          *string           // main override, iff "browser" is a string
	BrowserOverrides map[string]BrowserOverride // iff "browser" is an object

	ExportsExact    map[string]ExportsMatch
	ExportsPrefix   []ExportsPrefixEntry
	ExportsWildcard []ExportsWildcardEntry
	Exports         bool

	// JSPackageDir is the configured root under which this package was
	// discovered; inherited by nested packages.
	JSPackageDir string

	// Parent is set when this record was reached as a nested package.json
	// during in-package traversal (§4.4 step 3). It forms an upward-only
	// walkable chain, not an ownership graph.
	Parent *PackageRecord

	// MatchName is the bare-specifier prefix that resolved to this
	// package, set by the package locator's name-discovery loop.
	MatchName string
}

// BrowserOverride is either a replacement relative path (IsString true) or
// the boolean false, meaning "this module is disabled in the browser".
type BrowserOverride struct {
	IsString bool
	String   string
}

func disabledOverride() BrowserOverride        { return BrowserOverride{} }
func stringOverride(s string) BrowserOverride  { return BrowserOverride{IsString: true, String: s} }

// ResourceKind tags the four kinds of resource a resolution can produce.
type ResourceKind uint8

const (
	KindResource ResourceKind = iota
	KindAsset
	KindEmpty
	KindGlobal
)

func (k ResourceKind) String() string {
	switch k {
	case KindResource:
		return "resource"
	case KindAsset:
		return "asset"
	case KindEmpty:
		return "empty"
	case KindGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// ResourceID tags a resource by kind and name, used as the resource's
// identity independent of its file path.
type ResourceID struct {
	Kind ResourceKind
	Name string
}

// ResourceType distinguishes how a resource's deps were derived: plain JS,
// a "shadow" JS wrapper around a non-JS asset, or (also "js") a synthetic
// global/empty resource.
type ResourceType string

const (
	TypeJS       ResourceType = "js"
	TypeShadowJS ResourceType = "shadow-js"
)

// ResourceRecord is the output of a successful resolution.
type ResourceRecord struct {
	ResourceID   ResourceID
	ResourceName string
	OutputName   string
	NS           string

	File         string
	LastModified int64
	Source       string

	CacheKey []string

	Provides []string
	Requires []string
	Deps     []string

	Package *PackageRecord
	Type    ResourceType

	JSON bool // true for .json files: get_file_info short-circuit
}

// EmptyResource is the fixed singleton returned whenever resolution is
// deliberately disabled by an override.
var EmptyResource = &ResourceRecord{
	ResourceID:   ResourceID{Kind: KindEmpty, Name: "shadow$empty"},
	ResourceName: "shadow$empty",
	OutputName:   "shadow$empty.js",
	NS:           "shadow$empty",
	CacheKey:     []string{},
	Provides:     []string{"shadow$empty"},
	Type:         TypeJS,
}
