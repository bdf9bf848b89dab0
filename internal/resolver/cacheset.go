package resolver

import (
	"github.com/nodekit-build/jsresolve/internal/cache"
	"github.com/nodekit-build/jsresolve/internal/fs"
)

// packageJSONEntry is what PackageJSON caches: the parsed record plus the
// ModKey it was read at, so a stale entry can be detected on the next read
// without re-parsing speculatively.
type packageJSONEntry struct {
	ModKey fs.ModKey
	Record *PackageRecord
}

// fileEntry is what Files caches: the resolved resource plus the ModKey it
// was built at, mirroring packageJSONEntry's mtime-validation shape.
type fileEntry struct {
	ModKey fs.ModKey
	Record *ResourceRecord
}

// CacheSet composes the three caches the spec names in §3's "Cache state":
// package.json records (mtime-validated), resolved packages by bare name
// (with negative caching), and resolved file-info records. Each is a
// generic cache.Cache instantiated for its concrete value type, following
// the teacher's pattern of a small named struct grouping narrow caches
// rather than one undifferentiated map.
type CacheSet struct {
	PackageJSON *cache.Cache[*packageJSONEntry]
	Packages    *cache.Cache[*PackageRecord]
	Files       *cache.Cache[*fileEntry]
}

func NewCacheSet() *CacheSet {
	return &CacheSet{
		PackageJSON: cache.New[*packageJSONEntry](),
		Packages:    cache.New[*PackageRecord](),
		Files:       cache.New[*fileEntry](),
	}
}
