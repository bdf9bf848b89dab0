package resolver

import (
	"github.com/nodekit-build/jsresolve/internal/config"
	"github.com/nodekit-build/jsresolve/internal/fs"
	"github.com/nodekit-build/jsresolve/internal/inspector"
	"github.com/nodekit-build/jsresolve/internal/logger"
)

// ResolverCacheKey identifies this package's algorithm version for the
// resolver's own contribution to every resource's cache_key (§6: "a tool
// upgrade invalidates all caches"). Bump it whenever resolution semantics
// that affect a produced resource's shape change.
const ResolverCacheKey = "jsresolve-resolver@1"

// RequireFrom is the "requesting source file" the spec threads through
// every relative and package-aware lookup: the file doing the requiring,
// and (when known) the package it lives inside.
type RequireFrom struct {
	File    string
	Package *PackageRecord
}

// Service is the long-lived resolver holding caches and configuration
// (§5: "a single logical service holding a mutable index"). One Service
// is meant to be shared across all callers of a build.
type Service struct {
	FS         fs.FS
	Options    config.Options
	Caches     *CacheSet
	Inspector  inspector.Inspector
	DeclaredNpmDeps map[string]struct{} // from classpath manifest scan, §6

	// RequireCache is reserved for caller use; this module never reads or
	// writes it.
	RequireCache map[string]any
}

// New constructs a Service. opts should already be passed through
// Options.Defaulted. insp may be nil only if the caller never resolves a
// non-JSON file (file-info extraction will fail otherwise).
func New(fsys fs.FS, opts config.Options, insp inspector.Inspector) *Service {
	return &Service{
		FS:           fsys,
		Options:      opts,
		Caches:       NewCacheSet(),
		Inspector:    insp,
		RequireCache: make(map[string]any),
	}
}

// FindResource is the top-level entry point (§4.6). It allocates one Log
// for the whole call, per §7's "non-fatal conditions" being collected
// rather than returned as errors.
func (s *Service) FindResource(requireFrom *RequireFrom, require string) (*ResourceRecord, *logger.Log, error) {
	log := logger.NewLog()
	rc, err := s.findResource(requireFrom, require, log)
	return rc, log, err
}

// GetFileInfo is the public entry point for §4.7: extract a resource
// directly from an already-resolved absolute file path, with no owning
// package (e.g. a project-local entry point reached by path rather than by
// require string).
func (s *Service) GetFileInfo(file string) (*ResourceRecord, *logger.Log, error) {
	log := logger.NewLog()
	rc, err := s.buildFileResource(nil, file, log)
	return rc, log, err
}
