package resolver

import (
	"strings"

	"github.com/nodekit-build/jsresolve/internal/fs"
	"github.com/nodekit-build/jsresolve/internal/logger"
)

// findPackage implements §4.5's global locator: walk js_package_dirs in
// configured order, returning the first root whose "<root>/<name>/package.json"
// exists. Misses are negative-cached (nil, no error) by name.
func (s *Service) findPackage(name string, log *logger.Log) (*PackageRecord, error) {
	return s.Caches.Packages.GetOrFill(name, func() (*PackageRecord, error) {
		for _, root := range s.Options.JSPackageDirs {
			pkgJSON := s.FS.Join(root, name, "package.json")
			if kind, statErr := s.FS.Stat(pkgJSON); statErr == nil && kind == fs.FileEntry {
				return s.readPackageJSON(pkgJSON, root, log)
			}
		}
		return nil, nil
	})
}

// findPackageForRequire resolves a bare specifier to its owning package,
// handling both the nested-install walk (§4.5) and the name-discovery loop
// needed because package names may themselves contain "/" (scoped names,
// subpath requires). The returned record has MatchName stamped to whichever
// specifier prefix resolved.
func (s *Service) findPackageForRequire(requireFrom *RequireFrom, require string, log *logger.Log) (*PackageRecord, error) {
	segments := strings.Split(require, "/")
	for end := 1; end <= len(segments); end++ {
		name := strings.Join(segments[:end], "/")
		rec, err := s.resolvePackageName(requireFrom, name, log)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			matched := *rec
			matched.MatchName = name
			return &matched, nil
		}
	}
	return nil, nil
}

// resolvePackageName tries the requester's nested node_modules chain first
// (when allowed), falling back to the globally configured package roots.
func (s *Service) resolvePackageName(requireFrom *RequireFrom, name string, log *logger.Log) (*PackageRecord, error) {
	if s.Options.JS.AllowNestedPackages && requireFrom != nil && requireFrom.Package != nil {
		rec, err := s.findNestedPackage(requireFrom.Package, name, log)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
	return s.findPackage(name, log)
}

// findNestedPackage walks upward from from.PackageDir looking for
// "<dir>/node_modules/<name>/package.json", skipping directories literally
// named "node_modules" (they're never themselves a package install site),
// and stamping the nested record's JSPackageDir with the original package's
// root so it stays associated with the root it started under (§4.5). The
// walk stops once it reaches that root, handing off to the global locator.
func (s *Service) findNestedPackage(from *PackageRecord, name string, log *logger.Log) (*PackageRecord, error) {
	root := from.JSPackageDir
	dir := from.PackageDir
	for {
		if s.FS.Base(dir) != "node_modules" {
			candidate := s.FS.Join(dir, "node_modules", name, "package.json")
			if kind, statErr := s.FS.Stat(candidate); statErr == nil && kind == fs.FileEntry {
				return s.readPackageJSON(candidate, root, log)
			}
		}
		if dir == root {
			return nil, nil
		}
		parent := s.FS.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}
