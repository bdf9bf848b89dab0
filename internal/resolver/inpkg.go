package resolver

import (
	"fmt"
	"strings"

	"github.com/nodekit-build/jsresolve/internal/config"
	"github.com/nodekit-build/jsresolve/internal/fs"
	"github.com/nodekit-build/jsresolve/internal/logger"
)

// findResourceInPackage implements §4.4: resolve a package-relative request
// (relRequire always starting with "./") through exports (when the package
// is closed to external callers), then classical main/extension/index
// resolution, then override application.
func (s *Service) findResourceInPackage(pkg *PackageRecord, requireFrom *RequireFrom, relRequire string, log *logger.Log) (*ResourceRecord, error) {
	if !strings.HasPrefix(relRequire, "./") {
		return nil, fmt.Errorf("findResourceInPackage: rel_require must start with \"./\": %q", relRequire)
	}

	useExports := pkg.Exports && !s.Options.JS.IgnoreExports
	internal := requireFrom != nil && requireFrom.Package != nil && requireFrom.Package.PackageID == pkg.PackageID
	closed := useExports && !internal && !s.Options.JS.ExportsBypass

	if closed {
		rc, err := s.tryExports(pkg, relRequire, log)
		if err != nil {
			return nil, err
		}
		if rc != nil {
			return rc, nil
		}
		return nil, newErr(ExportsResolutionFailed, "require", relRequire, "package", pkg.PackageName)
	}

	if useExports {
		rc, err := s.tryExports(pkg, relRequire, log)
		if err != nil {
			return nil, err
		}
		if rc != nil {
			return rc, nil
		}
	}

	resPkg, file, err := s.findMatchInPackage(pkg, relRequire, log)
	if err != nil {
		return nil, err
	}
	if file == "" {
		return nil, nil
	}

	if rc, err, matched := s.applyOverride(pkg, requireFrom, resPkg, file, log); matched {
		return rc, err
	}

	return s.buildFileResource(resPkg, file, log)
}

// tryExports evaluates the three exports match modes in order (exact,
// prefix, wildcard; prefix/wildcard entries are already longest-first per
// mergePackageExports). Existence failures skip to the next candidate
// rather than propagating (§4.4 "Existence failures ... cause the entry to
// be skipped"); only errors building a matched file (e.g. file-info-errors)
// are fatal.
func (s *Service) tryExports(pkg *PackageRecord, relRequire string, log *logger.Log) (*ResourceRecord, error) {
	exactKey := relRequire
	if relRequire == "./" {
		exactKey = "."
	}
	if match, ok := pkg.ExportsExact[exactKey]; ok {
		if repl, ok := findExportsReplacement(match, s.Options.JS.ExportConditions); ok {
			if rc, err, matched := s.tryExportsCandidate(pkg, repl, log); matched {
				return rc, err
			}
		}
	}

	for _, e := range pkg.ExportsPrefix {
		if !strings.HasPrefix(relRequire, e.Prefix) {
			continue
		}
		suffix := relRequire[len(e.Prefix):]
		repl, ok := findExportsReplacement(e.Match, s.Options.JS.ExportConditions)
		if !ok {
			continue
		}
		if rc, err, matched := s.tryExportsCandidate(pkg, repl+suffix, log); matched {
			return rc, err
		}
	}

	for _, e := range pkg.ExportsWildcard {
		if !strings.HasPrefix(relRequire, e.Prefix) {
			continue
		}
		rest := relRequire[len(e.Prefix):]
		var fill string
		if e.Suffix != nil {
			if !strings.HasSuffix(rest, *e.Suffix) {
				continue
			}
			fill = rest[:len(rest)-len(*e.Suffix)]
		} else {
			fill = rest
		}
		repl, ok := findExportsReplacement(e.Match, s.Options.JS.ExportConditions)
		if !ok {
			continue
		}
		candidate := strings.Replace(repl, "*", fill, 1)
		if rc, err, matched := s.tryExportsCandidate(pkg, candidate, log); matched {
			return rc, err
		}
	}

	return nil, nil
}

// tryExportsCandidate resolves one exports replacement path against the
// package directory and builds its resource, reporting matched=false when
// the candidate file doesn't exist (or is a directory) so the caller moves
// on to the next entry.
func (s *Service) tryExportsCandidate(pkg *PackageRecord, relPath string, log *logger.Log) (rc *ResourceRecord, err error, matched bool) {
	file := s.FS.Join(pkg.PackageDir, relPath)
	kind, statErr := s.FS.Stat(file)
	if statErr != nil || kind != fs.FileEntry {
		return nil, nil, false
	}
	rc, err = s.buildFileResource(pkg, file, log)
	return rc, err, true
}

// findMatchInPackage implements §4.4's classical matching: package-root
// entry keys, exact file test, extension search, and directory fallback
// (nested package.json or index.<ext>).
func (s *Service) findMatchInPackage(pkg *PackageRecord, relRequire string, log *logger.Log) (*PackageRecord, string, error) {
	if relRequire == "./" {
		return s.findMatchInPackageRoot(pkg, log)
	}

	file := s.FS.Join(pkg.PackageDir, relRequire)
	kind, statErr := s.FS.Stat(file)

	if statErr == nil && kind == fs.FileEntry {
		return pkg, file, nil
	}

	if statErr != nil || kind != fs.DirEntry {
		if candidate, ok := s.tryExtensions(file); ok {
			return pkg, candidate, nil
		}
		return nil, "", nil
	}

	// relRequire resolves to a directory: retry extension search against
	// it first (the "foo.js" beside directory "foo/" case), then fall
	// through to nested package.json or index.<ext>.
	if candidate, ok := s.tryExtensions(file); ok {
		return pkg, candidate, nil
	}

	nestedPkgJSON := s.FS.Join(file, "package.json")
	if k, statErr := s.FS.Stat(nestedPkgJSON); statErr == nil && k == fs.FileEntry {
		nested, perr := s.readPackageJSON(nestedPkgJSON, pkg.JSPackageDir, log)
		if perr != nil {
			return nil, "", perr
		}
		nested.Parent = pkg
		return s.findMatchInPackage(nested, "./", log)
	}

	for _, ext := range s.Options.JS.Extensions {
		candidate := s.FS.Join(file, "index"+ext)
		if k, statErr := s.FS.Stat(candidate); statErr == nil && k == fs.FileEntry {
			return pkg, candidate, nil
		}
	}
	return nil, "", nil
}

func (s *Service) tryExtensions(base string) (string, bool) {
	for _, ext := range s.Options.JS.Extensions {
		candidate := base + ext
		if k, statErr := s.FS.Stat(candidate); statErr == nil && k == fs.FileEntry {
			return candidate, true
		}
	}
	return "", false
}

// findMatchInPackageRoot resolves the package root ("./"): try each
// configured entry key against package.json in order; if entry keys are
// present but none resolves to a file, that's the fatal missing-entries
// condition. If no entry key is present at all, fall back to index.js.
func (s *Service) findMatchInPackageRoot(pkg *PackageRecord, log *logger.Log) (*PackageRecord, string, error) {
	anyPresent := false
	for _, key := range s.Options.JS.EntryKeys {
		val, ok := pkg.PackageJSON.Get(key)
		if !ok {
			continue
		}
		anyPresent = true
		str, ok := val.AsString()
		if !ok {
			continue
		}
		resPkg, file, err := s.findMatchInPackage(pkg, normalizeEntryPath(str), log)
		if err != nil {
			return nil, "", err
		}
		if file != "" {
			return resPkg, file, nil
		}
	}
	if anyPresent {
		return nil, "", newErr(MissingEntries, "package", pkg.PackageName, "dir", pkg.PackageDir)
	}

	idx := s.FS.Join(pkg.PackageDir, "index.js")
	if k, statErr := s.FS.Stat(idx); statErr == nil && k == fs.FileEntry {
		return pkg, idx, nil
	}
	return nil, "", nil
}

func normalizeEntryPath(p string) string {
	if strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") {
		return p
	}
	return "./" + p
}

// applyOverride implements §4.4's "Override application": after classical
// resolution finds (resPkg, file), look up a user override keyed by the
// package-relative path (and that path with ".js" trimmed), first in
// js_options.package_overrides[pkg.PackageName], then in pkg's own
// "browser" overrides map. matched is false when there's no override entry,
// or the entry equals the original path (§9: "avoids an infinite loop"),
// in which case the caller proceeds to build the resource normally.
func (s *Service) applyOverride(pkg *PackageRecord, requireFrom *RequireFrom, resPkg *PackageRecord, file string, log *logger.Log) (rc *ResourceRecord, err error, matched bool) {
	rel, ok := s.FS.Rel(resPkg.PackageDir, file)
	if !ok {
		return nil, nil, false
	}
	relPath := "./" + rel

	candidates := []string{relPath}
	if trimmed := strings.TrimSuffix(relPath, ".js"); trimmed != relPath {
		candidates = append(candidates, trimmed)
	}

	lookup := func(path string) (config.OverrideValue, bool) {
		if m, ok := s.Options.JS.PackageOverrides[pkg.PackageName]; ok {
			if v, ok := m[path]; ok {
				return v, true
			}
		}
		if pkg.BrowserOverrides != nil {
			if v, ok := pkg.BrowserOverrides[path]; ok {
				if v.IsString {
					return config.Replacement(v.String), true
				}
				return config.Disabled(), true
			}
		}
		return config.OverrideValue{}, false
	}

	for _, path := range candidates {
		val, ok := lookup(path)
		if !ok {
			continue
		}
		if !val.IsString {
			return EmptyResource, nil, true
		}
		if val.String == relPath {
			return nil, nil, false
		}
		if IsRelative(val.String) {
			rc, err = s.findResourceInPackage(pkg, requireFrom, val.String, log)
			return rc, err, true
		}
		rc, err = s.findResource(requireFrom, val.String, log)
		return rc, err, true
	}
	return nil, nil, false
}
