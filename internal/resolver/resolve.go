package resolver

import (
	"strings"

	"github.com/nodekit-build/jsresolve/internal/logger"
)

// findResource is the top-level dispatcher (§4.6): classify the require
// string and hand off to the matching resolution path.
func (s *Service) findResource(requireFrom *RequireFrom, require string, log *logger.Log) (*ResourceRecord, error) {
	switch {
	case IsAbsolute(require):
		return nil, newErr(AbsolutePath, "require", require)
	case strings.HasPrefix(require, "#"):
		return s.findResourceViaImports(requireFrom, require, log)
	case IsRelative(require):
		return s.findResourceRelative(requireFrom, require, log)
	default:
		return s.findResourceBare(requireFrom, require, log)
	}
}

// findResourceViaImports implements §4.6 step 2: subpath imports via the
// requesting package's own package.json "imports" map.
func (s *Service) findResourceViaImports(requireFrom *RequireFrom, require string, log *logger.Log) (*ResourceRecord, error) {
	if requireFrom == nil || requireFrom.Package == nil {
		return nil, newErr(NoImport, "require", require)
	}
	pkg := requireFrom.Package

	imports, ok := pkg.PackageJSON.Get("imports")
	if !ok {
		return nil, newErr(NoImport, "require", require, "package", pkg.PackageName)
	}
	match, ok := imports.Get(require)
	if !ok {
		return nil, newErr(NoImport, "require", require, "package", pkg.PackageName)
	}

	var target string
	if str, ok := match.AsString(); ok {
		target = str
	} else {
		t, ok := findExportsReplacement(match, s.Options.JS.ExportConditions)
		if !ok {
			return nil, newErr(NoImport, "require", require, "package", pkg.PackageName)
		}
		target = t
	}

	if IsRelative(target) {
		return s.findResourceInPackage(pkg, requireFrom, target, log)
	}
	return s.findResource(requireFrom, target, log)
}

// findResourceRelative implements §4.6 step 3: a relative require walks
// upward through the package-nesting chain (via Parent links) until it
// lands inside some enclosing package, or fails if none contains it.
func (s *Service) findResourceRelative(requireFrom *RequireFrom, require string, log *logger.Log) (*ResourceRecord, error) {
	if requireFrom == nil || requireFrom.File == "" {
		return nil, newErr(NoRequireFrom, "require", require)
	}
	if requireFrom.Package == nil {
		return nil, newErr(NoPackageRequireFrom, "require", require)
	}

	target := s.FS.Join(s.FS.Dir(requireFrom.File), require)

	for pkg := requireFrom.Package; pkg != nil; pkg = pkg.Parent {
		rel, ok := s.FS.Rel(pkg.PackageDir, target)
		if ok && rel != ".." && !strings.HasPrefix(rel, "../") {
			return s.findResourceInPackage(pkg, requireFrom, "./"+rel, log)
		}
	}
	return nil, newErr(RelativeOutsidePackage, "require", require, "file", requireFrom.File)
}

// findResourceBare implements §4.6 step 4: a bare specifier, first checked
// against the requester's own "browser" override map, then located via the
// package locator and resolved in-package.
func (s *Service) findResourceBare(requireFrom *RequireFrom, require string, log *logger.Log) (*ResourceRecord, error) {
	if s.Options.JS.UseBrowserOverrides && requireFrom != nil && requireFrom.Package != nil {
		if ov, ok := requireFrom.Package.BrowserOverrides[require]; ok {
			switch {
			case !ov.IsString:
				return EmptyResource, nil
			case IsRelative(ov.String):
				return s.findResourceInPackage(requireFrom.Package, requireFrom, ov.String, log)
			case ov.String != require:
				return s.findResource(requireFrom, ov.String, log)
			}
			// ov.String == require: no override, fall through.
		}
	}

	pkg, err := s.findPackageForRequire(requireFrom, require, log)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, nil
	}

	relRequire := "./"
	if require != pkg.MatchName {
		relRequire = "." + require[len(pkg.MatchName):]
	}
	return s.findResourceInPackage(pkg, requireFrom, relRequire, log)
}
