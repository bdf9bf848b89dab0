package resolver

import (
	"strings"

	"github.com/nodekit-build/jsresolve/internal/fs"
	"github.com/nodekit-build/jsresolve/internal/inspector"
	"github.com/nodekit-build/jsresolve/internal/logger"
)

// buildFileResource implements §4.7's get_file_info, cached by absolute
// file and re-derived whenever the file's ModKey changes: a cached entry
// whose ModKey differs from the current read is discarded here.
func (s *Service) buildFileResource(pkg *PackageRecord, file string, log *logger.Log) (*ResourceRecord, error) {
	contents, modKey, err := s.FS.ReadFile(file)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.Caches.Files.Load(file); ok && cached.ModKey == modKey {
		return cached.Record, nil
	}
	s.Caches.Files.Delete(file)

	entry, err := s.Caches.Files.GetOrFill(file, func() (*fileEntry, error) {
		rec, ferr := s.computeFileResource(pkg, file, contents, modKey, log)
		if ferr != nil {
			return nil, ferr
		}
		return &fileEntry{ModKey: modKey, Record: rec}, nil
	})
	if err != nil {
		return nil, err
	}
	return entry.Record, nil
}

// computeFileResource classifies file by extension: ".json" gets the
// minimal short-circuit record, ".js"/".mjs"/".cjs" go through the
// inspector, and anything else is treated as an asset wrapped for the
// downstream compiler as a "shadow-js" resource.
func (s *Service) computeFileResource(pkg *PackageRecord, file, contents string, modKey fs.ModKey, log *logger.Log) (*ResourceRecord, error) {
	resourceName, err := ResourceNameForFile(s.FS, file, s.Options.JSPackageDirs, s.Options.ProjectDir)
	if err != nil {
		return nil, err
	}
	ns := NSForResourceName(resourceName)
	outputName := OutputNameFor(resourceName, ns)

	rc := &ResourceRecord{
		ResourceID:   ResourceID{Kind: KindResource, Name: resourceName},
		ResourceName: resourceName,
		OutputName:   outputName,
		NS:           ns,
		File:         file,
		Source:       contents,
		Provides:     []string{ns},
		Package:      pkg,
		Type:         TypeJS,
	}

	switch extOf(file) {
	case ".json":
		rc.JSON = true
		rc.CacheKey = []string{ResolverCacheKey, inspector.CacheKey}
		return rc, nil
	case ".js", ".mjs", ".cjs":
		return s.fillJSResource(rc, file, contents, log)
	default:
		rc.ResourceID = ResourceID{Kind: KindAsset, Name: resourceName}
		rc.Type = TypeShadowJS
		rc.CacheKey = []string{file, modKey.String()}
		return rc, nil
	}
}

func (s *Service) fillJSResource(rc *ResourceRecord, file, contents string, log *logger.Log) (*ResourceRecord, error) {
	info, err := s.Inspector.Inspect(file, contents)
	if err != nil {
		return nil, newErr(FileInfoFailed, "file", file, "error", err.Error())
	}
	if len(info.JSErrors) > 0 {
		return nil, newErr(FileInfoErrors, "file", file, "errors", strings.Join(info.JSErrors, "; "))
	}
	for _, inv := range info.JSInvalidRequires {
		log.AddInfo(file, "computed require: "+inv)
	}
	for _, w := range info.JSWarnings {
		log.AddWarning(file, w)
	}

	combined := make([]string, 0, len(info.JSRequires)+len(info.JSImports)+len(info.JSDynamicImports))
	combined = append(combined, info.JSRequires...)
	combined = append(combined, info.JSImports...)
	combined = append(combined, info.JSDynamicImports...)

	seen := make(map[string]bool, len(combined))
	deps := make([]string, 0, len(combined)+2)
	for _, d := range combined {
		d = strings.TrimPrefix(d, "goog:")
		if seen[d] {
			continue
		}
		seen[d] = true
		deps = append(deps, d)
	}
	if info.UsesGlobalBuffer {
		deps = append(deps, "buffer")
	}
	if info.UsesGlobalProcess {
		deps = append(deps, "process")
	}

	rc.Deps = deps
	rc.CacheKey = []string{ResolverCacheKey, inspector.CacheKey, sha1Hex(contents)}
	return rc, nil
}

func extOf(file string) string {
	if i := strings.LastIndexByte(file, '.'); i != -1 && !strings.ContainsRune(file[i:], '/') {
		return file[i:]
	}
	return ""
}
