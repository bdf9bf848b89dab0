package resolver

import (
	"sort"
	"strings"

	"github.com/nodekit-build/jsresolve/internal/logger"
	"github.com/nodekit-build/jsresolve/internal/pkgjson"
)

// readPackageJSON implements §4.2: read and cache a package.json by file
// identity, re-parsing only when its ModKey changes.
func (s *Service) readPackageJSON(file string, jsPackageDir string, log *logger.Log) (*PackageRecord, error) {
	contents, modKey, err := s.FS.ReadFile(file)
	if err != nil {
		return nil, err
	}

	if entry, ok := s.Caches.PackageJSON.Load(file); ok && entry.ModKey == modKey {
		return entry.Record, nil
	}
	s.Caches.PackageJSON.Delete(file)

	entry, err := s.Caches.PackageJSON.GetOrFill(file, func() (*packageJSONEntry, error) {
		record, perr := s.parsePackageJSON(file, contents, jsPackageDir, log)
		if perr != nil {
			return nil, perr
		}
		return &packageJSONEntry{ModKey: modKey, Record: record}, nil
	})
	if err != nil {
		return nil, err
	}
	return entry.Record, nil
}

func (s *Service) parsePackageJSON(file, contents, jsPackageDir string, log *logger.Log) (*PackageRecord, error) {
	root, err := pkgjson.Parse(contents)
	if err != nil {
		return nil, err
	}

	dir := s.FS.Dir(file)
	record := &PackageRecord{
		PackageDir:   dir,
		PackageJSON:  root,
		JSPackageDir: jsPackageDir,
		Dependencies: map[string]struct{}{},
	}

	if name, ok := root.Get("name"); ok {
		record.PackageName, _ = name.AsString()
	}
	if version, ok := root.Get("version"); ok {
		record.Version, _ = version.AsString()
	}
	record.PackageID = dir + "@" + record.Version

	if deps, ok := root.Get("dependencies"); ok && deps.Kind == pkgjson.KindObject {
		for _, p := range deps.Props {
			record.Dependencies[p.Key] = struct{}{}
		}
	}

	if browser, ok := root.Get("browser"); ok {
		switch browser.Kind {
		case pkgjson.KindString:
			str, _ := browser.AsString()
			record.Browser = &str
		case pkgjson.KindObject:
			record.BrowserOverrides = make(map[string]BrowserOverride, len(browser.Props))
			for _, p := range browser.Props {
				if b, ok := p.Value.AsBool(); ok && !b {
					record.BrowserOverrides[p.Key] = disabledOverride()
					continue
				}
				if str, ok := p.Value.AsString(); ok {
					record.BrowserOverrides[p.Key] = stringOverride(str)
				}
			}
			record.PackageJSON = withoutKey(root, "browser")
		default:
			log.AddWarning(file, "ignoring non-string, non-object \"browser\" field")
		}
	}

	if exp, ok := root.Get("exports"); ok {
		mergePackageExports(record, exp, file, log)
	}

	return record, nil
}

// withoutKey returns a copy of an object value with one top-level key
// removed, used to strip "browser" once it's been consumed as an override
// map so it's never mistaken for a main-field override later.
func withoutKey(v pkgjson.Value, key string) pkgjson.Value {
	if v.Kind != pkgjson.KindObject {
		return v
	}
	out := pkgjson.Value{Kind: pkgjson.KindObject, Props: make([]pkgjson.Property, 0, len(v.Props))}
	for _, p := range v.Props {
		if p.Key == key {
			continue
		}
		out.Props = append(out.Props, p)
	}
	return out
}

// mergePackageExports implements §4.2's normalization into exact/prefix/
// wildcard maps, sorted longest-prefix-first.
func mergePackageExports(record *PackageRecord, exp pkgjson.Value, file string, log *logger.Log) {
	record.ExportsExact = map[string]ExportsMatch{}

	switch exp.Kind {
	case pkgjson.KindString, pkgjson.KindArray:
		record.ExportsExact["."] = exp
		record.Exports = true
		return
	case pkgjson.KindObject:
		// fall through below
	default:
		log.AddWarning(file, "ignoring invalid \"exports\" value")
		return
	}

	firstKey, ok := exp.FirstKey()
	if !ok {
		record.Exports = true
		return
	}

	if !strings.HasPrefix(firstKey, ".") {
		// root-level condition map
		record.ExportsExact["."] = exp
		record.Exports = true
		return
	}

	for _, p := range exp.Props {
		key, match := p.Key, p.Value
		if !strings.HasPrefix(key, ".") {
			log.AddWarning(file, "ignoring \"exports\" key not starting with \".\": "+key)
			continue
		}
		switch {
		case strings.HasSuffix(key, "/"):
			record.ExportsPrefix = append(record.ExportsPrefix, ExportsPrefixEntry{Prefix: key, Match: match})
		case strings.Contains(key, "*"):
			star := strings.IndexByte(key, '*')
			prefix := key[:star]
			var suffix *string
			if star != len(key)-1 {
				s := key[star+1:]
				suffix = &s
			}
			record.ExportsWildcard = append(record.ExportsWildcard, ExportsWildcardEntry{Prefix: prefix, Suffix: suffix, Match: match})
		default:
			record.ExportsExact[key] = match
		}
	}

	sort.SliceStable(record.ExportsPrefix, func(i, j int) bool {
		return len(record.ExportsPrefix[i].Prefix) > len(record.ExportsPrefix[j].Prefix)
	})
	sort.SliceStable(record.ExportsWildcard, func(i, j int) bool {
		return len(record.ExportsWildcard[i].Prefix) > len(record.ExportsWildcard[j].Prefix)
	})

	record.Exports = true
}
