// Package classpath implements §6's "Classpath input": scanning a set of
// configured roots for npm-deps manifest files (the deps.cljs-equivalent
// this spec names) and aggregating the flat set of declared npm dependency
// names they list. This never affects resolution; it only answers "is this
// require declared as an npm dep?" for a caller that wants to distinguish
// declared dependencies from transitive ones reachable only by nesting.
package classpath

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultManifestGlob matches manifest files named "<anything>.deps.json"
// at any depth under a classpath root.
const DefaultManifestGlob = "**/*.deps.json"

// Manifest is one manifest file's schema: a flat list of declared npm
// dependency names. encoding/json is sufficient here (unlike package.json,
// nothing in this schema is order-sensitive).
type Manifest struct {
	NpmDeps []string `json:"npmDeps"`
}

// ScanDeclaredNpmDeps walks roots for files matching manifestGlob (falling
// back to DefaultManifestGlob when empty), parses each as a Manifest, and
// returns the aggregated set of declared dependency names. Unreadable or
// malformed manifests are skipped rather than failing the whole scan, since
// a single bad manifest shouldn't block every other declared dependency
// from being recognized.
func ScanDeclaredNpmDeps(roots []string, manifestGlob string) (map[string]struct{}, error) {
	if manifestGlob == "" {
		manifestGlob = DefaultManifestGlob
	}

	out := make(map[string]struct{})
	for _, root := range roots {
		fsys := os.DirFS(root)
		matches, err := doublestar.Glob(fsys, manifestGlob)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			data, err := os.ReadFile(filepath.Join(root, m))
			if err != nil {
				continue
			}
			var manifest Manifest
			if err := json.Unmarshal(data, &manifest); err != nil {
				continue
			}
			for _, dep := range manifest.NpmDeps {
				out[dep] = struct{}{}
			}
		}
	}
	return out, nil
}
