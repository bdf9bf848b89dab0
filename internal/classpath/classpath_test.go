package classpath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, rel, contents string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
}

func TestScanDeclaredNpmDeps_AggregatesAcrossRootsAndNesting(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "app.deps.json", `{"npmDeps":["react","react-dom"]}`)
	writeManifest(t, root, "sub/lib.deps.json", `{"npmDeps":["lodash","react"]}`)
	writeManifest(t, root, "sub/not-a-manifest.json", `{"npmDeps":["ignored"]}`)

	deps, err := ScanDeclaredNpmDeps([]string{root}, "")
	require.NoError(t, err)

	_, hasReact := deps["react"]
	_, hasReactDom := deps["react-dom"]
	_, hasLodash := deps["lodash"]
	_, hasIgnored := deps["ignored"]
	assert.True(t, hasReact)
	assert.True(t, hasReactDom)
	assert.True(t, hasLodash)
	assert.False(t, hasIgnored)
	assert.Len(t, deps, 3)
}

func TestScanDeclaredNpmDeps_SkipsMalformedManifest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "good.deps.json", `{"npmDeps":["ok"]}`)
	writeManifest(t, root, "bad.deps.json", `not json`)

	deps, err := ScanDeclaredNpmDeps([]string{root}, "")
	require.NoError(t, err)
	_, ok := deps["ok"]
	assert.True(t, ok)
	assert.Len(t, deps, 1)
}

func TestScanDeclaredNpmDeps_NoManifestsReturnsEmptySet(t *testing.T) {
	root := t.TempDir()
	deps, err := ScanDeclaredNpmDeps([]string{root}, "")
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestScanDeclaredNpmDeps_CustomGlob(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "custom.manifest.json", `{"npmDeps":["axios"]}`)

	deps, err := ScanDeclaredNpmDeps([]string{root}, "**/*.manifest.json")
	require.NoError(t, err)
	_, ok := deps["axios"]
	assert.True(t, ok)
}
