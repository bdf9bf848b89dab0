package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodekit-build/jsresolve/internal/config"
	"github.com/nodekit-build/jsresolve/internal/fs"
	"github.com/nodekit-build/jsresolve/internal/inspector"
	"github.com/nodekit-build/jsresolve/internal/logger"
)

func newTestLog() *logger.Log { return logger.NewLog() }

// fakeInspector avoids pulling the tree-sitter grammar into resolver tests;
// resolution behavior doesn't depend on what the inspector reports, only on
// whether it errors.
type fakeInspector struct{}

func (fakeInspector) Inspect(filename, source string) (inspector.Info, error) {
	return inspector.Info{}, nil
}

func newTestService(files map[string]string, projectDir string, packageDirs ...string) *Service {
	mockFS := fs.MockFS(files)
	opts := config.Options{
		ProjectDir:    projectDir,
		JSPackageDirs: packageDirs,
		JS:            config.DefaultJSOptions(),
	}
	return New(mockFS, opts, fakeInspector{})
}

// Scenario 1: bare main resolution.
func TestFindResource_BareMain(t *testing.T) {
	svc := newTestService(map[string]string{
		"/root/node_modules/pkg-a/package.json": `{"name":"pkg-a","main":"lib/index.js"}`,
		"/root/node_modules/pkg-a/lib/index.js": `module.exports = 1;`,
	}, "/root", "/root/node_modules")

	rc, log, err := svc.FindResource(nil, "pkg-a")
	require.NoError(t, err)
	require.NotNil(t, rc)
	assert.Empty(t, log.Msgs())
	assert.Equal(t, "node_modules/pkg-a/lib/index.js", rc.ResourceName)
	assert.Equal(t, "module$node_modules$pkg_a$lib$index", rc.NS)
	assert.Equal(t, []string{rc.NS}, rc.Provides)
}

// Scenario 2: nested subpath with extension search.
func TestFindResource_ExtensionSearch(t *testing.T) {
	svc := newTestService(map[string]string{
		"/root/node_modules/pkg-a/package.json": `{"name":"pkg-a","main":"lib/index.js"}`,
		"/root/node_modules/pkg-a/lib/index.js": `module.exports = 1;`,
		"/root/node_modules/pkg-a/util.js":      `module.exports = 2;`,
	}, "/root", "/root/node_modules")

	rc, _, err := svc.FindResource(nil, "pkg-a/util")
	require.NoError(t, err)
	require.NotNil(t, rc)
	assert.Equal(t, "/root/node_modules/pkg-a/util.js", rc.File)
}

// Scenario 3: name disambiguation between "object.assign" and
// "object-assign".
func TestResourceNameForFile_Disambiguation(t *testing.T) {
	svc := newTestService(map[string]string{
		"/root/node_modules/object.assign/package.json": `{"name":"object.assign","main":"index.js"}`,
		"/root/node_modules/object.assign/index.js":      `module.exports = 1;`,
		"/root/node_modules/object-assign/package.json":  `{"name":"object-assign","main":"index.js"}`,
		"/root/node_modules/object-assign/index.js":       `module.exports = 2;`,
	}, "/root", "/root/node_modules")

	dotted, _, err := svc.FindResource(nil, "object.assign")
	require.NoError(t, err)
	dashed, _, err := svc.FindResource(nil, "object-assign")
	require.NoError(t, err)

	assert.Equal(t, "node_modules/object_DOT_assign/index.js", dotted.ResourceName)
	assert.Equal(t, "node_modules/object-assign/index.js", dashed.ResourceName)
	assert.NotEqual(t, dotted.ResourceName, dashed.ResourceName)
}

// Scenario 4: exports wildcard matching, and failure when nothing matches
// on a closed package.
func TestFindResource_ExportsWildcard(t *testing.T) {
	svc := newTestService(map[string]string{
		"/root/node_modules/p/package.json":          `{"name":"p","exports":{"./feat/*.js":"./src/feat/*.js"}}`,
		"/root/node_modules/p/src/feat/alpha.js":      `module.exports = 1;`,
	}, "/root", "/root/node_modules")

	rc, _, err := svc.FindResource(nil, "p/feat/alpha.js")
	require.NoError(t, err)
	require.NotNil(t, rc)
	assert.Equal(t, "/root/node_modules/p/src/feat/alpha.js", rc.File)

	_, _, err = svc.FindResource(nil, "p/feat/alpha")
	require.Error(t, err)
	var rerr *ResolveError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ExportsResolutionFailed, rerr.Kind)
}

// Scenario 5: exports_bypass lets classical resolution reach into a closed
// package's internals.
func TestFindResource_ExportsBypass(t *testing.T) {
	files := map[string]string{
		"/root/node_modules/p/package.json":     `{"name":"p","exports":{"./feat/*.js":"./src/feat/*.js"}}`,
		"/root/node_modules/p/src/feat/alpha.js": `module.exports = 1;`,
	}
	mockFS := fs.MockFS(files)
	opts := config.Options{
		ProjectDir:    "/root",
		JSPackageDirs: []string{"/root/node_modules"},
		JS:            config.DefaultJSOptions(),
	}
	opts.JS.ExportsBypass = true
	svc := New(mockFS, opts, fakeInspector{})

	rc, _, err := svc.FindResource(nil, "p/src/feat/alpha.js")
	require.NoError(t, err)
	require.NotNil(t, rc)
	assert.Equal(t, "/root/node_modules/p/src/feat/alpha.js", rc.File)
}

// Scenario 6: browser override redirects a bare require to another package.
func TestFindResource_BrowserOverrideRedirectsPackage(t *testing.T) {
	svc := newTestService(map[string]string{
		"/root/node_modules/consumer/package.json": `{"name":"consumer","main":"index.js","browser":{"fs":"memfs"}}`,
		"/root/node_modules/consumer/index.js":      `require("fs");`,
		"/root/node_modules/memfs/package.json":     `{"name":"memfs","main":"lib/index.js"}`,
		"/root/node_modules/memfs/lib/index.js":     `module.exports = {};`,
	}, "/root", "/root/node_modules")

	consumerRC, _, err := svc.FindResource(nil, "consumer")
	require.NoError(t, err)
	require.NotNil(t, consumerRC)

	requireFrom := &RequireFrom{File: consumerRC.File, Package: consumerRC.Package}
	rc, _, err := svc.FindResource(requireFrom, "fs")
	require.NoError(t, err)
	require.NotNil(t, rc)
	assert.Equal(t, "/root/node_modules/memfs/lib/index.js", rc.File)
}

// A false browser override disables the module entirely.
func TestFindResource_BrowserOverrideDisabled(t *testing.T) {
	svc := newTestService(map[string]string{
		"/root/node_modules/consumer/package.json": `{"name":"consumer","main":"index.js","browser":{"fs":false}}`,
		"/root/node_modules/consumer/index.js":      `require("fs");`,
	}, "/root", "/root/node_modules")

	consumerRC, _, err := svc.FindResource(nil, "consumer")
	require.NoError(t, err)

	requireFrom := &RequireFrom{File: consumerRC.File, Package: consumerRC.Package}
	rc, _, err := svc.FindResource(requireFrom, "fs")
	require.NoError(t, err)
	assert.Same(t, EmptyResource, rc)
}

// Absolute requires are always rejected.
func TestFindResource_AbsolutePathRejected(t *testing.T) {
	svc := newTestService(map[string]string{}, "/root", "/root/node_modules")
	_, _, err := svc.FindResource(nil, "/etc/passwd")
	require.Error(t, err)
	var rerr *ResolveError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, AbsolutePath, rerr.Kind)
}

// "#" subpath imports resolve via package.json's "imports" map.
func TestFindResource_SubpathImports(t *testing.T) {
	svc := newTestService(map[string]string{
		"/root/node_modules/p/package.json": `{"name":"p","imports":{"#util":"./src/util.js"}}`,
		"/root/node_modules/p/src/util.js":  `module.exports = 1;`,
	}, "/root", "/root/node_modules")

	pkgRC, _, err := svc.FindResource(nil, "p")
	require.NoError(t, err)
	assert.Nil(t, pkgRC) // no entry keys present and no index.js fallback

	pkg := readPackageForTest(t, svc, "/root/node_modules/p/package.json", "/root/node_modules")
	requireFrom := &RequireFrom{File: "/root/node_modules/p/src/main.js", Package: pkg}
	rc, _, err := svc.FindResource(requireFrom, "#util")
	require.NoError(t, err)
	require.NotNil(t, rc)
	assert.Equal(t, "/root/node_modules/p/src/util.js", rc.File)
}

// A relative require with no origin file fails per §7.
func TestFindResource_RelativeWithoutRequireFrom(t *testing.T) {
	svc := newTestService(map[string]string{}, "/root", "/root/node_modules")
	_, _, err := svc.FindResource(nil, "./sibling.js")
	require.Error(t, err)
	var rerr *ResolveError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, NoRequireFrom, rerr.Kind)
}

// A relative require resolves against the requiring file's directory.
func TestFindResource_RelativeSibling(t *testing.T) {
	svc := newTestService(map[string]string{
		"/root/node_modules/p/package.json":  `{"name":"p","main":"index.js"}`,
		"/root/node_modules/p/index.js":      `require("./sibling.js");`,
		"/root/node_modules/p/sibling.js":    `module.exports = 1;`,
	}, "/root", "/root/node_modules")

	pkgRC, _, err := svc.FindResource(nil, "p")
	require.NoError(t, err)

	requireFrom := &RequireFrom{File: pkgRC.File, Package: pkgRC.Package}
	rc, _, err := svc.FindResource(requireFrom, "./sibling.js")
	require.NoError(t, err)
	require.NotNil(t, rc)
	assert.Equal(t, "/root/node_modules/p/sibling.js", rc.File)
}

// Override application happens after classical resolution; overriding
// "./a.js" to "./b.js" yields the same resource as requesting "./b.js"
// directly (§8 invariant).
func TestFindResource_PackageOverrideEquivalence(t *testing.T) {
	files := map[string]string{
		"/root/node_modules/p/package.json": `{"name":"p","main":"a.js"}`,
		"/root/node_modules/p/a.js":          `module.exports = 1;`,
		"/root/node_modules/p/b.js":          `module.exports = 2;`,
	}
	mockFS := fs.MockFS(files)
	opts := config.Options{
		ProjectDir:    "/root",
		JSPackageDirs: []string{"/root/node_modules"},
		JS:            config.DefaultJSOptions(),
	}
	opts.JS.PackageOverrides = map[string]map[string]config.OverrideValue{
		"p": {"./a.js": config.Replacement("./b.js")},
	}
	svc := New(mockFS, opts, fakeInspector{})

	overridden, _, err := svc.FindResource(nil, "p")
	require.NoError(t, err)

	direct, _, err := svc.FindResource(nil, "p/b.js")
	require.NoError(t, err)

	assert.Equal(t, direct.ResourceName, overridden.ResourceName)
	assert.Equal(t, direct.File, overridden.File)
}

// A nested package install is found by walking the requester's own
// node_modules before falling back to the global package roots.
func TestFindResource_NestedPackageInstall(t *testing.T) {
	svc := newTestService(map[string]string{
		"/root/node_modules/outer/package.json":                        `{"name":"outer","main":"index.js"}`,
		"/root/node_modules/outer/index.js":                             `require("inner");`,
		"/root/node_modules/outer/node_modules/inner/package.json":      `{"name":"inner","main":"index.js"}`,
		"/root/node_modules/outer/node_modules/inner/index.js":          `module.exports = 1;`,
		"/root/node_modules/inner/package.json":                        `{"name":"inner","main":"index.js"}`,
		"/root/node_modules/inner/index.js":                             `module.exports = 2;`,
	}, "/root", "/root/node_modules")

	outerRC, _, err := svc.FindResource(nil, "outer")
	require.NoError(t, err)

	requireFrom := &RequireFrom{File: outerRC.File, Package: outerRC.Package}
	rc, _, err := svc.FindResource(requireFrom, "inner")
	require.NoError(t, err)
	assert.Equal(t, "/root/node_modules/outer/node_modules/inner/index.js", rc.File)
}

// read_package_json caches by file identity until mtime changes.
func TestReadPackageJSON_CachedUntilMtimeChanges(t *testing.T) {
	mockFS := fs.MockFS(map[string]string{
		"/root/node_modules/p/package.json": `{"name":"p","version":"1.0.0"}`,
	}).(interface {
		fs.FS
		WriteFile(string, string)
	})
	opts := config.Options{
		ProjectDir:    "/root",
		JSPackageDirs: []string{"/root/node_modules"},
		JS:            config.DefaultJSOptions(),
	}
	svc := New(mockFS, opts, fakeInspector{})

	rec1, err := svc.findPackage("p", newTestLog())
	require.NoError(t, err)
	rec2, err := svc.findPackage("p", newTestLog())
	require.NoError(t, err)
	assert.Same(t, rec1, rec2)

	mockFS.WriteFile("/root/node_modules/p/package.json", `{"name":"p","version":"2.0.0"}`)
	svc.Caches.Packages.Delete("p") // the top-level Packages cache has no mtime check of its own
	rec3, err := svc.findPackage("p", newTestLog())
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", rec3.Version)
	assert.NotSame(t, rec1, rec3)
}

// output_name falls back to a hashed placeholder once resource_name
// exceeds 127 bytes.
func TestOutputNameFor_TooLong(t *testing.T) {
	long := "node_modules/" + strings.Repeat("a", 130) + "/index.js"
	ns := NSForResourceName(long)
	out := OutputNameFor(long, ns)
	assert.NotEqual(t, ns+".js", out)
	assert.Contains(t, out, "module$too_long_")
}

func readPackageForTest(t *testing.T, svc *Service, file, jsPackageDir string) *PackageRecord {
	t.Helper()
	rec, err := svc.readPackageJSON(file, jsPackageDir, newTestLog())
	require.NoError(t, err)
	return rec
}
