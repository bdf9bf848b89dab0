// Package config holds the resolver's static configuration: the package
// roots to search, the project directory requests are relativized under,
// and the knobs that control exports/imports/browser-field behavior.
package config

// Mode selects whether js_resource_for_file uses a file or its minified
// sibling.
type Mode uint8

const (
	ModeDev Mode = iota
	ModeRelease
)

// Options is the fully-resolved configuration for one resolver Service.
// Defaulted applies the package-root defaulting rule before the service is
// built, and replaces JS with DefaultJSOptions as a whole when
// JS.Extensions is nil; other zero-value fields are left as they are. See
// §6 of the design for the default values.
type Options struct {
	// ProjectDir is the process working directory at service start,
	// normalized to an absolute path. Relative require targets that land
	// outside every package root are relativized under this directory.
	ProjectDir string

	// NodeModulesDir, if set, is prepended to JSPackageDirs as the first
	// root searched.
	NodeModulesDir string

	// JSPackageDirs is the explicit list of package roots. When both this
	// and NodeModulesDir are empty, it defaults to [ProjectDir/node_modules].
	JSPackageDirs []string

	JS JSOptions
}

type JSOptions struct {
	// Extensions tried, in order, when a require target names a file
	// without an extension.
	Extensions []string

	// AllowNestedPackages enables walking up through a requesting
	// package's own node_modules (and its ancestors') before falling back
	// to the globally configured package roots.
	AllowNestedPackages bool

	// UseBrowserOverrides enables the "browser" field override map on
	// bare-specifier requests (§4.6 step 4).
	UseBrowserOverrides bool

	// EntryKeys are tried in order against a package's package.json when
	// resolving its root ("./").
	EntryKeys []string

	// ExportConditions is the ordered condition list used to pick a branch
	// of an exports/imports condition map.
	ExportConditions []string

	// IgnoreExports disables package-exports matching entirely, as if no
	// package ever declared an "exports" field.
	IgnoreExports bool

	// ExportsBypass allows classical (non-exports) resolution to run even
	// against a closed package, instead of failing when exports don't
	// match. See scenario 5 in the design's seed tests.
	ExportsBypass bool

	// PackageOverrides is the user-supplied override table:
	// package name -> (package-relative path starting with "./" -> replacement).
	PackageOverrides map[string]map[string]OverrideValue

	// Mode is consumed only by js_resource_for_file to choose between a
	// file and its minified sibling.
	Mode Mode
}

// OverrideValue is either a replacement path/specifier (IsString true) or
// the boolean false, which disables the module entirely.
type OverrideValue struct {
	IsString bool
	String   string
}

func Disabled() OverrideValue { return OverrideValue{} }
func Replacement(s string) OverrideValue { return OverrideValue{IsString: true, String: s} }

func DefaultJSOptions() JSOptions {
	return JSOptions{
		Extensions:          []string{".js", ".mjs", ".json"},
		AllowNestedPackages: true,
		UseBrowserOverrides: true,
		EntryKeys:           []string{"browser", "main", "module"},
		ExportConditions:    []string{"browser", "require", "default", "module", "import"},
		IgnoreExports:       false,
		ExportsBypass:       false,
		PackageOverrides:    map[string]map[string]OverrideValue{},
		Mode:                ModeDev,
	}
}

// Defaulted fills in the package-root defaulting rule from §6: if neither
// NodeModulesDir nor JSPackageDirs is set, use [ProjectDir/node_modules];
// otherwise NodeModulesDir (if set) is prepended to JSPackageDirs.
func (o Options) Defaulted(joinAbs func(...string) string) Options {
	if o.JS.Extensions == nil {
		o.JS = DefaultJSOptions()
	}

	if o.NodeModulesDir == "" && len(o.JSPackageDirs) == 0 {
		o.JSPackageDirs = []string{joinAbs(o.ProjectDir, "node_modules")}
		return o
	}

	dirs := make([]string, 0, len(o.JSPackageDirs)+1)
	if o.NodeModulesDir != "" {
		dirs = append(dirs, joinAbs(o.NodeModulesDir))
	}
	for _, d := range o.JSPackageDirs {
		dirs = append(dirs, joinAbs(d))
	}
	o.JSPackageDirs = dirs
	return o
}
