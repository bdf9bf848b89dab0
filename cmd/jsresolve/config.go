package main

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/nodekit-build/jsresolve/internal/config"
	"github.com/nodekit-build/jsresolve/internal/resolver"
)

// rawJSOptions mirrors config.JSOptions as a viper/mapstructure-friendly
// layer, following the pack's split (e.g. wayli-app-fluxbase's
// internal/config.Config) between a tagged struct viper decodes into and
// the stricter internal type application code actually consumes.
type rawJSOptions struct {
	Extensions          []string                          `mapstructure:"extensions"`
	AllowNestedPackages bool                               `mapstructure:"allow_nested_packages"`
	UseBrowserOverrides bool                               `mapstructure:"use_browser_overrides"`
	EntryKeys           []string                           `mapstructure:"entry_keys"`
	ExportConditions    []string                           `mapstructure:"export_conditions"`
	IgnoreExports       bool                               `mapstructure:"ignore_exports"`
	ExportsBypass       bool                               `mapstructure:"exports_bypass"`
	Mode                string                             `mapstructure:"mode"`
	PackageOverrides    map[string]map[string]interface{}  `mapstructure:"package_overrides"`
}

type rawOptions struct {
	ProjectDir     string       `mapstructure:"project_dir"`
	NodeModulesDir string       `mapstructure:"node_modules_dir"`
	JSPackageDirs  []string     `mapstructure:"js_package_dirs"`
	JS             rawJSOptions `mapstructure:"js"`
}

// loadOptions layers a "jsresolve.yaml" config file (if present),
// JSRESOLVE_-prefixed environment variables, and the defaults from
// config.DefaultJSOptions into config.Options, then applies §6's
// package-root defaulting rule. An environment variable takes effect only
// for a key the config file also sets: no keys are registered with viper
// through defaults or BindEnv, so Unmarshal does not see the others.
func loadOptions(v *viper.Viper, projectDir string, joinAbs func(...string) string) (config.Options, error) {
	v.SetEnvPrefix("JSRESOLVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("jsresolve")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(projectDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config.Options{}, err
		}
	}

	defaults := config.DefaultJSOptions()
	raw := rawOptions{
		ProjectDir: projectDir,
		JS: rawJSOptions{
			Extensions:          defaults.Extensions,
			AllowNestedPackages: defaults.AllowNestedPackages,
			UseBrowserOverrides: defaults.UseBrowserOverrides,
			EntryKeys:           defaults.EntryKeys,
			ExportConditions:    defaults.ExportConditions,
			Mode:                "dev",
		},
	}
	if err := v.Unmarshal(&raw); err != nil {
		return config.Options{}, err
	}

	overrides, err := convertPackageOverrides(raw.JS.PackageOverrides)
	if err != nil {
		return config.Options{}, err
	}

	opts := config.Options{
		ProjectDir:     raw.ProjectDir,
		NodeModulesDir: raw.NodeModulesDir,
		JSPackageDirs:  raw.JSPackageDirs,
		JS: config.JSOptions{
			Extensions:          raw.JS.Extensions,
			AllowNestedPackages: raw.JS.AllowNestedPackages,
			UseBrowserOverrides: raw.JS.UseBrowserOverrides,
			EntryKeys:           raw.JS.EntryKeys,
			ExportConditions:    raw.JS.ExportConditions,
			IgnoreExports:       raw.JS.IgnoreExports,
			ExportsBypass:       raw.JS.ExportsBypass,
			PackageOverrides:    overrides,
			Mode:                config.ModeDev,
		},
	}
	if raw.JS.Mode == "release" {
		opts.JS.Mode = config.ModeRelease
	}

	return opts.Defaulted(joinAbs), nil
}

// convertPackageOverrides decodes the config file's loosely-typed override
// table into config.OverrideValue, rejecting any value that is neither a
// string nor the boolean false — the one place this CLI needs
// resolver.InvalidOverride: a config-file typo (a number, a list) would
// otherwise silently vanish instead of being reported.
func convertPackageOverrides(raw map[string]map[string]interface{}) (map[string]map[string]config.OverrideValue, error) {
	out := make(map[string]map[string]config.OverrideValue, len(raw))
	for pkgName, entries := range raw {
		converted := make(map[string]config.OverrideValue, len(entries))
		for path, val := range entries {
			switch v := val.(type) {
			case string:
				converted[path] = config.Replacement(v)
			case bool:
				if v {
					return nil, resolver.NewError(resolver.InvalidOverride, "package", pkgName, "path", path)
				}
				converted[path] = config.Disabled()
			default:
				return nil, resolver.NewError(resolver.InvalidOverride, "package", pkgName, "path", path)
			}
		}
		out[pkgName] = converted
	}
	return out, nil
}
