package resolver

import (
	"fmt"
	"strings"

	"github.com/nodekit-build/jsresolve/internal/config"
	"github.com/nodekit-build/jsresolve/internal/inspector"
	"github.com/nodekit-build/jsresolve/internal/logger"
)

// JSResourceForGlobal implements §4.8's js_resource_for_global: synthesize
// a resource that wires require(require) to an existing browser global,
// without touching the filesystem.
func (s *Service) JSResourceForGlobal(require, global string) *ResourceRecord {
	ns := NSForResourceName(require)
	return &ResourceRecord{
		ResourceID:   ResourceID{Kind: KindGlobal, Name: require},
		ResourceName: require,
		OutputName:   OutputNameFor(require, ns),
		NS:           ns,
		Source:       "module.exports=(" + global + ");",
		CacheKey:     []string{ResolverCacheKey, inspector.CacheKey},
		Provides:     []string{ns},
		Type:         TypeJS,
	}
}

// JSResourceForFile implements §4.8's js_resource_for_file: pick between a
// file and its minified sibling according to the configured mode, then run
// it through the normal file-info pipeline. There is no owning package.
func (s *Service) JSResourceForFile(file, fileMin string, log *logger.Log) (*ResourceRecord, error) {
	target := file
	if s.Options.JS.Mode == config.ModeRelease && fileMin != "" {
		target = fileMin
	}
	return s.buildFileResource(nil, target, log)
}

// ShadowJSRequire implements §4.8's shadow_js_require: render the textual
// shadow.js.require(...) call an emitter embeds to pull in a resolved
// resource, identified by its ns (or, for assets/globals/empty resources,
// its resource_id name) and any global symbols it declares using.
func ShadowJSRequire(rc *ResourceRecord, semicolon bool) string {
	ident := rc.NS
	if rc.ResourceID.Kind != KindResource {
		ident = rc.ResourceID.Name
	}

	globals := make([]string, 0, 2)
	for _, d := range rc.Deps {
		if d == "buffer" || d == "process" {
			globals = append(globals, `"`+d+`"`)
		}
	}

	out := fmt.Sprintf(`shadow.js.require("%s", {"globals":[%s]})`, ident, strings.Join(globals, ","))
	if semicolon {
		out += ";"
	}
	return out
}
