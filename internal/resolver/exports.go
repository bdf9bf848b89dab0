package resolver

import "github.com/nodekit-build/jsresolve/internal/pkgjson"

// findExportsReplacement implements §4.3: resolve an exports/imports match
// value (string, array of candidates, or condition map) down to a single
// replacement path string.
func findExportsReplacement(match pkgjson.Value, conditions []string) (string, bool) {
	switch match.Kind {
	case pkgjson.KindString:
		return match.AsString()
	case pkgjson.KindArray:
		for _, item := range match.Items {
			if s, ok := findExportsReplacement(item, conditions); ok {
				return s, true
			}
		}
		return "", false
	case pkgjson.KindObject:
		for _, cond := range conditions {
			if val, ok := match.Get(cond); ok {
				if s, ok := findExportsReplacement(val, conditions); ok {
					return s, true
				}
			}
		}
		return "", false
	default:
		return "", false
	}
}
