package main

import "path/filepath"

// absJoin joins path parts and returns the absolute, cleaned result, used
// to satisfy config.Options.Defaulted's joinAbs parameter.
func absJoin(parts ...string) string {
	joined := filepath.Join(parts...)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return joined
	}
	return abs
}
