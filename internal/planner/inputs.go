package planner

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// expandInputs expands glob-shaped positional inputs
// ("Sources/**/*.swift") into concrete source paths. Plain paths pass
// through untouched, including ones naming files that do not exist
// yet, which the frontend will diagnose; only paths carrying glob
// metacharacters are run through the matcher. A glob that matches
// nothing is an error rather than a silently empty compile.
func expandInputs(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if !hasGlobMeta(p) {
			out = append(out, p)
			continue
		}
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("planner: bad input pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("planner: input pattern %q matched no files", p)
		}
		out = append(out, matches...)
	}
	return out, nil
}

func hasGlobMeta(p string) bool {
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
