package assemble

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"jarshrink/core/internal/proguard"
)

// expandPath resolves name against base. Names containing glob syntax are
// expanded with doublestar and returned sorted; plain names are returned as
// is whether or not they exist.
func expandPath(name, base string) ([]string, error) {
	p := proguard.ResolvePath(name, base)
	if !strings.ContainsAny(name, "*?[{") {
		return []string{p}, nil
	}
	matches, err := doublestar.FilepathGlob(p)
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", name, err)
	}
	sort.Strings(matches)
	return matches, nil
}
