package proguard

import "strings"

const (
	ManifestRule   = "!META-INF/MANIFEST.MF"
	DescriptorRule = "!META-INF/maven/**"
)

// Filter describes which exclusion rules apply to one input entry.
type Filter struct {
	ExcludeManifest   bool
	ExcludeDescriptor bool
	// Extra is a raw user-supplied filter fragment appended after the
	// exclusion rules. Empty means none.
	Extra string
}

func (f Filter) rules() []string {
	var rules []string
	if f.ExcludeManifest {
		rules = append(rules, ManifestRule)
	}
	if f.ExcludeDescriptor {
		rules = append(rules, DescriptorRule)
	}
	if extra := strings.TrimSpace(f.Extra); extra != "" {
		rules = append(rules, extra)
	}
	return rules
}

// BuildFilter renders the quoted path followed by its filter list, e.g.
// 'a.jar'(!META-INF/MANIFEST.MF,!META-INF/maven/**). Rule order is fixed:
// manifest, descriptor, then the user fragment. Without any rules only the
// quoted path is returned.
func BuildFilter(path string, excludeManifest, excludeDescriptor bool, extra string) string {
	return Filter{
		ExcludeManifest:   excludeManifest,
		ExcludeDescriptor: excludeDescriptor,
		Extra:             extra,
	}.Render(path)
}

func (f Filter) Render(path string) string {
	var b strings.Builder
	b.WriteString(Quote(path))
	if rules := f.rules(); len(rules) > 0 {
		b.WriteByte('(')
		b.WriteString(strings.Join(rules, ","))
		b.WriteByte(')')
	}
	return b.String()
}
