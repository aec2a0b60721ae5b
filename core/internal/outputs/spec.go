package outputs

import (
	"path/filepath"

	"jarshrink/artifact"
	"jarshrink/core/internal/proguard"
)

// Spec describes a desired output artifact. Any unset field falls back to
// the project identity or the global defaults when resolved.
type Spec struct {
	GroupID    string `yaml:"groupId,omitempty" json:"groupId,omitempty"`
	ArtifactID string `yaml:"artifactId,omitempty" json:"artifactId,omitempty"`
	Version    string `yaml:"version,omitempty" json:"version,omitempty"`
	Type       string `yaml:"type,omitempty" json:"type,omitempty"`
	Classifier string `yaml:"classifier,omitempty" json:"classifier,omitempty"`
	File       string `yaml:"file,omitempty" json:"file,omitempty"`
	// Attach defaults to true.
	Attach *bool `yaml:"attach,omitempty" json:"attach,omitempty"`
}

type Defaults struct {
	GroupID    string
	ArtifactID string
	Version    string
	Packaging  string
	// Classifier is the configured default classifier. It is applied only
	// when UseDefaultClassifier is set.
	Classifier           string
	UseDefaultClassifier bool
	BuildDir             string
}

// Target is a Spec with every default applied.
type Target struct {
	artifact.Coordinate
	File   string
	Attach bool
}

// Resolve fills in defaults in one place. It reports false when no target
// file can be derived.
func (s Spec) Resolve(d Defaults) (Target, bool) {
	t := Target{
		Coordinate: artifact.Coordinate{
			GroupID:    firstNonEmpty(s.GroupID, d.GroupID),
			ArtifactID: firstNonEmpty(s.ArtifactID, d.ArtifactID),
			Version:    firstNonEmpty(s.Version, d.Version),
			Type:       firstNonEmpty(s.Type, d.Packaging, artifact.DefaultType),
			Classifier: s.Classifier,
		},
		Attach: s.Attach == nil || *s.Attach,
	}
	if t.Classifier == "" && d.UseDefaultClassifier {
		t.Classifier = d.Classifier
	}

	switch {
	case s.File != "":
		t.File = proguard.ResolvePath(s.File, d.BuildDir)
	case t.ArtifactID != "" && t.Version != "":
		t.File = filepath.Join(d.BuildDir, t.FileName())
	default:
		return Target{}, false
	}
	return t, true
}

// DefaultSpecs returns specs unchanged, or a single empty spec that resolves
// entirely from the project identity when none are configured.
func DefaultSpecs(specs []Spec) []Spec {
	if len(specs) > 0 {
		return specs
	}
	return []Spec{{}}
}

// FileSpecs turns bare output paths into specs that are never attached.
func FileSpecs(paths []string) []Spec {
	no := false
	out := make([]Spec, 0, len(paths))
	for _, p := range paths {
		out = append(out, Spec{File: p, Attach: &no})
	}
	return out
}

// BackupName returns the name an overwritten input is moved to.
func BackupName(target string) string {
	base := filepath.Base(target)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)] + "_proguard_base" + ext
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
