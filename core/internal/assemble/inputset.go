package assemble

import (
	"path/filepath"

	"jarshrink/artifact"
	"jarshrink/core/internal/proguard"
)

// Input is one file claimed as a transformation input.
type Input struct {
	File   artifact.ResolvedFile
	Filter proguard.Filter
	// Backup is set once the original file was moved aside because an
	// output overwrites it.
	Backup bool
}

// InputSet is the ordered set of files already claimed as inputs. The
// -injars options are rendered from it, so a backup substitution made while
// preparing outputs is reflected in the arguments.
type InputSet struct {
	entries []*Input
	skipped bool
}

func NewInputSet() *InputSet {
	return &InputSet{}
}

// Skipped reports that the primary input was missing and the run should be
// short-circuited.
func (s *InputSet) Skipped() bool { return s != nil && s.skipped }

func (s *InputSet) Len() int { return len(s.entries) }

func (s *InputSet) Add(in Input) {
	in.File.Path = filepath.Clean(in.File.Path)
	s.entries = append(s.entries, &in)
}

func (s *InputSet) Contains(path string) bool {
	return s.find(path) != nil
}

// Substitute replaces original with replacement in place, keeping the
// original's position and filter. It reports whether original was present.
func (s *InputSet) Substitute(original, replacement string) bool {
	in := s.find(original)
	if in == nil {
		return false
	}
	in.File = artifact.ResolvedFile{Path: filepath.Clean(replacement), Dir: in.File.Dir}
	in.Backup = true
	return true
}

func (s *InputSet) Inputs() []Input {
	out := make([]Input, 0, len(s.entries))
	for _, in := range s.entries {
		out = append(out, *in)
	}
	return out
}

func (s *InputSet) Paths() []string {
	out := make([]string, 0, len(s.entries))
	for _, in := range s.entries {
		out = append(out, in.File.Path)
	}
	return out
}

func (s *InputSet) Options() proguard.Options {
	opts := make(proguard.Options, 0, len(s.entries))
	for _, in := range s.entries {
		opts = append(opts, proguard.NewOption(proguard.InJars, in.Filter.Render(in.File.Path)))
	}
	return opts
}

func (s *InputSet) find(path string) *Input {
	path = filepath.Clean(path)
	for _, in := range s.entries {
		if in.File.Path == path {
			return in
		}
	}
	return nil
}
