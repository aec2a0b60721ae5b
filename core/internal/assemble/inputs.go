package assemble

import (
	"os"

	"go.uber.org/zap"

	"jarshrink/artifact"
	"jarshrink/core/internal/proguard"
)

type InputPolicy struct {
	BuildDir string
	// Primary is the main input, relative to BuildDir unless absolute.
	Primary string
	// PrimaryFilter is a raw filter fragment applied to Primary only.
	PrimaryFilter     string
	Artifacts         []string
	Paths             []string
	ExcludeManifest   bool
	ExcludeDescriptor bool
	// SkipIfMissing turns a missing primary input into a skipped run instead
	// of a MissingInputError.
	SkipIfMissing bool
}

func (p InputPolicy) filter(extra string) proguard.Filter {
	return proguard.Filter{
		ExcludeManifest:   p.ExcludeManifest,
		ExcludeDescriptor: p.ExcludeDescriptor,
		Extra:             extra,
	}
}

// Inputs claims the primary input, then the input artifacts, then the extra
// input paths, in that order.
func Inputs(policy InputPolicy, resolver *artifact.Resolver, log *zap.Logger) (*InputSet, error) {
	if log == nil {
		log = zap.NewNop()
	}
	set := NewInputSet()

	primary := proguard.ResolvePath(policy.Primary, policy.BuildDir)
	info, err := os.Stat(primary)
	if err != nil {
		if policy.SkipIfMissing {
			log.Info("skipping run because the primary input does not exist", zap.String("input", primary))
			set.skipped = true
			return set, nil
		}
		return nil, &MissingInputError{Path: primary}
	}
	set.Add(Input{
		File:   artifact.ResolvedFile{Path: primary, Dir: info.IsDir()},
		Filter: policy.filter(policy.PrimaryFilter),
	})
	log.Info("primary input", zap.String("injar", policy.filter(policy.PrimaryFilter).Render(primary)))

	for _, ref := range policy.Artifacts {
		log.Debug("looking for input artifact", zap.String("reference", ref))
		f, _, err := resolver.ResolveDeclared(ref)
		if err != nil {
			return nil, err
		}
		f.Path = proguard.ResolvePath(f.Path, policy.BuildDir)
		set.Add(Input{File: f, Filter: policy.filter("")})
		log.Info("input artifact", zap.String("reference", ref), zap.String("file", f.Path))
	}

	for _, name := range policy.Paths {
		paths, err := expandPath(name, policy.BuildDir)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			log.Warn("input path pattern matched nothing", zap.String("pattern", name))
		}
		for _, p := range paths {
			f := artifact.ResolvedFile{Path: p}
			if info, err := os.Stat(p); err == nil {
				f.Dir = info.IsDir()
			}
			set.Add(Input{File: f, Filter: policy.filter("")})
			log.Info("input path", zap.String("file", p))
		}
	}

	return set, nil
}
