package assemble

import (
	"context"

	"go.uber.org/zap"

	"jarshrink/artifact"
	"jarshrink/core/internal/proguard"
)

const testScope = "test"

type LibraryPolicy struct {
	BuildDir            string
	IncludeDependencies bool
	// Exclusions are groupId:artifactId:version keys of dependencies that
	// must not become libraries.
	Exclusions []string
	// InputArtifacts are the references already claimed as inputs.
	InputArtifacts []string
	Paths          []string
	Artifacts      []string
	IncludeRuntime bool
	RuntimeJar     string
}

// ValidateExclusions fails with InvalidExclusionError for the first
// exclusion that matches no resolved dependency.
func ValidateExclusions(exclusions []string, deps []artifact.Dependency) error {
	known := make(map[string]struct{}, len(deps))
	for _, d := range deps {
		known[d.VersionKey()] = struct{}{}
	}
	for _, ex := range exclusions {
		if err := artifact.ValidateVersionKey(ex); err != nil {
			return &InvalidExclusionError{Coordinate: ex}
		}
		if _, ok := known[ex]; !ok {
			return &InvalidExclusionError{Coordinate: ex}
		}
	}
	return nil
}

// Libraries builds the -libraryjars options: project dependencies, extra
// library paths, extra library artifacts, then the platform runtime archive.
// Libraries are never filtered.
func Libraries(ctx context.Context, policy LibraryPolicy, resolver *artifact.Resolver, log *zap.Logger) (proguard.Options, error) {
	if log == nil {
		log = zap.NewNop()
	}
	deps := resolver.Dependencies()
	if err := ValidateExclusions(policy.Exclusions, deps); err != nil {
		return nil, err
	}

	excluded := toSet(policy.Exclusions)
	promoted := toSet(policy.InputArtifacts)

	var opts proguard.Options
	if policy.IncludeDependencies {
		for _, d := range deps {
			if d.Scope == testScope {
				continue
			}
			if isPromoted(promoted, d.Coordinate) {
				log.Info("skipping library already claimed as input", zap.String("dependency", d.Coordinate.String()))
				continue
			}
			if _, ok := excluded[d.VersionKey()]; ok {
				log.Info("skipping excluded library", zap.String("dependency", d.Coordinate.String()))
				continue
			}
			f, err := resolver.Resolve(ctx, d.Coordinate)
			if err != nil {
				return nil, err
			}
			log.Info("adding dependent library", zap.String("dependency", d.Coordinate.String()), zap.String("file", f.Path))
			opts = append(opts, proguard.NewOption(proguard.LibraryJars, proguard.Quote(f.Path)))
		}
	}

	for _, name := range policy.Paths {
		paths, err := expandPath(name, policy.BuildDir)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			log.Warn("library path pattern matched nothing", zap.String("pattern", name))
		}
		for _, p := range paths {
			opts = append(opts, proguard.NewOption(proguard.LibraryJars, proguard.Quote(p)))
		}
	}

	for _, raw := range policy.Artifacts {
		c, err := artifact.ParseCoordinate(raw)
		if err != nil {
			return nil, err
		}
		f, err := resolver.Resolve(ctx, c)
		if err != nil {
			return nil, err
		}
		log.Info("adding library artifact", zap.String("coordinate", c.String()), zap.String("file", f.Path))
		opts = append(opts, proguard.NewOption(proguard.LibraryJars, proguard.Quote(f.Path)))
	}

	if policy.IncludeRuntime && policy.RuntimeJar != "" {
		q := proguard.Quote(policy.RuntimeJar)
		log.Info("using runtime library", zap.String("libraryjar", q))
		opts = append(opts, proguard.NewOption(proguard.LibraryJars, q))
	}

	return opts, nil
}

func toSet(items []string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, it := range items {
		m[it] = struct{}{}
	}
	return m
}

func isPromoted(promoted map[string]struct{}, c artifact.Coordinate) bool {
	if _, ok := promoted[c.RefKey()]; ok {
		return true
	}
	_, ok := promoted[c.Key()]
	return ok
}
