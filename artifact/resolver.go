package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const resolvedCacheSize = 1024

type ResolverConfig struct {
	Dependencies []Dependency
	// Modules maps groupId:artifactId of sibling workspace modules to their
	// compiled-output directory.
	Modules      map[string]string
	Remote       RemoteResolver
	Repositories Repositories
	Logger       *zap.Logger
}

// Resolver maps coordinates to files for one run. Results are memoized, so
// resolving the same coordinate twice never repeats remote resolution.
type Resolver struct {
	deps    []Dependency
	byKey   map[string]Dependency
	modules map[string]string
	remote  RemoteResolver
	repos   Repositories
	cache   *lru.Cache[string, ResolvedFile]
	log     *zap.Logger
}

func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cache, err := lru.New[string, ResolvedFile](resolvedCacheSize)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]Dependency, len(cfg.Dependencies))
	for _, d := range cfg.Dependencies {
		k := d.Key()
		if prev, ok := byKey[k]; ok {
			return nil, fmt.Errorf("dependency key %s is ambiguous: %s and %s", k, prev.Coordinate, d.Coordinate)
		}
		byKey[k] = d
	}

	modules := make(map[string]string, len(cfg.Modules))
	for k, v := range cfg.Modules {
		modules[k] = v
	}

	return &Resolver{
		deps:    append([]Dependency(nil), cfg.Dependencies...),
		byKey:   byKey,
		modules: modules,
		remote:  cfg.Remote,
		repos:   cfg.Repositories,
		cache:   cache,
		log:     log,
	}, nil
}

// Dependencies returns the resolved project dependencies in declaration order.
func (r *Resolver) Dependencies() []Dependency {
	return append([]Dependency(nil), r.deps...)
}

// Lookup finds a declared dependency by groupId:artifactId[:classifier].
func (r *Resolver) Lookup(key string) (Dependency, bool) {
	d, ok := r.byKey[key]
	return d, ok
}

// Resolve returns the file for c. A sibling module without a classifier
// resolves to its output directory; anything else must be a materialized
// dependency or is fetched through the remote resolver.
func (r *Resolver) Resolve(ctx context.Context, c Coordinate) (ResolvedFile, error) {
	if f, ok := r.module(c); ok {
		return f, nil
	}
	if f, ok := r.cache.Get(c.String()); ok {
		return f, nil
	}

	if d, ok := r.byKey[c.Key()]; ok {
		if f, ok := materialized(d.File); ok {
			r.cache.Add(c.String(), f)
			return f, nil
		}
		r.log.Debug("dependency not materialized", zap.String("coordinate", c.String()), zap.String("file", d.File))
	}

	if r.remote == nil {
		return ResolvedFile{}, &ResolutionError{Coordinate: c.String(), Err: errors.New("no remote resolver configured")}
	}

	r.log.Info("resolving artifact remotely", zap.String("coordinate", c.String()), zap.Stringer("repositories", r.repos))
	path, err := r.remote.ResolveRemote(ctx, c, r.repos)
	if err != nil {
		return ResolvedFile{}, &ResolutionError{Coordinate: c.String(), Repositories: r.repos, Err: err}
	}
	f, ok := materialized(path)
	if !ok {
		return ResolvedFile{}, &ResolutionError{Coordinate: c.String(), Repositories: r.repos, Err: fmt.Errorf("resolved file %s does not exist", path)}
	}
	r.log.Info("resolved artifact", zap.String("coordinate", c.String()), zap.String("file", f.Path))
	r.cache.Add(c.String(), f)
	return f, nil
}

// ResolveDeclared resolves a versionless reference that must already be a
// declared dependency. It never falls back to remote resolution.
func (r *Resolver) ResolveDeclared(ref string) (ResolvedFile, Dependency, error) {
	d, ok := r.byKey[ref]
	if !ok {
		return ResolvedFile{}, Dependency{}, &UnresolvedReferenceError{Reference: ref}
	}
	if f, ok := r.module(d.Coordinate); ok {
		return f, d, nil
	}
	f, ok := materialized(d.File)
	if !ok {
		return ResolvedFile{}, d, &ResolutionError{Coordinate: d.Coordinate.String(), Err: fmt.Errorf("dependency file %q is not materialized", d.File)}
	}
	return f, d, nil
}

func (r *Resolver) module(c Coordinate) (ResolvedFile, bool) {
	if c.Classifier != "" {
		return ResolvedFile{}, false
	}
	dir, ok := r.modules[c.RefKey()]
	if !ok {
		return ResolvedFile{}, false
	}
	return ResolvedFile{Path: dir, Dir: true}, true
}

func materialized(path string) (ResolvedFile, bool) {
	if path == "" {
		return ResolvedFile{}, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return ResolvedFile{}, false
	}
	return ResolvedFile{Path: path, Dir: info.IsDir()}, true
}
