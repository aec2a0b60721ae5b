package artifact

import (
	"context"
	"strings"
)

// Dependency is one resolved project dependency as supplied by the host
// build's dependency graph.
type Dependency struct {
	Coordinate `yaml:",inline"`
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	Scope      string `json:"scope,omitempty" yaml:"scope,omitempty"`
}

// ResolvedFile is a concrete file or classes directory. Immutable once
// produced.
type ResolvedFile struct {
	Path string
	Dir  bool
}

// Repository is a remote artifact repository.
type Repository struct {
	ID  string `json:"id" yaml:"id"`
	URL string `json:"url" yaml:"url"`
}

func (r Repository) String() string {
	if r.ID == "" {
		return r.URL
	}
	return r.ID + " (" + r.URL + ")"
}

type Repositories []Repository

func (rs Repositories) String() string {
	names := make([]string, 0, len(rs))
	for _, r := range rs {
		names = append(names, r.String())
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// RemoteResolver fetches a coordinate that is not materialized locally.
type RemoteResolver interface {
	ResolveRemote(ctx context.Context, c Coordinate, repos Repositories) (string, error)
}
