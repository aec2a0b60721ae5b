// Package project loads the description of the project being shrunk: its
// identity, its resolved dependencies, its sibling workspace modules and the
// repositories to fall back to.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"jarshrink/artifact"
)

const DefaultFile = "jarshrink-project.yaml"

type Project struct {
	GroupID    string `yaml:"groupId"`
	ArtifactID string `yaml:"artifactId"`
	Version    string `yaml:"version"`
	Packaging  string `yaml:"packaging"`
	FinalName  string `yaml:"finalName"`

	BaseDir         string `yaml:"basedir"`
	BuildDirectory  string `yaml:"buildDirectory"`
	OutputDirectory string `yaml:"outputDirectory"`

	Dependencies []artifact.Dependency `yaml:"dependencies"`
	// Modules maps groupId:artifactId of sibling modules to their compiled
	// output directory.
	Modules         map[string]string     `yaml:"modules"`
	Repositories    artifact.Repositories `yaml:"repositories"`
	LocalRepository string                `yaml:"localRepository"`
}

// Load reads a project file. Relative directories are resolved against the
// file's base directory, which itself defaults to the directory holding the
// file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}
	p := &Project{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse project %s: %w", path, err)
	}

	if p.BaseDir == "" {
		p.BaseDir = filepath.Dir(path)
	}
	if err := p.normalize(); err != nil {
		return nil, fmt.Errorf("project %s: %w", path, err)
	}
	return p, nil
}

func (p *Project) normalize() error {
	base, err := filepath.Abs(p.BaseDir)
	if err != nil {
		return err
	}
	p.BaseDir = base

	if p.Packaging == "" {
		p.Packaging = artifact.DefaultType
	}
	if p.BuildDirectory == "" {
		p.BuildDirectory = "target"
	}
	p.BuildDirectory = p.abs(p.BuildDirectory)
	if p.OutputDirectory == "" {
		p.OutputDirectory = filepath.Join(p.BuildDirectory, "classes")
	}
	p.OutputDirectory = p.abs(p.OutputDirectory)
	if p.FinalName == "" && p.ArtifactID != "" {
		p.FinalName = p.ArtifactID + "-" + p.Version
	}
	if p.LocalRepository == "" {
		if home, err := os.UserHomeDir(); err == nil {
			p.LocalRepository = filepath.Join(home, ".m2", "repository")
		}
	} else {
		p.LocalRepository = p.abs(p.LocalRepository)
	}

	for i := range p.Dependencies {
		d := &p.Dependencies[i]
		if d.Type == "" {
			d.Type = artifact.DefaultType
		}
		if d.Scope == "" {
			d.Scope = "compile"
		}
		if d.File != "" {
			d.File = p.abs(d.File)
		}
	}
	for k, dir := range p.Modules {
		if err := artifact.ValidateReference(k); err != nil {
			return fmt.Errorf("module %q: %w", k, err)
		}
		p.Modules[k] = p.abs(dir)
	}
	return nil
}

// Coordinate is the project's own identity.
func (p *Project) Coordinate() artifact.Coordinate {
	return artifact.Coordinate{GroupID: p.GroupID, ArtifactID: p.ArtifactID, Version: p.Version, Type: p.Packaging}
}

func (p *Project) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.BaseDir, path)
}
