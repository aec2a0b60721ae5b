package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jarshrink/artifact"
	"jarshrink/core/internal/assemble"
	"jarshrink/core/internal/outputs"
	"jarshrink/core/internal/project"
	"jarshrink/core/internal/proguard"
)

// Config is the fully defaulted, validated configuration for one run. It is
// built once by Resolve and not modified afterwards.
type Config struct {
	Skip       bool
	DryRun     bool
	DontAttach bool

	BuildDir  string
	OutputDir string
	// IncludeFile is empty when no include file should be passed.
	IncludeFile string

	Inputs    assemble.InputPolicy
	Libraries assemble.LibraryPolicy

	Obfuscate bool
	Shrink    bool
	DontWarn  bool

	// MappingFile and SeedsFile are empty when disabled.
	MappingFile   string
	AttachMapping bool
	SeedsFile     string
	AttachSeeds   bool

	Options proguard.Options

	// Outputs are the configured or synthesized specs followed by outJars.
	Outputs        []outputs.Spec
	OutputDefaults outputs.Defaults

	DeleteInputFiles bool

	Project         project.Project
	LocalRepository string

	Java        string
	JVMArgs     []string
	ToolJar     string
	ToolTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// Resolve applies every project-derived default in one place and validates
// the result.
func (s *Settings) Resolve(p *project.Project) (*Config, error) {
	if p == nil {
		return nil, errors.New("no project")
	}

	buildDir := s.BuildDirectory
	if buildDir == "" {
		buildDir = p.BuildDirectory
	}
	buildDir = proguard.ResolvePath(buildDir, p.BaseDir)

	outDir := s.OutputDirectory
	if outDir == "" {
		outDir = filepath.Join(buildDir, "proguard")
	}
	outDir = proguard.ResolvePath(outDir, p.BaseDir)

	c := &Config{
		Skip:       s.Skip,
		DryRun:     s.Test,
		DontAttach: s.DontAttach,
		BuildDir:   buildDir,
		OutputDir:  outDir,
		Obfuscate:  s.Obfuscate,
		Shrink:     s.Shrink,
		DontWarn:   s.DontWarn,
		Options:    proguard.Options(s.Options),

		DeleteInputFiles: s.DeleteInputFiles,
		Project:          *p,
		LocalRepository:  p.LocalRepository,

		Java:    s.Tool.Java,
		JVMArgs: append([]string(nil), s.Tool.JVMArgs...),
		ToolJar: s.Tool.Jar,

		LogLevel:  s.Logging.Level,
		LogFormat: s.Logging.Format,
	}

	if !s.IgnoreIncludeFile {
		include := s.IncludeFile
		if include == "" {
			include = filepath.Join(p.BaseDir, "src", "main", "config", p.ArtifactID+"-maven.pro")
		}
		c.IncludeFile = proguard.ResolvePath(include, buildDir)
	}

	if s.PrintMapping && s.PrintMappingFile != "" {
		c.MappingFile = proguard.ResolvePath(s.PrintMappingFile, outDir)
		c.AttachMapping = s.PrintMappingAttachAsArtifact
	}
	if s.PrintSeeds && s.PrintSeedsFile != "" {
		c.SeedsFile = proguard.ResolvePath(s.PrintSeedsFile, outDir)
		c.AttachSeeds = s.PrintSeedsAttachAsArtifact
	}

	inputFile := s.InputFile
	if inputFile == "" {
		inputFile = p.FinalName + "." + p.Packaging
	}
	c.Inputs = assemble.InputPolicy{
		BuildDir:          buildDir,
		Primary:           inputFile,
		PrimaryFilter:     s.InputFileFilter,
		Artifacts:         append([]string(nil), s.InputArtifacts...),
		Paths:             append([]string(nil), s.InputJarPaths...),
		ExcludeManifest:   s.ExcludeManifests,
		ExcludeDescriptor: s.ExcludeDescriptor,
		SkipIfMissing:     s.InjarNotExistsSkip,
	}

	runtimeJar := s.RuntimeJar
	if runtimeJar == "" {
		if home := os.Getenv("JAVA_HOME"); home != "" {
			runtimeJar = filepath.Join(home, "lib", "rt.jar")
		}
	}
	c.Libraries = assemble.LibraryPolicy{
		BuildDir:            buildDir,
		IncludeDependencies: s.IncludeDependencies,
		Exclusions:          append([]string(nil), s.ExcludeLibraryArtifacts...),
		InputArtifacts:      append([]string(nil), s.InputArtifacts...),
		Paths:               append([]string(nil), s.LibraryJarPaths...),
		Artifacts:           append([]string(nil), s.LibraryArtifacts...),
		IncludeRuntime:      s.IncludeJreRuntimeJar,
		RuntimeJar:          runtimeJar,
	}

	c.OutputDefaults = outputs.Defaults{
		GroupID:              p.GroupID,
		ArtifactID:           p.ArtifactID,
		Version:              p.Version,
		Packaging:            p.Packaging,
		Classifier:           s.DefaultOutputArtifactClassifier,
		UseDefaultClassifier: s.UseDefaultOutputArtifactClassifiers,
		BuildDir:             buildDir,
	}
	c.Outputs = append(append([]outputs.Spec(nil), outputs.DefaultSpecs(s.OutputArtifacts)...), outputs.FileSpecs(s.OutJars)...)

	if s.Tool.Timeout != "" {
		d, err := time.ParseDuration(s.Tool.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid tool timeout %q: %w", s.Tool.Timeout, err)
		}
		c.ToolTimeout = d
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate checks what can be checked without touching the filesystem.
// Exclusions are checked against the dependency set when libraries are
// assembled.
func (c *Config) Validate() error {
	if c.Project.ArtifactID == "" {
		return errors.New("project artifactId is not set")
	}
	if c.BuildDir == "" {
		return errors.New("build directory is not set")
	}
	for _, ref := range c.Inputs.Artifacts {
		if err := artifact.ValidateReference(ref); err != nil {
			return fmt.Errorf("inputArtifacts: %w", err)
		}
	}
	for _, raw := range c.Libraries.Artifacts {
		if _, err := artifact.ParseCoordinate(raw); err != nil {
			return fmt.Errorf("libraryArtifacts: %w", err)
		}
	}
	for _, o := range c.Options {
		if o.Name == "" {
			return errors.New("options: empty option name")
		}
	}
	if !c.Skip && !c.DryRun && c.ToolJar == "" {
		return errors.New("tool jar is not configured (set tool.jar or JARSHRINK_TOOLJAR)")
	}

	valid := false
	for _, l := range validLevels {
		if c.LogLevel == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.LogLevel, validLevels)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.LogFormat)
	}
	return nil
}
