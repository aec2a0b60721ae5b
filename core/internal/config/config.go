package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"jarshrink/core/internal/outputs"
)

const DefaultFile = "jarshrink.yaml"

// Settings is the on-disk configuration. Empty path fields are derived from
// the project when the settings are resolved.
type Settings struct {
	Skip       bool `yaml:"skip"`
	Test       bool `yaml:"test"`
	DontAttach bool `yaml:"dontAttach"`

	BuildDirectory  string `yaml:"buildDirectory"`
	OutputDirectory string `yaml:"proguardOutputDirectory"`

	IncludeFile       string      `yaml:"proguardIncludeFile"`
	IgnoreIncludeFile bool        `yaml:"ignoreIncludeFile"`
	Options           ToolOptions `yaml:"options"`
	Obfuscate         bool        `yaml:"obfuscate"`
	Shrink            bool        `yaml:"shrink"`
	DontWarn          bool        `yaml:"dontwarn"`

	LibraryJarPaths         []string `yaml:"libraryJarPaths"`
	LibraryArtifacts        []string `yaml:"libraryArtifacts"`
	ExcludeLibraryArtifacts []string `yaml:"excludeLibraryArtifacts"`
	IncludeDependencies     bool     `yaml:"includeDependencies"`
	IncludeJreRuntimeJar    bool     `yaml:"includeJreRuntimeJar"`
	RuntimeJar              string   `yaml:"runtimeJar"`

	InputFile          string   `yaml:"inputFile"`
	InputFileFilter    string   `yaml:"inputFileFilter"`
	InputArtifacts     []string `yaml:"inputArtifacts"`
	InputJarPaths      []string `yaml:"inputJarPaths"`
	InjarNotExistsSkip bool     `yaml:"injarNotExistsSkip"`
	ExcludeManifests   bool     `yaml:"excludeManifests"`
	ExcludeDescriptor  bool     `yaml:"excludeMavenDescriptor"`

	OutputArtifacts                     []outputs.Spec `yaml:"outputArtifacts"`
	DefaultOutputArtifactClassifier     string         `yaml:"defaultOutputArtifactClassifier"`
	UseDefaultOutputArtifactClassifiers bool           `yaml:"useDefaultOutputArtifactClassifiers"`
	OutJars                             []string       `yaml:"outJars"`

	PrintMapping                 bool   `yaml:"printMapping"`
	PrintMappingFile             string `yaml:"printMappingFile"`
	PrintMappingAttachAsArtifact bool   `yaml:"printMappingAttachAsArtifact"`
	PrintSeeds                   bool   `yaml:"printSeeds"`
	PrintSeedsFile               string `yaml:"printSeedsFile"`
	PrintSeedsAttachAsArtifact   bool   `yaml:"printSeedsAttachAsArtifact"`

	DeleteInputFiles bool `yaml:"deleteInputFiles"`

	Tool    ToolSettings    `yaml:"tool"`
	Logging LoggingSettings `yaml:"logging"`
}

type ToolSettings struct {
	Java    string   `yaml:"java"`
	Jar     string   `yaml:"jar"`
	JVMArgs []string `yaml:"jvmArgs"`
	Timeout string   `yaml:"timeout"`
}

type LoggingSettings struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

func Default() *Settings {
	return &Settings{
		Obfuscate: true,
		Shrink:    true,

		IncludeDependencies:  true,
		IncludeJreRuntimeJar: true,

		ExcludeManifests:  true,
		ExcludeDescriptor: true,

		DefaultOutputArtifactClassifier:     "small",
		UseDefaultOutputArtifactClassifiers: true,

		PrintMapping:                 true,
		PrintMappingFile:             "proguard.map",
		PrintMappingAttachAsArtifact: true,
		PrintSeedsFile:               "proguard.seeds",

		Tool: ToolSettings{
			Java:    "java",
			Timeout: "30m",
		},
		Logging: LoggingSettings{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads settings from a YAML file over the defaults. A missing file
// yields the defaults. A .env file in the working directory is loaded first
// and JARSHRINK_* variables override the file.
func Load(path string) (*Settings, error) {
	_ = godotenv.Load()

	s := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := s.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyEnvOverrides() error {
	bools := map[string]*bool{
		"JARSHRINK_SKIP":              &s.Skip,
		"JARSHRINK_TEST":              &s.Test,
		"JARSHRINK_DONTATTACH":        &s.DontAttach,
		"JARSHRINK_IGNOREINCLUDEFILE": &s.IgnoreIncludeFile,
	}
	for name, dst := range bools {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", name, v, err)
		}
		*dst = b
	}

	strs := map[string]*string{
		"JARSHRINK_BUILDDIR":   &s.BuildDirectory,
		"JARSHRINK_OUTPUT":     &s.OutputDirectory,
		"JARSHRINK_RUNTIMEJAR": &s.RuntimeJar,
		"JARSHRINK_TOOLJAR":    &s.Tool.Jar,
		"JARSHRINK_JAVA":       &s.Tool.Java,
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	return nil
}
