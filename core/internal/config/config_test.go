package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jarshrink/core/internal/project"
	"jarshrink/core/internal/proguard"
)

func testProject() *project.Project {
	return &project.Project{
		GroupID:        "com.x",
		ArtifactID:     "app",
		Version:        "1.0",
		Packaging:      "jar",
		FinalName:      "app-1.0",
		BaseDir:        "/work/app",
		BuildDirectory: "/work/app/target",
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), s); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileOverDefaults(t *testing.T) {
	s, err := Load(writeConfig(t, `
obfuscate: false
inputFileFilter: "!**.txt"
excludeLibraryArtifacts:
  - com.x:b:1.0
options:
  keep: public class com.x.Main { *; }
  -allowaccessmodification:
  optimizationpasses: 3
outputArtifacts:
  - classifier: min
    attach: false
tool:
  jar: /opt/proguard.jar
`))
	require.NoError(t, err)

	assert.False(t, s.Obfuscate)
	assert.True(t, s.Shrink, "unset fields keep their defaults")
	assert.True(t, s.PrintMapping)
	assert.Equal(t, "!**.txt", s.InputFileFilter)
	assert.Equal(t, []string{"com.x:b:1.0"}, s.ExcludeLibraryArtifacts)
	assert.Equal(t, "/opt/proguard.jar", s.Tool.Jar)

	want := ToolOptions{
		{Name: "keep", Value: "public class com.x.Main { *; }"},
		{Name: "allowaccessmodification"},
		{Name: "optimizationpasses", Value: "3"},
	}
	if diff := cmp.Diff(want, s.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, s.OutputArtifacts, 1)
	require.NotNil(t, s.OutputArtifacts[0].Attach)
	assert.False(t, *s.OutputArtifacts[0].Attach)
}

func TestLoad_RejectsNonMappingOptions(t *testing.T) {
	_, err := Load(writeConfig(t, "options: [a, b]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "options must be a mapping")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JARSHRINK_TEST", "true")
	t.Setenv("JARSHRINK_BUILDDIR", "/elsewhere")
	t.Setenv("JARSHRINK_TOOLJAR", "/env/proguard.jar")

	s, err := Load(writeConfig(t, "test: false\ntool:\n  jar: /file/proguard.jar\n"))
	require.NoError(t, err)
	assert.True(t, s.Test)
	assert.Equal(t, "/elsewhere", s.BuildDirectory)
	assert.Equal(t, "/env/proguard.jar", s.Tool.Jar)

	t.Setenv("JARSHRINK_SKIP", "maybe")
	_, err = Load(writeConfig(t, ""))
	assert.ErrorContains(t, err, "JARSHRINK_SKIP")
}

func TestResolve_Defaults(t *testing.T) {
	t.Setenv("JAVA_HOME", "/jdk")
	s := Default()
	s.Tool.Jar = "/opt/proguard.jar"
	s.OutJars = []string{"extra.jar"}

	c, err := s.Resolve(testProject())
	require.NoError(t, err)

	assert.Equal(t, "/work/app/target", c.BuildDir)
	assert.Equal(t, "/work/app/target/proguard", c.OutputDir)
	assert.Equal(t, "/work/app/src/main/config/app-maven.pro", c.IncludeFile)
	assert.Equal(t, "/work/app/target/proguard/proguard.map", c.MappingFile)
	assert.True(t, c.AttachMapping)
	assert.Empty(t, c.SeedsFile)
	assert.Equal(t, "app-1.0.jar", c.Inputs.Primary)
	assert.True(t, c.Inputs.ExcludeManifest)
	assert.True(t, c.Inputs.ExcludeDescriptor)
	assert.Equal(t, "/jdk/lib/rt.jar", c.Libraries.RuntimeJar)
	assert.Equal(t, "small", c.OutputDefaults.Classifier)
	assert.Equal(t, "jar", c.OutputDefaults.Packaging)

	require.Len(t, c.Outputs, 2, "synthesized default spec followed by outJars")
	assert.Empty(t, c.Outputs[0].File)
	assert.Equal(t, "extra.jar", c.Outputs[1].File)
	require.NotNil(t, c.Outputs[1].Attach)
	assert.False(t, *c.Outputs[1].Attach)
}

func TestResolve_Overrides(t *testing.T) {
	s := Default()
	s.Test = true
	s.BuildDirectory = "out"
	s.IgnoreIncludeFile = true
	s.PrintMapping = false
	s.PrintSeeds = true
	s.PrintSeedsAttachAsArtifact = true
	s.Options = ToolOptions{{Name: "keepattributes", Value: "*Annotation*"}}

	c, err := s.Resolve(testProject())
	require.NoError(t, err)
	assert.True(t, c.DryRun)
	assert.Equal(t, "/work/app/out", c.BuildDir)
	assert.Equal(t, "/work/app/out/proguard/proguard.seeds", c.SeedsFile)
	assert.True(t, c.AttachSeeds)
	assert.Empty(t, c.MappingFile)
	assert.Empty(t, c.IncludeFile)
	assert.Equal(t, proguard.Options{{Name: "keepattributes", Value: "*Annotation*"}}, c.Options)
}

func TestResolve_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		errMsg string
	}{
		{name: "tool jar required", mutate: func(s *Settings) { s.Tool.Jar = "" }, errMsg: "tool jar"},
		{name: "bad input artifact", mutate: func(s *Settings) { s.InputArtifacts = []string{"nogroup"} }, errMsg: "inputArtifacts"},
		{name: "bad library artifact", mutate: func(s *Settings) { s.LibraryArtifacts = []string{"com.x:a"} }, errMsg: "libraryArtifacts"},
		{name: "bad log level", mutate: func(s *Settings) { s.Logging.Level = "loud" }, errMsg: "invalid log level"},
		{name: "bad timeout", mutate: func(s *Settings) { s.Tool.Timeout = "soon" }, errMsg: "invalid tool timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			s.Tool.Jar = "/opt/proguard.jar"
			tt.mutate(s)
			_, err := s.Resolve(testProject())
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}

	s := Default()
	s.Test = true
	_, err := s.Resolve(testProject())
	assert.NoError(t, err, "dry runs do not need the tool jar")
}
