package artifact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRemote struct {
	path  string
	err   error
	calls int
}

func (c *countingRemote) ResolveRemote(ctx context.Context, coord Coordinate, repos Repositories) (string, error) {
	c.calls++
	return c.path, c.err
}

func writeFile(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	return path
}

func TestParseCoordinate(t *testing.T) {
	c, err := ParseCoordinate("javax.servlet:javax.servlet-api:3.0.1")
	require.NoError(t, err)
	assert.Equal(t, Coordinate{GroupID: "javax.servlet", ArtifactID: "javax.servlet-api", Version: "3.0.1", Type: "jar"}, c)

	c, err = ParseCoordinate("com.x:lib:zip:small:1.0")
	require.NoError(t, err)
	assert.Equal(t, "com.x:lib:small", c.Key())
	assert.Equal(t, "com.x:lib:1.0", c.VersionKey())
	assert.Equal(t, "lib-1.0-small.zip", c.FileName())
	assert.Equal(t, "com.x:lib:zip:small:1.0", c.String())

	for _, bad := range []string{"", "com.x:lib", "a::1.0", "a:b:c:d:e:f"} {
		_, err := ParseCoordinate(bad)
		var ce *CoordinateError
		assert.ErrorAs(t, err, &ce, bad)
	}
}

func TestValidateReferenceAndVersionKey(t *testing.T) {
	assert.NoError(t, ValidateReference("com.x:lib"))
	assert.NoError(t, ValidateReference("com.x:lib:tests"))
	assert.Error(t, ValidateReference("com.x"))
	assert.Error(t, ValidateReference("com.x::y"))

	assert.NoError(t, ValidateVersionKey("com.x:lib:1.0"))
	assert.Error(t, ValidateVersionKey("com.x:lib"))
}

func TestResolve_SiblingModuleWithoutClassifier(t *testing.T) {
	r, err := NewResolver(ResolverConfig{
		Modules: map[string]string{"com.x:core": "/ws/core/target/classes"},
	})
	require.NoError(t, err)

	f, err := r.Resolve(context.Background(), Coordinate{GroupID: "com.x", ArtifactID: "core", Version: "1.0"})
	require.NoError(t, err)
	assert.Equal(t, ResolvedFile{Path: "/ws/core/target/classes", Dir: true}, f)
}

func TestResolve_ClassifierForcesArtifactPath(t *testing.T) {
	dir := t.TempDir()
	jar := writeFile(t, filepath.Join(dir, "core-1.0-tests.jar"))
	dep := Dependency{Coordinate: Coordinate{GroupID: "com.x", ArtifactID: "core", Version: "1.0", Classifier: "tests"}, File: jar}

	r, err := NewResolver(ResolverConfig{
		Dependencies: []Dependency{dep},
		Modules:      map[string]string{"com.x:core": "/ws/core/target/classes"},
	})
	require.NoError(t, err)

	f, err := r.Resolve(context.Background(), dep.Coordinate)
	require.NoError(t, err)
	assert.Equal(t, ResolvedFile{Path: jar}, f)
}

func TestResolve_IdempotentWithoutRepeatingRemote(t *testing.T) {
	dir := t.TempDir()
	remoteFile := writeFile(t, filepath.Join(dir, "repo", "lib-2.0.jar"))
	remote := &countingRemote{path: remoteFile}

	r, err := NewResolver(ResolverConfig{Remote: remote, Repositories: Repositories{{ID: "central", URL: "https://repo"}}})
	require.NoError(t, err)

	c := Coordinate{GroupID: "com.x", ArtifactID: "lib", Version: "2.0"}
	first, err := r.Resolve(context.Background(), c)
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, remote.calls)
}

func TestResolve_MissingFileFallsBackToRemote(t *testing.T) {
	dir := t.TempDir()
	remoteFile := writeFile(t, filepath.Join(dir, "fetched.jar"))
	remote := &countingRemote{path: remoteFile}
	dep := Dependency{Coordinate: Coordinate{GroupID: "com.x", ArtifactID: "lib", Version: "1.0"}, File: filepath.Join(dir, "gone.jar")}

	r, err := NewResolver(ResolverConfig{Dependencies: []Dependency{dep}, Remote: remote})
	require.NoError(t, err)

	f, err := r.Resolve(context.Background(), dep.Coordinate)
	require.NoError(t, err)
	assert.Equal(t, remoteFile, f.Path)
	assert.Equal(t, 1, remote.calls)
}

func TestResolve_RemoteFailureNamesCoordinateAndRepositories(t *testing.T) {
	remote := &countingRemote{err: errors.New("404")}
	repos := Repositories{{ID: "central", URL: "https://repo.example"}}
	r, err := NewResolver(ResolverConfig{Remote: remote, Repositories: repos})
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), Coordinate{GroupID: "com.x", ArtifactID: "lib", Version: "1.0"})
	var re *ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "com.x:lib:jar:1.0", re.Coordinate)
	assert.Contains(t, err.Error(), "central (https://repo.example)")
	assert.Contains(t, err.Error(), "404")
}

func TestResolveDeclared(t *testing.T) {
	dir := t.TempDir()
	jar := writeFile(t, filepath.Join(dir, "lib-1.0.jar"))
	remote := &countingRemote{path: jar}
	deps := []Dependency{
		{Coordinate: Coordinate{GroupID: "com.x", ArtifactID: "lib", Version: "1.0"}, File: jar},
		{Coordinate: Coordinate{GroupID: "com.x", ArtifactID: "gone", Version: "1.0"}, File: filepath.Join(dir, "gone.jar")},
	}
	r, err := NewResolver(ResolverConfig{Dependencies: deps, Remote: remote})
	require.NoError(t, err)

	f, d, err := r.ResolveDeclared("com.x:lib")
	require.NoError(t, err)
	assert.Equal(t, jar, f.Path)
	assert.Equal(t, "1.0", d.Version)

	_, _, err = r.ResolveDeclared("com.x:unknown")
	var ue *UnresolvedReferenceError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "com.x:unknown", ue.Reference)

	_, _, err = r.ResolveDeclared("com.x:gone")
	var re *ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 0, remote.calls, "declared references never resolve remotely")
}

func TestNewResolver_RejectsAmbiguousKeys(t *testing.T) {
	_, err := NewResolver(ResolverConfig{Dependencies: []Dependency{
		{Coordinate: Coordinate{GroupID: "g", ArtifactID: "a", Version: "1"}},
		{Coordinate: Coordinate{GroupID: "g", ArtifactID: "a", Version: "2"}},
	}})
	assert.Error(t, err)
}

func TestMavenRepository_LocalThenRemote(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/maven2/com/x/lib/1.0/lib-1.0.jar" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("jar-bytes"))
	}))
	defer srv.Close()

	local := t.TempDir()
	m := NewMavenRepository(local, nil)
	repos := Repositories{{ID: "missing", URL: srv.URL + "/nope"}, {ID: "central", URL: srv.URL + "/maven2/"}}
	c := Coordinate{GroupID: "com.x", ArtifactID: "lib", Version: "1.0"}

	got, err := m.ResolveRemote(context.Background(), c, repos)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(local, "com", "x", "lib", "1.0", "lib-1.0.jar"), got)
	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "jar-bytes", string(data))
	assert.Equal(t, int32(2), hits.Load())

	_, err = m.ResolveRemote(context.Background(), c, repos)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "second resolution is served from the local repository")
}

func TestMavenRepository_AllRepositoriesFail(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	m := NewMavenRepository(t.TempDir(), nil)
	_, err := m.ResolveRemote(context.Background(), Coordinate{GroupID: "g", ArtifactID: "a", Version: "1"}, Repositories{{ID: "r1", URL: srv.URL}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
