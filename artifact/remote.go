package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"jarshrink/filestore"
)

// MavenRepository resolves coordinates against the Maven repository layout:
// first the local repository directory, then each remote repository in
// order. Remote hits are stored into the local repository.
type MavenRepository struct {
	LocalDir string
	Client   *http.Client
	Logger   *zap.Logger
}

func NewMavenRepository(localDir string, logger *zap.Logger) *MavenRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MavenRepository{
		LocalDir: localDir,
		Client:   &http.Client{Timeout: 60 * time.Second},
		Logger:   logger,
	}
}

// LayoutPath is the slash-separated repository path of c.
func LayoutPath(c Coordinate) string {
	return path.Join(strings.ReplaceAll(c.GroupID, ".", "/"), c.ArtifactID, c.Version, c.FileName())
}

func (m *MavenRepository) ResolveRemote(ctx context.Context, c Coordinate, repos Repositories) (string, error) {
	rel := LayoutPath(c)

	var local string
	if m.LocalDir != "" {
		local = filepath.Join(m.LocalDir, filepath.FromSlash(rel))
		if info, err := os.Stat(local); err == nil && !info.IsDir() {
			return local, nil
		}
	}

	if len(repos) == 0 {
		return "", errors.New("not in local repository and no remote repositories configured")
	}

	var errs []error
	for _, repo := range repos {
		data, err := m.fetch(ctx, repo, rel)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", repo.String(), err))
			continue
		}
		if local == "" {
			return "", errors.New("fetched artifact but no local repository is configured to store it")
		}
		if err := filestore.WriteFileAtomic(local, data, 0o644); err != nil {
			return "", fmt.Errorf("store %s: %w", local, err)
		}
		m.Logger.Info("downloaded artifact", zap.String("coordinate", c.String()), zap.String("repository", repo.String()), zap.String("file", local))
		return local, nil
	}
	return "", errors.Join(errs...)
}

func (m *MavenRepository) fetch(ctx context.Context, repo Repository, rel string) ([]byte, error) {
	url := strings.TrimRight(repo.URL, "/") + "/" + rel
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
