package maven

import (
	"context"
	"os"
	"path/filepath"

	dwerrors "github.com/depwalk/depwalk/pkg/errors"
)

// LocalProvider reads POM descriptors from a repository directory laid out
// like a Maven repository (the same structure the remote provider fetches).
type LocalProvider struct {
	dir            string
	defaultVersion string
}

// NewLocal creates a provider reading from the repository rooted at dir.
func NewLocal(dir, defaultVersion string) *LocalProvider {
	return &LocalProvider{dir: dir, defaultVersion: defaultVersion}
}

// FetchDirect returns the direct dependencies declared by the coordinate's
// POM file on disk.
func (p *LocalProvider) FetchDirect(ctx context.Context, id string) ([]string, error) {
	c, err := ParseCoordinate(id)
	if err != nil {
		return nil, err
	}
	version := c.Version
	if version == "" {
		version = p.defaultVersion
	}
	path := filepath.Join(p.dir, filepath.FromSlash(c.pomPath(version)))

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, dwerrors.New(dwerrors.ErrCodeNotFound, "POM not found: %s", path)
	}
	if err != nil {
		return nil, dwerrors.Wrap(dwerrors.ErrCodeInternal, err, "read POM %s", path)
	}

	pom, err := parsePOM(data)
	if err != nil {
		return nil, dwerrors.Wrap(dwerrors.ErrCodeInternal, err, "parse POM %s", path)
	}
	return extractDeps(pom), nil
}
