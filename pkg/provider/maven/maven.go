// Package maven provides dependency providers that read Maven POM
// descriptors, either from a remote repository over HTTP or from a local
// repository directory.
//
// Packages are identified by coordinates "groupId:artifactId[:version]".
// The POM for a coordinate lives at
//
//	{repo}/{group-as-path}/{artifact}/{version}/{artifact}-{version}.pom
//
// where the version comes from the coordinate or, when absent, from a
// caller-supplied default.
package maven

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	dwerrors "github.com/depwalk/depwalk/pkg/errors"
	"github.com/depwalk/depwalk/pkg/httputil"
	"github.com/depwalk/depwalk/pkg/observability"
)

// DefaultRepository is the Maven Central repository base URL.
const DefaultRepository = "https://repo1.maven.org/maven2"

// fetchTimeout bounds a single POM download.
const fetchTimeout = 15 * time.Second

// Coordinate is a parsed "groupId:artifactId[:version]" identifier.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string // empty when the coordinate carries no version
}

// ParseCoordinate parses and validates a coordinate string.
// Returns an error with code INVALID_COORDINATE when the shape is wrong.
func ParseCoordinate(s string) (Coordinate, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Coordinate{}, dwerrors.New(dwerrors.ErrCodeInvalidCoordinate,
			"invalid coordinate %q (expected groupId:artifactId[:version])", s)
	}
	c := Coordinate{
		GroupID:    strings.TrimSpace(parts[0]),
		ArtifactID: strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 {
		c.Version = strings.TrimSpace(parts[2])
	}
	if c.GroupID == "" || c.ArtifactID == "" {
		return Coordinate{}, dwerrors.New(dwerrors.ErrCodeInvalidCoordinate,
			"invalid coordinate %q (empty groupId or artifactId)", s)
	}
	return c, nil
}

// String returns the coordinate as "groupId:artifactId[:version]".
func (c Coordinate) String() string {
	if c.Version != "" {
		return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
	}
	return c.GroupID + ":" + c.ArtifactID
}

// pomPath returns the repository-relative POM path for the given version,
// with slashes as separators.
func (c Coordinate) pomPath(version string) string {
	groupPath := strings.ReplaceAll(c.GroupID, ".", "/")
	file := fmt.Sprintf("%s-%s.pom", c.ArtifactID, version)
	return path.Join(groupPath, c.ArtifactID, version, file)
}

// metadataPath returns the repository-relative maven-metadata.xml path.
func (c Coordinate) metadataPath() string {
	groupPath := strings.ReplaceAll(c.GroupID, ".", "/")
	return path.Join(groupPath, c.ArtifactID, "maven-metadata.xml")
}

// RemoteProvider fetches POM descriptors over HTTP, with response caching
// and retry with backoff on transient failures.
type RemoteProvider struct {
	client         *http.Client
	cache          *httputil.Cache // nil when caching is disabled
	repo           string
	defaultVersion string
}

// NewRemote creates a provider reading from the repository at baseURL.
// defaultVersion is substituted for coordinates without a version.
// cacheTTL controls POM response caching; a non-positive TTL disables it.
func NewRemote(baseURL, defaultVersion string, cacheTTL time.Duration) (*RemoteProvider, error) {
	p := &RemoteProvider{
		client:         &http.Client{Timeout: fetchTimeout},
		repo:           strings.TrimRight(baseURL, "/"),
		defaultVersion: defaultVersion,
	}
	if cacheTTL > 0 {
		cache, err := httputil.NewCache("", cacheTTL)
		if err != nil {
			return nil, err
		}
		p.cache = cache.Namespace("maven:")
	}
	return p, nil
}

// FetchDirect returns the direct dependencies declared by the coordinate's
// POM, normalized to "groupId:artifactId[:version]".
func (p *RemoteProvider) FetchDirect(ctx context.Context, id string) ([]string, error) {
	c, err := ParseCoordinate(id)
	if err != nil {
		return nil, err
	}
	version := c.Version
	if version == "" {
		version = p.defaultVersion
	}
	url := p.repo + "/" + c.pomPath(version)

	var deps []string
	if p.cache != nil {
		if ok, _ := p.cache.Get(url, &deps); ok {
			return deps, nil
		}
	}

	var body []byte
	err = httputil.RetryWithBackoff(ctx, func() error {
		body, err = p.get(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}

	pom, err := parsePOM(body)
	if err != nil {
		return nil, dwerrors.Wrap(dwerrors.ErrCodeInternal, err, "parse POM %s", url)
	}
	deps = extractDeps(pom)

	if p.cache != nil {
		_ = p.cache.Set(url, deps)
	}
	return deps, nil
}

// ListVersions reads maven-metadata.xml for the coordinate and returns the
// published versions in repository order.
func (p *RemoteProvider) ListVersions(ctx context.Context, id string) ([]string, error) {
	c, err := ParseCoordinate(id)
	if err != nil {
		return nil, err
	}
	url := p.repo + "/" + c.metadataPath()

	var body []byte
	err = httputil.RetryWithBackoff(ctx, func() error {
		body, err = p.get(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}

	md, err := parseMetadata(body)
	if err != nil {
		return nil, dwerrors.Wrap(dwerrors.ErrCodeInternal, err, "parse metadata %s", url)
	}
	return md.Versioning.Versions, nil
}

func (p *RemoteProvider) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	observability.HTTP().OnRequest(ctx, http.MethodGet, url)
	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, url, err)
		return nil, httputil.Retryable(dwerrors.Wrap(dwerrors.ErrCodeNetwork, err, "fetch %s", url))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, url, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, dwerrors.New(dwerrors.ErrCodeNotFound, "not found: %s", url)
	case resp.StatusCode >= 500:
		return nil, httputil.Retryable(dwerrors.New(dwerrors.ErrCodeNetwork, "status %d: %s", resp.StatusCode, url))
	default:
		return nil, dwerrors.New(dwerrors.ErrCodeNetwork, "status %d: %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}
