// Package fixture provides a dependency provider backed by a line-oriented
// text file, used for tests and offline experiments.
//
// # Format
//
// One entry per line, UTF-8:
//
//	A: B C
//	B: C D
//	C:
//	D
//	# comment
//
// "KEY: dep1 dep2 ..." declares dependencies separated by whitespace; a
// bare "KEY" (no colon) declares a package without dependencies. Blank
// lines and lines starting with '#' are ignored.
package fixture

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	dwerrors "github.com/depwalk/depwalk/pkg/errors"
)

// Provider resolves dependencies from an immutable in-memory map parsed
// once at construction. It never fails a fetch: unknown keys resolve to
// no dependencies.
type Provider struct {
	deps map[string][]string
}

// Load parses the fixture file at path.
// Returns an error with code FIXTURE_UNAVAILABLE if the file cannot be read.
func Load(path string) (*Provider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, dwerrors.Wrap(dwerrors.ErrCodeFixtureUnavailable, err, "open fixture %s", path)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the fixture format from r.
func Parse(r io.Reader) (*Provider, error) {
	deps := make(map[string][]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, rest, found := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if !found {
			// Bare key: package without dependencies.
			deps[key] = nil
			continue
		}
		deps[key] = strings.Fields(rest)
	}
	if err := scanner.Err(); err != nil {
		return nil, dwerrors.Wrap(dwerrors.ErrCodeFixtureUnavailable, err, "read fixture")
	}

	return &Provider{deps: deps}, nil
}

// FetchDirect returns the declared dependencies of id.
func (p *Provider) FetchDirect(ctx context.Context, id string) ([]string, error) {
	return p.deps[strings.TrimSpace(id)], nil
}

// Len returns the number of declared packages.
func (p *Provider) Len() int { return len(p.deps) }
