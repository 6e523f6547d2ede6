package maven

import (
	"encoding/xml"
	"strings"
)

type pomProject struct {
	GroupID      string          `xml:"groupId"`
	ArtifactID   string          `xml:"artifactId"`
	Version      string          `xml:"version"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`
}

type pomMetadata struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

func parsePOM(data []byte) (*pomProject, error) {
	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil, err
	}
	return &pom, nil
}

func parseMetadata(data []byte) (*pomMetadata, error) {
	var md pomMetadata
	if err := xml.Unmarshal(data, &md); err != nil {
		return nil, err
	}
	return &md, nil
}

// extractDeps normalizes the POM's dependency section to coordinate
// strings. Test, provided, and optional dependencies are skipped, as are
// entries with unresolved ${...} properties. The declared version is kept
// when present and literal; otherwise the coordinate stays versionless and
// the provider's default applies at fetch time.
func extractDeps(pom *pomProject) []string {
	var deps []string
	seen := make(map[string]bool)

	for _, dep := range pom.Dependencies {
		if dep.Scope == "test" || dep.Scope == "provided" || dep.Optional == "true" {
			continue
		}
		if strings.HasPrefix(dep.GroupID, "${") || strings.HasPrefix(dep.ArtifactID, "${") {
			continue
		}
		coord := dep.GroupID + ":" + dep.ArtifactID
		if dep.Version != "" && !strings.HasPrefix(dep.Version, "${") {
			coord += ":" + dep.Version
		}
		if !seen[coord] {
			seen[coord] = true
			deps = append(deps, coord)
		}
	}
	return deps
}
