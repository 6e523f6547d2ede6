package walker

import "strings"

// Filter decides whether a package identifier is excluded from traversal.
// Excluded packages keep their incoming edges in the graph (marked
// [Edge.Excluded]) but are never expanded, visited, or load-ordered.
type Filter interface {
	// Skip reports whether the package should be excluded.
	Skip(id string) bool
}

// SubstringFilter excludes packages whose identifier contains a configured
// substring, compared case-insensitively. An empty substring never skips.
type SubstringFilter struct {
	substr string
}

// NewSubstringFilter creates a filter matching substr case-insensitively.
func NewSubstringFilter(substr string) SubstringFilter {
	return SubstringFilter{substr: strings.ToLower(substr)}
}

// Skip reports whether id contains the filter substring.
func (f SubstringFilter) Skip(id string) bool {
	if f.substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(id), f.substr)
}
