package report

import (
	"fmt"
	"io"
	"strings"
)

// WriteEdges writes the edge list as one "src -> dst" line per edge.
// Excluded edges carry an "(excluded)" annotation.
func WriteEdges(w io.Writer, r Report) error {
	for _, e := range r.Edges {
		suffix := ""
		if e.Excluded {
			suffix = " (excluded)"
		}
		if _, err := fmt.Fprintf(w, "%s -> %s%s\n", e.From, e.To, suffix); err != nil {
			return err
		}
	}
	return nil
}

// WriteCycles writes each cycle as an " -> " joined closed path.
func WriteCycles(w io.Writer, r Report) error {
	for _, c := range r.Cycles {
		if _, err := fmt.Fprintln(w, strings.Join(c, " -> ")); err != nil {
			return err
		}
	}
	return nil
}
