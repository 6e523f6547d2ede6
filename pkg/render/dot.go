// Package render turns walk reports into Graphviz DOT diagrams and
// renders them to SVG or PNG.
//
// Two layouts are supported: the default hierarchical top-to-bottom
// layout, and a circular node-link layout (circo) that places nodes on a
// ring — useful for seeing cycles at a glance.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/depwalk/depwalk/pkg/report"
)

// Options configures DOT generation.
type Options struct {
	// Circular selects the circo layout engine for a circular node-link
	// rendering instead of the hierarchical default.
	Circular bool
}

// ToDOT converts a report to Graphviz DOT source. Excluded edges are drawn
// dashed and grey; edges participating in a cycle are drawn red.
func ToDOT(r report.Report, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph deps {\n")
	if opts.Circular {
		buf.WriteString("  layout=circo;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  node [shape=box, style=rounded, fontsize=12];\n")
	buf.WriteString("\n")

	declared := make(map[string]bool)
	declare := func(id string) {
		if !declared[id] {
			declared[id] = true
			fmt.Fprintf(&buf, "  %q;\n", id)
		}
	}
	for _, n := range r.Nodes {
		declare(n)
	}
	for _, e := range r.Edges {
		declare(e.From)
		declare(e.To)
	}

	cyclic := cycleEdges(r.Cycles)

	buf.WriteString("\n")
	for _, e := range r.Edges {
		switch {
		case e.Excluded:
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=gray50];\n", e.From, e.To)
		case cyclic[e.From+"\x00"+e.To]:
			fmt.Fprintf(&buf, "  %q -> %q [color=red];\n", e.From, e.To)
		default:
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// cycleEdges collects the consecutive (from, to) pairs of every cycle
// path, including the closing back-edge.
func cycleEdges(cycles [][]string) map[string]bool {
	edges := make(map[string]bool)
	for _, c := range cycles {
		for i := 0; i+1 < len(c); i++ {
			edges[c[i]+"\x00"+c[i+1]] = true
		}
	}
	return edges
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders DOT source to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
