// Package walker builds transitive dependency graphs by iterative
// depth-first traversal.
//
// # Overview
//
// Starting from a root package identifier, the walker repeatedly asks a
// [Provider] for direct dependencies and expands them depth-first using an
// explicit frame stack (no recursion). The run produces a [Result] holding
// the full edge graph, the set of fully-expanded nodes, every cycle found,
// and a dependencies-before-dependents load order.
//
// # Usage
//
//	p, _ := fixture.Load("graph.txt")
//	res := walker.Walk(ctx, p, "A", walker.Options{
//		Filter: walker.NewSubstringFilter("test"),
//	})
//	for _, e := range res.Graph.Edges() {
//		fmt.Printf("%s -> %s\n", e.From, e.To)
//	}
//
// # Cycles
//
// A cycle is detected when a neighbor is already on the active path. The
// walker records the closed path and does not re-enter the node, so the
// traversal always terminates. Cycles are ordinary results, not errors.
//
// # Failure model
//
// Provider errors are fail-soft: the failing node is treated as having no
// dependencies and the error is recorded as a [Warning] on the result. A
// walk, once started, always runs to completion.
package walker
