package walker

import (
	"context"
	"strings"
	"time"

	"github.com/depwalk/depwalk/pkg/observability"
)

// Provider returns the direct dependencies of a package. Implementations
// live under pkg/provider; the walker calls FetchDirect exactly once per
// distinct non-excluded node it reaches.
//
// A fetch error does not abort the walk: the node is treated as having no
// dependencies and the error surfaces as a [Warning] on the result.
type Provider interface {
	FetchDirect(ctx context.Context, id string) ([]string, error)
}

// Options configures a walk.
type Options struct {
	// Filter excludes matching packages from traversal. Nil excludes nothing.
	Filter Filter
	// Logger receives fetch-failure diagnostics. Nil discards them.
	Logger func(format string, args ...any)
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = func(string, ...any) {}
	}
	return o
}

// Warning records a non-fatal per-node fetch failure.
type Warning struct {
	Package string
	Err     error
}

// Result holds everything a walk produced. All fields are freshly
// allocated per run; the walker keeps no state between runs.
type Result struct {
	// Root is the trimmed root identifier the walk started from.
	Root string
	// Graph holds every discovered edge, including excluded and cyclic ones.
	Graph *Graph
	// Visited is the set of nodes whose expansion fully completed.
	Visited map[string]bool
	// Cycles lists each closed path found, first node repeated last.
	// Re-entering the same in-stack node from distinct branches yields
	// one entry per re-entry.
	Cycles [][]string
	// LoadOrder lists visited nodes in postorder completion order: a node
	// appears only after everything reachable from it down the traversed
	// path. Within a cyclic component the broken back-edge is not honored.
	LoadOrder []string
	// Warnings collects per-node fetch failures, in discovery order.
	Warnings []Warning
}

// frame is one entry of the explicit traversal stack: a node and a cursor
// over its precomputed dependency list.
type frame struct {
	node string
	deps []string
	next int
}

// Walk builds the transitive dependency graph reachable from root.
//
// The traversal is single-threaded and runs to completion; the explicit
// stack exists only to avoid call-stack recursion. If the filter matches
// root, Walk returns an all-empty result without consulting the provider.
func Walk(ctx context.Context, p Provider, root string, opts Options) *Result {
	opts = opts.withDefaults()
	root = strings.TrimSpace(root)

	res := &Result{
		Root:    root,
		Graph:   NewGraph(),
		Visited: make(map[string]bool),
	}

	skip := func(id string) bool { return opts.Filter != nil && opts.Filter.Skip(id) }
	if skip(root) {
		return res
	}

	start := time.Now()
	observability.Walker().OnWalkStart(ctx, root)

	fetch := func(id string) []string {
		deps, err := p.FetchDirect(ctx, id)
		observability.Walker().OnFetch(ctx, id, len(deps), err)
		if err != nil {
			opts.Logger("fetch failed: %s: %v", id, err)
			res.Warnings = append(res.Warnings, Warning{Package: id, Err: err})
			return nil
		}
		return deps
	}

	inStack := map[string]bool{root: true}
	stack := []frame{{node: root, deps: fetch(root)}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.next >= len(top.deps) {
			node := top.node
			stack = stack[:len(stack)-1]
			delete(inStack, node)
			if !res.Visited[node] {
				res.Visited[node] = true
				res.LoadOrder = append(res.LoadOrder, node)
			}
			continue
		}

		n := strings.TrimSpace(top.deps[top.next])
		top.next++
		if n == "" {
			continue
		}

		if skip(n) {
			res.Graph.AddEdge(top.node, n, true)
			continue
		}
		res.Graph.AddEdge(top.node, n, false)

		if inStack[n] {
			cycle := cyclePath(stack, n)
			res.Cycles = append(res.Cycles, cycle)
			observability.Walker().OnCycle(ctx, cycle)
			continue
		}
		if res.Visited[n] {
			// Already fully expanded via another path.
			continue
		}

		deps := fetch(n)
		inStack[n] = true
		stack = append(stack, frame{node: n, deps: deps})
	}

	observability.Walker().OnWalkComplete(ctx, root, len(res.Visited), len(res.Cycles), time.Since(start))
	return res
}

// cyclePath reconstructs a cycle as the stack suffix starting at the first
// frame holding n, closed by appending n once more.
func cyclePath(stack []frame, n string) []string {
	start := 0
	for i := range stack {
		if stack[i].node == n {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.node)
	}
	return append(path, n)
}
