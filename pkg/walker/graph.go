package walker

// Edge is a directed dependency edge. Excluded marks edges whose target
// matched the exclusion filter: the edge is recorded for reporting
// completeness but the target is never traversed.
type Edge struct {
	From     string
	To       string
	Excluded bool
}

// Graph is an adjacency-list dependency graph. Nodes and edges enumerate
// in insertion order, so identical walks produce identical output.
// Duplicate (from, to) pairs collapse to the first occurrence.
//
// Graph is not safe for concurrent mutation.
type Graph struct {
	sources []string
	adj     map[string][]Edge
	seen    map[string]map[string]bool
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		adj:  make(map[string][]Edge),
		seen: make(map[string]map[string]bool),
	}
}

// AddEdge records the edge from→to. Repeated additions of the same pair
// are ignored, keeping the attributes of the first occurrence.
func (g *Graph) AddEdge(from, to string, excluded bool) {
	targets, ok := g.seen[from]
	if !ok {
		targets = make(map[string]bool)
		g.seen[from] = targets
		g.sources = append(g.sources, from)
	}
	if targets[to] {
		return
	}
	targets[to] = true
	g.adj[from] = append(g.adj[from], Edge{From: from, To: to, Excluded: excluded})
}

// Sources returns the nodes with at least one outgoing edge, in the order
// they first appeared.
func (g *Graph) Sources() []string {
	out := make([]string, len(g.sources))
	copy(out, g.sources)
	return out
}

// Out returns the outgoing edges of node in insertion order.
func (g *Graph) Out(node string) []Edge {
	edges := g.adj[node]
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

// Edges returns every edge, grouped by source in insertion order.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, src := range g.sources {
		out = append(out, g.adj[src]...)
	}
	return out
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, src := range g.sources {
		n += len(g.adj[src])
	}
	return n
}

// IsEmpty reports whether the graph has no edges.
func (g *Graph) IsEmpty() bool { return len(g.sources) == 0 }
