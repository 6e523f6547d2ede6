package walker

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"
)

// stubProvider serves dependencies from a map and counts fetches per node.
type stubProvider struct {
	deps  map[string][]string
	errs  map[string]error
	calls map[string]int
}

func newStub(deps map[string][]string) *stubProvider {
	return &stubProvider{deps: deps, calls: make(map[string]int)}
}

func (p *stubProvider) FetchDirect(ctx context.Context, id string) ([]string, error) {
	p.calls[id]++
	if err, ok := p.errs[id]; ok {
		return nil, err
	}
	return p.deps[id], nil
}

func TestWalk_Diamond(t *testing.T) {
	//   a
	//  / \
	// b   c
	//  \ /
	//   d
	p := newStub(map[string][]string{
		"a": {"b", "c"},
		"b": {"d"},
		"c": {"d"},
	})

	res := Walk(context.Background(), p, "a", Options{})

	wantVisited := []string{"a", "b", "c", "d"}
	for _, n := range wantVisited {
		if !res.Visited[n] {
			t.Errorf("Visited[%q] = false, want true", n)
		}
	}
	if len(res.Visited) != 4 {
		t.Errorf("len(Visited) = %d, want 4", len(res.Visited))
	}
	if res.Graph.EdgeCount() != 4 {
		t.Errorf("EdgeCount() = %d, want 4", res.Graph.EdgeCount())
	}
	if len(res.Cycles) != 0 {
		t.Errorf("Cycles = %v, want none", res.Cycles)
	}

	wantOrder := []string{"d", "b", "c", "a"}
	if !reflect.DeepEqual(res.LoadOrder, wantOrder) {
		t.Errorf("LoadOrder = %v, want %v", res.LoadOrder, wantOrder)
	}
}

func TestWalk_FetchesEachNodeOnce(t *testing.T) {
	p := newStub(map[string][]string{
		"a": {"b", "c"},
		"b": {"d"},
		"c": {"d"},
	})

	Walk(context.Background(), p, "a", Options{})

	for node, n := range p.calls {
		if n != 1 {
			t.Errorf("node %q fetched %d times, want 1", node, n)
		}
	}
	if len(p.calls) != 4 {
		t.Errorf("fetched %d distinct nodes, want 4", len(p.calls))
	}
}

func TestWalk_SelfLoop(t *testing.T) {
	p := newStub(map[string][]string{
		"a": {"a"},
	})

	res := Walk(context.Background(), p, "a", Options{})

	wantCycles := [][]string{{"a", "a"}}
	if !reflect.DeepEqual(res.Cycles, wantCycles) {
		t.Errorf("Cycles = %v, want %v", res.Cycles, wantCycles)
	}
	if !reflect.DeepEqual(res.LoadOrder, []string{"a"}) {
		t.Errorf("LoadOrder = %v, want [a]", res.LoadOrder)
	}
	if res.Graph.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", res.Graph.EdgeCount())
	}
	if p.calls["a"] != 1 {
		t.Errorf("node a fetched %d times, want 1", p.calls["a"])
	}
}

func TestWalk_TwoNodeCycle(t *testing.T) {
	p := newStub(map[string][]string{
		"a": {"b"},
		"b": {"a"},
	})

	res := Walk(context.Background(), p, "a", Options{})

	wantCycles := [][]string{{"a", "b", "a"}}
	if !reflect.DeepEqual(res.Cycles, wantCycles) {
		t.Errorf("Cycles = %v, want %v", res.Cycles, wantCycles)
	}
	// The back-edge is broken, so b completes before a.
	if !reflect.DeepEqual(res.LoadOrder, []string{"b", "a"}) {
		t.Errorf("LoadOrder = %v, want [b a]", res.LoadOrder)
	}
}

func TestWalk_OverlappingCycles(t *testing.T) {
	// b re-enters a directly, c re-enters a through a longer path.
	p := newStub(map[string][]string{
		"a": {"b"},
		"b": {"a", "c"},
		"c": {"a"},
	})

	res := Walk(context.Background(), p, "a", Options{})

	wantCycles := [][]string{
		{"a", "b", "a"},
		{"a", "b", "c", "a"},
	}
	if !reflect.DeepEqual(res.Cycles, wantCycles) {
		t.Errorf("Cycles = %v, want %v", res.Cycles, wantCycles)
	}
}

func TestWalk_FilterExcludesSubtree(t *testing.T) {
	p := newStub(map[string][]string{
		"app":      {"lib-test", "core"},
		"core":     {},
		"lib-test": {"hidden"},
	})

	res := Walk(context.Background(), p, "app", Options{
		Filter: NewSubstringFilter("TEST"),
	})

	if p.calls["lib-test"] != 0 {
		t.Errorf("excluded node fetched %d times, want 0", p.calls["lib-test"])
	}
	if res.Visited["lib-test"] || res.Visited["hidden"] {
		t.Errorf("excluded subtree visited: %v", res.Visited)
	}

	var excluded *Edge
	for _, e := range res.Graph.Edges() {
		if e.To == "lib-test" {
			excluded = &e
			break
		}
	}
	if excluded == nil {
		t.Fatal("edge to excluded node not recorded")
	}
	if !excluded.Excluded {
		t.Error("edge to filtered node not marked excluded")
	}
	if slices.Contains(res.LoadOrder, "lib-test") {
		t.Errorf("LoadOrder contains excluded node: %v", res.LoadOrder)
	}
}

func TestWalk_FilteredRoot(t *testing.T) {
	p := newStub(map[string][]string{"app-test": {"core"}})

	res := Walk(context.Background(), p, "app-test", Options{
		Filter: NewSubstringFilter("test"),
	})

	if len(p.calls) != 0 {
		t.Errorf("provider consulted %d times for a filtered root, want 0", len(p.calls))
	}
	if !res.Graph.IsEmpty() {
		t.Error("graph not empty for filtered root")
	}
	if len(res.Visited) != 0 || len(res.LoadOrder) != 0 || len(res.Cycles) != 0 {
		t.Errorf("non-empty result for filtered root: %+v", res)
	}
}

func TestWalk_FetchErrorIsWarning(t *testing.T) {
	p := newStub(map[string][]string{
		"a": {"b", "c"},
		"c": {},
	})
	fetchErr := errors.New("connection refused")
	p.errs = map[string]error{"b": fetchErr}

	var logged int
	res := Walk(context.Background(), p, "a", Options{
		Logger: func(string, ...any) { logged++ },
	})

	if len(res.Warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, want 1", len(res.Warnings))
	}
	if res.Warnings[0].Package != "b" {
		t.Errorf("Warnings[0].Package = %q, want b", res.Warnings[0].Package)
	}
	if !errors.Is(res.Warnings[0].Err, fetchErr) {
		t.Errorf("Warnings[0].Err = %v, want %v", res.Warnings[0].Err, fetchErr)
	}
	if logged == 0 {
		t.Error("logger never called for fetch failure")
	}

	// The failed node still completes with zero dependencies.
	if !res.Visited["b"] {
		t.Error("failed node not visited")
	}
	if !reflect.DeepEqual(res.LoadOrder, []string{"b", "c", "a"}) {
		t.Errorf("LoadOrder = %v, want [b c a]", res.LoadOrder)
	}
}

func TestWalk_TrimsWhitespace(t *testing.T) {
	p := newStub(map[string][]string{
		"a": {" b ", "", "  "},
		"b": {},
	})

	res := Walk(context.Background(), p, "  a  ", Options{})

	if res.Root != "a" {
		t.Errorf("Root = %q, want a", res.Root)
	}
	if !res.Visited["b"] {
		t.Error("trimmed neighbor not visited")
	}
	if res.Graph.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1 (blank deps skipped)", res.Graph.EdgeCount())
	}
}

func TestWalk_Deterministic(t *testing.T) {
	deps := map[string][]string{
		"a": {"b", "c", "d"},
		"b": {"c", "e"},
		"c": {"e", "a"},
		"d": {"e"},
		"e": {},
	}

	first := Walk(context.Background(), newStub(deps), "a", Options{})
	second := Walk(context.Background(), newStub(deps), "a", Options{})

	if !reflect.DeepEqual(first.LoadOrder, second.LoadOrder) {
		t.Errorf("LoadOrder differs across runs: %v vs %v", first.LoadOrder, second.LoadOrder)
	}
	if !reflect.DeepEqual(first.Cycles, second.Cycles) {
		t.Errorf("Cycles differ across runs: %v vs %v", first.Cycles, second.Cycles)
	}
	if !reflect.DeepEqual(first.Graph.Edges(), second.Graph.Edges()) {
		t.Error("edge lists differ across runs")
	}
}

func TestWalk_LoadOrderRespectsDependencies(t *testing.T) {
	deps := map[string][]string{
		"a": {"b", "c"},
		"b": {"d", "e"},
		"c": {"e", "f"},
		"d": {},
		"e": {"f"},
		"f": {},
	}

	res := Walk(context.Background(), newStub(deps), "a", Options{})

	pos := make(map[string]int, len(res.LoadOrder))
	for i, n := range res.LoadOrder {
		pos[n] = i
	}
	for from, targets := range deps {
		for _, to := range targets {
			if pos[to] >= pos[from] {
				t.Errorf("load order violated: %s (pos %d) should precede %s (pos %d)",
					to, pos[to], from, pos[from])
			}
		}
	}
}

func TestWalk_SharedNodeNotReExpanded(t *testing.T) {
	p := newStub(map[string][]string{
		"a":      {"b", "c"},
		"b":      {"shared"},
		"c":      {"shared"},
		"shared": {"leaf"},
		"leaf":   {},
	})

	res := Walk(context.Background(), p, "a", Options{})

	if p.calls["shared"] != 1 {
		t.Errorf("shared fetched %d times, want 1", p.calls["shared"])
	}
	// Both edges into shared are still recorded.
	var count int
	for _, e := range res.Graph.Edges() {
		if e.To == "shared" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("edges into shared = %d, want 2", count)
	}
}
