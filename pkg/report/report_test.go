package report

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/depwalk/depwalk/pkg/walker"
)

type mapProvider map[string][]string

func (m mapProvider) FetchDirect(_ context.Context, id string) ([]string, error) {
	return m[id], nil
}

func walkResult(t *testing.T) *walker.Result {
	t.Helper()
	p := mapProvider{
		"a": {"b", "c-test"},
		"b": {"a"},
	}
	return walker.Walk(context.Background(), p, "a", walker.Options{
		Filter: walker.NewSubstringFilter("test"),
	})
}

func TestNew(t *testing.T) {
	res := walkResult(t)
	r := New(res, "test")

	if r.ID == "" {
		t.Error("ID is empty")
	}
	if r.Package != "a" {
		t.Errorf("Package = %q, want a", r.Package)
	}
	if r.Filter != "test" {
		t.Errorf("Filter = %q, want test", r.Filter)
	}
	if r.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}

	// Visited nodes, sorted. The excluded node is not visited.
	if !reflect.DeepEqual(r.Nodes, []string{"a", "b"}) {
		t.Errorf("Nodes = %v, want [a b]", r.Nodes)
	}

	wantEdges := []Edge{
		{From: "a", To: "b"},
		{From: "a", To: "c-test", Excluded: true},
		{From: "b", To: "a"},
	}
	if !reflect.DeepEqual(r.Edges, wantEdges) {
		t.Errorf("Edges = %v, want %v", r.Edges, wantEdges)
	}

	if !reflect.DeepEqual(r.Cycles, [][]string{{"a", "b", "a"}}) {
		t.Errorf("Cycles = %v", r.Cycles)
	}
	if !reflect.DeepEqual(r.LoadOrder, []string{"b", "a"}) {
		t.Errorf("LoadOrder = %v, want [b a]", r.LoadOrder)
	}
}

func TestNew_UniqueIDs(t *testing.T) {
	res := walkResult(t)
	if New(res, "").ID == New(res, "").ID {
		t.Error("two reports share an ID")
	}
}

func TestNew_Warnings(t *testing.T) {
	res := &walker.Result{
		Root:  "a",
		Graph: walker.NewGraph(),
		Warnings: []walker.Warning{
			{Package: "b", Err: errors.New("connection refused")},
		},
	}
	r := New(res, "")
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], "b: connection refused") {
		t.Errorf("Warnings = %v", r.Warnings)
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	r := New(walkResult(t), "test")

	var buf bytes.Buffer
	if err := Write(&buf, r); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !reflect.DeepEqual(got, r) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, r)
	}
}

func TestWriteEdges(t *testing.T) {
	r := Report{Edges: []Edge{
		{From: "a", To: "b"},
		{From: "a", To: "c", Excluded: true},
	}}

	var buf bytes.Buffer
	if err := WriteEdges(&buf, r); err != nil {
		t.Fatal(err)
	}
	want := "a -> b\na -> c (excluded)\n"
	if buf.String() != want {
		t.Errorf("WriteEdges() = %q, want %q", buf.String(), want)
	}
}

func TestWriteCycles(t *testing.T) {
	r := Report{Cycles: [][]string{{"a", "b", "a"}}}

	var buf bytes.Buffer
	if err := WriteCycles(&buf, r); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "a -> b -> a\n" {
		t.Errorf("WriteCycles() = %q", got)
	}
}
