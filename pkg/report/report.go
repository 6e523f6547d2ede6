// Package report defines the canonical serialization of walk results,
// used for JSON output, the HTTP API, caching, and storage.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/depwalk/depwalk/pkg/walker"
)

// Edge is a serialized dependency edge.
type Edge struct {
	From     string `json:"from" bson:"from"`
	To       string `json:"to" bson:"to"`
	Excluded bool   `json:"excluded,omitempty" bson:"excluded,omitempty"`
}

// Report is the serialized form of a walk result. Nodes are sorted for
// deterministic output; edges keep traversal order.
type Report struct {
	ID        string     `json:"id" bson:"_id"`
	Package   string     `json:"package" bson:"package"`
	Filter    string     `json:"filter,omitempty" bson:"filter,omitempty"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	Nodes     []string   `json:"nodes" bson:"nodes"`
	Edges     []Edge     `json:"edges" bson:"edges"`
	Cycles    [][]string `json:"cycles,omitempty" bson:"cycles,omitempty"`
	LoadOrder []string   `json:"load_order,omitempty" bson:"load_order,omitempty"`
	Warnings  []string   `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// New builds a Report from a walk result, assigning a fresh UUID and
// timestamp. The filter records the exclusion substring used, if any.
func New(res *walker.Result, filter string) Report {
	r := Report{
		ID:        uuid.NewString(),
		Package:   res.Root,
		Filter:    filter,
		CreatedAt: time.Now().UTC(),
		Nodes:     make([]string, 0, len(res.Visited)),
		Edges:     make([]Edge, 0, res.Graph.EdgeCount()),
		Cycles:    res.Cycles,
		LoadOrder: res.LoadOrder,
	}

	for id := range res.Visited {
		r.Nodes = append(r.Nodes, id)
	}
	slices.Sort(r.Nodes)

	for _, e := range res.Graph.Edges() {
		r.Edges = append(r.Edges, Edge{From: e.From, To: e.To, Excluded: e.Excluded})
	}

	for _, w := range res.Warnings {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %v", w.Package, w.Err))
	}

	return r
}

// Marshal serializes the report as indented JSON.
func Marshal(r Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Write writes the report as indented JSON to w.
func Write(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Read decodes a JSON report from r.
func Read(r io.Reader) (Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return Report{}, err
	}
	return rep, nil
}
