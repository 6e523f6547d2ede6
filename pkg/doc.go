// Package pkg provides the core libraries for depwalk dependency graph
// construction.
//
// # Overview
//
// depwalk walks the transitive dependency graph of a package, detects
// cycles, and computes a dependencies-before-dependents load order. The
// pkg directory is organized into:
//
//  1. [walker] - The traversal engine (graph, filter, cycle detection)
//  2. [provider] - Dependency sources (Maven remote/local, fixture files)
//  3. [report] / [render] - Serialization and Graphviz output
//  4. [cache] / [store] / [httputil] - Infrastructure (caching, persistence, HTTP)
//
// # Architecture
//
// The typical data flow:
//
//	Maven repository / fixture file
//	         ↓
//	    [provider] package (fetch direct dependencies)
//	         ↓
//	    [walker] package (iterative DFS, cycles, load order)
//	         ↓
//	    [report] package (canonical serialization)
//	         ↓
//	    text / JSON / DOT / SVG / PNG output
//
// # Quick Start
//
// Walk a package and print its load order:
//
//	import (
//	    "context"
//	    "github.com/depwalk/depwalk/pkg/provider/maven"
//	    "github.com/depwalk/depwalk/pkg/walker"
//	)
//
//	p, _ := maven.NewRemote(maven.DefaultRepository, "", 0)
//	res := walker.Walk(context.Background(), p, "org.example:app:1.0", walker.Options{
//	    Filter: walker.NewSubstringFilter("test"),
//	})
//	for _, id := range res.LoadOrder {
//	    fmt.Println(id)
//	}
//
// # Main Packages
//
// [walker] - Iterative depth-first traversal with an explicit stack. Fetches
// each node once, records every edge (including excluded and cyclic ones),
// reports each cycle as a closed path, and emits nodes in postorder.
//
// [provider/maven] - Maven POM providers: remote (HTTP with caching and
// retry) and local (repository directory on disk).
//
// [provider/fixture] - Line-oriented fixture files for tests and offline use.
//
// [report] - Canonical JSON form of a walk result, shared by the CLI, the
// HTTP API, caching, and storage.
//
// [render] - Graphviz DOT generation and SVG/PNG rendering, with an optional
// circular (circo) layout.
//
// [cache] - Byte-oriented cache with file, Redis, and null backends.
//
// [store] - Report persistence with in-memory and MongoDB backends.
//
// [httputil] - File-based HTTP response caching and retry with backoff.
//
// [errors] - Structured errors with machine-readable codes.
//
// [observability] - Hook interfaces with no-op defaults for metrics and tracing.
//
// [walker]: https://pkg.go.dev/github.com/depwalk/depwalk/pkg/walker
// [provider]: https://pkg.go.dev/github.com/depwalk/depwalk/pkg/provider
// [provider/maven]: https://pkg.go.dev/github.com/depwalk/depwalk/pkg/provider/maven
// [provider/fixture]: https://pkg.go.dev/github.com/depwalk/depwalk/pkg/provider/fixture
// [report]: https://pkg.go.dev/github.com/depwalk/depwalk/pkg/report
// [render]: https://pkg.go.dev/github.com/depwalk/depwalk/pkg/render
// [cache]: https://pkg.go.dev/github.com/depwalk/depwalk/pkg/cache
// [store]: https://pkg.go.dev/github.com/depwalk/depwalk/pkg/store
// [httputil]: https://pkg.go.dev/github.com/depwalk/depwalk/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/depwalk/depwalk/pkg/errors
// [observability]: https://pkg.go.dev/github.com/depwalk/depwalk/pkg/observability
package pkg
