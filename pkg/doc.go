// Package pkg provides the core libraries for DepBank dependency code banks.
//
// # Overview
//
// DepBank resolves a Rust project's dependencies to their local registry
// sources and condenses each crate into a Markdown code bank suitable for
// feeding an LLM context window. The pkg directory is organized into five
// main areas:
//
//  1. [cargo] - Manifest/lockfile parsing and dependency aggregation
//  2. [registry] - Local Cargo registry snapshot and source path resolution
//  3. [bank] - Code bank generation from dependency source trees
//  4. [tokens] - Token counting for generated banks
//  5. [cache], [errors], [buildinfo] - Shared infrastructure
//
// # Architecture
//
// The typical data flow through DepBank:
//
//	Cargo.toml files (discovered under a project root)
//	         ↓
//	    [cargo] package (parse, aggregate, resolve via Cargo.lock)
//	         ↓
//	    [registry] package (locate snapshot, resolve source paths)
//	         ↓
//	    [bank] package (generate Markdown code banks)
//	         ↓
//	    [tokens] package (count tokens per bank)
//
// # Quick Start
//
// Resolve a project and generate banks:
//
//	manifests, _ := cargo.FindManifests(".")
//	var parsed []*cargo.Manifest
//	for _, p := range manifests {
//	    m, _ := cargo.ParseManifest(p)
//	    parsed = append(parsed, m)
//	}
//	collection := cargo.Aggregate(parsed)
//
//	lockPath, _ := cargo.FindLockfile(".")
//	entries, _ := cargo.ParseLockfile(lockPath)
//	versions := cargo.Resolve(entries, collection)
//
//	root, _ := registry.CacheRoot()
//	snapshot, _ := registry.ActiveSnapshot(root)
//	resolved := registry.ResolveAll(snapshot.Path, versions)
//
//	results, _ := bank.GenerateAll(ctx, resolved, ".codebank", bank.Options{})
//
// # Main Packages
//
// [cargo] - Cargo.toml discovery and parsing, Cargo.lock parsing, and the
// aggregation/resolution logic that maps every declared dependency name to
// an exact version. Unresolvable names stay present as explicit data.
//
// [registry] - Locates the active snapshot under ~/.cargo/registry/src
// (latest modification time wins) and constructs {name}-{version} source
// paths. Strictly read-only; nothing is ever fetched.
//
// [bank] - Walks a crate's source tree and emits a Markdown outline of its
// public API, one section per file. Per-dependency failures are recorded
// in the run results, never raised.
//
// [tokens] - Counts BPE tokens (cl100k_base) in files and directories,
// with a byte-length estimator fallback when no vocabulary is available.
//
// [cache] - File-based cache for generated banks, keyed by name and exact
// version so version bumps invalidate naturally.
//
// [errors] - Structured errors with machine-readable codes shared by every
// package.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/cargo/...    # Specific package
//
// [cargo]: https://pkg.go.dev/github.com/matzehuels/depbank/pkg/cargo
// [registry]: https://pkg.go.dev/github.com/matzehuels/depbank/pkg/registry
// [bank]: https://pkg.go.dev/github.com/matzehuels/depbank/pkg/bank
// [tokens]: https://pkg.go.dev/github.com/matzehuels/depbank/pkg/tokens
// [cache]: https://pkg.go.dev/github.com/matzehuels/depbank/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/depbank/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/depbank/pkg/buildinfo
package pkg
