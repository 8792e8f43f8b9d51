// Package cargo discovers and parses Cargo manifests and lockfiles.
//
// The package covers the front half of the resolution pipeline: finding
// Cargo.toml files under a project root, extracting declared dependency
// specifications from their dependency tables, aggregating them across a
// workspace into a single collection, and reconciling the collection
// against Cargo.lock to obtain exact pinned versions.
//
// All functions read the filesystem but never write to it. Parsing is pure
// with respect to the manifest text; errors carry the offending file path.
package cargo
