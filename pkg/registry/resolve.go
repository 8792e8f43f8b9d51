package registry

import (
	"os"

	"github.com/matzehuels/depbank/pkg/cargo"
	"github.com/matzehuels/depbank/pkg/errors"
)

// Resolved is the final output unit of the resolution pipeline: one
// dependency name mapped to a local source path, or to an explicit
// unavailable/unresolved outcome.
type Resolved struct {
	Name       string // dependency name
	Version    string // exact version from the lockfile ("" when unresolved)
	Path       string // local source path; set only when Available
	Available  bool   // true iff Path exists and is a directory
	Unresolved bool   // true when the lockfile had no entry for Name
}

// ResolveAll produces one Resolved per name in the resolution, in
// collection order. Per-dependency misses are recorded, never raised:
// a missing source directory or an unresolved version yields
// Available=false and the run continues.
func ResolveAll(snapshot string, res *cargo.Resolution) []Resolved {
	names := res.Names()
	out := make([]Resolved, 0, len(names))

	for _, name := range names {
		version, ok := res.Exact(name)
		if !ok {
			out = append(out, Resolved{Name: name, Unresolved: true})
			continue
		}

		r := Resolved{Name: name, Version: version}
		if errors.ValidateDependencyName(name) == nil {
			path := DependencyPath(snapshot, name, version)
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				r.Path = path
				r.Available = true
			}
		}
		out = append(out, r)
	}

	return out
}

// CountAvailable returns how many of the resolved dependencies have a
// local source directory.
func CountAvailable(resolved []Resolved) int {
	n := 0
	for _, r := range resolved {
		if r.Available {
			n++
		}
	}
	return n
}

// CountUnresolved returns how many dependencies had no lockfile entry.
func CountUnresolved(resolved []Resolved) int {
	n := 0
	for _, r := range resolved {
		if r.Unresolved {
			n++
		}
	}
	return n
}
