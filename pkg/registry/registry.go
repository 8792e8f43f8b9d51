// Package registry locates the local Cargo package cache and resolves
// dependency source paths inside it.
//
// Cargo stores fetched crate sources under ~/.cargo/registry/src, with one
// subdirectory per registry index (e.g. index.crates.io-6f17d22bba15001f).
// Exactly one snapshot is treated as active per run: the most recently
// modified subdirectory, on the assumption that the index Cargo last
// touched is the one the project fetched from. The snapshot is read-only;
// this package never creates or mutates anything under it.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/depbank/pkg/errors"
)

// Snapshot is the active local registry snapshot.
type Snapshot struct {
	Path    string    // absolute path of the snapshot directory
	ModTime time.Time // last modification time, the selection criterion
}

// CacheRoot returns the Cargo registry source cache root, derived from
// the user's home directory. The directory is not required to exist;
// ActiveSnapshot reports a structured error when it doesn't.
func CacheRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeRegistryNotFound, err, "locate home directory")
	}
	return filepath.Join(home, ".cargo", "registry", "src"), nil
}

// ActiveSnapshot selects the active registry snapshot under root.
//
// Among the immediate subdirectories of root, the one with the latest
// modification time wins; ties break to the lexicographically greatest
// name so selection stays deterministic across repeated calls. A missing
// root fails with NOT_FOUND_REGISTRY, a root with zero subdirectories
// with NOT_FOUND_SNAPSHOT — every resolution in a run depends on this
// value, so neither is a silent empty result.
func ActiveSnapshot(root string) (*Snapshot, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.New(errors.ErrCodeRegistryNotFound,
			"cargo registry directory not found: %s", root)
	}

	var best *Snapshot
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidate := &Snapshot{
			Path:    filepath.Join(root, entry.Name()),
			ModTime: info.ModTime(),
		}
		if best == nil || newer(candidate, best) {
			best = candidate
		}
	}

	if best == nil {
		return nil, errors.New(errors.ErrCodeSnapshotNotFound,
			"no registry snapshot available under %s", root)
	}
	return best, nil
}

// newer reports whether a should be selected over b.
func newer(a, b *Snapshot) bool {
	if !a.ModTime.Equal(b.ModTime) {
		return a.ModTime.After(b.ModTime)
	}
	return a.Path > b.Path
}

// DependencyPath constructs the expected source path of a dependency
// inside a snapshot: {snapshot}/{name}-{version}.
func DependencyPath(snapshot, name, version string) string {
	return filepath.Join(snapshot, fmt.Sprintf("%s-%s", name, version))
}
