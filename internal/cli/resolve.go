package cli

import (
	"context"
	"fmt"

	"github.com/matzehuels/depbank/pkg/cargo"
	"github.com/matzehuels/depbank/pkg/registry"
)

// projectResolution holds the output of the full resolution pipeline for
// one project root: discovered manifests, the aggregated collection, lock
// versions, the active registry snapshot, and per-dependency outcomes.
type projectResolution struct {
	Manifests  []*cargo.Manifest
	Collection *cargo.Collection
	LockPath   string
	Versions   *cargo.Resolution
	Snapshot   *registry.Snapshot
	Resolved   []registry.Resolved
}

// scanProject discovers and parses every manifest under root and
// aggregates the declared dependencies. A root with zero manifests
// returns an empty slice and an empty collection; a single unparseable
// manifest fails the whole scan rather than being skipped.
func scanProject(ctx context.Context, root string) ([]*cargo.Manifest, *cargo.Collection, error) {
	logger := loggerFromContext(ctx)

	paths, err := cargo.FindManifests(root)
	if err != nil {
		return nil, nil, err
	}
	logger.Debugf("found %d manifest(s) under %s", len(paths), root)

	manifests := make([]*cargo.Manifest, 0, len(paths))
	for _, path := range paths {
		m, err := cargo.ParseManifest(path)
		if err != nil {
			return nil, nil, err
		}
		manifests = append(manifests, m)
	}

	return manifests, cargo.Aggregate(manifests), nil
}

// resolveProject runs the whole pipeline: scan, aggregate, lock
// resolution, registry location, and per-dependency path resolution.
//
// registryRoot overrides the Cargo cache root when non-empty; commands
// pass "" to use the home-directory convention.
func resolveProject(ctx context.Context, root, registryRoot string) (*projectResolution, error) {
	logger := loggerFromContext(ctx)

	manifests, collection, err := scanProject(ctx, root)
	if err != nil {
		return nil, err
	}

	res := &projectResolution{Manifests: manifests, Collection: collection}
	if collection.Len() == 0 {
		// Valid empty result: nothing to look up, so the lockfile and
		// registry are not consulted.
		res.Versions = cargo.Resolve(nil, collection)
		return res, nil
	}

	lockPath, err := cargo.FindLockfile(root)
	if err != nil {
		return nil, err
	}
	res.LockPath = lockPath
	logger.Debugf("using lockfile %s", lockPath)

	entries, err := cargo.ParseLockfile(lockPath)
	if err != nil {
		return nil, err
	}
	res.Versions = cargo.Resolve(entries, collection)

	if registryRoot == "" {
		registryRoot, err = registry.CacheRoot()
		if err != nil {
			return nil, err
		}
	}
	snapshot, err := registry.ActiveSnapshot(registryRoot)
	if err != nil {
		return nil, err
	}
	res.Snapshot = snapshot
	logger.Debugf("active registry snapshot %s", snapshot.Path)

	res.Resolved = registry.ResolveAll(snapshot.Path, res.Versions)
	return res, nil
}

// availabilitySummary formats the "N/M available" line for a resolution.
func availabilitySummary(resolved []registry.Resolved) string {
	return fmt.Sprintf("%d/%d available, %d unresolved",
		registry.CountAvailable(resolved), len(resolved), registry.CountUnresolved(resolved))
}
