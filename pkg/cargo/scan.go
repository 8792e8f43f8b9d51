package cargo

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/depbank/pkg/errors"
)

// ManifestName is the file name of a Cargo manifest.
const ManifestName = "Cargo.toml"

// LockfileName is the file name of a Cargo lockfile.
const LockfileName = "Cargo.lock"

// FindManifests recursively finds all Cargo.toml files under root.
//
// Hidden directories (names starting with a dot, like .git) are pruned
// entirely. The returned paths are absolute and sorted by the traversal
// order of filepath.WalkDir, which is lexical and therefore stable across
// runs on the same tree.
//
// A root with no manifests yields an empty slice, not an error. A missing
// root or a root that is not a directory fails with NOT_FOUND_ROOT.
func FindManifests(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.New(errors.ErrCodeRootNotFound, "root directory does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeRootNotFound, "path is not a directory: %s", root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve root path %s", root)
	}

	var manifests []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != abs && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && d.Name() == ManifestName {
			manifests = append(manifests, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "walk %s", abs)
	}

	return manifests, nil
}

// FindLockfile looks for Cargo.lock in startDir and then in successive
// parent directories until the filesystem root is reached.
//
// Fails with NOT_FOUND_LOCKFILE if no lockfile exists anywhere on the
// path; the message names the directory where the search started so the
// user knows the expected location.
func FindLockfile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve path %s", startDir)
	}

	for {
		candidate := filepath.Join(dir, LockfileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.New(errors.ErrCodeLockfileNotFound,
		"no %s found in %s or any parent directory", LockfileName, startDir)
}
