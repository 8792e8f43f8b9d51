// Package bank generates Markdown code banks from dependency source trees.
//
// A code bank is a condensed, AI-friendly outline of a crate: its public
// item signatures and doc comments, grouped per source file. Banks are
// generated from the read-only registry snapshot and written next to each
// other in an output directory, one file per dependency.
package bank

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/depbank/pkg/errors"
)

// Generator converts a source directory into a condensed textual
// representation. The pipeline does not interpret the output beyond its
// byte length.
type Generator interface {
	Generate(ctx context.Context, srcDir string) ([]byte, error)
}

// Summary generates a Markdown outline of a Rust source tree: public item
// signatures with their doc comments, one section per file.
type Summary struct {
	// SkipDirs are directory names excluded from the walk.
	SkipDirs []string
}

// NewSummary creates a Summary generator with the default exclusions:
// example, test, and benchmark trees carry no API surface worth banking.
func NewSummary() *Summary {
	return &Summary{SkipDirs: []string{"examples", "tests", "benches"}}
}

// Generate walks srcDir and produces the Markdown code bank.
// Fails with NOT_FOUND if srcDir does not exist or is not a directory.
func (s *Summary) Generate(ctx context.Context, srcDir string) ([]byte, error) {
	root, err := filepath.Abs(srcDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", srcDir)
	}

	skip := make(map[string]bool, len(s.SkipDirs))
	for _, d := range s.SkipDirs {
		skip[d] = true
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (skip[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".rs" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.New(errors.ErrCodeNotFound,
			"source path does not exist or is not a directory: %s", srcDir)
	}
	sort.Strings(files)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", filepath.Base(root))

	for _, file := range files {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		rel, _ := filepath.Rel(root, file)
		outline, err := outlineFile(file)
		if err != nil {
			return nil, err
		}
		if outline == "" {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n```rust\n%s```\n", filepath.ToSlash(rel), outline)
	}

	return []byte(b.String()), nil
}

// Ensure Summary implements Generator.
var _ Generator = (*Summary)(nil)
