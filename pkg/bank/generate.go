package bank

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/depbank/pkg/cache"
	"github.com/matzehuels/depbank/pkg/errors"
	"github.com/matzehuels/depbank/pkg/registry"
)

// Status is the per-dependency outcome of a generation run.
type Status string

const (
	StatusGenerated   Status = "generated"   // bank written (or served from cache)
	StatusFailed      Status = "failed"      // generation or write failed; run continued
	StatusUnavailable Status = "unavailable" // resolved version has no local source
	StatusUnresolved  Status = "unresolved"  // no lockfile entry; no path was constructed
)

// Result is the outcome of generating one dependency's code bank.
type Result struct {
	Name    string // dependency name
	Version string // exact version ("" when unresolved)
	Status  Status
	File    string // written bank file path (when generated)
	Bytes   int    // size of the generated bank
	Cached  bool   // true when served from the bank cache
	Err     error  // set when Status == StatusFailed
}

// Options configures a generation run.
type Options struct {
	Generator   Generator            // defaults to NewSummary()
	Cache       cache.Cache          // defaults to cache.NewNullCache()
	CacheTTL    time.Duration        // zero means entries never expire
	Concurrency int                  // defaults to runtime.NumCPU()
	OnResult    func(Result)         // called as each dependency completes (any goroutine)
	Logger      func(string, ...any) // warning callback (optional)
}

func (o Options) withDefaults() Options {
	opts := o
	if opts.Generator == nil {
		opts.Generator = NewSummary()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	if opts.OnResult == nil {
		opts.OnResult = func(Result) {}
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// GenerateAll generates code banks for every available dependency,
// writing {outDir}/{name}.md for each. Dependencies are processed
// concurrently but results keep collection order: the returned slice is
// indexed by the input order, never by completion order.
//
// Per-dependency failures are recorded in the Result and never abort the
// run. The only returned error is context cancellation or an unusable
// output directory.
func GenerateAll(ctx context.Context, resolved []registry.Resolved, outDir string, opts Options) ([]Result, error) {
	opts = opts.withDefaults()

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", outDir)
	}

	results := make([]Result, len(resolved))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, dep := range resolved {
		switch {
		case dep.Unresolved:
			results[i] = Result{Name: dep.Name, Status: StatusUnresolved}
			opts.OnResult(results[i])
			continue
		case !dep.Available:
			results[i] = Result{Name: dep.Name, Version: dep.Version, Status: StatusUnavailable}
			opts.OnResult(results[i])
			continue
		}

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = generateOne(gctx, dep, outDir, opts)
			opts.OnResult(results[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// generateOne produces the bank for a single available dependency,
// consulting the cache first.
func generateOne(ctx context.Context, dep registry.Resolved, outDir string, opts Options) Result {
	res := Result{Name: dep.Name, Version: dep.Version}

	key := cache.BankKey(dep.Name, dep.Version)
	content, hit, err := opts.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger("bank cache read failed for %s: %v", dep.Name, err)
	}
	if hit {
		res.Cached = true
	} else {
		content, err = opts.Generator.Generate(ctx, dep.Path)
		if err != nil {
			res.Status = StatusFailed
			res.Err = err
			return res
		}
		if err := opts.Cache.Set(ctx, key, content, opts.CacheTTL); err != nil {
			opts.Logger("bank cache write failed for %s: %v", dep.Name, err)
		}
	}

	file := filepath.Join(outDir, fmt.Sprintf("%s.md", dep.Name))
	if err := os.WriteFile(file, content, 0644); err != nil {
		res.Status = StatusFailed
		res.Err = errors.Wrap(errors.ErrCodeInternal, err, "write bank file %s", file)
		return res
	}

	res.Status = StatusGenerated
	res.File = file
	res.Bytes = len(content)
	return res
}

// Counts summarizes a generation run by status.
type Counts struct {
	Generated   int
	Failed      int
	Unavailable int
	Unresolved  int
}

// Summarize tallies results by status.
func Summarize(results []Result) Counts {
	var c Counts
	for _, r := range results {
		switch r.Status {
		case StatusGenerated:
			c.Generated++
		case StatusFailed:
			c.Failed++
		case StatusUnavailable:
			c.Unavailable++
		case StatusUnresolved:
			c.Unresolved++
		}
	}
	return c
}
