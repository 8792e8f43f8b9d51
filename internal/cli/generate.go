package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depbank/pkg/bank"
	"github.com/matzehuels/depbank/pkg/cache"
	"github.com/matzehuels/depbank/pkg/tokens"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	path    string // project root to analyze
	output  string // output directory for generated banks
	dryRun  bool   // resolve and report without writing banks
	refresh bool   // bypass the bank cache
	jobs    int    // parallel generation workers (0 = NumCPU)

	registryRoot string // test override for the cargo cache root
}

// newGenerateCmd creates the generate command.
func newGenerateCmd() *cobra.Command {
	opts := generateOpts{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate code banks for dependencies in a Rust project",
		Long: `Generate resolves every dependency declared in the project's Cargo.toml
files to its exact version via Cargo.lock, locates the source in the local
Cargo registry, and writes one Markdown code bank per available dependency.

Dependencies without a lockfile entry or without a local source copy are
reported, not fetched.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runGenerate(c.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.path, "path", "p", ".", "path to the project root directory")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".codebank", "output directory for generated code banks")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "d", false, "resolve and report without generating code banks")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the bank cache")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "parallel generation workers (default: number of CPUs)")

	return cmd
}

// runGenerate executes the full pipeline for the generate command.
func runGenerate(ctx context.Context, opts generateOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Analyzing project %s", opts.path)

	prog := newProgress(logger)
	res, err := resolveProject(ctx, opts.path, opts.registryRoot)
	if err != nil {
		return err
	}

	if res.Collection.Len() == 0 {
		printInfo("Found %d Cargo.toml files, 0 dependencies", len(res.Manifests))
		printDetail("Nothing to generate")
		return nil
	}
	prog.done(fmt.Sprintf("Resolved %d dependencies (%s)", res.Collection.Len(), availabilitySummary(res.Resolved)))

	printResolution(res)

	if opts.dryRun {
		printInfo("Dry run: no code banks written")
		return nil
	}

	results, err := generateBanks(ctx, res, opts)
	if err != nil {
		return err
	}

	counts := bank.Summarize(results)
	printNewline()
	if counts.Failed > 0 {
		printWarning("Generated %d code banks, %d failed", counts.Generated, counts.Failed)
		for _, r := range results {
			if r.Status == bank.StatusFailed {
				printError("%s: %v", r.Name, r.Err)
			}
		}
	} else {
		printSuccess("Generated %d code banks", counts.Generated)
	}
	printDetail("%d unavailable, %d unresolved", counts.Unavailable, counts.Unresolved)

	if record, err := bank.NewRunRecord(opts.path, res.Snapshot.Path, results).Write(opts.output); err != nil {
		logger.Warnf("run record not written: %v", err)
	} else {
		logger.Debugf("run record written to %s", record)
	}

	return reportTokens(ctx, results)
}

// generateBanks runs bank generation with a cache and, on a terminal, a
// live progress view.
func generateBanks(ctx context.Context, res *projectResolution, opts generateOpts) ([]bank.Result, error) {
	logger := loggerFromContext(ctx)

	bankCache := newBankCache(ctx, opts.refresh)
	defer bankCache.Close()

	genOpts := bank.Options{
		Cache:       bankCache,
		Concurrency: opts.jobs,
		Logger:      func(msg string, args ...any) { logger.Warnf(msg, args...) },
	}

	if isatty.IsTerminal(os.Stdout.Fd()) && logger.GetLevel() > charmlog.DebugLevel {
		return generateWithProgress(ctx, res.Resolved, opts.output, genOpts)
	}

	genOpts.OnResult = func(r bank.Result) {
		switch r.Status {
		case bank.StatusGenerated:
			state := "generated"
			if r.Cached {
				state = "cached"
			}
			logger.Infof("%s-%s: %s (%d bytes)", r.Name, r.Version, state, r.Bytes)
		case bank.StatusFailed:
			logger.Warnf("%s: generation failed: %v", r.Name, r.Err)
		case bank.StatusUnavailable:
			logger.Debugf("%s-%s: not available locally", r.Name, r.Version)
		case bank.StatusUnresolved:
			logger.Debugf("%s: no lockfile entry", r.Name)
		}
	}
	return bank.GenerateAll(ctx, res.Resolved, opts.output, genOpts)
}

// newBankCache opens the persistent bank cache, or a null cache when
// refreshing or when the cache directory is unusable.
func newBankCache(ctx context.Context, refresh bool) cache.Cache {
	if refresh {
		return cache.NewNullCache()
	}
	dir, err := bankCacheDir()
	if err == nil {
		var c cache.Cache
		if c, err = cache.NewFileCache(dir); err == nil {
			return c
		}
	}
	loggerFromContext(ctx).Warnf("bank cache disabled: %v", err)
	return cache.NewNullCache()
}

// bankCacheDir returns the directory for cached code banks.
func bankCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "depbank", "banks"), nil
}

// printResolution lists the per-dependency resolution outcomes.
func printResolution(res *projectResolution) {
	printNewline()
	for _, r := range res.Resolved {
		switch {
		case r.Available:
			fmt.Println("  " + styleIconSuccess.Render(iconSuccess) + " " +
				StyleValue.Render(r.Name) + " " + StyleNumber.Render(r.Version))
		case r.Unresolved:
			fmt.Println("  " + styleIconWarning.Render(iconWarning) + " " +
				StyleValue.Render(r.Name) + " " + StyleDim.Render("(not in lockfile)"))
		default:
			fmt.Println("  " + styleIconError.Render(iconError) + " " +
				StyleValue.Render(r.Name) + " " + StyleNumber.Render(r.Version) + " " +
				StyleDim.Render("(no local source)"))
		}
	}
}

// reportTokens counts tokens for the generated bank files and prints a
// summary. Counting failures degrade to a warning; the banks themselves
// are already on disk.
func reportTokens(ctx context.Context, results []bank.Result) error {
	logger := loggerFromContext(ctx)

	counter := newCounter(logger)
	var stats []tokens.FileStats
	for _, r := range results {
		if r.Status != bank.StatusGenerated {
			continue
		}
		fs, err := tokens.CountFile(counter, r.File)
		if err != nil {
			logger.Warnf("token count failed for %s: %v", r.File, err)
			continue
		}
		stats = append(stats, fs)
		logger.Debugf("%s: %d tokens, %d bytes", r.File, fs.Tokens, fs.SizeBytes)
	}
	if len(stats) == 0 {
		return nil
	}

	printDetail("%s tokens across %d files (%s, %d bytes)",
		formatCount(tokens.Total(stats)), len(stats), counter.Name(), tokens.TotalBytes(stats))
	return nil
}

// newCounter returns the BPE token counter, falling back to the
// byte-length estimator when the encoding cannot be loaded (e.g. no
// network for the first-use vocabulary fetch).
func newCounter(logger *charmlog.Logger) tokens.Counter {
	c, err := tokens.NewTiktoken(tokens.DefaultEncoding)
	if err != nil {
		logger.Warnf("tokenizer unavailable, using byte estimate: %v", err)
		return tokens.NewEstimator()
	}
	return c
}

// formatCount renders n with thousands separators for readability.
func formatCount(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
