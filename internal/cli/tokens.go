package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depbank/pkg/errors"
	"github.com/matzehuels/depbank/pkg/tokens"
)

type tokensOpts struct {
	extension string
}

// newTokensCmd creates the tokens command.
func newTokensCmd() *cobra.Command {
	opts := tokensOpts{}

	cmd := &cobra.Command{
		Use:   "tokens <path>",
		Short: "Count tokens in a file or directory",
		Long: `Tokens counts BPE tokens for a single file, or for every file directly
inside a directory. Use --extension to restrict directory counting to one
file type (e.g. -e md for generated code banks).`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runTokens(c.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.extension, "extension", "e", "", "only count files with this extension (directories only)")

	return cmd
}

func runTokens(ctx context.Context, path string, opts tokensOpts) error {
	logger := loggerFromContext(ctx)
	counter := newCounter(logger)

	info, err := os.Stat(path)
	if err != nil {
		return errors.New(errors.ErrCodeNotFound, "path does not exist: %s", path)
	}

	if !info.IsDir() {
		fs, err := tokens.CountFile(counter, path)
		if err != nil {
			return err
		}
		printKeyValue("File", fs.Path)
		printKeyValue("Tokens", formatCount(fs.Tokens))
		printKeyValue("Bytes", formatCount(fs.SizeBytes))
		printDetail("counted with %s", counter.Name())
		return nil
	}

	stats, err := tokens.CountDir(counter, path, opts.extension)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		printInfo("No matching files in %s", path)
		return nil
	}

	for _, fs := range stats {
		printDetail("%s: %s tokens, %s bytes", fs.Path, formatCount(fs.Tokens), formatCount(fs.SizeBytes))
	}
	printNewline()
	printSuccess("%s tokens across %d files (%s, %s bytes)",
		formatCount(tokens.Total(stats)), len(stats), counter.Name(), formatCount(tokens.TotalBytes(stats)))
	return nil
}
