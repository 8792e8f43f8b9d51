package cli

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// newCacheCmd creates the cache command with its subcommands.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the code bank cache",
	}

	cmd.AddCommand(newCachePathCmd())
	cmd.AddCommand(newCacheClearCmd())

	return cmd
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory location",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			dir, err := bankCacheDir()
			if err != nil {
				return err
			}
			printKeyValue("Cache", dir)
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached code banks",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			dir, err := bankCacheDir()
			if err != nil {
				return err
			}

			removed, bytes, err := clearCacheDir(dir)
			if err != nil {
				return err
			}
			if removed == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Removed %d cached banks (%s bytes)", removed, formatCount(bytes))
			return nil
		},
	}
}

// clearCacheDir removes every cache entry under dir, including the
// sharded subdirectories, and reports how many files and bytes were
// freed. A missing directory is an empty cache.
func clearCacheDir(dir string) (int, int, error) {
	removed, bytes := 0, 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if info, err := d.Info(); err == nil {
			bytes += int(info.Size())
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	if os.IsNotExist(err) {
		return 0, 0, nil
	}
	return removed, bytes, err
}
