package tokens

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/depbank/pkg/errors"
)

// FileStats holds per-file size and token counts.
type FileStats struct {
	Path      string // absolute or as-given file path
	SizeBytes int    // file size in bytes
	Tokens    int    // token count of the file content
}

// CountFile reads the file at path and counts its tokens.
func CountFile(c Counter, path string) (FileStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileStats{}, errors.Wrap(errors.ErrCodeNotFound, err, "read file %s", path)
	}
	n, err := c.Count(string(data))
	if err != nil {
		return FileStats{}, errors.Wrap(errors.ErrCodeInternal, err, "count tokens in %s", path)
	}
	return FileStats{Path: path, SizeBytes: len(data), Tokens: n}, nil
}

// CountDir counts tokens for every regular file directly under dir,
// optionally filtered by extension (without the leading dot, e.g. "md").
// Subdirectories are not descended into. Results are sorted by file name
// so repeated runs report in the same order.
func CountDir(c Counter, dir, extension string) ([]FileStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.New(errors.ErrCodeNotFound, "directory does not exist: %s", dir)
	}

	var stats []FileStats
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if extension != "" && !strings.EqualFold(filepath.Ext(name), "."+extension) {
			continue
		}
		fs, err := CountFile(c, filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		stats = append(stats, fs)
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Path < stats[j].Path })
	return stats, nil
}

// Total sums the token counts of stats.
func Total(stats []FileStats) int {
	total := 0
	for _, s := range stats {
		total += s.Tokens
	}
	return total
}

// TotalBytes sums the byte sizes of stats.
func TotalBytes(stats []FileStats) int {
	total := 0
	for _, s := range stats {
		total += s.SizeBytes
	}
	return total
}
