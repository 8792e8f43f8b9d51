package bank

import (
	"bufio"
	"os"
	"strings"

	"github.com/matzehuels/depbank/pkg/errors"
)

// itemPrefixes mark the start of a declaration worth including in the
// outline. Order matters only for readability; matching is prefix-based
// on the trimmed line.
var itemPrefixes = []string{
	"pub fn ",
	"pub async fn ",
	"pub unsafe fn ",
	"pub const fn ",
	"pub struct ",
	"pub enum ",
	"pub trait ",
	"pub type ",
	"pub const ",
	"pub static ",
	"pub mod ",
	"pub use ",
	"macro_rules! ",
	"impl ",
}

// outlineFile extracts the public API outline of one Rust source file:
// item signatures preceded by their doc comments. Bodies are dropped;
// a signature is the declaration's first line up to its opening brace.
func outlineFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNotFound, err, "read %s", path)
	}
	defer f.Close()

	var b strings.Builder
	var docs []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "//!"):
			// Inner docs describe the file itself, not the next item.
			b.WriteString(line)
			b.WriteByte('\n')
		case strings.HasPrefix(line, "///"):
			docs = append(docs, line)
		case isItemLine(line):
			for _, d := range docs {
				b.WriteString(d)
				b.WriteByte('\n')
			}
			docs = docs[:0]
			b.WriteString(signature(line))
			b.WriteByte('\n')
		case strings.HasPrefix(line, "#["):
			// Attributes sit between docs and the item; keep the docs.
		default:
			docs = docs[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "scan %s", path)
	}

	return b.String(), nil
}

func isItemLine(line string) bool {
	for _, prefix := range itemPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// signature trims a declaration line to its signature: everything up to
// the opening brace, with a trailing semicolon preserved as written.
func signature(line string) string {
	if i := strings.Index(line, "{"); i >= 0 {
		return strings.TrimSpace(line[:i])
	}
	return line
}
