package bank

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const libSource = `//! Crate-level docs.

/// Parses the input.
#[inline]
pub fn parse(input: &str) -> Result<Ast, Error> {
    unimplemented!()
}

/// A syntax tree.
pub struct Ast {
    nodes: Vec<Node>,
}

fn private_helper() {}

impl Ast {
    /// Number of nodes.
    pub fn len(&self) -> usize { self.nodes.len() }
}
`

func TestSummaryGenerate(t *testing.T) {
	src := t.TempDir()
	writeSource(t, src, "src/lib.rs", libSource)
	writeSource(t, src, "tests/integration.rs", "pub fn should_not_appear() {}\n")
	writeSource(t, src, "examples/demo.rs", "pub fn also_hidden() {}\n")
	writeSource(t, src, ".hidden/secret.rs", "pub fn hidden_too() {}\n")
	writeSource(t, src, "README.md", "not rust\n")

	out, err := NewSummary().Generate(context.Background(), src)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	bank := string(out)

	if !strings.HasPrefix(bank, "# "+filepath.Base(src)+"\n") {
		t.Errorf("missing crate heading:\n%s", bank)
	}
	if !strings.Contains(bank, "## src/lib.rs") {
		t.Errorf("missing file section:\n%s", bank)
	}
	for _, want := range []string{
		"//! Crate-level docs.",
		"/// Parses the input.",
		"pub fn parse(input: &str) -> Result<Ast, Error>",
		"pub struct Ast",
		"/// Number of nodes.",
		"pub fn len(&self) -> usize",
		"impl Ast",
	} {
		if !strings.Contains(bank, want) {
			t.Errorf("bank missing %q:\n%s", want, bank)
		}
	}
	for _, reject := range []string{
		"private_helper",
		"should_not_appear",
		"also_hidden",
		"hidden_too",
		"unimplemented!",
		"self.nodes.len()",
	} {
		if strings.Contains(bank, reject) {
			t.Errorf("bank should not contain %q:\n%s", reject, bank)
		}
	}
}

func TestSummaryGenerateMissingDir(t *testing.T) {
	_, err := NewSummary().Generate(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing source directory")
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"pub fn len(&self) -> usize { self.nodes.len() }", "pub fn len(&self) -> usize"},
		{"pub fn parse(input: &str) -> Result<Ast, Error> {", "pub fn parse(input: &str) -> Result<Ast, Error>"},
		{"pub type Result<T> = std::result::Result<T, Error>;", "pub type Result<T> = std::result::Result<T, Error>;"},
	}
	for _, tt := range tests {
		if got := signature(tt.line); got != tt.want {
			t.Errorf("signature(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
