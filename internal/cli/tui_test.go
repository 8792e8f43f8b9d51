package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/depbank/pkg/bank"
	"github.com/matzehuels/depbank/pkg/registry"
)

// headless runs the progress program without a terminal.
func headless() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
	}
}

func TestGenerateWithProgress(t *testing.T) {
	snapshot := t.TempDir()
	write(t, filepath.Join(snapshot, "anyhow-1.0.75", "src", "lib.rs"), "pub fn anyhow() {}\n")

	resolved := []registry.Resolved{
		{Name: "anyhow", Version: "1.0.75", Path: filepath.Join(snapshot, "anyhow-1.0.75"), Available: true},
	}
	// Unresolved entries complete synchronously, so the last result
	// message can reach the view before generation has returned. The
	// returned slice must be complete regardless of that timing.
	for i := 0; i < 50; i++ {
		resolved = append(resolved, registry.Resolved{Name: fmt.Sprintf("missing-%02d", i), Unresolved: true})
	}

	outDir := filepath.Join(t.TempDir(), "out")
	results, err := generateWithProgress(context.Background(), resolved, outDir,
		bank.Options{Concurrency: 4}, headless()...)
	if err != nil {
		t.Fatalf("generateWithProgress: %v", err)
	}
	if len(results) != len(resolved) {
		t.Fatalf("results = %d, want %d", len(results), len(resolved))
	}
	if results[0].Status != bank.StatusGenerated {
		t.Errorf("anyhow = %+v", results[0])
	}
	for _, r := range results[1:] {
		if r.Status != bank.StatusUnresolved {
			t.Errorf("%s = %s, want %s", r.Name, r.Status, bank.StatusUnresolved)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "anyhow.md")); err != nil {
		t.Errorf("bank not written: %v", err)
	}

	counts := bank.Summarize(results)
	if counts.Generated != 1 || counts.Unresolved != 50 {
		t.Errorf("counts = %+v", counts)
	}
}

func TestGenerateWithProgressEmpty(t *testing.T) {
	results, err := generateWithProgress(context.Background(), nil,
		filepath.Join(t.TempDir(), "out"), bank.Options{}, headless()...)
	if err != nil {
		t.Fatalf("generateWithProgress: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v", results)
	}
}
