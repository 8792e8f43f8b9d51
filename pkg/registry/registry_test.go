package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/depbank/pkg/cargo"
	"github.com/matzehuels/depbank/pkg/errors"
)

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

func chtime(t *testing.T, path string, when time.Time) {
	t.Helper()
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatal(err)
	}
}

func TestActiveSnapshotLatestWins(t *testing.T) {
	root := t.TempDir()
	old := filepath.Join(root, "index.crates.io-1111111111111111")
	recent := filepath.Join(root, "index.crates.io-2222222222222222")
	mkdir(t, old)
	mkdir(t, recent)

	base := time.Now().Add(-time.Hour)
	chtime(t, old, base)
	chtime(t, recent, base.Add(time.Minute))

	snap, err := ActiveSnapshot(root)
	if err != nil {
		t.Fatalf("ActiveSnapshot: %v", err)
	}
	if snap.Path != recent {
		t.Errorf("snapshot = %s, want %s", snap.Path, recent)
	}
}

func TestActiveSnapshotTieBreaksLexicographically(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "index.aaaa")
	b := filepath.Join(root, "index.bbbb")
	mkdir(t, a)
	mkdir(t, b)

	same := time.Now().Add(-time.Hour).Truncate(time.Second)
	chtime(t, a, same)
	chtime(t, b, same)

	snap, err := ActiveSnapshot(root)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Path != b {
		t.Errorf("tie should break to greatest name: got %s", snap.Path)
	}
}

func TestActiveSnapshotIgnoresFiles(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "index.crates.io-abc")
	mkdir(t, dir)
	if err := os.WriteFile(filepath.Join(root, "zz-not-a-snapshot"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := ActiveSnapshot(root)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Path != dir {
		t.Errorf("snapshot = %s, want %s", snap.Path, dir)
	}
}

func TestActiveSnapshotMissingRoot(t *testing.T) {
	_, err := ActiveSnapshot(filepath.Join(t.TempDir(), "missing"))
	if errors.GetCode(err) != errors.ErrCodeRegistryNotFound {
		t.Errorf("expected %s, got %v", errors.ErrCodeRegistryNotFound, err)
	}
}

func TestActiveSnapshotEmptyRoot(t *testing.T) {
	_, err := ActiveSnapshot(t.TempDir())
	if errors.GetCode(err) != errors.ErrCodeSnapshotNotFound {
		t.Errorf("expected %s, got %v", errors.ErrCodeSnapshotNotFound, err)
	}
}

func TestDependencyPath(t *testing.T) {
	got := DependencyPath("/reg/snap", "serde", "1.0.190")
	want := filepath.Join("/reg/snap", "serde-1.0.190")
	if got != want {
		t.Errorf("DependencyPath = %s, want %s", got, want)
	}
}

func TestResolveAll(t *testing.T) {
	snapshot := t.TempDir()
	mkdir(t, filepath.Join(snapshot, "anyhow-1.0.75"))

	collection := cargo.Aggregate([]*cargo.Manifest{{
		Path: "Cargo.toml",
		Specs: []cargo.Spec{
			{Name: "anyhow", Origin: cargo.OriginSimple, Version: "1.0"},
			{Name: "tokio", Origin: cargo.OriginSimple, Version: "1.32"},
			{Name: "leftpad", Origin: cargo.OriginSimple, Version: "0.1"},
		},
	}})
	res := cargo.Resolve([]cargo.LockEntry{
		{Name: "anyhow", Version: "1.0.75"},
		{Name: "tokio", Version: "1.32.0"},
	}, collection)

	resolved := ResolveAll(snapshot, res)
	if len(resolved) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resolved))
	}

	anyhow := resolved[0]
	if !anyhow.Available || anyhow.Path != filepath.Join(snapshot, "anyhow-1.0.75") {
		t.Errorf("anyhow = %+v", anyhow)
	}

	// Resolved version but no source directory on disk.
	tokio := resolved[1]
	if tokio.Available || tokio.Unresolved || tokio.Version != "1.32.0" || tokio.Path != "" {
		t.Errorf("tokio = %+v", tokio)
	}

	// No lockfile entry: unresolved, never given a path.
	leftpad := resolved[2]
	if !leftpad.Unresolved || leftpad.Available || leftpad.Path != "" || leftpad.Version != "" {
		t.Errorf("leftpad = %+v", leftpad)
	}

	if CountAvailable(resolved) != 1 {
		t.Errorf("CountAvailable = %d, want 1", CountAvailable(resolved))
	}
	if CountUnresolved(resolved) != 1 {
		t.Errorf("CountUnresolved = %d, want 1", CountUnresolved(resolved))
	}
}

func TestResolveAllRejectsUnsafeNames(t *testing.T) {
	snapshot := t.TempDir()
	mkdir(t, filepath.Join(snapshot, "..-1.0.0"))

	collection := cargo.Aggregate([]*cargo.Manifest{{
		Path:  "Cargo.toml",
		Specs: []cargo.Spec{{Name: "..", Origin: cargo.OriginSimple, Version: "1.0"}},
	}})
	res := cargo.Resolve([]cargo.LockEntry{{Name: "..", Version: "1.0.0"}}, collection)

	resolved := ResolveAll(snapshot, res)
	if len(resolved) != 1 || resolved[0].Available {
		t.Errorf("path traversal name must never resolve: %+v", resolved)
	}
}
