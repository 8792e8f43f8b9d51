package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	key := BankKey("serde", "1.0.152")

	// Miss before Set
	_, hit, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss for unknown key")
	}

	// Round-trip
	if err := c.Set(ctx, key, []byte("# serde"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != "# serde" {
		t.Errorf("Get returned %q, want %q", data, "# serde")
	}

	// Expired entries are treated as misses
	if err := c.Set(ctx, "expired", []byte("x"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "expired")
	if hit {
		t.Error("expired entry should be a miss")
	}

	// Delete is idempotent
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("second Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, key)
	if hit {
		t.Error("deleted entry should be a miss")
	}
}

func TestFileCacheLayout(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(context.Background(), BankKey("serde", "1.0.152"), []byte("# serde"), 0); err != nil {
		t.Fatal(err)
	}

	// Bank entries live under a bank/ namespace directory, sharded.
	entries, err := os.ReadDir(filepath.Join(dir, "bank"))
	if err != nil {
		t.Fatalf("no bank namespace directory: %v", err)
	}
	if len(entries) != 1 || !entries[0].IsDir() || len(entries[0].Name()) != 2 {
		t.Errorf("expected one two-character shard directory, got %v", entries)
	}
}

func TestFileCacheKeyMismatchIsMiss(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	fc := c.(*FileCache)

	ctx := context.Background()
	key := BankKey("serde", "1.0.152")

	// An entry whose stored key does not match the lookup key must not
	// be served, even if it decodes cleanly.
	tampered := `{"key":"bank:somethingelse","data":"Ym9ndXM="}`
	path := fc.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(tampered), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Errorf("mismatched entry should be a miss, got hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("mismatched entry should be removed")
	}

	// Corrupt JSON is also a miss, not an error.
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{truncated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Errorf("corrupt entry should be a miss, got hit=%v err=%v", hit, err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestHashKey(t *testing.T) {
	if !strings.HasPrefix(hashKey("bank", "serde", "1.0"), "bank:") {
		t.Error("namespace should stay in clear text")
	}
	// Component boundaries matter.
	if hashKey("bank", "serde", "1.0") == hashKey("bank", "serde-1", ".0") {
		t.Error("shifting bytes across components should change the key")
	}
}

func TestBankKey(t *testing.T) {
	k1 := BankKey("serde", "1.0.152")
	k2 := BankKey("serde", "1.0.152")
	if k1 != k2 {
		t.Error("BankKey should be deterministic")
	}

	// Different versions produce different keys
	k3 := BankKey("serde", "1.0.153")
	if k1 == k3 {
		t.Error("Different versions should produce different keys")
	}

	// Different names produce different keys
	k4 := BankKey("serde_json", "1.0.152")
	if k1 == k4 {
		t.Error("Different names should produce different keys")
	}
}
