package incremental

import (
	"os"
	"path/filepath"
	"testing"
)

func TestComputeFileHashDeterministic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.swift")
	if err := os.WriteFile(path, []byte("let x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	h1, err := ComputeFileHash(path)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := ComputeFileHash(path)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("hash should be deterministic: %q != %q", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("expected a 64-char hex SHA256 digest, got %d chars", len(h1))
	}
}

func TestComputeFileHashChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.swift")

	if err := os.WriteFile(path, []byte("let x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	h1, err := ComputeFileHash(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("let x = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	h2, err := ComputeFileHash(path)
	if err != nil {
		t.Fatal(err)
	}

	if h1 == h2 {
		t.Error("hash should change when file contents change")
	}
}

func TestComputeFileHashMissingFile(t *testing.T) {
	_, err := ComputeFileHash(filepath.Join(t.TempDir(), "does-not-exist.swift"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
