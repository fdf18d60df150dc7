package timepoint

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBeforeAfterEqual(t *testing.T) {
	a := Unix(100, 0)
	b := Unix(100, 500)
	c := Unix(100, 500)

	if !a.Before(b) {
		t.Error("a should be before b")
	}
	if !b.After(a) {
		t.Error("b should be after a")
	}
	if !b.Equal(c) {
		t.Error("b should equal c")
	}
	if a.Equal(b) {
		t.Error("a should not equal b")
	}
}

func TestZeroIsEarliest(t *testing.T) {
	real, err := ForPath(writeTempFile(t))
	if err != nil {
		t.Fatalf("ForPath: %v", err)
	}
	if !real.After(Zero) {
		t.Errorf("real file mtime %v should be after Zero", real)
	}
}

func TestForPathReflectsWrites(t *testing.T) {
	path := writeTempFile(t)

	first, err := ForPath(path)
	if err != nil {
		t.Fatalf("ForPath: %v", err)
	}

	later := first.Time().Add(2 * time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	second, err := ForPath(path)
	if err != nil {
		t.Fatalf("ForPath (second): %v", err)
	}

	if !second.After(first) {
		t.Errorf("expected %v to be after %v", second, first)
	}
}

func writeTempFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}
