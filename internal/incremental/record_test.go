package incremental

import (
	"path/filepath"
	"testing"

	"github.com/detentsh/driver/internal/timepoint"
)

func TestLoadMissingReturnsEmptyRecord(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("missing record should not error: %v", err)
	}
	if len(r.Entries) != 0 {
		t.Errorf("expected empty record, got %d entries", len(r.Entries))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.yaml")
	r := NewRecord()
	r.Note("main.swift", timepoint.Unix(1000, 500), "abc123")

	if err := Save(path, r); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	entry, ok := loaded.Entries["main.swift"]
	if !ok {
		t.Fatal("expected main.swift entry to round-trip")
	}
	if entry.MTimeSeconds != 1000 || entry.Hash != "abc123" {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestVersionMismatchFallsBackNonFatally(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.yaml")
	bad := &Record{Version: 999, Entries: map[string]Entry{}}
	if err := Save(path, bad); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err == nil {
		t.Fatal("expected version mismatch error")
	}
	if r == nil || r.Entries == nil {
		t.Error("even on error, Load should return a usable empty record for fallback")
	}
}

func TestStaleAgainstMissingEntry(t *testing.T) {
	r := NewRecord()
	if !r.StaleAgainst("never-seen.swift", timepoint.Unix(1, 0)) {
		t.Error("an entry absent from the record must be considered stale")
	}
}

func TestStaleAgainstNewerMTime(t *testing.T) {
	r := NewRecord()
	r.Note("a.swift", timepoint.Unix(100, 0), "")
	if r.StaleAgainst("a.swift", timepoint.Unix(100, 0)) {
		t.Error("same mtime should not be stale")
	}
	if !r.StaleAgainst("a.swift", timepoint.Unix(200, 0)) {
		t.Error("newer mtime should be stale")
	}
}
