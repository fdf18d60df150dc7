package ofm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/detentsh/driver/internal/filetype"
)

const sampleMap = `{
  "/w/a.swift": {
    "object": "/build/a.o",
    "swiftmodule": "/build/a~partial.swiftmodule",
    "dependencies": "/build/a.d"
  },
  "/w/b.swift": {
    "object": "/build/b.o"
  },
  "": {
    "swiftmodule": "/build/Main.swiftmodule",
    "diagnostics": "/build/Main.dia"
  }
}`

func TestOutput(t *testing.T) {
	m, err := Parse([]byte(sampleMap), "test")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		name   string
		input  string
		ft     filetype.FileType
		want   string
		wantOK bool
	}{
		{"object entry", "/w/a.swift", filetype.Object, "/build/a.o", true},
		{"module entry", "/w/a.swift", filetype.SwiftModule, "/build/a~partial.swiftmodule", true},
		{"dependencies entry", "/w/a.swift", filetype.Dependencies, "/build/a.d", true},
		{"missing type falls back", "/w/b.swift", filetype.Dependencies, "", false},
		{"missing input falls back", "/w/c.swift", filetype.Object, "", false},
		{"whole-module key", "", filetype.SwiftModule, "/build/Main.swiftmodule", true},
		{"whole-module missing type", "", filetype.Object, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Output(tt.input, tt.ft)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Output(%q, %v) = (%q, %v), want (%q, %v)",
					tt.input, tt.ft, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestWholeModuleOutput(t *testing.T) {
	m, err := Parse([]byte(sampleMap), "test")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, ok := m.WholeModuleOutput(filetype.SerializedDiagnostics)
	if ok {
		t.Errorf("WholeModuleOutput(serialized-diagnostics) = %q, want miss", got)
	}
	got, ok = m.WholeModuleOutput(filetype.SwiftModule)
	if !ok || got != "/build/Main.swiftmodule" {
		t.Errorf("WholeModuleOutput(swiftmodule) = (%q, %v)", got, ok)
	}
}

func TestEntries(t *testing.T) {
	m, err := Parse([]byte(sampleMap), "test")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"/w/a.swift", "/w/b.swift", ""}
	got := m.Entries()
	if len(got) != len(want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entries()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseRejectsNonObject(t *testing.T) {
	for _, raw := range []string{`[]`, `"hello"`, `not json`} {
		if _, err := Parse([]byte(raw), "bad"); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", raw)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ofm.json")
	if err := os.WriteFile(path, []byte(sampleMap), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, ok := m.Output("/w/b.swift", filetype.Object); !ok || got != "/build/b.o" {
		t.Errorf("Output after Load = (%q, %v)", got, ok)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Load(missing) succeeded, want error")
	}
}

func TestEscapedKeys(t *testing.T) {
	raw := `{"dir.with.dots/a.b.swift": {"object": "/out/a.o"}}`
	m, err := Parse([]byte(raw), "test")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, ok := m.Output("dir.with.dots/a.b.swift", filetype.Object)
	if !ok || got != "/out/a.o" {
		t.Errorf("Output with dotted key = (%q, %v), want (/out/a.o, true)", got, ok)
	}
}
